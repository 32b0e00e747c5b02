// Package sigmaparse turns Sigma YAML text into the sigma.SiemRule
// intermediate representation: decoding (this file), detection lowering
// (lowering.go), and condition parsing (condition.go, condition_strict.go).
package sigmaparse

import (
	"strings"

	"gopkg.in/yaml.v3"

	"sigmac/pkg/sigma"
)

// rawHeader mirrors the Sigma YAML header fields that decode directly via
// struct tags. The detection block is kept as a yaml.Node so its key
// order (selection label order must equal detection-mapping iteration
// order) survives decoding — map[string]interface{} would lose it.
type rawHeader struct {
	Title          string        `yaml:"title"`
	ID             string        `yaml:"id"`
	Status         string        `yaml:"status"`
	Description    string        `yaml:"description"`
	References     []string      `yaml:"references"`
	Author         string        `yaml:"author"`
	Date           string        `yaml:"date"`
	Modified       string        `yaml:"modified"`
	Tags           []string      `yaml:"tags"`
	LogSource      rawLogSource  `yaml:"logsource"`
	Detection      yaml.Node     `yaml:"detection"`
	FalsePositives yaml.Node     `yaml:"falsepositives"`
	Level          string        `yaml:"level"`
	License        string        `yaml:"license"`
}

type rawLogSource struct {
	Product    string `yaml:"product"`
	Category   string `yaml:"category"`
	Service    string `yaml:"service"`
	Definition string `yaml:"definition"`
}

// Sanitize applies a minimal pre-parse normalisation pass: stripping `'`,
// `*`, and `%` from the raw YAML text before decoding. This changes
// literal values (e.g. "%%8448" becomes "8448") and is a known,
// documented ambiguity — callers that need the raw wildcard/quote
// characters preserved should pass skipSanitize=true to Decode.
func Sanitize(raw []byte) []byte {
	s := string(raw)
	s = strings.NewReplacer("'", "", "*", "", "%", "").Replace(s)
	return []byte(s)
}

// DetectionEntry is one (label, body) pair from the detection block, in
// source order, excluding the literal "condition" key.
type DetectionEntry struct {
	Label string
	Body  *yaml.Node
}

// Document is the decoded-but-not-yet-lowered form of a Sigma rule.
type Document struct {
	Header    sigma.SigmaRule
	Selections []DetectionEntry
	Condition  string
}

// Decode parses Sigma YAML text into a Document. skipSanitize disables
// the `' * %` stripping pass.
func Decode(yamlText []byte, skipSanitize bool) (*Document, *sigma.Error) {
	text := yamlText
	if !skipSanitize {
		text = Sanitize(yamlText)
	}

	var raw rawHeader
	if err := yaml.Unmarshal(text, &raw); err != nil {
		return nil, sigma.FormattingError(err.Error())
	}
	if strings.TrimSpace(raw.Title) == "" {
		return nil, sigma.FormattingError("missing required field: title")
	}

	selections, condition, derr := decodeDetection(&raw.Detection)
	if derr != nil {
		return nil, derr
	}

	doc := &Document{
		Header: sigma.SigmaRule{
			Title:       raw.Title,
			ID:          raw.ID,
			Status:      raw.Status,
			Description: raw.Description,
			References:  raw.References,
			Author:      raw.Author,
			Date:        raw.Date,
			Modified:    raw.Modified,
			Tags:        raw.Tags,
			LogSource: sigma.LogSource{
				Product:    raw.LogSource.Product,
				Category:   raw.LogSource.Category,
				Service:    raw.LogSource.Service,
				Definition: raw.LogSource.Definition,
			},
			Condition:      condition,
			FalsePositives: decodeFalsePositives(&raw.FalsePositives),
			Level:          raw.Level,
			License:        raw.License,
		},
		Selections: selections,
		Condition:  condition,
	}
	return doc, nil
}

func decodeDetection(node *yaml.Node) ([]DetectionEntry, string, *sigma.Error) {
	mapping := node
	if mapping.Kind == 0 {
		return nil, "", sigma.FormattingError("rule has no detection block")
	}
	if mapping.Kind == yaml.DocumentNode && len(mapping.Content) > 0 {
		mapping = mapping.Content[0]
	}
	if mapping.Kind != yaml.MappingNode {
		return nil, "", sigma.FormattingError("detection block must be a mapping")
	}

	var entries []DetectionEntry
	var condition string
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		val := mapping.Content[i+1]
		if key.Value == "condition" {
			condition = conditionString(val)
			continue
		}
		entries = append(entries, DetectionEntry{Label: key.Value, Body: val})
	}
	if condition == "" {
		return nil, "", sigma.FormattingError("detection block has no condition")
	}
	return entries, condition, nil
}

// conditionString joins a scalar or sequence condition node into a single
// string; a sequence of condition strings is treated as an OR of each
// (some Sigma rules express alternative conditions this way).
func conditionString(node *yaml.Node) string {
	if node.Kind == yaml.ScalarNode {
		return node.Value
	}
	if node.Kind == yaml.SequenceNode {
		parts := make([]string, 0, len(node.Content))
		for _, c := range node.Content {
			parts = append(parts, c.Value)
		}
		return strings.Join(parts, " or ")
	}
	return ""
}

func decodeFalsePositives(node *yaml.Node) sigma.FalsePositives {
	if node == nil || node.Kind == 0 {
		return sigma.FalsePositives{}
	}
	if node.Kind == yaml.ScalarNode {
		return sigma.FalsePositives{Single: node.Value}
	}
	if node.Kind == yaml.SequenceNode {
		list := make([]string, 0, len(node.Content))
		for _, c := range node.Content {
			list = append(list, c.Value)
		}
		return sigma.FalsePositives{List: list}
	}
	return sigma.FalsePositives{}
}
