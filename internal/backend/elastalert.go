package backend

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"sigmac/pkg/sigma"
)

// ElastAlert emits an ElastAlert rule YAML document against winlogbeat's
// Elastic Common Schema index: a Lucene query_string filter built with
// field:"value" leaves, a priority derived from the rule's level, and
// the add-alerting/add-fields/replace-fields/keep-fields post-processing
// knobs.
type ElastAlert struct{}

func (ElastAlert) Name() string { return "ElastAlert" }

// elastalertFieldMap layers ElastAlert's analyzed-".text"-subfield
// requirement (needed for Lucene query_string wildcarding on
// image/command-line fields) on top of the shared ecsFieldMap table,
// plus the CommandLine and PipeName entries the shared table doesn't carry.
var elastalertFieldMap = buildElastAlertFieldMap()

func buildElastAlertFieldMap() map[string]string {
	m := make(map[string]string, len(ecsFieldMap)+4)
	for k, v := range ecsFieldMap {
		m[k] = v
	}
	m["Image"] = "process.executable.text"
	m["CommandLine"] = "process.command_line.text"
	m["ParentCommandLine"] = "process.parent.command_line.text"
	m["PipeName"] = "file.name"
	return m
}

func elastalertSyntax() LeafSyntax {
	return LeafSyntax{
		Equals:     func(f string, v sigma.Value) string { return fmt.Sprintf(`%s:"%s"`, f, v.String()) },
		StartsWith: func(f, p string) string { return fmt.Sprintf(`%s:"%s*"`, f, p) },
		EndsWith:   func(f, p string) string { return fmt.Sprintf(`%s:"*%s"`, f, p) },
		Contains:   func(f, p string) string { return fmt.Sprintf(`%s:"*%s*"`, f, p) },
		Regex:      func(f, p string) string { return fmt.Sprintf(`%s:/%s/`, f, p) },
		AnyJoin:    " OR ",
		AllJoin:    " AND ",
		WrapAnyAll: true,
	}
}

func elastalertPriority(level string) int {
	switch strings.ToLower(level) {
	case "critical":
		return 1
	case "high":
		return 2
	case "low":
		return 4
	default:
		return 3
	}
}

func (ElastAlert) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := FieldResolver{Override: opts.FieldMap, Builtin: elastalertFieldMap, Fallback: ecsDefaultField}.Resolve
	syn := elastalertSyntax()
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " AND ", nil)
	query, err := BuildCondition(rule.Header, rule.SubRules, rendered, syn, " AND ", " OR ", " NOT ", opts.StrictCondition)
	if err != nil {
		return "", err
	}

	alert := append([]string{"debug"}, opts.AddAlerting...)
	doc := yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	putKV := func(key string, value *yaml.Node) {
		doc.Content = append(doc.Content, scalarKey(key), value)
	}
	putScalar := func(key, value string) { putKV(key, scalarVal(value)) }

	alertSeq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, a := range alert {
		alertSeq.Content = append(alertSeq.Content, scalarVal(a))
	}
	putKV("alert", alertSeq)
	putScalar("description", rule.Header.Description)

	filterSeq := &yaml.Node{Kind: yaml.SequenceNode}
	filterEntry := &yaml.Node{Kind: yaml.MappingNode}
	qs := &yaml.Node{Kind: yaml.MappingNode}
	qs.Content = append(qs.Content, scalarKey("query"), scalarVal(query))
	filterEntry.Content = append(filterEntry.Content, scalarKey("query_string"), qs)
	filterSeq.Content = append(filterSeq.Content, filterEntry)
	putKV("filter", filterSeq)

	putScalar("index", "winlogbeat-*")
	putScalar("name", slugTitle(rule.Header.Title))

	putKV("priority", intNode(elastalertPriority(rule.Header.Level)))

	realert := &yaml.Node{Kind: yaml.MappingNode}
	realert.Content = append(realert.Content, scalarKey("minutes"), intNode(0))
	putKV("realert", realert)
	putScalar("type", "any")

	// add_fields
	for _, k := range sortedKeys(opts.AddFields) {
		putScalar(k, opts.AddFields[k])
	}
	// replace_fields
	for _, k := range sortedKeys(opts.ReplaceFields) {
		if idx := findKey(&doc, k); idx >= 0 {
			doc.Content[idx+1] = scalarVal(opts.ReplaceFields[k])
		}
	}
	// keep_fields
	for _, field := range opts.KeepFields {
		switch strings.ToLower(strings.TrimSpace(field)) {
		case "title":
			putScalar("title", rule.Header.Title)
		case "author":
			if rule.Header.Author != "" {
				putScalar("author", rule.Header.Author)
			}
		case "tags":
			if len(rule.Header.Tags) > 0 {
				tagSeq := &yaml.Node{Kind: yaml.SequenceNode}
				for _, t := range rule.Header.Tags {
					tagSeq.Content = append(tagSeq.Content, scalarVal(t))
				}
				putKV("tags", tagSeq)
			}
		case "status":
			if rule.Header.Status != "" {
				putScalar("status", rule.Header.Status)
			}
		case "logsource":
			ls := rule.Header.LogSource
			if ls.Product != "" || ls.Category != "" || ls.Service != "" || ls.Definition != "" {
				lsNode := &yaml.Node{Kind: yaml.MappingNode}
				putLS := func(key, value string) {
					if value != "" {
						lsNode.Content = append(lsNode.Content, scalarKey(key), scalarVal(value))
					}
				}
				putLS("product", ls.Product)
				putLS("category", ls.Category)
				putLS("service", ls.Service)
				putLS("definition", ls.Definition)
				putKV("logsource", lsNode)
			}
		case "references":
			if len(rule.Header.References) > 0 {
				refSeq := &yaml.Node{Kind: yaml.SequenceNode}
				for _, r := range rule.Header.References {
					refSeq.Content = append(refSeq.Content, scalarVal(r))
				}
				putKV("references", refSeq)
			}
		case "license":
			if rule.Header.License != "" {
				putScalar("license", rule.Header.License)
			}
		case "falsepositives":
			if fps := rule.Header.FalsePositives.Strings(); len(fps) > 0 {
				fpSeq := &yaml.Node{Kind: yaml.SequenceNode}
				for _, fp := range fps {
					fpSeq.Content = append(fpSeq.Content, scalarVal(fp))
				}
				putKV("falsepositives", fpSeq)
			}
		case "date":
			if rule.Header.Date != "" {
				putScalar("date", rule.Header.Date)
			}
		case "level":
			if rule.Header.Level != "" {
				putScalar("level", rule.Header.Level)
			}
		}
	}

	out, ferr := yaml.Marshal(&doc)
	if ferr != nil {
		return "", fmtErr("ElastAlert", ferr)
	}
	return string(out), nil
}

func scalarKey(s string) *yaml.Node { return scalarVal(s) }

func scalarVal(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", i)}
}

func findKey(m *yaml.Node, key string) int {
	for i := 0; i < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return i
		}
	}
	return -1
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func init() { register(ElastAlert{}) }
