package backend

import (
	"fmt"
	"strings"

	"sigmac/pkg/sigma"
)

// Chronicle emits Google Chronicle YARA-L. Grounded on chronicle.rs: every
// predicate is prefixed with the owning sub-rule's label ("$label.field"),
// string match modes are compiled to re.regex(...) calls rather than native
// operators, and the rule is wrapped in a meta/events/condition block whose
// condition line names the first sub-rule's label.
type Chronicle struct{}

func (Chronicle) Name() string { return "Chronicle" }

var chronicleFieldMap = map[string]string{
	"EventID":             "metadata.product_event_type",
	"CommandLine":          "target.process.command_line",
	"ComputerName":         "target.hostname",
	"DestinationIp":        "target.ip",
	"DestinationPort":      "target.port",
	"FileName":             "target.file.full_path",
	"TargetFileName":       "target.file.full_path",
	"Hashes":               "target.file.md5",
	"Image":                "target.process.file.full_path",
	"ParentImage":          "src.process.file.full_path",
	"ParentCommandLine":    "src.process.command_line",
	"IpAddress":            "principal.ip",
	"LogonType":            "extensions.auth.mechanism",
	"SourceIp":             "principal.ip",
	"SourcePort":           "principal.port",
	"SubjectUserName":      "src.user.user_display_name",
	"TargetImage":          "target.process.file.full_path",
	"TargetObject":         "target.registry.registry_key",
	"TargetUserName":       "target.user.user_display_name",
	"User":                 "src.user.user_display_name",
	"URL":                  "target.url",
	"UserAgent":            "src.application",
	"Product":              "metadata.product_name",
	"Description":          "metadata.description",
	"ServiceName":          "target.process.command_line",
	"AccountName":          "src.user.user_display_name",
}

func chronicleResolve(override map[string]string, field string) string {
	if override != nil {
		if v, ok := override[field]; ok {
			return v
		}
	}
	if mapped, ok := chronicleFieldMap[field]; ok {
		return mapped
	}
	return field
}

// chronicleSyntax builds the re.regex(...)-based leaf templates. It carries
// no label: ConvertRule's per-sub-rule resolve closure adds the "$label."
// prefix to every field reference.
func chronicleSyntax() LeafSyntax {
	return LeafSyntax{
		Equals:     func(f string, v sigma.Value) string { return fmt.Sprintf(`%s = "%s"`, f, v.String()) },
		StartsWith: func(f, p string) string { return fmt.Sprintf("re.regex(%s, `%s.*`)", f, p) },
		EndsWith:   func(f, p string) string { return fmt.Sprintf("re.regex(%s, `.*%s`)", f, p) },
		Contains:   func(f, p string) string { return fmt.Sprintf("re.regex(%s, `.*%s.*`)", f, p) },
		Regex:      func(f, p string) string { return fmt.Sprintf("re.regex(%s, `%s`)", f, p) },
		AnyJoin:    " or ",
		AllJoin:    " and ",
		WrapAnyAll: true,
	}
}

func (Chronicle) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	if len(rule.SubRules) == 0 {
		return "", sigma.NewError(sigma.ErrInvalidCondition, "rule has no sub-rules")
	}
	syn := chronicleSyntax()
	rendered := make(map[string]string, len(rule.SubRules))
	for _, sr := range rule.SubRules {
		label := sr.Label
		resolve := func(f string) string { return "$" + label + "." + chronicleResolve(opts.FieldMap, f) }
		rendered[sr.Label] = RenderSubRule(sr.Predicates, resolve, syn, " and ")
	}
	query, err := BuildCondition(rule.Header, rule.SubRules, rendered, syn, " and ", " or ", "not ", opts.StrictCondition)
	if err != nil {
		return "", err
	}

	h := rule.Header
	var meta []string
	meta = append(meta, `version = "0.01"`)
	if h.Author != "" {
		meta = append(meta, fmt.Sprintf(`author = "%s"`, h.Author))
	}
	if h.Description != "" {
		meta = append(meta, fmt.Sprintf(`description = "%s"`, h.Description))
	}
	if len(h.References) > 0 {
		meta = append(meta, fmt.Sprintf(`reference = "%s"`, strings.Join(h.References, ", ")))
	}
	if h.ID != "" {
		meta = append(meta, fmt.Sprintf(`sigma_id = "%s"`, h.ID))
	}
	if h.Status != "" {
		meta = append(meta, fmt.Sprintf(`status = "%s"`, h.Status))
	}
	if len(h.Tags) > 0 {
		meta = append(meta, fmt.Sprintf(`tags = "%s"`, strings.Join(h.Tags, ", ")))
	}
	if fps := h.FalsePositives.Strings(); len(fps) > 0 {
		meta = append(meta, fmt.Sprintf(`falsepositives = "%s"`, strings.Join(fps, ", ")))
	}
	if h.Level != "" {
		meta = append(meta, fmt.Sprintf(`severity = "%s"`, h.Level))
	}
	if h.Date != "" {
		meta = append(meta, fmt.Sprintf(`date = "%s"`, h.Date))
	}
	if h.LogSource.Product != "" {
		meta = append(meta, fmt.Sprintf(`product = "%s"`, h.LogSource.Product))
	}
	if h.LogSource.Service != "" {
		meta = append(meta, fmt.Sprintf(`service = "%s"`, h.LogSource.Service))
	}

	title := strings.ReplaceAll(strings.ReplaceAll(strings.ToLower(h.Title), " ", "_"), "-", "_")
	return fmt.Sprintf("rule %s {\n    meta:\n        %s\n    events:\n        %s\n    condition:\n        $%s\n}\n",
		title, strings.Join(meta, "\n\t\t"), query, rule.SubRules[0].Label), nil
}

func init() { register(Chronicle{}) }
