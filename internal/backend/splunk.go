package backend

import (
	"fmt"

	"sigmac/pkg/sigma"
)

// Splunk emits SPL. Grounded on splunk.rs: equality/prefix/suffix/contains
// all compile to `field="..."` with the wildcard baked into the literal,
// and Any-groups of leaves are always parenthesised and OR-joined
// regardless of how many alternatives there are.
type Splunk struct{}

func (Splunk) Name() string { return "Splunk" }

func splunkSyntax() LeafSyntax {
	return LeafSyntax{
		Equals:     func(f string, v sigma.Value) string { return fmt.Sprintf(`%s="%s"`, f, v.String()) },
		StartsWith: func(f, p string) string { return fmt.Sprintf(`%s="%s*"`, f, p) },
		EndsWith:   func(f, p string) string { return fmt.Sprintf(`%s="*%s"`, f, p) },
		Contains:   func(f, p string) string { return fmt.Sprintf(`%s="*%s*"`, f, p) },
		Regex:      func(f, p string) string { return fmt.Sprintf(`%s="/%s/"`, f, p) },
		AnyJoin:    " OR ",
		AllJoin:    " AND ",
		WrapAnyAll: true,
	}
}

func (Splunk) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := FieldResolver{Override: opts.FieldMap, Fallback: func(f string) string { return f }}.Resolve
	syn := splunkSyntax()
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " AND ", nil)
	composed, err := BuildCondition(rule.Header, rule.SubRules, rendered, syn, " AND ", " OR ", " NOT ", opts.StrictCondition)
	if err != nil {
		return "", err
	}
	return `index=* source="WinEventLog:*" AND ` + composed, nil
}

func init() { register(Splunk{}) }
