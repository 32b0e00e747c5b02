package backend

import (
	"fmt"
	"strings"

	"sigmac/pkg/sigma"
)

// Sentinel emits KQL against the SecurityEvent table. Grounded on
// sentinel.rs: startswith/endswith/contains keywords with @'...' raw
// string literals.
type Sentinel struct{}

func (Sentinel) Name() string { return "Sentinel" }

func sentinelSyntax() LeafSyntax {
	syn := LeafSyntax{
		Equals:     func(f string, v sigma.Value) string { return fmt.Sprintf(`%s =~ @'%s'`, f, v.String()) },
		StartsWith: func(f, p string) string { return fmt.Sprintf(`%s startswith @'%s'`, f, p) },
		EndsWith:   func(f, p string) string { return fmt.Sprintf(`%s endswith @'%s'`, f, p) },
		Contains:   func(f, p string) string { return fmt.Sprintf(`%s contains @'%s'`, f, p) },
		Regex:      func(f, p string) string { return fmt.Sprintf(`%s matches regex @'%s'`, f, p) },
		AnyJoin:    " or ",
		AllJoin:    " and ",
		WrapAnyAll: true,
	}
	syn.AnyGroup = func(field string, items []sigma.Operator) string { return sentinelGroup(field, items, syn, syn.AnyJoin) }
	syn.AllGroup = func(field string, items []sigma.Operator) string { return sentinelGroup(field, items, syn, syn.AllJoin) }
	return syn
}

// sentinelGroup collects an all-equality Any/All group into KQL's `field in
// (a, b)` list syntax; any other operator mix falls back to the default
// repeat-the-leaf-template rendering.
func sentinelGroup(field string, items []sigma.Operator, syn LeafSyntax, join string) string {
	values := make([]string, len(items))
	for i, it := range items {
		if it.Kind != sigma.OpEquals {
			return defaultGroup(field, items, syn, join)
		}
		values[i] = it.Value.String()
	}
	return fmt.Sprintf("%s in (%s)", field, strings.Join(values, ", "))
}

func (Sentinel) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := FieldResolver{Override: opts.FieldMap, Fallback: func(f string) string { return f }}.Resolve
	syn := sentinelSyntax()
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " and ", nil)
	composed, err := BuildCondition(rule.Header, rule.SubRules, rendered, syn, " and ", " or ", " not ", opts.StrictCondition)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SecurityEvent | where %s", composed), nil
}

func init() { register(Sentinel{}) }
