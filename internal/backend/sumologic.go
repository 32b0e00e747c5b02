package backend

import (
	"fmt"

	"sigmac/pkg/sigma"
)

// SumoLogic emits a free-text keyword search: every sub-rule gets
// `_sourceName="security"`/`_sourceCategory="windows"` predicates
// prepended, StartsWith/EndsWith/Contains all degrade to a bare quoted
// keyword (the match-mode distinction is lost), Equals on
// EventID/_sourceName/_sourceCategory keeps its field name, and every
// other field's Equals drops the field name entirely, emitting just the
// bare quoted value.
type SumoLogic struct{}

func (SumoLogic) Name() string { return "SumoLogic" }

func sumoEquals(f string, v sigma.Value) string {
	switch f {
	case "EventID":
		return fmt.Sprintf(`%s = "%s"`, f, v.String())
	case "_sourceName", "_sourceCategory":
		return fmt.Sprintf(`%s=*"%s"*`, f, v.String())
	default:
		return fmt.Sprintf(`"%s"`, v.String())
	}
}

func sumoBareKeyword(_ string, p string) string { return fmt.Sprintf(`"%s"`, p) }

func sumologicSyntax() LeafSyntax {
	return LeafSyntax{
		Equals:     sumoEquals,
		StartsWith: sumoBareKeyword,
		EndsWith:   sumoBareKeyword,
		Contains:   sumoBareKeyword,
		Regex:      sumoBareKeyword,
		AnyJoin:    " OR ",
		AllJoin:    " AND ",
		WrapAnyAll: true,
	}
}

func (SumoLogic) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := FieldResolver{Override: opts.FieldMap, Fallback: func(f string) string { return f }}.Resolve
	syn := sumologicSyntax()
	prelude := func(string) []sigma.RuleCondition {
		return []sigma.RuleCondition{
			{Field: "_sourceName", Operator: sigma.Equals(sigma.Text("security"))},
			{Field: "_sourceCategory", Operator: sigma.Equals(sigma.Text("windows"))},
		}
	}
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " AND ", prelude)
	return BuildCondition(rule.Header, rule.SubRules, rendered, syn, " AND ", " OR ", " NOT ", opts.StrictCondition)
}

func init() { register(SumoLogic{}) }
