package backend

import (
	"fmt"
	"strings"

	"sigmac/pkg/sigma"
)

// AwsOpenSearch emits KQL. Grounded on aws_opensearch.rs: `field:value`
// equality, a Channel predicate prepended from the logsource's service,
// and two distinctly-shaped groupings — Any puts the field name once
// outside parens around bare alternatives, while All repeats the field
// name per conjunct and is never wrapped.
type AwsOpenSearch struct{}

func (AwsOpenSearch) Name() string { return "AwsOpenSearch" }

func awsItemLiteral(op sigma.Operator) string {
	switch op.Kind {
	case sigma.OpEquals:
		return op.Value.String()
	case sigma.OpStartsWith:
		return escapeBackslash(op.Text) + "*"
	case sigma.OpEndsWith:
		return "*" + escapeBackslash(op.Text)
	case sigma.OpContains:
		return "*" + escapeBackslash(op.Text) + "*"
	case sigma.OpRegex:
		return "/" + escapeBackslash(op.Text) + "/"
	default:
		return ""
	}
}

func awsOpenSearchSyntax() LeafSyntax {
	return LeafSyntax{
		Equals:     func(f string, v sigma.Value) string { return fmt.Sprintf("%s:%s", f, v.String()) },
		StartsWith: func(f, p string) string { return fmt.Sprintf("%s:%s*", f, p) },
		EndsWith:   func(f, p string) string { return fmt.Sprintf("%s:*%s", f, p) },
		Contains:   func(f, p string) string { return fmt.Sprintf("%s:*%s*", f, p) },
		Regex:      func(f, p string) string { return fmt.Sprintf("%s:/%s/", f, p) },
		AnyJoin:    " OR ",
		AllJoin:    " AND ",
		AnyGroup: func(field string, items []sigma.Operator) string {
			parts := make([]string, len(items))
			for i, it := range items {
				parts[i] = awsItemLiteral(it)
			}
			return fmt.Sprintf("%s:(%s)", field, strings.Join(parts, " OR "))
		},
		AllGroup: func(field string, items []sigma.Operator) string {
			parts := make([]string, len(items))
			for i, it := range items {
				parts[i] = fmt.Sprintf("%s:%s", field, awsItemLiteral(it))
			}
			return strings.Join(parts, " AND ")
		},
	}
}

func (AwsOpenSearch) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := FieldResolver{Override: opts.FieldMap, Builtin: ecsFieldMap, Fallback: ecsDefaultField}.Resolve
	syn := awsOpenSearchSyntax()
	prelude := func(string) []sigma.RuleCondition {
		if rule.Header.LogSource.Service == "" {
			return nil
		}
		return []sigma.RuleCondition{{Field: "Channel", Operator: sigma.Equals(sigma.Text(rule.Header.LogSource.Service))}}
	}
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " AND ", prelude)
	return BuildCondition(rule.Header, rule.SubRules, rendered, syn, " AND ", " OR ", " NOT ", opts.StrictCondition)
}

func init() { register(AwsOpenSearch{}) }
