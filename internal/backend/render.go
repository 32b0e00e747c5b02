package backend

import (
	"strings"

	"sigmac/internal/sigmaparse"
	"sigmac/pkg/sigma"
)

// LeafSyntax is the vendor-specific literal syntax table Phase A renders
// predicates through. AnyJoin/AllJoin double as the connective Phase B
// uses when a condition pattern resolves to more than one sub-rule —
// every backend reuses the same OR/AND tokens for both, so one field
// each is enough.
type LeafSyntax struct {
	Equals     func(field string, v sigma.Value) string
	StartsWith func(field, pattern string) string
	EndsWith   func(field, pattern string) string
	Contains   func(field, pattern string) string
	Regex      func(field, pattern string) string
	AnyJoin    string
	AllJoin    string
	// WrapAnyAll controls whether a leaf-level Any/All grouping (a
	// field with several alternative/mandatory values) is parenthesised.
	// Most backends do (Splunk); ArcSight's leaf groups rely on the
	// sub-rule's own outer parens instead.
	WrapAnyAll bool
	// AnyGroup/AllGroup override the default per-item-template-plus-join
	// rendering entirely, for backends whose grouped syntax isn't just
	// "repeat the leaf template, join with a connective" (AwsOpenSearch's
	// `field:(a OR b)` puts the field name once; Sentinel collects
	// all-equality groups into a `field in (a, b)` list). Leave nil to
	// use the default.
	AnyGroup func(field string, items []sigma.Operator) string
	AllGroup func(field string, items []sigma.Operator) string
}

// RenderLeaf renders a single operator value, dispatching Any/All (depth
// <= 2, leaves only) by recursively rendering each item and joining with
// the matching connective.
func RenderLeaf(field string, op sigma.Operator, syn LeafSyntax) string {
	switch op.Kind {
	case sigma.OpEquals:
		return syn.Equals(field, op.Value)
	case sigma.OpStartsWith:
		return syn.StartsWith(field, escapeBackslash(op.Text))
	case sigma.OpEndsWith:
		return syn.EndsWith(field, escapeBackslash(op.Text))
	case sigma.OpContains:
		return syn.Contains(field, escapeBackslash(op.Text))
	case sigma.OpRegex:
		return syn.Regex(field, escapeBackslash(op.Text))
	case sigma.OpAny:
		if syn.AnyGroup != nil {
			return syn.AnyGroup(field, op.Items)
		}
		return defaultGroup(field, op.Items, syn, syn.AnyJoin)
	case sigma.OpAll:
		if syn.AllGroup != nil {
			return syn.AllGroup(field, op.Items)
		}
		return defaultGroup(field, op.Items, syn, syn.AllJoin)
	default:
		return ""
	}
}

func defaultGroup(field string, items []sigma.Operator, syn LeafSyntax, join string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = renderLeafValue(field, item, syn)
	}
	joined := strings.Join(parts, join)
	if syn.WrapAnyAll {
		return "(" + joined + ")"
	}
	return joined
}

// renderLeafValue renders one element of an Any/All group: the element
// operators are themselves leaves (Equals/StartsWith/EndsWith/Contains),
// never nested Any/All.
func renderLeafValue(field string, op sigma.Operator, syn LeafSyntax) string {
	switch op.Kind {
	case sigma.OpEquals:
		return syn.Equals(field, op.Value)
	case sigma.OpStartsWith:
		return syn.StartsWith(field, escapeBackslash(op.Text))
	case sigma.OpEndsWith:
		return syn.EndsWith(field, escapeBackslash(op.Text))
	case sigma.OpContains:
		return syn.Contains(field, escapeBackslash(op.Text))
	case sigma.OpRegex:
		return syn.Regex(field, escapeBackslash(op.Text))
	default:
		return ""
	}
}

// RenderSubRule implements Phase A: each predicate of a sub-rule, AND-ed
// together and wrapped in one parenthesised group, regardless of
// predicate count.
func RenderSubRule(predicates []sigma.RuleCondition, resolve func(string) string, syn LeafSyntax, andSep string) string {
	parts := make([]string, len(predicates))
	for i, p := range predicates {
		parts[i] = RenderLeaf(resolve(p.Field), p.Operator, syn)
	}
	return "(" + strings.Join(parts, andSep) + ")"
}

// renderedSubRule pairs a sub-rule's label with its Phase A output, kept
// together because condition resolution matches on the label.
type renderedSubRule struct {
	label string
	query string
}

// ComposeLinear implements Phase B against ParseCondition's flat
// sequence: each SigmaDetectionCondition item resolves its pattern to one
// or more Phase-A sub-rule renderings (via sigmaparse.MatchLabels) and
// appends them, parenthesised when more than one sub-rule matched,
// prefixed by the connective appropriate to Plain/And/Or/Not.
func ComposeLinear(conditions []sigma.SigmaDetectionCondition, subrules []sigma.SubRule, rendered map[string]string, syn LeafSyntax, andSep, orSep, notPrefix string) (string, *sigma.Error) {
	var b strings.Builder
	for _, c := range conditions {
		switch c.Kind {
		case sigma.LinearAnd:
			b.WriteString(andSep)
		case sigma.LinearOr:
			b.WriteString(orSep)
		}
		s, err := renderGroup(c.Expr, subrules, rendered, syn, notPrefix)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func renderGroup(expr sigma.ConditionExpression, subrules []sigma.SubRule, rendered map[string]string, syn LeafSyntax, notPrefix string) (string, *sigma.Error) {
	switch expr.Kind {
	case sigma.CondNot:
		inner, err := renderGroup(*expr.Inner, subrules, rendered, syn, notPrefix)
		if err != nil {
			return "", err
		}
		return notPrefix + inner, nil
	case sigma.CondAny, sigma.CondAll:
		labels, err := sigmaparse.MatchLabels(expr.Pattern, subrules)
		if err != nil {
			return "", err
		}
		parts := make([]string, len(labels))
		for i, l := range labels {
			parts[i] = rendered[l]
		}
		join := syn.AnyJoin
		if expr.Kind == sigma.CondAll {
			join = syn.AllJoin
		}
		if len(parts) > 1 {
			return "(" + strings.Join(parts, join) + ")", nil
		}
		return parts[0], nil
	default:
		return "", sigma.NewError(sigma.ErrInvalidCondition, "unhandled condition expression")
	}
}

// ComposeStrict implements Phase B against StrictParseCondition's real
// boolean tree, using the same label-group resolution as ComposeLinear
// for each leaf.
func ComposeStrict(tree *sigmaparse.BoolExpr, subrules []sigma.SubRule, rendered map[string]string, syn LeafSyntax, andSep, orSep, notPrefix string) (string, *sigma.Error) {
	return sigmaparse.RenderBoolExpr(tree, func(expr sigma.ConditionExpression) (string, *sigma.Error) {
		return renderGroup(expr, subrules, rendered, syn, "")
	}, andSep, orSep, notPrefix)
}

// RenderSubRules runs Phase A over every sub-rule, returning both the
// ordered slice (for prelude/order-sensitive backends) and a label-keyed
// map (for Phase B's lookups).
func RenderSubRules(subrules []sigma.SubRule, resolve func(string) string, syn LeafSyntax, andSep string, prelude func(label string) []sigma.RuleCondition) (map[string]string, []renderedSubRule) {
	rendered := make(map[string]string, len(subrules))
	ordered := make([]renderedSubRule, 0, len(subrules))
	for _, sr := range subrules {
		preds := sr.Predicates
		if prelude != nil {
			if extra := prelude(sr.Label); len(extra) > 0 {
				preds = append(append([]sigma.RuleCondition{}, extra...), preds...)
			}
		}
		q := RenderSubRule(preds, resolve, syn, andSep)
		rendered[sr.Label] = q
		ordered = append(ordered, renderedSubRule{label: sr.Label, query: q})
	}
	return rendered, ordered
}

// BuildCondition runs ParseCondition or, when opts.StrictCondition is
// set, StrictParseCondition, then composes the result against rendered
// sub-rules — the single entry point every backend's ConvertRule calls
// for Phase B. Strict condition parsing is opt-in per request; the
// default remains the naive splitter.
func BuildCondition(header sigma.SigmaRule, subrules []sigma.SubRule, rendered map[string]string, syn LeafSyntax, andSep, orSep, notPrefix string, strict bool) (string, *sigma.Error) {
	if strict {
		tree, err := sigmaparse.StrictParseCondition(header.Condition)
		if err != nil {
			return "", err
		}
		return ComposeStrict(tree, subrules, rendered, syn, andSep, orSep, notPrefix)
	}
	conditions, err := sigmaparse.ParseCondition(header.Condition)
	if err != nil {
		return "", err
	}
	return ComposeLinear(conditions, subrules, rendered, syn, andSep, orSep, notPrefix)
}
