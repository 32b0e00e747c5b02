package sigmaparse

import (
	"strings"

	"sigmac/pkg/sigma"
)

// ParseCondition implements a naive condition splitter: split on "and",
// re-split each piece on "or", then split each resulting term on " of "
// to recover the quantifier and label glob. This is a textual, not
// tokenised, split — it will misfire on a label glob that itself
// contains the bare substring "and"/"or" or the spaced substring " of ".
// This is a known, accepted limitation rather than a bug to paper over;
// condition_strict.go offers a real grammar for callers who need
// parenthesised conditions instead.
//
// Plain/And/Or is a real three-way distinction here: the first term
// overall is Plain, the first term of every later and-group is And, and
// every later term within the same or-group is Or.
func ParseCondition(condition string) ([]sigma.SigmaDetectionCondition, *sigma.Error) {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return nil, sigma.NewError(sigma.ErrInvalidCondition, "condition must not be empty")
	}
	if !strings.Contains(condition, " ") {
		condition = "all of " + condition
	}

	andGroups := strings.Split(condition, "and")
	out := make([]sigma.SigmaDetectionCondition, 0, len(andGroups))

	for gi, group := range andGroups {
		terms := []string{group}
		if strings.Contains(group, " or ") {
			terms = strings.Split(group, "or")
		}
		for oi, term := range terms {
			expr, err := parseTerm(term)
			if err != nil {
				return nil, err
			}
			kind := sigma.LinearOr
			if oi == 0 {
				kind = sigma.LinearAnd
			}
			if gi == 0 && oi == 0 {
				kind = sigma.LinearPlain
			}
			out = append(out, sigma.SigmaDetectionCondition{Kind: kind, Expr: expr})
		}
	}
	return out, nil
}

// parseTerm parses one "[not] all|1 of label_glob" term, defaulting to
// "all of" when no " of " is present.
func parseTerm(term string) (sigma.ConditionExpression, *sigma.Error) {
	term = strings.TrimSpace(term)
	if !strings.Contains(term, " of ") {
		if strings.HasPrefix(strings.ToLower(term), "not ") {
			term = "not all of " + strings.TrimSpace(term[4:])
		} else {
			term = "all of " + term
		}
	}
	parts := strings.SplitN(term, " of ", 2)
	if len(parts) != 2 {
		return sigma.ConditionExpression{}, sigma.NewError(sigma.ErrInvalidCondition,
			"malformed condition term %q", term)
	}
	pattern := strings.TrimSpace(parts[1])
	if pattern == "" {
		return sigma.ConditionExpression{}, sigma.NewError(sigma.ErrInvalidCondition,
			"condition term %q has no label glob", term)
	}

	quant := strings.ToLower(strings.TrimSpace(parts[0]))
	switch quant {
	case "all":
		return sigma.ConditionExpression{Kind: sigma.CondAll, Pattern: pattern}, nil
	case "1":
		return sigma.ConditionExpression{Kind: sigma.CondAny, Pattern: pattern}, nil
	case "not all":
		inner := sigma.ConditionExpression{Kind: sigma.CondAll, Pattern: pattern}
		return sigma.ConditionExpression{Kind: sigma.CondNot, Inner: &inner}, nil
	case "not 1":
		inner := sigma.ConditionExpression{Kind: sigma.CondAny, Pattern: pattern}
		return sigma.ConditionExpression{Kind: sigma.CondNot, Inner: &inner}, nil
	default:
		return sigma.ConditionExpression{}, sigma.NewError(sigma.ErrInvalidCondition,
			"unrecognised condition quantifier %q", parts[0])
	}
}

// MatchLabels returns every sub-rule label that contains pattern as a
// substring once pattern's '*' wildcard characters are stripped. Returns
// an UnresolvedLabel error if nothing matches.
func MatchLabels(pattern string, subrules []sigma.SubRule) ([]string, *sigma.Error) {
	needle := strings.ReplaceAll(pattern, "*", "")
	var matches []string
	for _, sr := range subrules {
		if strings.Contains(sr.Label, needle) {
			matches = append(matches, sr.Label)
		}
	}
	if len(matches) == 0 {
		return nil, sigma.NewError(sigma.ErrUnresolvedLabel,
			"condition references %q, which matches no selection", pattern)
	}
	return matches, nil
}
