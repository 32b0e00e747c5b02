package sigmaparse

import (
	"strings"

	"gopkg.in/yaml.v3"

	"sigmac/pkg/sigma"
)

// matchMode is the base comparison a keyed field's modifier chain selects;
// the zero value is plain equality.
type matchMode int

const (
	modeEquals matchMode = iota
	modeContains
	modeStartsWith
	modeEndsWith
	modeRegex
)

// quantifier controls how a list-valued predicate combines its elements.
type quantifier int

const (
	quantAny quantifier = iota
	quantAll
)

// Lower converts a Document's raw detection entries into the ordered
// list of sub-rules. Sub-rule order equals detection-mapping iteration
// order.
func Lower(doc *Document) ([]sigma.SubRule, *sigma.Error) {
	subrules := make([]sigma.SubRule, 0, len(doc.Selections))
	for _, entry := range doc.Selections {
		predicates, err := lowerSelectionBody(entry.Label, entry.Body)
		if err != nil {
			return nil, err
		}
		subrules = append(subrules, sigma.SubRule{Label: entry.Label, Predicates: predicates})
	}
	return subrules, nil
}

func lowerSelectionBody(label string, body *yaml.Node) ([]sigma.RuleCondition, *sigma.Error) {
	switch body.Kind {
	case yaml.SequenceNode:
		return lowerKeywordSequence(label, body)
	case yaml.MappingNode:
		return lowerFieldMapping(label, body)
	default:
		return nil, sigma.NewError(sigma.ErrInvalidPredicate,
			"selection %q body must be a mapping or a sequence of keywords", label)
	}
}

// lowerKeywordSequence handles a selection body given as a bare list of
// scalars: a single predicate against the catch-all field, OR-ed via
// Contains.
func lowerKeywordSequence(label string, body *yaml.Node) ([]sigma.RuleCondition, *sigma.Error) {
	items := make([]sigma.Operator, 0, len(body.Content))
	for _, c := range body.Content {
		if c.Kind != yaml.ScalarNode {
			return nil, sigma.NewError(sigma.ErrInvalidPredicate,
				"selection %q keyword list must contain only scalars", label)
		}
		items = append(items, sigma.Contains(c.Value))
	}
	return []sigma.RuleCondition{{
		Field:    sigma.DefaultKeywordField,
		Operator: sigma.Any(items),
	}}, nil
}

// lowerFieldMapping handles a selection body given as a mapping of
// "Field|mod1|mod2" keys to value literals/lists.
func lowerFieldMapping(label string, body *yaml.Node) ([]sigma.RuleCondition, *sigma.Error) {
	predicates := make([]sigma.RuleCondition, 0, len(body.Content)/2)
	for i := 0; i+1 < len(body.Content); i += 2 {
		keyNode := body.Content[i]
		valNode := body.Content[i+1]

		field, mode, quant, err := parseKeyedField(keyNode.Value)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(field) == "" {
			return nil, sigma.NewError(sigma.ErrInvalidPredicate, "predicate field must not be empty")
		}

		var raw interface{}
		if err := valNode.Decode(&raw); err != nil {
			return nil, sigma.WrapError(sigma.ErrInvalidPredicate, "could not decode value for "+field, err)
		}
		value := sigma.ValueFromAny(raw)

		if mode == modeRegex && !allText(value) {
			return nil, sigma.NewError(sigma.ErrInvalidPredicate,
				"field %q: re modifier requires a string value", field)
		}

		op, lerr := buildOperator(field, mode, quant, value)
		if lerr != nil {
			return nil, lerr
		}
		predicates = append(predicates, sigma.RuleCondition{Field: field, Operator: op})
	}
	return predicates, nil
}

func allText(v sigma.Value) bool {
	if v.Kind == sigma.KindArray {
		for _, e := range v.Array {
			if e.Kind != sigma.KindText {
				return false
			}
		}
		return true
	}
	return v.Kind == sigma.KindText
}

// parseKeyedField splits "Field|mod1|mod2" and validates the modifier
// chain invariant: at most one of {contains,startswith,endswith,re} and
// at most one of {all,any}.
func parseKeyedField(keyedField string) (field string, mode matchMode, quant quantifier, err *sigma.Error) {
	parts := strings.Split(keyedField, "|")
	field = parts[0]
	haveMode := false
	haveQuant := false
	for _, mod := range parts[1:] {
		switch strings.ToLower(strings.TrimSpace(mod)) {
		case "contains":
			if haveMode {
				return "", 0, 0, mixedModeError(field)
			}
			mode, haveMode = modeContains, true
		case "startswith":
			if haveMode {
				return "", 0, 0, mixedModeError(field)
			}
			mode, haveMode = modeStartsWith, true
		case "endswith":
			if haveMode {
				return "", 0, 0, mixedModeError(field)
			}
			mode, haveMode = modeEndsWith, true
		case "re":
			if haveMode {
				return "", 0, 0, mixedModeError(field)
			}
			mode, haveMode = modeRegex, true
		case "all":
			if haveQuant {
				return "", 0, 0, mixedQuantError(field)
			}
			quant, haveQuant = quantAll, true
		case "any":
			if haveQuant {
				return "", 0, 0, mixedQuantError(field)
			}
			quant, haveQuant = quantAny, true
		default:
			return "", 0, 0, sigma.NewError(sigma.ErrUnknownModifier,
				"field %q: unrecognised modifier %q", field, mod)
		}
	}
	return field, mode, quant, nil
}

func mixedModeError(field string) *sigma.Error {
	return sigma.NewError(sigma.ErrInvalidPredicate,
		"field %q: modifier chain may contain at most one of contains/startswith/endswith/re", field)
}

func mixedQuantError(field string) *sigma.Error {
	return sigma.NewError(sigma.ErrInvalidPredicate,
		"field %q: modifier chain may contain at most one of all/any", field)
}

// wrapLeaf builds the leaf operator for a single scalar value under the
// given match mode.
func wrapLeaf(mode matchMode, v sigma.Value) sigma.Operator {
	switch mode {
	case modeContains:
		return sigma.Contains(v.String())
	case modeStartsWith:
		return sigma.StartsWith(v.String())
	case modeEndsWith:
		return sigma.EndsWith(v.String())
	case modeRegex:
		return sigma.Regex(v.String())
	default:
		return sigma.Equals(v)
	}
}

// buildOperator implements the scalar/list x mode/quantifier decision
// table.
func buildOperator(field string, mode matchMode, quant quantifier, v sigma.Value) (sigma.Operator, *sigma.Error) {
	if v.Kind != sigma.KindArray {
		return wrapLeaf(mode, v), nil
	}
	leaves := make([]sigma.Operator, len(v.Array))
	for i, e := range v.Array {
		leaves[i] = wrapLeaf(mode, e)
	}
	if quant == quantAll {
		return sigma.All(leaves), nil
	}
	return sigma.Any(leaves), nil
}
