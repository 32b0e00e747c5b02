package sigmaparse

import "sigmac/pkg/sigma"

// Parse runs the full Decode -> Lower pipeline and returns the assembled
// intermediate representation every backend emitter consumes. Condition
// validity (unresolved label patterns, malformed grammar under strict
// parsing) is checked lazily during backend rendering rather than here,
// since the correct grammar/linearisation to validate against depends on
// the per-request StrictCondition option.
func Parse(yamlText []byte, skipSanitize bool) (*sigma.SiemRule, *sigma.Error) {
	doc, err := Decode(yamlText, skipSanitize)
	if err != nil {
		return nil, err
	}
	subrules, err := Lower(doc)
	if err != nil {
		return nil, err
	}
	return &sigma.SiemRule{Header: doc.Header, SubRules: subrules}, nil
}
