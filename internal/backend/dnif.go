package backend

import (
	"fmt"

	"sigmac/pkg/sigma"
)

// DNIF emits its stream query language. Grounded on dnif.rs: wildcard
// match modes are encoded as a prefix word inside the string literal
// rather than as distinct operators.
type Dnif struct{}

func (Dnif) Name() string { return "DNIF" }

func dnifSyntax() LeafSyntax {
	return LeafSyntax{
		Equals:     func(f string, v sigma.Value) string { return fmt.Sprintf(`%s == "%s"`, f, v.String()) },
		StartsWith: func(f, p string) string { return fmt.Sprintf(`%s == "startswith %s"`, f, p) },
		EndsWith:   func(f, p string) string { return fmt.Sprintf(`%s == "endswith %s"`, f, p) },
		Contains:   func(f, p string) string { return fmt.Sprintf(`%s == "contains %s"`, f, p) },
		Regex:      func(f, p string) string { return fmt.Sprintf(`%s == "regex %s"`, f, p) },
		AnyJoin:    " or ",
		AllJoin:    " and ",
		WrapAnyAll: true,
	}
}

func (Dnif) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := FieldResolver{Override: opts.FieldMap, Fallback: func(f string) string { return f }}.Resolve
	syn := dnifSyntax()
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " and ", nil)
	composed, err := BuildCondition(rule.Header, rule.SubRules, rendered, syn, " and ", " or ", " not ", opts.StrictCondition)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("stream=windows where %s", composed), nil
}

func init() { register(Dnif{}) }
