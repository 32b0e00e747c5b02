package backend

import (
	"fmt"

	"sigmac/pkg/sigma"
)

// LogRhythm emits an AIE rule filter expression. No corresponding Rust
// source exists in the reference pack for this target (see DESIGN.md);
// its rule builder filters are field=value clauses joined by the same
// AND/OR/NOT connectives the rest of the enterprise-SIEM family (QRadar,
// Securonix) uses, so this dialect follows their pattern rather than
// QRadar's SQL-flavoured ILIKE specifically.
type LogRhythm struct{}

func (LogRhythm) Name() string { return "LogRhythm" }

func logrhythmSyntax() LeafSyntax {
	return LeafSyntax{
		Equals:     func(f string, v sigma.Value) string { return fmt.Sprintf(`%s = "%s"`, f, v.String()) },
		StartsWith: func(f, p string) string { return fmt.Sprintf(`%s StartsWith "%s"`, f, p) },
		EndsWith:   func(f, p string) string { return fmt.Sprintf(`%s EndsWith "%s"`, f, p) },
		Contains:   func(f, p string) string { return fmt.Sprintf(`%s Contains "%s"`, f, p) },
		Regex:      func(f, p string) string { return fmt.Sprintf(`%s RegEx "%s"`, f, p) },
		AnyJoin:    " OR ",
		AllJoin:    " AND ",
		WrapAnyAll: true,
	}
}

func (LogRhythm) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := FieldResolver{Override: opts.FieldMap, Fallback: func(f string) string { return f }}.Resolve
	syn := logrhythmSyntax()
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " AND ", nil)
	composed, err := BuildCondition(rule.Header, rule.SubRules, rendered, syn, " AND ", " OR ", " NOT ", opts.StrictCondition)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("LogSource = \"Microsoft Windows Event Logging\" AND %s", composed), nil
}

func init() { register(LogRhythm{}) }
