package backend

import (
	"fmt"

	"sigmac/pkg/sigma"
)

// Snowflake emits a SQL-flavoured WHERE clause over a "windows" table.
// Grounded on snowflake.rs: ILIKE wildcards, quoted-only-for-text equality,
// and the shared ECS field map with a winlog.event_data.* fallback.
type Snowflake struct{}

func (Snowflake) Name() string { return "Snowflake" }

func snowflakeSyntax() LeafSyntax {
	return LeafSyntax{
		Equals: func(f string, v sigma.Value) string {
			if v.Kind == sigma.KindText {
				return fmt.Sprintf(`%s = '%s'`, f, v.String())
			}
			return fmt.Sprintf(`%s = %s`, f, v.String())
		},
		StartsWith: func(f, p string) string { return fmt.Sprintf(`%s ILIKE '%s%%'`, f, p) },
		EndsWith:   func(f, p string) string { return fmt.Sprintf(`%s ILIKE '%%%s'`, f, p) },
		Contains:   func(f, p string) string { return fmt.Sprintf(`%s ILIKE '%%%s%%'`, f, p) },
		Regex:      func(f, p string) string { return fmt.Sprintf(`%s REGEXP '%s'`, f, p) },
		AnyJoin:    " OR ",
		AllJoin:    " AND ",
		WrapAnyAll: true,
	}
}

func (Snowflake) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := FieldResolver{Override: opts.FieldMap, Builtin: ecsFieldMap, Fallback: ecsDefaultField}.Resolve
	syn := snowflakeSyntax()
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " AND ", nil)
	composed, err := BuildCondition(rule.Header, rule.SubRules, rendered, syn, " AND ", " OR ", " NOT ", opts.StrictCondition)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`SELECT * FROM windows WHERE %s`, composed), nil
}

func init() { register(Snowflake{}) }
