package backend

import (
	"fmt"

	"sigmac/pkg/sigma"
)

// SQL emits a generic SQL WHERE clause over an "eventlog" table, including
// an odd self-referential prefix/suffix template
// (`field = 'field' LIKE '...'`) for partial-match predicates, kept
// verbatim as the literal output tests assert against.
type SQL struct{}

func (SQL) Name() string { return "SQL" }

func sqlSyntax() LeafSyntax {
	return LeafSyntax{
		Equals:     func(f string, v sigma.Value) string { return fmt.Sprintf(`%s = '%s'`, f, v.String()) },
		StartsWith: func(f, p string) string { return fmt.Sprintf(`%s = '%s' LIKE '%s%%'`, f, f, p) },
		EndsWith:   func(f, p string) string { return fmt.Sprintf(`%s = '%s' LIKE '%%%s'`, f, f, p) },
		Contains:   func(f, p string) string { return fmt.Sprintf(`%s = %s CONTAINS "%s"`, f, f, p) },
		Regex:      func(f, p string) string { return fmt.Sprintf(`%s REGEXP '%s'`, f, p) },
		AnyJoin:    " OR ",
		AllJoin:    " AND ",
		WrapAnyAll: true,
	}
}

func (SQL) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	return buildSQLLike("SQL", rule, opts)
}

func buildSQLLike(name string, rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := FieldResolver{Override: opts.FieldMap, Fallback: func(f string) string { return f }}.Resolve
	syn := sqlSyntax()
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " AND ", nil)
	composed, err := BuildCondition(rule.Header, rule.SubRules, rendered, syn, " AND ", " OR ", " NOT ", opts.StrictCondition)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`SELECT * FROM eventlog WHERE %s`, composed), nil
}

func init() { register(SQL{}) }

// SQLite reuses SQL's entire query builder unchanged — sqlite.rs is a
// two-line delegation to SQLBackend::default(), so there is no SQLite-
// specific syntax to port.
type SQLite struct{}

func (SQLite) Name() string { return "SQLite" }

func (SQLite) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	return buildSQLLike("SQLite", rule, opts)
}

func init() { register(SQLite{}) }
