package backend

import (
	"fmt"

	"sigmac/pkg/sigma"
)

// KafkaSQL emits a KSQL WHERE clause. Grounded on kafka_sql.rs: the same
// "=ilike" comparison token as QRadar's ILIKE family but without the
// intervening space.
type KafkaSQL struct{}

func (KafkaSQL) Name() string { return "KafkaSQL" }

func kafkaSQLSyntax() LeafSyntax {
	return LeafSyntax{
		Equals:     func(f string, v sigma.Value) string { return fmt.Sprintf(`%s='%s'`, f, v.String()) },
		StartsWith: func(f, p string) string { return fmt.Sprintf(`%s=ilike '%s%%'`, f, p) },
		EndsWith:   func(f, p string) string { return fmt.Sprintf(`%s=ilike '%%%s'`, f, p) },
		Contains:   func(f, p string) string { return fmt.Sprintf(`%s=ilike '%%%s%%'`, f, p) },
		Regex:      func(f, p string) string { return fmt.Sprintf(`%s=regexp '%s'`, f, p) },
		AnyJoin:    " OR ",
		AllJoin:    " AND ",
		WrapAnyAll: true,
	}
}

func (KafkaSQL) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := FieldResolver{Override: opts.FieldMap, Fallback: func(f string) string { return f }}.Resolve
	syn := kafkaSQLSyntax()
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " AND ", nil)
	composed, err := BuildCondition(rule.Header, rule.SubRules, rendered, syn, " AND ", " OR ", " NOT ", opts.StrictCondition)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT * FROM TABLE_NAME WHERE %s;", composed), nil
}

func init() { register(KafkaSQL{}) }
