package backend

import (
	"fmt"
	"strings"

	"sigmac/pkg/sigma"
)

// QRadar emits AQL. Grounded on qradar.rs: no built-in field map (only a
// user-supplied override, falling back to the raw field name), ILIKE-based
// wildcard matching, and a database switch between "events" and "flows"
// when the logsource looks like netflow traffic.
type QRadar struct{}

func (QRadar) Name() string { return "Qradar" }

func qradarSyntax() LeafSyntax {
	return LeafSyntax{
		Equals:     func(f string, v sigma.Value) string { return fmt.Sprintf(`%s='%s'`, f, v.String()) },
		StartsWith: func(f, p string) string { return fmt.Sprintf(`%s ILIKE '%s%%'`, f, p) },
		EndsWith:   func(f, p string) string { return fmt.Sprintf(`%s ILIKE '%%%s'`, f, p) },
		Contains:   func(f, p string) string { return fmt.Sprintf(`%s ILIKE '%%%s%%'`, f, p) },
		Regex:      func(f, p string) string { return fmt.Sprintf(`%s REGEXP '%s'`, f, p) },
		AnyJoin:    " OR ",
		AllJoin:    " AND ",
		WrapAnyAll: true,
	}
}

func qradarDatabase(ls sigma.LogSource) string {
	product := strings.ToLower(ls.Product)
	service := strings.ToLower(ls.Service)
	category := strings.ToLower(ls.Category)
	if product == "qflow" || product == "ipfix" || service == "netflow" || category == "flow" {
		return "flows"
	}
	return "events"
}

func (QRadar) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := FieldResolver{Override: opts.FieldMap, Fallback: func(f string) string { return f }}.Resolve
	syn := qradarSyntax()
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " AND ", nil)
	composed, err := BuildCondition(rule.Header, rule.SubRules, rendered, syn, " AND ", " OR ", " NOT ", opts.StrictCondition)
	if err != nil {
		return "", err
	}
	database := qradarDatabase(rule.Header.LogSource)
	return fmt.Sprintf(`SELECT UTF8(payload) FROM %s WHERE LOGSOURCETYPENAME(devicetype)='Microsoft Windows Security Event Log' AND %s`, database, composed), nil
}

func init() { register(QRadar{}) }
