package backend

import (
	"fmt"

	"sigmac/pkg/sigma"
)

// Securonix emits its "@field" query syntax. Grounded on securonix.rs: a
// resolved field name is prefixed with "@" unless it maps to the special
// "rg_functionality" column, unmapped fields fall back to "rawevent", and
// a Windows logsource prepends an rg_functionality predicate.
type Securonix struct{}

func (Securonix) Name() string { return "Securonix" }

var securonixFieldMap = map[string]string{
	"rg":                "resourcegroupname",
	"rg_functionality":  "rg_functionality",
	"ErrorCode":         "eventoutcome",
	"Operation":         "deviceaction",
	"message":           "message",
	"EventID":           "baseeventid",
	"Product":           "product",
	"PipeName":          "filepath",
	"EventSource":       "resourcename",
	"User":              "destinationusername",
	"Description":       "description",
	"c-clientip":        "sourceaddress",
	"cs-method":         "requestmethod",
	"host":              "destinationhostname",
	"Image":             "destinationprocessname",
	"TargetObject":      "customstring47",
	"Details":           "customstring48",
	"Vendor":            "rg_vendor",
	"EventType":         "transactionstring5",
	"EventCategory":     "categoryobject",
	"AccountName":       "accountname",
	"CommandLine":       "resourcecustomfield1",
	"ComputerName":      "sourcehostname",
	"DestinationHostname": "destinationhostname",
	"DestinationIp":     "destinationaddress",
	"SourceHostname":    "sourcehostname",
	"Protocol":          "transportprotocol",
	"ServiceFileName":   "filename",
}

func securonixResolve(override map[string]string, field string) string {
	if override != nil {
		if v, ok := override[field]; ok {
			return v
		}
	}
	mapped, ok := securonixFieldMap[field]
	if !ok {
		return "rawevent"
	}
	if mapped == "rg_functionality" {
		return mapped
	}
	return "@" + mapped
}

func securonixSyntax() LeafSyntax {
	return LeafSyntax{
		Equals:     func(f string, v sigma.Value) string { return fmt.Sprintf(`%s = "%s"`, f, v.String()) },
		StartsWith: func(f, p string) string { return fmt.Sprintf(`%s STARTS WITH "%s"`, f, p) },
		EndsWith:   func(f, p string) string { return fmt.Sprintf(`%s ENDS WITH "%s"`, f, p) },
		Contains:   func(f, p string) string { return fmt.Sprintf(`%s CONTAINS "%s"`, f, p) },
		Regex:      func(f, p string) string { return fmt.Sprintf(`%s MATCHES "%s"`, f, p) },
		AnyJoin:    " OR ",
		AllJoin:    " AND ",
		WrapAnyAll: true,
	}
}

func (Securonix) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := func(f string) string { return securonixResolve(opts.FieldMap, f) }
	syn := securonixSyntax()
	prelude := func(string) []sigma.RuleCondition {
		if rule.Header.LogSource.Product == "windows" {
			return []sigma.RuleCondition{{Field: "rg_functionality", Operator: sigma.Equals(sigma.Text("Microsoft Windows"))}}
		}
		return nil
	}
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " AND ", prelude)
	composed, err := BuildCondition(rule.Header, rule.SubRules, rendered, syn, " AND ", " OR ", " NOT ", opts.StrictCondition)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("index = archive AND %s", composed), nil
}

func init() { register(Securonix{}) }
