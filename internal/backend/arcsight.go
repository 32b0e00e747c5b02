package backend

import (
	"fmt"
	"strings"

	"sigmac/pkg/sigma"
)

// ArcSight emits CEF filter syntax. Grounded on arcsight.rs: a vendor /
// product predicate is prepended to every sub-rule from the rule's
// logsource (windows -> Microsoft/"Microsoft Windows", linux -> Unix/none),
// STARTSWITH/ENDSWITH/CONTAINS are literal uppercase keywords rather than
// wildcarded equality, and leaf Any-groups are NOT separately parenthesised
// (they rely on the sub-rule's own outer parens).
type ArcSight struct{}

func (ArcSight) Name() string { return "ArcSight" }

var arcsightFieldMap = map[string]string{
	"image":             "deviceProcessName",
	"deviceVendor":      "deviceVendor",
	"deviceProduct":     "deviceProduct",
	"parentcommandline": "sourceServiceName",
	"commandline":       "destinationServiceName",
	"CommandLine":       "destinationServiceName",
	"EventID":           "externalId",
	"Provider_Name":     "Provider_Name",
	"FileName":          "fileName",
	"ProcessGuid":       "fileId",
	"ProcessId":         "deviceProcessId",
	"Image":             "deviceProcessName",
	"ParentProcessGuid": "oldFileId",
	"ParentProcessId":   "sourceProcessId",
	"ParentImage":       "sourceProcessName",
	"ParentCommandLine": "sourceServiceName",
	"TargetFilename":    "fileName",
	"SourceIp":          "sourceAddress",
	"SourceHostname":    "sourceHostName",
	"SourcePort":        "sourcePort",
	"DestinationIp":     "destinationAddress",
	"DestinationHostname": "destinationHostName",
	"DestinationPort":   "destinationPort",
	"User":              "destinationUserName",
	"TargetUserName":    "destinationUserName",
	"SourceUserName":    "sourceUserName",
	"LogonType":         "deviceCustomNumber1",
	"Status":            "deviceEventStatus",
}

func arcsightSyntax() LeafSyntax {
	return LeafSyntax{
		Equals:     func(f string, v sigma.Value) string { return fmt.Sprintf(`%s = "%s"`, f, v.String()) },
		StartsWith: func(f, p string) string { return fmt.Sprintf(`%s STARTSWITH "%s"`, f, p) },
		EndsWith:   func(f, p string) string { return fmt.Sprintf(`%s ENDSWITH "%s"`, f, p) },
		Contains:   func(f, p string) string { return fmt.Sprintf(`%s CONTAINS "%s"`, f, p) },
		Regex:      func(f, p string) string { return fmt.Sprintf(`%s = "/%s/"`, f, p) },
		AnyJoin:    " OR ",
		AllJoin:    " AND ",
		WrapAnyAll: false,
	}
}

func arcsightPrelude(logsource sigma.LogSource) []sigma.RuleCondition {
	var vendor, product string
	switch strings.ToLower(logsource.Product) {
	case "windows":
		vendor, product = "Microsoft", "Microsoft Windows"
	case "linux":
		vendor = "Unix"
	}
	var out []sigma.RuleCondition
	if vendor != "" {
		out = append(out, sigma.RuleCondition{Field: "deviceVendor", Operator: sigma.Equals(sigma.Text(vendor))})
	}
	if product != "" {
		out = append(out, sigma.RuleCondition{Field: "deviceProduct", Operator: sigma.Equals(sigma.Text(product))})
	}
	return out
}

func (ArcSight) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := FieldResolver{Override: opts.FieldMap, Builtin: arcsightFieldMap, Fallback: func(string) string { return "deviceCustomString3" }}.Resolve
	syn := arcsightSyntax()
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " AND ", func(string) []sigma.RuleCondition {
		return arcsightPrelude(rule.Header.LogSource)
	})
	composed, err := BuildCondition(rule.Header, rule.SubRules, rendered, syn, " AND ", " OR ", " NOT ", opts.StrictCondition)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`%s AND type != 2 | rex field = flexString1 mode=sed "s//Sigma: %s/g"`, composed, rule.Header.Title), nil
}

func init() { register(ArcSight{}) }
