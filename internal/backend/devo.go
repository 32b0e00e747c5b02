package backend

import (
	"fmt"

	"sigmac/pkg/sigma"
)

// Devo emits LINQ-style predicates over box.all.win. Grounded on devo.rs:
// comparison functions (startswith/endswith/weakhas) rather than operators,
// lowercase "and"/"or" connectives throughout.
type Devo struct{}

func (Devo) Name() string { return "Devo" }

var devoFieldMap = map[string]string{
	"EventID":            "eventID",
	"HostName":           "machine",
	"Message":            "message",
	"CommandLine":        "procCmdLine",
	"Image":              "serviceFileName",
	"User":               "username",
	"TaskName":           "category",
	"ServiceName":        "service",
	"ProcessName":        "callerProcName",
	"OriginalFileName":   "serviceFileName",
	"MachineName":        "machine",
	"LogonId":            "subjectLogonId",
	"GroupName":          "groupName",
	"EventType":          "eventType",
	"Description":        "message",
}

func devoSyntax() LeafSyntax {
	return LeafSyntax{
		Equals:     func(f string, v sigma.Value) string { return fmt.Sprintf(`%s = "%s"`, f, v.String()) },
		StartsWith: func(f, p string) string { return fmt.Sprintf(`%s = startswith(%s, "%s")`, f, f, p) },
		EndsWith:   func(f, p string) string { return fmt.Sprintf(`%s = endswith(%s, "%s")`, f, f, p) },
		Contains:   func(f, p string) string { return fmt.Sprintf(`%s = weakhas(%s, "%s")`, f, f, p) },
		Regex:      func(f, p string) string { return fmt.Sprintf(`%s = matches(%s, "%s")`, f, f, p) },
		AnyJoin:    " or ",
		AllJoin:    " and ",
		WrapAnyAll: true,
	}
}

func (Devo) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := FieldResolver{Override: opts.FieldMap, Builtin: devoFieldMap, Fallback: func(f string) string { return f }}.Resolve
	syn := devoSyntax()
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " and ", nil)
	composed, err := BuildCondition(rule.Header, rule.SubRules, rendered, syn, " and ", " or ", " not ", opts.StrictCondition)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("from box.all.win where %s select *", composed), nil
}

func init() { register(Devo{}) }
