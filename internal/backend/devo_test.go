package backend

import (
	"strings"
	"testing"

	"sigmac/pkg/sigma"
)

func devoRule() *sigma.SiemRule {
	return &sigma.SiemRule{
		Header: sigma.SigmaRule{Condition: "selection"},
		SubRules: []sigma.SubRule{
			{Label: "selection", Predicates: []sigma.RuleCondition{
				{Field: "Image", Operator: sigma.EndsWith("powershell.exe")},
				{Field: "CommandLine", Operator: sigma.Contains("-enc")},
			}},
		},
	}
}

func TestDevoWrapsQueryInLinqFromWhereSelect(t *testing.T) {
	out, err := Devo{}.ConvertRule(devoRule(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "from box.all.win where ") || !strings.HasSuffix(out, " select *") {
		t.Fatalf("unexpected LINQ envelope: %s", out)
	}
}

func TestDevoUsesComparisonFunctionsNotOperators(t *testing.T) {
	out, err := Devo{}.ConvertRule(devoRule(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `serviceFileName = endswith(serviceFileName, "powershell.exe")`) {
		t.Fatalf("expected endswith() comparison function: %s", out)
	}
	if !strings.Contains(out, `procCmdLine = weakhas(procCmdLine, "-enc")`) {
		t.Fatalf("expected weakhas() comparison function: %s", out)
	}
}

func TestDevoFieldMapResolvesKnownNames(t *testing.T) {
	out, err := Devo{}.ConvertRule(devoRule(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "Image") || strings.Contains(out, "CommandLine") {
		t.Fatalf("expected raw field names to be resolved away: %s", out)
	}
}
