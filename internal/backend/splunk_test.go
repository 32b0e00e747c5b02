package backend

import (
	"strings"
	"testing"

	"sigmac/pkg/sigma"
)

func TestSplunkPrependsIndexAndSourceFilter(t *testing.T) {
	rule := &sigma.SiemRule{
		Header: sigma.SigmaRule{Condition: "selection"},
		SubRules: []sigma.SubRule{
			{Label: "selection", Predicates: []sigma.RuleCondition{
				{Field: "Image", Operator: sigma.Equals(sigma.Text("cmd.exe"))},
			}},
		},
	}
	out, err := Splunk{}.ConvertRule(rule, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, `index=* source="WinEventLog:*" AND `) {
		t.Fatalf("expected index/source prelude: %s", out)
	}
	if !strings.Contains(out, `Image="cmd.exe"`) {
		t.Fatalf("expected equality leaf: %s", out)
	}
}

func TestSplunkAnyGroupAlwaysParenthesisedEvenWithOneAlternative(t *testing.T) {
	rule := &sigma.SiemRule{
		Header: sigma.SigmaRule{Condition: "selection"},
		SubRules: []sigma.SubRule{
			{Label: "selection", Predicates: []sigma.RuleCondition{
				{Field: "Image", Operator: sigma.Any([]sigma.Operator{
					sigma.Equals(sigma.Text("cmd.exe")),
				})},
			}},
		},
	}
	out, err := Splunk{}.ConvertRule(rule, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `(Image="cmd.exe")`) {
		t.Fatalf("expected a single-alternative Any group to still be parenthesised: %s", out)
	}
}

func TestSplunkFieldMapOverrideIsApplied(t *testing.T) {
	rule := &sigma.SiemRule{
		Header: sigma.SigmaRule{Condition: "selection"},
		SubRules: []sigma.SubRule{
			{Label: "selection", Predicates: []sigma.RuleCondition{
				{Field: "Image", Operator: sigma.Equals(sigma.Text("cmd.exe"))},
			}},
		},
	}
	out, err := Splunk{}.ConvertRule(rule, Options{FieldMap: map[string]string{"Image": "process.name"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `process.name="cmd.exe"`) {
		t.Fatalf("expected overridden field name: %s", out)
	}
}
