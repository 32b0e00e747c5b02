package backend

import (
	"strings"
	"testing"

	"sigmac/pkg/sigma"
)

func TestSnowflakeQuotesOnlyTextEquality(t *testing.T) {
	rule := &sigma.SiemRule{
		Header: sigma.SigmaRule{Condition: "selection"},
		SubRules: []sigma.SubRule{
			{Label: "selection", Predicates: []sigma.RuleCondition{
				{Field: "Image", Operator: sigma.Equals(sigma.Text("cmd.exe"))},
				{Field: "EventID", Operator: sigma.Equals(sigma.Int(4688))},
			}},
		},
	}
	out, err := Snowflake{}.ConvertRule(rule, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `process.executable = 'cmd.exe'`) {
		t.Fatalf("expected quoted text equality: %s", out)
	}
	if !strings.Contains(out, "winlog.event_id = 4688") {
		t.Fatalf("expected unquoted numeric equality: %s", out)
	}
}

func TestSnowflakeUsesIlikeForWildcardsAndEcsFallback(t *testing.T) {
	rule := &sigma.SiemRule{
		Header: sigma.SigmaRule{Condition: "selection"},
		SubRules: []sigma.SubRule{
			{Label: "selection", Predicates: []sigma.RuleCondition{
				{Field: "SomeUnmappedField", Operator: sigma.StartsWith("x")},
			}},
		},
	}
	out, err := Snowflake{}.ConvertRule(rule, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `winlog.event_data.SomeUnmappedField ILIKE 'x%'`) {
		t.Fatalf("expected ECS fallback field plus ILIKE wildcard: %s", out)
	}
	if !strings.HasPrefix(out, "SELECT * FROM windows WHERE ") {
		t.Fatalf("unexpected SQL envelope: %s", out)
	}
}
