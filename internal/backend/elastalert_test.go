package backend

import (
	"strings"
	"testing"

	"sigmac/pkg/sigma"
)

func baseRule(level string) *sigma.SiemRule {
	return &sigma.SiemRule{
		Header: sigma.SigmaRule{
			Title:       "Test Rule",
			Description: "a test rule",
			Level:       level,
			Condition:   "selection",
		},
		SubRules: []sigma.SubRule{
			{Label: "selection", Predicates: []sigma.RuleCondition{
				{Field: "Image", Operator: sigma.EndsWith("powershell.exe")},
			}},
		},
	}
}

func TestElastAlertPriorityMapping(t *testing.T) {
	cases := map[string]int{"critical": 1, "high": 2, "medium": 3, "low": 4, "": 3}
	for level, want := range cases {
		if got := elastalertPriority(level); got != want {
			t.Fatalf("level %q: got priority %d, want %d", level, got, want)
		}
	}
}

func TestElastAlertConvertRuleEmbedsQueryAndPriority(t *testing.T) {
	out, err := ElastAlert{}.ConvertRule(baseRule("critical"), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `process.executable.text:"*powershell.exe"`) {
		t.Fatalf("expected rendered query in output: %s", out)
	}
	if !strings.Contains(out, "priority: 1") {
		t.Fatalf("expected priority 1 in output: %s", out)
	}
}

func TestElastAlertKeepFieldsAddsAuthorAndTags(t *testing.T) {
	rule := baseRule("low")
	rule.Header.Author = "jdoe"
	rule.Header.Tags = []string{"attack.execution"}
	out, err := ElastAlert{}.ConvertRule(rule, Options{KeepFields: []string{"author", "tags"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "author: jdoe") {
		t.Fatalf("expected author field: %s", out)
	}
	if !strings.Contains(out, "attack.execution") {
		t.Fatalf("expected tags field: %s", out)
	}
}

func TestElastAlertAddFieldsInsertsArbitraryKeys(t *testing.T) {
	out, err := ElastAlert{}.ConvertRule(baseRule("high"), Options{
		AddFields: map[string]string{"owner": "soc-team"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "owner: soc-team") {
		t.Fatalf("expected added field: %s", out)
	}
}

func TestElastAlertKeepFieldsIncludesLevel(t *testing.T) {
	rule := baseRule("high")
	out, err := ElastAlert{}.ConvertRule(rule, Options{KeepFields: []string{"title", "level"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "level: high") {
		t.Fatalf("expected level field: %s", out)
	}
}

func TestElastAlertKeepFieldsCoversAllSixRemainingCases(t *testing.T) {
	rule := baseRule("medium")
	rule.Header.LogSource = sigma.LogSource{Product: "windows", Category: "process_creation"}
	rule.Header.References = []string{"https://example.com/ref"}
	rule.Header.License = "DRL-1.0"
	rule.Header.FalsePositives = sigma.FalsePositives{List: []string{"Admin activity"}}
	rule.Header.Date = "2021/01/02"

	out, err := ElastAlert{}.ConvertRule(rule, Options{
		KeepFields: []string{"logsource", "references", "license", "falsepositives", "date", "level"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"product: windows",
		"category: process_creation",
		"https://example.com/ref",
		"license: DRL-1.0",
		"Admin activity",
		"date: 2021/01/02",
		"level: medium",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %s", want, out)
		}
	}
}

func TestElastAlertKeepFieldsOmitsEmptyOptionalHeaderFields(t *testing.T) {
	out, err := ElastAlert{}.ConvertRule(baseRule("low"), Options{
		KeepFields: []string{"logsource", "references", "license", "falsepositives", "date"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, unwanted := range []string{"logsource:", "references:", "license:", "falsepositives:", "date:"} {
		if strings.Contains(out, unwanted) {
			t.Fatalf("did not expect %q when the header field is empty: %s", unwanted, out)
		}
	}
}

func TestElastAlertUsesEcsFallbackForUnmappedField(t *testing.T) {
	rule := &sigma.SiemRule{
		Header: sigma.SigmaRule{Title: "Test Rule", Condition: "selection"},
		SubRules: []sigma.SubRule{
			{Label: "selection", Predicates: []sigma.RuleCondition{
				{Field: "SomeUnmappedField", Operator: sigma.Equals(sigma.Text("x"))},
			}},
		},
	}
	out, err := ElastAlert{}.ConvertRule(rule, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `winlog.event_data.SomeUnmappedField:"x"`) {
		t.Fatalf("expected ECS winlog.event_data fallback: %s", out)
	}
}

func TestElastAlertReplaceFieldsOverwritesExistingKey(t *testing.T) {
	out, err := ElastAlert{}.ConvertRule(baseRule("high"), Options{
		ReplaceFields: map[string]string{"index": "custom-winlogbeat-*"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "index: custom-winlogbeat-*") {
		t.Fatalf("expected replaced index value: %s", out)
	}
	if strings.Contains(out, "index: winlogbeat-*") {
		t.Fatalf("expected original index value to be replaced: %s", out)
	}
}
