package backend

import (
	"testing"

	"sigmac/pkg/sigma"
)

func TestRenderSubRuleAndsPredicatesTogether(t *testing.T) {
	preds := []sigma.RuleCondition{
		{Field: "Image", Operator: sigma.EndsWith("powershell.exe")},
		{Field: "CommandLine", Operator: sigma.Contains("DownloadString")},
	}
	got := RenderSubRule(preds, func(f string) string { return f }, splunkSyntax(), " AND ")
	want := `(Image="*powershell.exe" AND CommandLine="*DownloadString*")`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderLeafAnyGroupWrapsAndJoins(t *testing.T) {
	op := sigma.Any([]sigma.Operator{sigma.Equals(sigma.Text("a")), sigma.Equals(sigma.Text("b"))})
	got := RenderLeaf("Field", op, splunkSyntax())
	want := `(Field="a" OR Field="b")`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBuildConditionLinearAndOrNot(t *testing.T) {
	header := sigma.SigmaRule{Condition: "selection and not all of filter"}
	subrules := []sigma.SubRule{{Label: "selection"}, {Label: "filter"}}
	rendered := map[string]string{
		"selection": "(A)",
		"filter":    "(B)",
	}
	got, err := BuildCondition(header, subrules, rendered, splunkSyntax(), " AND ", " OR ", " NOT ", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "(A) AND  NOT (B)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBuildConditionStrictHandlesParens(t *testing.T) {
	header := sigma.SigmaRule{Condition: "selection and (filter1 or filter2)"}
	subrules := []sigma.SubRule{{Label: "selection"}, {Label: "filter1"}, {Label: "filter2"}}
	rendered := map[string]string{
		"selection": "(A)",
		"filter1":   "(B)",
		"filter2":   "(C)",
	}
	got, err := BuildCondition(header, subrules, rendered, splunkSyntax(), " AND ", " OR ", " NOT ", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "(A) AND ((B) OR (C))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBuildConditionReturnsUnresolvedLabel(t *testing.T) {
	header := sigma.SigmaRule{Condition: "missing_label"}
	_, err := BuildCondition(header, nil, map[string]string{}, splunkSyntax(), " AND ", " OR ", " NOT ", false)
	if err == nil || err.Kind != sigma.ErrUnresolvedLabel {
		t.Fatalf("expected ErrUnresolvedLabel, got %v", err)
	}
}

func TestFieldResolverPrefersOverrideThenBuiltinThenFallback(t *testing.T) {
	r := FieldResolver{
		Override: map[string]string{"Image": "process.name"},
		Builtin:  map[string]string{"Image": "winlog.image", "EventID": "winlog.event_id"},
		Fallback: func(f string) string { return "raw." + f },
	}
	if got := r.Resolve("Image"); got != "process.name" {
		t.Fatalf("expected override to win, got %q", got)
	}
	if got := r.Resolve("EventID"); got != "winlog.event_id" {
		t.Fatalf("expected builtin match, got %q", got)
	}
	if got := r.Resolve("Unknown"); got != "raw.Unknown" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
