package backend

import (
	"testing"
)

func TestLookupIsCaseInsensitive(t *testing.T) {
	b, err := Lookup("SpLuNk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Name() != "Splunk" {
		t.Fatalf("unexpected backend: %s", b.Name())
	}
}

func TestLookupUnknownTargetReturnsInvalidDestination(t *testing.T) {
	_, err := Lookup("not-a-backend")
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestLookupHumioAlertAliasResolvesToHumio(t *testing.T) {
	b, err := Lookup("humioalert")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Name() != "Humio" {
		t.Fatalf("expected Humio backend, got %s", b.Name())
	}
}

func TestTargetsHasNoDuplicatesDespiteAliases(t *testing.T) {
	targets := Targets()
	seen := make(map[string]bool, len(targets))
	for _, name := range targets {
		if seen[name] {
			t.Fatalf("duplicate target name: %s", name)
		}
		seen[name] = true
	}
}
