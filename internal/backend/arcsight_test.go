package backend

import (
	"strings"
	"testing"

	"sigmac/pkg/sigma"
)

func arcsightRule(product string) *sigma.SiemRule {
	return &sigma.SiemRule{
		Header: sigma.SigmaRule{
			Title:     "Suspicious PowerShell",
			Condition: "selection",
			LogSource: sigma.LogSource{Product: product},
		},
		SubRules: []sigma.SubRule{
			{Label: "selection", Predicates: []sigma.RuleCondition{
				{Field: "Image", Operator: sigma.EndsWith("powershell.exe")},
			}},
		},
	}
}

func TestArcSightWindowsPreludeAddsVendorAndProduct(t *testing.T) {
	out, err := ArcSight{}.ConvertRule(arcsightRule("windows"), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `deviceVendor = "Microsoft"`) {
		t.Fatalf("expected deviceVendor predicate: %s", out)
	}
	if !strings.Contains(out, `deviceProduct = "Microsoft Windows"`) {
		t.Fatalf("expected deviceProduct predicate: %s", out)
	}
	if !strings.Contains(out, `deviceProcessName ENDSWITH "powershell.exe"`) {
		t.Fatalf("expected resolved+rendered predicate: %s", out)
	}
}

func TestArcSightLinuxPreludeAddsVendorOnly(t *testing.T) {
	out, err := ArcSight{}.ConvertRule(arcsightRule("linux"), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `deviceVendor = "Unix"`) {
		t.Fatalf("expected deviceVendor predicate: %s", out)
	}
	if strings.Contains(out, "deviceProduct") {
		t.Fatalf("did not expect a deviceProduct predicate for linux: %s", out)
	}
}

func TestArcSightUnknownProductSkipsPrelude(t *testing.T) {
	out, err := ArcSight{}.ConvertRule(arcsightRule("macos"), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "deviceVendor") || strings.Contains(out, "deviceProduct") {
		t.Fatalf("did not expect a vendor/product predicate for an unmapped product: %s", out)
	}
}

func TestArcSightUnmappedFieldFallsBackToDeviceCustomString3(t *testing.T) {
	rule := &sigma.SiemRule{
		Header: sigma.SigmaRule{Title: "Test Rule", Condition: "selection"},
		SubRules: []sigma.SubRule{
			{Label: "selection", Predicates: []sigma.RuleCondition{
				{Field: "SomeUnmappedField", Operator: sigma.Contains("powershell")},
			}},
		},
	}
	out, err := ArcSight{}.ConvertRule(rule, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `deviceCustomString3 CONTAINS "powershell"`) {
		t.Fatalf("expected unmapped field to fall back to deviceCustomString3: %s", out)
	}
}

func TestArcSightAppendsTypeFilterAndRexTrailer(t *testing.T) {
	out, err := ArcSight{}.ConvertRule(arcsightRule("windows"), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "AND type != 2 |") {
		t.Fatalf("expected type filter: %s", out)
	}
	if !strings.Contains(out, `rex field = flexString1 mode=sed "s//Sigma: Suspicious PowerShell/g"`) {
		t.Fatalf("expected rex trailer naming the rule title: %s", out)
	}
}
