package backend

import (
	"strings"
	"testing"

	"sigmac/pkg/sigma"
)

func TestKafkaSQLUsesIlikeWithoutSpaceBeforeOperator(t *testing.T) {
	rule := &sigma.SiemRule{
		Header: sigma.SigmaRule{Condition: "selection"},
		SubRules: []sigma.SubRule{
			{Label: "selection", Predicates: []sigma.RuleCondition{
				{Field: "Image", Operator: sigma.Contains("powershell")},
			}},
		},
	}
	out, err := KafkaSQL{}.ConvertRule(rule, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `Image=ilike '%powershell%'`) {
		t.Fatalf("expected ilike with no leading space: %s", out)
	}
	if !strings.HasPrefix(out, "SELECT * FROM TABLE_NAME WHERE ") || !strings.HasSuffix(out, ";") {
		t.Fatalf("unexpected SQL envelope: %s", out)
	}
}
