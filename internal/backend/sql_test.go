package backend

import (
	"strings"
	"testing"

	"sigmac/pkg/sigma"
)

func sqlRule() *sigma.SiemRule {
	return &sigma.SiemRule{
		Header: sigma.SigmaRule{Condition: "selection"},
		SubRules: []sigma.SubRule{
			{Label: "selection", Predicates: []sigma.RuleCondition{
				{Field: "Image", Operator: sigma.StartsWith("power")},
			}},
		},
	}
}

func TestSQLSelfReferentialPrefixTemplate(t *testing.T) {
	out, err := SQL{}.ConvertRule(sqlRule(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `Image = 'Image' LIKE 'power%'`) {
		t.Fatalf("expected self-referential prefix template: %s", out)
	}
	if !strings.HasPrefix(out, "SELECT * FROM eventlog WHERE ") {
		t.Fatalf("unexpected SQL envelope: %s", out)
	}
}

func TestSQLiteDelegatesToSameQueryBuilderAsSQL(t *testing.T) {
	sqlOut, err := SQL{}.ConvertRule(sqlRule(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sqliteOut, err := SQLite{}.ConvertRule(sqlRule(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sqlOut != sqliteOut {
		t.Fatalf("expected SQLite to produce identical output to SQL:\nsql:    %s\nsqlite: %s", sqlOut, sqliteOut)
	}
}
