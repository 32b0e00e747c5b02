package backend

import (
	"encoding/json"

	"sigmac/pkg/sigma"
)

// Kibana emits a Kibana saved-search object against winlogbeat-* with
// the envelope shape kibanaSavedObjectMeta.searchSourceJSON expects
// (wrapping a query_string clause). The query itself runs through the
// shared Phase A/B engine with Lucene query_string syntax — the same
// dialect ElastAlert uses, since both target the same Lucene query
// parser.
type Kibana struct{}

func (Kibana) Name() string { return "Kibana" }

type kibanaHighlight struct {
	PreTags           []string            `json:"pre_tags"`
	PostTags          []string            `json:"post_tags"`
	Fields            map[string]struct{} `json:"fields"`
	RequireFieldMatch bool                `json:"require_field_match"`
	FragmentSize      int64               `json:"fragment_size"`
}

type kibanaQueryString struct {
	Query           string `json:"query"`
	AnalyzeWildcard bool   `json:"analyze_wildcard"`
}

type kibanaQuery struct {
	QueryString kibanaQueryString `json:"query_string"`
}

type kibanaSearchSource struct {
	Index     string          `json:"index"`
	Filter    []struct{}      `json:"filter"`
	Highlight kibanaHighlight `json:"highlight"`
	Query     kibanaQuery     `json:"query"`
}

type kibanaSavedObjectMeta struct {
	SearchSourceJSON string `json:"searchSourceJSON"`
}

type kibanaAttributes struct {
	Title                 string                `json:"title"`
	Description           string                `json:"description"`
	Hits                  int                   `json:"hits"`
	Columns               []string              `json:"columns"`
	Sort                  []string              `json:"sort"`
	Version               int                   `json:"version"`
	KibanaSavedObjectMeta kibanaSavedObjectMeta `json:"kibanaSavedObjectMeta"`
}

type kibanaReference struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type kibanaSavedSearch struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Attributes kibanaAttributes  `json:"attributes"`
	References []kibanaReference `json:"references"`
}

func (Kibana) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := FieldResolver{Override: opts.FieldMap, Fallback: func(f string) string { return f }}.Resolve
	syn := elastalertSyntax()
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " AND ", nil)
	query, err := BuildCondition(rule.Header, rule.SubRules, rendered, syn, " AND ", " OR ", " NOT ", opts.StrictCondition)
	if err != nil {
		return "", err
	}

	searchSource := kibanaSearchSource{
		Index:  "winlogbeat-*",
		Filter: []struct{}{},
		Highlight: kibanaHighlight{
			PreTags:           []string{"@kibana-highlighted-field@"},
			PostTags:          []string{"@/kibana-highlighted-field@"},
			Fields:            map[string]struct{}{"*": {}},
			RequireFieldMatch: false,
			FragmentSize:      2147483647,
		},
		Query: kibanaQuery{QueryString: kibanaQueryString{Query: query, AnalyzeWildcard: true}},
	}
	searchSourceJSON, ferr := json.Marshal(searchSource)
	if ferr != nil {
		return "", fmtErr("Kibana", ferr)
	}

	saved := kibanaSavedSearch{
		ID:   rule.Header.ID,
		Type: "search",
		Attributes: kibanaAttributes{
			Title:       "SIGMA - " + rule.Header.Title,
			Description: rule.Header.Description,
			Hits:        0,
			Columns:     []string{},
			Sort:        []string{"@timestamp", "desc"},
			Version:     1,
			KibanaSavedObjectMeta: kibanaSavedObjectMeta{
				SearchSourceJSON: string(searchSourceJSON),
			},
		},
		References: []kibanaReference{
			{ID: "winlogbeat-*", Name: "kibanaSavedObjectMeta.searchSourceJSON.index", Type: "index-pattern"},
		},
	}
	out, ferr := json.MarshalIndent(saved, "", "  ")
	if ferr != nil {
		return "", fmtErr("Kibana", ferr)
	}
	return string(out), nil
}

func init() { register(Kibana{}) }
