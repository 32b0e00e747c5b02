package backend

import (
	"fmt"

	"sigmac/pkg/sigma"
)

// GrayLog emits a Graylog search query. No corresponding Rust source
// exists in the reference pack for this target (see DESIGN.md); its
// search bar accepts the same Lucene query_string grammar Elasticsearch
// does, so this dialect mirrors ElastAlert/Kibana's leaf syntax rather
// than inventing a new one.
type GrayLog struct{}

func (GrayLog) Name() string { return "GrayLog" }

func (GrayLog) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := FieldResolver{Override: opts.FieldMap, Fallback: func(f string) string { return f }}.Resolve
	syn := elastalertSyntax()
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " AND ", nil)
	composed, err := BuildCondition(rule.Header, rule.SubRules, rendered, syn, " AND ", " OR ", " NOT ", opts.StrictCondition)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("source:winlogbeat AND %s", composed), nil
}

func init() { register(GrayLog{}) }
