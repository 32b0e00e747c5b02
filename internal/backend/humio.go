package backend

import (
	"encoding/json"
	"fmt"
	"strings"

	"sigmac/pkg/sigma"
)

// Humio emits a Humio alert definition with the envelope shape
// name/query/description/throttle/silenced, running the query through
// the shared Phase A/B engine with Humio's query language (field="value"
// leaves, case-insensitive /pattern/i regex literals).
type Humio struct{}

func (Humio) Name() string { return "Humio" }

func humioSyntax() LeafSyntax {
	return LeafSyntax{
		Equals:     func(f string, v sigma.Value) string { return fmt.Sprintf(`%s="%s"`, f, v.String()) },
		StartsWith: func(f, p string) string { return fmt.Sprintf(`%s=/^%s/i`, f, p) },
		EndsWith:   func(f, p string) string { return fmt.Sprintf(`%s=/%s$/i`, f, p) },
		Contains:   func(f, p string) string { return fmt.Sprintf(`%s=/%s/i`, f, p) },
		Regex:      func(f, p string) string { return fmt.Sprintf(`%s=/%s/i`, f, p) },
		AnyJoin:    " or ",
		AllJoin:    " and ",
		WrapAnyAll: true,
	}
}

type humioQuery struct {
	QueryString string `json:"queryString"`
	IsLive      bool   `json:"isLive"`
	Start       string `json:"start"`
}

type humioAlert struct {
	Name               string     `json:"name"`
	Query              humioQuery `json:"query"`
	Description        string     `json:"description"`
	ThrottleTimeMillis int        `json:"throttleTimeMillis"`
	Silenced           bool       `json:"silenced"`
}

func (Humio) ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error) {
	resolve := FieldResolver{Override: opts.FieldMap, Fallback: func(f string) string { return f }}.Resolve
	syn := humioSyntax()
	rendered, _ := RenderSubRules(rule.SubRules, resolve, syn, " and ", nil)
	query, err := BuildCondition(rule.Header, rule.SubRules, rendered, syn, " and ", " or ", " not ", opts.StrictCondition)
	if err != nil {
		return "", err
	}

	authorLine := ""
	if rule.Header.Author != "" {
		authorLine = fmt.Sprintf("Author: %s.", rule.Header.Author)
	}
	description := strings.TrimSpace(fmt.Sprintf(
		"%s %s License: https://github.com/Neo23x0/sigma/blob/master/LICENSE.Detection.Rules.md. Reference: https://tdm.socprime.com/tdm/info/.",
		rule.Header.Description, authorLine))

	alert := humioAlert{
		Name: rule.Header.Title,
		Query: humioQuery{
			QueryString: query,
			IsLive:      true,
			Start:       "1h",
		},
		Description:        description,
		ThrottleTimeMillis: 60000,
		Silenced:           false,
	}
	out, ferr := json.MarshalIndent(alert, "", "  ")
	if ferr != nil {
		return "", fmtErr("Humio", ferr)
	}
	return string(out), nil
}

func init() {
	h := Humio{}
	register(h)
	registerAlias("humioalert", h)
}
