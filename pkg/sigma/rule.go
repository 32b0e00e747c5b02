package sigma

// LogSource identifies the product/category/service a rule targets.
type LogSource struct {
	Product    string
	Category   string
	Service    string
	Definition string
}

// FalsePositives holds either a single string or a list, per the Sigma
// spec's loose schema for this header field.
type FalsePositives struct {
	Single string
	List   []string
}

// Strings returns the false-positives as a flat list regardless of which
// shape the rule used.
func (f FalsePositives) Strings() []string {
	if len(f.List) > 0 {
		return f.List
	}
	if f.Single != "" {
		return []string{f.Single}
	}
	return nil
}

// SigmaRule is the decoded Sigma header plus raw condition string.
type SigmaRule struct {
	Title          string
	ID             string
	Status         string
	Description    string
	References     []string
	Author         string
	Date           string
	Modified       string
	Tags           []string
	LogSource      LogSource
	Condition      string
	FalsePositives FalsePositives
	Level          string
	License        string
}

// ConditionKind discriminates a ConditionExpression.
type ConditionKind int

const (
	CondAny ConditionKind = iota
	CondAll
	CondNot
)

// ConditionExpression is Any(pattern) | All(pattern) | Not(inner), where
// pattern is a label glob.
type ConditionExpression struct {
	Kind    ConditionKind
	Pattern string               // valid for Any/All
	Inner   *ConditionExpression // valid for Not
}

// LinearKind discriminates a SigmaDetectionCondition.
type LinearKind int

const (
	LinearPlain LinearKind = iota
	LinearAnd
	LinearOr
)

// SigmaDetectionCondition is one item of the linearised condition sequence
// produced by the naive and/or/of splitter.
type SigmaDetectionCondition struct {
	Kind LinearKind
	Expr ConditionExpression
}

// SiemRule is the fully-lowered intermediate representation: the header
// plus the ordered sub-rules. This is what every backend emitter consumes.
type SiemRule struct {
	Header   SigmaRule
	SubRules []SubRule
}

// SubRuleByLabel returns the sub-rule with an exact label match, if any.
func (r *SiemRule) SubRuleByLabel(label string) (*SubRule, bool) {
	for i := range r.SubRules {
		if r.SubRules[i].Label == label {
			return &r.SubRules[i], true
		}
	}
	return nil, false
}
