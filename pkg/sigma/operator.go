package sigma

// OperatorKind discriminates the Operator sum type.
type OperatorKind int

const (
	OpEquals OperatorKind = iota
	OpStartsWith
	OpEndsWith
	OpContains
	OpRegex
	OpAny
	OpAll
)

// Operator is the leaf (or depth-2 Any/All) match expression attached to a
// RuleCondition. Equals/StartsWith/EndsWith/Contains/Regex are leaves;
// Any/All hold only leaves, never nested Any/All (invariant: depth <= 2).
type Operator struct {
	Kind  OperatorKind
	Value Value    // valid for OpEquals
	Text  string   // valid for StartsWith/EndsWith/Contains/Regex
	Items []Operator // valid for Any/All
}

func Equals(v Value) Operator           { return Operator{Kind: OpEquals, Value: v} }
func StartsWith(s string) Operator      { return Operator{Kind: OpStartsWith, Text: s} }
func EndsWith(s string) Operator        { return Operator{Kind: OpEndsWith, Text: s} }
func Contains(s string) Operator        { return Operator{Kind: OpContains, Text: s} }
func Regex(s string) Operator           { return Operator{Kind: OpRegex, Text: s} }
func Any(items []Operator) Operator     { return Operator{Kind: OpAny, Items: items} }
func All(items []Operator) Operator     { return Operator{Kind: OpAll, Items: items} }

// RuleCondition is a single field-level predicate: {field, operator}.
type RuleCondition struct {
	Field    string
	Operator Operator
}

// SubRule is a named group of field predicates (a Sigma "selection").
type SubRule struct {
	Label      string
	Predicates []RuleCondition
}

// DefaultKeywordField is the catch-all field a bare keyword-list
// selection (a YAML sequence of scalars instead of a mapping) matches
// against.
const DefaultKeywordField = "keywords"
