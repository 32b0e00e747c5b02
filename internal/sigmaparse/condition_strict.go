package sigmaparse

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"sigmac/pkg/sigma"
)

// This file implements an opt-in strict condition grammar: a real
// recursive-descent parser over and/or/not/parentheses instead of
// ParseCondition's textual splitter. Unlike ParseCondition, this one
// handles nested parentheses and a label glob that happens to contain
// the substrings "and"/"or"/"of" correctly, at the cost of rejecting a
// condition the naive splitter would have accepted by accident.

var conditionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Punct", Pattern: `[()]`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_*]*`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var conditionParser = participle.MustBuild[strictExpr](
	participle.Lexer(conditionLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

type strictExpr struct {
	Or []*strictAndExpr `parser:"@@ (\"or\" @@)*"`
}

type strictAndExpr struct {
	And []*strictNotExpr `parser:"@@ (\"and\" @@)*"`
}

type strictNotExpr struct {
	Negated bool        `parser:"@\"not\"?"`
	Term    *strictTerm `parser:"@@"`
}

type strictTerm struct {
	Sub   *strictExpr  `parser:"( \"(\" @@ \")\""`
	Quant *strictQuant `parser:"| @@"`
	Label string       `parser:"| @Ident )"`
}

type strictQuant struct {
	All   bool   `parser:"( @\"all\""`
	One   bool   `parser:"| @\"1\" )"`
	Label string `parser:"\"of\" @Ident"`
}

// BoolOp discriminates a BoolExpr node in the strict condition tree.
type BoolOp int

const (
	BoolAnd BoolOp = iota
	BoolOr
	BoolNot
	BoolLeaf
)

// BoolExpr is a real boolean-algebra tree (unlike SigmaDetectionCondition's
// flat linearisation): And/Or are n-ary, Not wraps a single child, and Leaf
// holds an Any/All label-glob expression equivalent to a flat condition's
// ConditionExpression.
type BoolExpr struct {
	Op       BoolOp
	Children []*BoolExpr // And, Or
	Child    *BoolExpr   // Not
	Leaf     sigma.ConditionExpression
}

// StrictParseCondition parses condition with full parenthesis and
// operator-precedence support (or binds loosest, then and, then not) and
// returns a BoolExpr tree.
func StrictParseCondition(condition string) (*BoolExpr, *sigma.Error) {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return nil, sigma.NewError(sigma.ErrInvalidCondition, "condition must not be empty")
	}
	parsed, err := conditionParser.ParseString("", condition)
	if err != nil {
		return nil, sigma.WrapError(sigma.ErrInvalidCondition, "could not parse condition "+condition, err)
	}
	return foldExpr(parsed), nil
}

func foldExpr(e *strictExpr) *BoolExpr {
	children := make([]*BoolExpr, len(e.Or))
	for i, a := range e.Or {
		children[i] = foldAnd(a)
	}
	if len(children) == 1 {
		return children[0]
	}
	return &BoolExpr{Op: BoolOr, Children: children}
}

func foldAnd(a *strictAndExpr) *BoolExpr {
	children := make([]*BoolExpr, len(a.And))
	for i, n := range a.And {
		children[i] = foldNot(n)
	}
	if len(children) == 1 {
		return children[0]
	}
	return &BoolExpr{Op: BoolAnd, Children: children}
}

func foldNot(n *strictNotExpr) *BoolExpr {
	child := foldTerm(n.Term)
	if n.Negated {
		return &BoolExpr{Op: BoolNot, Child: child}
	}
	return child
}

func foldTerm(t *strictTerm) *BoolExpr {
	if t.Sub != nil {
		return foldExpr(t.Sub)
	}
	if t.Quant == nil {
		return &BoolExpr{Op: BoolLeaf, Leaf: sigma.ConditionExpression{Kind: sigma.CondAll, Pattern: t.Label}}
	}
	kind := sigma.CondAll
	if t.Quant.One {
		kind = sigma.CondAny
	}
	return &BoolExpr{Op: BoolLeaf, Leaf: sigma.ConditionExpression{Kind: kind, Pattern: t.Quant.Label}}
}

// RenderBoolExpr walks a BoolExpr tree, rendering each leaf with
// renderLeaf and composing And/Or/Not with the supplied connective tokens.
// Nested And/Or nodes are parenthesised; the root is not. It renders
// StrictParseCondition's tree only; ParseCondition's flat sequence is
// composed separately by the backend package's ComposeLinear.
func RenderBoolExpr(e *BoolExpr, renderLeaf func(sigma.ConditionExpression) (string, *sigma.Error), andSep, orSep, notPrefix string) (string, *sigma.Error) {
	return renderBoolExpr(e, renderLeaf, andSep, orSep, notPrefix, true)
}

func renderBoolExpr(e *BoolExpr, renderLeaf func(sigma.ConditionExpression) (string, *sigma.Error), andSep, orSep, notPrefix string, root bool) (string, *sigma.Error) {
	switch e.Op {
	case BoolLeaf:
		return renderLeaf(e.Leaf)
	case BoolNot:
		inner, err := renderBoolExpr(e.Child, renderLeaf, andSep, orSep, notPrefix, false)
		if err != nil {
			return "", err
		}
		return notPrefix + inner, nil
	case BoolAnd, BoolOr:
		sep := andSep
		if e.Op == BoolOr {
			sep = orSep
		}
		parts := make([]string, len(e.Children))
		for i, c := range e.Children {
			s, err := renderBoolExpr(c, renderLeaf, andSep, orSep, notPrefix, false)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		joined := strings.Join(parts, sep)
		if root {
			return joined, nil
		}
		return "(" + joined + ")", nil
	default:
		return "", sigma.NewError(sigma.ErrInvalidCondition, "unhandled condition node")
	}
}
