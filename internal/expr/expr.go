package expr

import (
	"strings"
)

// Expression is a compiled, immutable f(t, y).
type Expression struct {
	src  string
	root node
	vars []string
}

// Parse compiles text into an Expression.
func Parse(text string) (*Expression, error) {
	if len(text) > MaxLength {
		return nil, &ParseError{Msg: "expression too long", Pos: MaxLength, Input: text}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Msg: "empty expression", Pos: 0, Input: text}
	}

	toks, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	p := &parser{src: text, toks: toks, vars: make(map[string]struct{})}
	root, err := p.sum()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		if t.kind == tokRParen {
			return nil, p.errorf(t.pos, "unbalanced parenthesis")
		}
		return nil, p.errorf(t.pos, "unexpected %s", t.describe())
	}

	return &Expression{src: strings.TrimSpace(text), root: root, vars: p.sortedVars()}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level presets.
func MustParse(text string) *Expression {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

// Eval evaluates the expression with the given variable bindings.
func (e *Expression) Eval(bindings map[string]float64) (float64, error) {
	return e.root.eval(mapEnv(bindings))
}

// Eval2 evaluates with t and y bound and nothing else.
func (e *Expression) Eval2(t, y float64) (float64, error) {
	return e.root.eval(tyEnv{t: t, y: y})
}

// Slope implements dynamo.Slope.
func (e *Expression) Slope(t, y float64) (float64, error) {
	return e.Eval2(t, y)
}

// Vars returns the sorted variable names the expression references.
func (e *Expression) Vars() []string {
	out := make([]string, len(e.vars))
	copy(out, e.vars)
	return out
}

// String returns the source text.
func (e *Expression) String() string { return e.src }
