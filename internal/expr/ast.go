package expr

import "math"

type env interface {
	lookup(name string) (float64, bool)
}

type mapEnv map[string]float64

func (m mapEnv) lookup(name string) (float64, bool) {
	v, ok := m[name]
	return v, ok
}

type tyEnv struct{ t, y float64 }

func (e tyEnv) lookup(name string) (float64, bool) {
	switch name {
	case "t":
		return e.t, true
	case "y":
		return e.y, true
	}
	return 0, false
}

type node interface {
	eval(env) (float64, error)
}

type numNode struct{ v float64 }

func (n numNode) eval(env) (float64, error) { return n.v, nil }

type varNode struct{ name string }

func (n varNode) eval(e env) (float64, error) {
	v, ok := e.lookup(n.name)
	if !ok {
		return 0, &EvalError{Kind: UnknownName, Name: n.name}
	}
	return v, nil
}

type negNode struct{ x node }

func (n negNode) eval(e env) (float64, error) {
	v, err := n.x.eval(e)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

type binNode struct {
	op   byte
	l, r node
}

func (n binNode) eval(e env) (float64, error) {
	a, err := n.l.eval(e)
	if err != nil {
		return 0, err
	}
	b, err := n.r.eval(e)
	if err != nil {
		return 0, err
	}

	var v float64
	switch n.op {
	case '+':
		v = a + b
	case '-':
		v = a - b
	case '*':
		v = a * b
	case '/':
		v = a / b
	case '^':
		v = math.Pow(a, b)
	}
	return finite(v, string(n.op))
}

type callNode struct {
	name string
	fn   func(float64) float64
	arg  node
}

func (n callNode) eval(e env) (float64, error) {
	a, err := n.arg.eval(e)
	if err != nil {
		return 0, err
	}
	return finite(n.fn(a), n.name)
}

var functions = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"exp":  math.Exp,
	"log":  math.Log,
	"sqrt": math.Sqrt,
	"abs":  math.Abs,
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

func finite(v float64, op string) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &EvalError{Kind: DomainError, Name: op}
	}
	return v, nil
}
