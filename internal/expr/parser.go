package expr

import (
	"fmt"
	"sort"
)

const (
	// MaxDepth bounds nesting of parentheses, unary operators and calls.
	MaxDepth = 256
	// MaxLength bounds the accepted source text in bytes.
	MaxLength = 4096
)

type parser struct {
	src   string
	toks  []token
	pos   int
	depth int
	vars  map[string]struct{}
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Pos: pos, Input: p.src}
}

func (p *parser) enter(pos int) error {
	p.depth++
	if p.depth > MaxDepth {
		return p.errorf(pos, "expression nested deeper than %d", MaxDepth)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) isOp(op string) bool {
	t := p.peek()
	return t.kind == tokOp && t.text == op
}

// sum := product (('+' | '-') product)*
func (p *parser) sum() (node, error) {
	left, err := p.product()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.next().text[0]
		right, err := p.product()
		if err != nil {
			return nil, err
		}
		left = binNode{op: op, l: left, r: right}
	}
	return left, nil
}

// product := unary (('*' | '/') unary)*
func (p *parser) product() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") {
		op := p.next().text[0]
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = binNode{op: op, l: left, r: right}
	}
	return left, nil
}

// unary := ('-' | '+') unary | power
func (p *parser) unary() (node, error) {
	if p.isOp("-") || p.isOp("+") {
		t := p.next()
		if err := p.enter(t.pos); err != nil {
			return nil, err
		}
		defer p.leave()

		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		if t.text == "-" {
			return negNode{x: x}, nil
		}
		return x, nil
	}
	return p.power()
}

// power := primary ('^' unary)?
func (p *parser) power() (node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	t := p.next()
	if err := p.enter(t.pos); err != nil {
		return nil, err
	}
	defer p.leave()

	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return binNode{op: '^', l: base, r: exp}, nil
}

// primary := number | name | name '(' sum ')' | '(' sum ')'
func (p *parser) primary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		return numNode{v: t.num}, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			fn, ok := functions[t.text]
			if !ok {
				return nil, p.errorf(t.pos, "unknown function %q", t.text)
			}
			arg, err := p.group()
			if err != nil {
				return nil, err
			}
			return callNode{name: t.text, fn: fn, arg: arg}, nil
		}
		if v, ok := constants[t.text]; ok {
			return numNode{v: v}, nil
		}
		if _, ok := functions[t.text]; ok {
			return nil, p.errorf(p.peek().pos, "missing argument for %s", t.text)
		}
		p.vars[t.text] = struct{}{}
		return varNode{name: t.text}, nil
	case tokLParen:
		p.pos--
		return p.group()
	case tokEOF:
		return nil, p.errorf(t.pos, "unexpected end of input")
	default:
		return nil, p.errorf(t.pos, "unexpected %s", t.describe())
	}
}

// group := '(' sum ')'
func (p *parser) group() (node, error) {
	open := p.next()
	if err := p.enter(open.pos); err != nil {
		return nil, err
	}
	defer p.leave()

	if p.peek().kind == tokRParen {
		return nil, p.errorf(p.peek().pos, "empty parentheses")
	}
	x, err := p.sum()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokRParen {
		return nil, p.errorf(open.pos, "unbalanced parenthesis")
	}
	p.next()
	return x, nil
}

func (p *parser) sortedVars() []string {
	names := make([]string, 0, len(p.vars))
	for name := range p.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
