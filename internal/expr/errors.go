package expr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrParse       = errors.New("expr: parse error")
	ErrUnknownName = errors.New("expr: unknown name")
	ErrDomain      = errors.New("expr: domain error")
)

// ParseError reports malformed expression text. Pos is a 0-based byte offset
// into Input.
type ParseError struct {
	Msg   string
	Pos   int
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("expr: %s at position %d", e.Msg, e.Pos)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// Caret renders the input with a marker under the failing position.
func (e *ParseError) Caret() string {
	pos := e.Pos
	if pos > len(e.Input) {
		pos = len(e.Input)
	}
	return e.Input + "\n" + strings.Repeat(" ", pos) + "^"
}

type EvalKind int

const (
	UnknownName EvalKind = iota
	DomainError
)

// EvalError reports a failed evaluation. For UnknownName, Name is the
// unbound variable; for DomainError it is the operator or function.
type EvalError struct {
	Kind EvalKind
	Name string
}

func (e *EvalError) Error() string {
	if e.Kind == UnknownName {
		return fmt.Sprintf("expr: unknown name %q", e.Name)
	}
	return fmt.Sprintf("expr: domain error in %s", e.Name)
}

func (e *EvalError) Unwrap() error {
	if e.Kind == UnknownName {
		return ErrUnknownName
	}
	return ErrDomain
}
