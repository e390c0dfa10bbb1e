// Package input turns what a user typed into a validated problem request.
// Operands must be integers; the operator may be a symbol or its name.
package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/san-kum/numhop/internal/problem"
)

var (
	ErrEmpty      = errors.New("input: field is empty")
	ErrNotInteger = errors.New("input: operand is not an integer")
	ErrMalformed  = errors.New("input: malformed expression")
)

// FieldError names the field that failed to parse.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

type Request struct {
	A  int
	Op problem.Operator
	B  int
}

func (r Request) String() string {
	return fmt.Sprintf("%d %s %d", r.A, r.Op.Symbol(), r.B)
}

// Problem places the request at (x, y) in the given font size.
func (r Request) Problem(x, y, fontSize float64) *problem.Problem {
	return problem.New(x, y, r.Op, r.A, r.B, fontSize)
}

// Parse validates the three form fields.
func Parse(a, op, b string) (Request, error) {
	var req Request
	var err error

	if req.A, err = operand("a", a); err != nil {
		return Request{}, err
	}
	if strings.TrimSpace(op) == "" {
		return Request{}, &FieldError{Field: "operator", Value: op, Err: ErrEmpty}
	}
	if req.Op, err = problem.ParseOperator(op); err != nil {
		return Request{}, &FieldError{Field: "operator", Value: op, Err: err}
	}
	if req.B, err = operand("b", b); err != nil {
		return Request{}, err
	}
	return req, nil
}

func operand(field, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &FieldError{Field: field, Value: s, Err: ErrEmpty}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &FieldError{Field: field, Value: s, Err: ErrNotInteger}
	}
	return n, nil
}

// ParseExpression reads "A op B" with or without spaces, e.g. "3+5" or
// "2 - -7".
func ParseExpression(s string) (Request, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Request{}, fmt.Errorf("%w: empty", ErrMalformed)
	}

	i := 0
	if s[0] == '-' || s[0] == '+' {
		i++
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	a := s[:i]

	rest := strings.TrimLeftFunc(s[i:], unicode.IsSpace)
	if rest == "" {
		return Request{}, fmt.Errorf("%w: missing operator in %q", ErrMalformed, s)
	}

	// Operators are either a single symbol or a word.
	var op string
	if r, size := utf8.DecodeRuneInString(rest); unicode.IsLetter(r) && r != 'x' {
		end := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsLetter(r) })
		if end < 0 {
			end = len(rest)
		}
		op = rest[:end]
	} else {
		op = rest[:size]
	}
	b := rest[len(op):]

	return Parse(a, op, b)
}

// ParseArgs accepts either a single expression argument or three separate
// arguments.
func ParseArgs(args []string) (Request, error) {
	switch len(args) {
	case 1:
		return ParseExpression(args[0])
	case 3:
		return Parse(args[0], args[1], args[2])
	}
	return Request{}, fmt.Errorf("%w: expected \"A OP B\", got %d arguments", ErrMalformed, len(args))
}
