package problem

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOperator is returned for symbols outside + - × ÷.
var ErrUnknownOperator = errors.New("problem: unknown operator")

type Operator int

const (
	Add Operator = iota + 1
	Subtract
	Multiply
	Divide
)

func (o Operator) String() string {
	switch o {
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	case Divide:
		return "divide"
	}
	return fmt.Sprintf("operator(%d)", int(o))
}

// Symbol is the sign shown in the expression.
func (o Operator) Symbol() string {
	switch o {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	}
	return ""
}

// ParseOperator accepts a symbol or an operator name.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "add", "plus":
		return Add, nil
	case "-", "subtract", "minus":
		return Subtract, nil
	case "×", "*", "x", "multiply", "times":
		return Multiply, nil
	case "÷", "/", "divide":
		return Divide, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperator, s)
}
