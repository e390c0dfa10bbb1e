package visualiser

import (
	"fmt"

	"github.com/san-kum/numhop/internal/problem"
)

type Direction int

const (
	Right Direction = iota + 1
	Left
)

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Left:
		return "left"
	}
	return "none"
}

// Sign is +1 for Right and -1 for Left.
func (d Direction) Sign() int {
	if d == Left {
		return -1
	}
	return 1
}

// HopDirection picks the direction of travel from the operator and the sign
// of the second operand.
func HopDirection(op problem.Operator, b int) (Direction, error) {
	switch {
	case op == problem.Add && b >= 0, op == problem.Subtract && b < 0:
		return Right, nil
	case op == problem.Add && b < 0, op == problem.Subtract && b >= 0:
		return Left, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrNotAnimatable, op)
}
