package numberline

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds indicates a value with no position on the line.
	ErrOutOfBounds = errors.New("numberline: value out of bounds")

	// ErrInvalidRange indicates a construction with min >= max.
	ErrInvalidRange = errors.New("numberline: min must be less than max")

	// ErrInvalidGeometry indicates a non-positive width or scale.
	ErrInvalidGeometry = errors.New("numberline: width and scale must be positive")
)

// BoundsError reports the value and the inclusive range it missed.
type BoundsError struct {
	Value  int
	Lo, Hi int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%d is outside of the bounds [%d, %d]", e.Value, e.Lo, e.Hi)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}
