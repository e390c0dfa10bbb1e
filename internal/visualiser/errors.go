package visualiser

import "errors"

var (
	// ErrAnimationInFlight is returned when Animate is called while a Run is active.
	ErrAnimationInFlight = errors.New("visualiser: animation already in flight")

	// ErrAnswerDoesNotFit indicates the result lies outside the labeled range.
	// The "does not fit" message has already been drawn when it is returned.
	ErrAnswerDoesNotFit = errors.New("visualiser: answer does not fit on the number line")

	// ErrOperandOutOfBounds indicates the first operand is not on the line.
	ErrOperandOutOfBounds = errors.New("visualiser: first operand is not on the number line")

	// ErrNotAnimatable indicates an operator other than add or subtract.
	ErrNotAnimatable = errors.New("visualiser: only addition and subtraction can be animated")

	// ErrUnevenFrames indicates Frames does not divide StepDuration, which
	// would let stage boundaries drift from multiples of StepDuration.
	ErrUnevenFrames = errors.New("visualiser: frames must divide the step duration")
)
