// Package visualiser animates the solution of a two-operand problem on a
// number line.
//
// A [Visualiser] owns one number line and one problem. [Visualiser.Animate]
// runs a precheck and then starts one [Run], an explicit state machine that
// advances on a single repeating timer:
//
//	stage -4  reveal "A"
//	stage -3  start marker and standing figure
//	stage -2  reveal "A op"
//	stage -1  figure turns towards the direction of travel
//	stage  0  reveal "A op B"
//	stage 1..N  one hop per stage, each drawn as a semicircle over several frames
//	stage N+1 reveal the full equation and stop
//
// The timer period is one frame (StepDuration / Frames). Stage boundaries fall
// on every Frames-th tick and the ticks in between advance the active hop.
//
// # Thread Safety
//
// A Visualiser allows at most one Run in flight. Animate returns
// [ErrAnimationInFlight] until the previous Run has finished.
package visualiser
