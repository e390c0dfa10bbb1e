// Package schedule provides the host timers that drive animations.
//
// A [Scheduler] offers a repeating timer and a one-shot delayed callback.
// Every implementation runs callbacks on a single logical timeline: two
// callbacks scheduled by the same Scheduler never run at the same time.
//
//   - [Virtual]: manually advanced clock for tests, headless export and the TUI
//   - [Realtime]: wall-clock timers backed by the time package
package schedule
