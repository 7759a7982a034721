// Package debounce coalesces bursts of triggers into a single action call.
//
// A burst is a run of triggers each closer than the delay to the next one.
// The action runs once per burst, delay after the last trigger, with the
// argument and execution context recorded by that last trigger:
//
//	d, err := debounce.New(300*time.Millisecond, reload)
//	...
//	d.Trigger() // t=0
//	d.Trigger() // t=100ms, reload runs at t=400ms
//
// Debouncer covers the fixed-delay variants: with no executor the action
// runs on the timer goroutine, and WithExecutor or an executor carried in the
// trigger's context pins it to a Loop or Pool. Param carries an argument and
// takes the delay and executor per trigger.
//
// The action is never called while internal locks are held, so it may
// trigger again. Panics raised by the action are not recovered.
package debounce
