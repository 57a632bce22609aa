// Package ticker implements a cancellable elapsed-time counter.
//
// A Ticker advances its accumulated duration by a fixed interval on every tick
// while it is running. Increments are nominal rather than measured, so the
// accumulated value after k ticks is exactly k intervals regardless of scheduler
// jitter. State is published through an events.State, and the accumulated value
// can be saved and restored across sessions.
package ticker
