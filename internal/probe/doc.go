// Package probe runs batches of simulated network requests concurrently and
// reports the mean latency of the ones that succeed.
//
// A run launches one goroutine per task. Each task draws a target latency, then
// advances in fixed steps; at every step it checks for cancellation and draws a
// fixed-probability failure. The run joins all tasks before computing its result,
// so a partial aggregate is never published. A run whose tasks all failed
// completes with an explicit "no data" result rather than a numeric mean.
package probe
