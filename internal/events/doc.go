// Package events provides the replay-latest state holder that components use to
// publish their state to observers.
//
// A State keeps a single current value. Emitting replaces the value and delivers it
// to every registered observer; a new observer immediately receives the current
// value and then every later emission, in order. Owners publish through State
// without knowing who is observing, which keeps control code (tickers, probes,
// login flows) decoupled from the transports that stream their state.
package events
