// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It adapts the per-user ticker and probe sessions
// to JSON endpoints and websocket streams.
package api
