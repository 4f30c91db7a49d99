// Package http wires the chi router, middleware chain, and JSON handlers
// for the dashboard API: report data, operation control, health, metrics,
// and the websocket upgrade endpoint.
package http
