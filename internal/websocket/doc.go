// Package websocket pushes pipeline progress events to connected dashboard
// clients over a single broadcast hub.
package websocket
