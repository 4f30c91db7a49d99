// Package app assembles the web server: configuration, logging,
// telemetry, the websocket hub, the pipeline manager, and the HTTP
// router, with graceful startup and shutdown.
package app
