// Package api contains the HTTP delivery layer: request validation, the
// submit and status endpoints, the SSE event stream adapter, the WebSocket
// polling-loop adapter, and the synchronous parse endpoint.
package api
