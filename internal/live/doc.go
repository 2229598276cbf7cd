// Package live runs component trees on the server and mirrors them to
// browsers over WebSocket.
//
// Each connection gets its own scheduler and DOM root. Whenever the
// scheduler goes idle the root markup is sent to the browser as
//
//	{"type": "html", "html": "..."}
//
// Browsers send events as
//
//	{"event": "onclick", "id": "inc", "value": ""}
//
// which run the handler registered on the element with that id. Events
// beyond the configured rate are answered with an error message and
// dropped.
package live
