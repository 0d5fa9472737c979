package server

import "fmt"

// The error kinds below implement §7's taxonomy. Per-client errors are
// contained: none of them ever affect other clients (§7 Propagation
// policy). Layer-level errors cannot exist because layer operations are
// infallible once their components exist; application misuses are logged
// and ignored rather than returned up the call stack.

// ProtocolViolation is a fatal per-client error: an unexpected keepalive, a
// mismatched teleport id, a click with a wrong window id, or a decode
// failure. The client is disconnected, with Reason sent as a Disconnect
// packet if the connection can still accept one.
type ProtocolViolation struct {
	Reason string
}

func (e *ProtocolViolation) Error() string { return e.Reason }

// TransientIOError wraps a per-connection I/O failure. Per §7.3 these are
// always treated as a disconnect, never retried.
type TransientIOError struct {
	Err error
}

func (e *TransientIOError) Error() string { return fmt.Sprintf("transient io error: %v", e.Err) }
func (e *TransientIOError) Unwrap() error { return e.Err }

// ConfigError is a fatal startup error (§7.4): the server refuses to start.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config: " + e.Reason }

// logApplicationMisuse reports kind-2 errors per §7: application misuses
// such as inserting a chunk into a non-existent layer are logged and
// ignored, never allowed to crash the server.
func (s *Server) logApplicationMisuse(context string, err error) {
	if err == nil {
		return
	}
	s.conf.Log.Warn("application misuse", "context", context, "error", err)
}
