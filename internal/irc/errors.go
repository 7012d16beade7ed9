package irc

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by command methods invoked without an open
// connection. No network I/O is attempted.
var ErrNotConnected = errors.New("not connected to a server")

// TransportError wraps a socket or TLS failure. It is always fatal to the
// current connection; the engine never retries internally.
type TransportError struct {
	Op  string // "connect", "tls handshake", "read", "write"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports a malformed or oversized line. It is never fatal:
// the receive loop logs it and keeps going.
type ProtocolError struct {
	Line   string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol: %s: %q", e.Reason, e.Line)
}

// AuthError reports a rejected credential or failed SASL exchange. The
// login attempt is dead, but the transport may still be usable, so callers
// can retry with different credentials without reconnecting.
type AuthError struct {
	Numeric int    // failure numeric, 0 if none was seen
	Reason  string
}

func (e *AuthError) Error() string {
	if e.Numeric != 0 {
		return fmt.Sprintf("auth: %s (%d %s)", e.Reason, e.Numeric, NumericName(e.Numeric))
	}
	return "auth: " + e.Reason
}

// UsageError reports a command invoked with missing required arguments.
// It is rejected synchronously, before any network I/O.
type UsageError struct {
	Command string
	Missing string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: missing required parameter %s", e.Command, e.Missing)
}
