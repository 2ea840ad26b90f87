package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrTransient marks network-level failures (timeouts, resets, refused
// connections). Read-only polls may retry on the next tick; mutating
// actions must never be retried automatically.
var ErrTransient = errors.New("transient network error")

// ProtocolError means the engine answered but the response shape or
// content was not usable. The offending payload is discarded; it never
// reaches history or the feed.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("engine protocol error in %s: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the engine, carrying the engine's
// own detail text. For mutating endpoints this is an action rejection and
// the detail is surfaced to the operator verbatim.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("engine returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("engine rejected request (status %d): %s", e.StatusCode, e.Detail)
}

// wrapTransport classifies a transport-level error. Context timeouts and
// net errors become ErrTransient; context cancellation passes through so
// teardown is not mistaken for a network fault.
func wrapTransport(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %v", op, ErrTransient, err)
	}
	// url.Error wraps everything the transport can produce; anything the
	// client cannot name specifically is still only a failed poll.
	return fmt.Errorf("%s: %w: %v", op, ErrTransient, err)
}
