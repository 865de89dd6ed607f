package provider

import (
	"context"
	"errors"
	"fmt"
	"net"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
)

// Kind classifies why a provider could not produce a result
type Kind string

const (
	KindUnavailable Kind = "unavailable"
	KindTimeout     Kind = "timeout"
	KindMalformed   Kind = "malformed"
	KindNotFound    Kind = "not_found"
)

// Sentinels for errors.Is checks against a provider error's kind
var (
	ErrUnavailable = &kindError{KindUnavailable}
	ErrTimeout     = &kindError{KindTimeout}
	ErrMalformed   = &kindError{KindMalformed}
	ErrNotFound    = &kindError{KindNotFound}
)

type kindError struct {
	kind Kind
}

func (e *kindError) Error() string {
	return string(e.kind)
}

// Error is a failure reported by a provider
type Error struct {
	Provider hanzi.ProviderID
	Kind     Kind
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels, so errors.Is(err, ErrMalformed) holds
// for any *Error of KindMalformed
func (e *Error) Is(target error) bool {
	k, ok := target.(*kindError)
	return ok && k.kind == e.Kind
}

func newError(p hanzi.ProviderID, kind Kind, format string, args ...any) *Error {
	return &Error{Provider: p, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// callError wraps a transport or SDK error, telling timeouts apart from
// other failures
func callError(p hanzi.ProviderID, err error) *Error {
	return &Error{Provider: p, Kind: Classify(err), Err: err}
}

// Classify maps any error to a Kind. Provider errors keep their kind,
// deadline and cancellation errors become KindTimeout, everything else
// is KindUnavailable.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}

	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	return KindUnavailable
}
