package youtube

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned before any network access when the query
	// or options cannot be used to build a request.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedFormat means the input to CutAfterJSON did not start with { or [.
	ErrUnsupportedFormat = errors.New("can't cut unsupported JSON (need to begin with [ or { )")

	// ErrUnbalancedBrackets means the input ended before the opening bracket was closed.
	ErrUnbalancedBrackets = errors.New("can't cut unsupported JSON (no matching closing bracket found)")

	// ErrUnableToLocatePayload is returned once the payload retry budget is spent.
	ErrUnableToLocatePayload = errors.New("unable to find ytInitialData")

	// ErrInvalidContinuation is returned by Continue for a malformed resume handle.
	ErrInvalidContinuation = errors.New("invalid continuation")

	errMarkerNotFound = errors.New("marker not found")
)

// UpstreamError carries the message of an alert block YouTube returned
// in place of search results.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return "received error in ytInitialData: " + e.Message
}

// UnknownRendererError is returned by Classify for a renderer type it has no
// mapping for. Parent is set when the unknown type was nested in a known one.
type UnknownRendererError struct {
	Type   string
	Parent string
}

func (e *UnknownRendererError) Error() string {
	if e.Parent != "" {
		return fmt.Sprintf("unknown renderer type %q in %s", e.Type, e.Parent)
	}
	return fmt.Sprintf("unknown renderer type %q", e.Type)
}

// MalformedItemError is returned by Classify when a known renderer lacks a
// field its mapping cannot do without.
type MalformedItemError struct {
	Type  string
	Field string
	Err   error
}

func (e *MalformedItemError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s: %s: %v", e.Type, e.Field, e.Err)
	}
	return fmt.Sprintf("malformed %s: missing %s", e.Type, e.Field)
}

func (e *MalformedItemError) Unwrap() error { return e.Err }

func invalidContinuation(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidContinuation, field, reason)
}
