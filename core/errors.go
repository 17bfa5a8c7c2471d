package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is a sentinel error for "not found" cases
	ErrNotFound = errors.New("not found")

	// ErrHostCallFailed marks a host call that could not complete
	ErrHostCallFailed = errors.New("host call failed")

	// ErrWatchRejected marks a watch registration the host refused
	ErrWatchRejected = errors.New("watch rejected")

	// ErrMalformedEvent marks an event whose payload cannot be handled
	ErrMalformedEvent = errors.New("malformed event")
)

// HostCallError wraps the failure of a single outbound host call
type HostCallError struct {
	Call string // react, watch_message or send_message
	Err  error
}

func (e *HostCallError) Error() string {
	return fmt.Sprintf("`%s` host call failed: %v", e.Call, e.Err)
}

func (e *HostCallError) Unwrap() error {
	return e.Err
}

func (e *HostCallError) Is(target error) bool {
	return target == ErrHostCallFailed
}

// IsHostCallError checks if an error is a HostCallError
func IsHostCallError(err error) (*HostCallError, bool) {
	var hostErr *HostCallError
	if errors.As(err, &hostErr) {
		return hostErr, true
	}
	return nil, false
}

// WatchRejectedError is returned when watch_message completes with a nonzero error code
type WatchRejectedError struct {
	MessageID string
	ErrorCode int
	Reason    string // optional error payload from the host
}

func (e *WatchRejectedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("failed to watch message %s: error_code=%d: %s", e.MessageID, e.ErrorCode, e.Reason)
	}
	return fmt.Sprintf("failed to watch message %s: error_code=%d", e.MessageID, e.ErrorCode)
}

func (e *WatchRejectedError) Is(target error) bool {
	return target == ErrWatchRejected
}

// IsWatchRejectedError checks if an error is a WatchRejectedError
func IsWatchRejectedError(err error) (*WatchRejectedError, bool) {
	var watchErr *WatchRejectedError
	if errors.As(err, &watchErr) {
		return watchErr, true
	}
	return nil, false
}

// MalformedEventError is returned when an event cannot be decoded or its routed payload is unusable
type MalformedEventError struct {
	Kind   string
	Reason string
	Err    error
}

func (e *MalformedEventError) Error() string {
	msg := fmt.Sprintf("malformed %q event: %s", e.Kind, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedEventError) Unwrap() error {
	return e.Err
}

func (e *MalformedEventError) Is(target error) bool {
	return target == ErrMalformedEvent
}

// IsMalformedEventError checks if an error is a MalformedEventError
func IsMalformedEventError(err error) (*MalformedEventError, bool) {
	var malformedErr *MalformedEventError
	if errors.As(err, &malformedErr) {
		return malformedErr, true
	}
	return nil, false
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
