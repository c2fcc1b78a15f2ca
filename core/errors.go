package core

import (
	"errors"
	"fmt"
)

// Port failure kinds. Backends report failures as *PortError carrying one of
// these, and protocol writers pass them through untouched.
var (
	ErrPortUnavailable = errors.New("port unavailable")
	ErrPortIO          = errors.New("port I/O failure")
)

var (
	// ErrBusyTimeout is returned only when Timing.BusyPollLimit is set and the
	// busy flag never cleared within the limit
	ErrBusyTimeout = errors.New("busy flag did not clear")

	// ErrNoCommandChannel is returned when a command byte is sent through a
	// protocol without a command/data distinction
	ErrNoCommandChannel = errors.New("protocol has no command channel")

	ErrUnknownProtocol   = errors.New("unknown protocol")
	ErrUnknownController = errors.New("unknown controller")
)

// PortError describes a failed register operation on a port backend.
type PortError struct {
	Op   string // register operation, e.g. "write data", "open"
	Kind error  // ErrPortUnavailable or ErrPortIO
	Err  error  // underlying cause, may be nil
}

func (e *PortError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *PortError) Unwrap() error {
	return e.Err
}

// Is matches the failure kind, so errors.Is(err, ErrPortIO) works on any
// error returned by a writer.
func (e *PortError) Is(target error) bool {
	return target == e.Kind
}

// IOError wraps err as a register I/O failure during op.
func IOError(op string, err error) error {
	return &PortError{Op: op, Kind: ErrPortIO, Err: err}
}

// UnavailableError wraps err as an unavailable port during op.
func UnavailableError(op string, err error) error {
	return &PortError{Op: op, Kind: ErrPortUnavailable, Err: err}
}
