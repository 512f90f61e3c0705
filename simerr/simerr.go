// Package simerr defines the error kinds raised by the netlist loader and
// the wire calculator: MalformedNetlist, UnknownWire, and DidNotConverge.
//
// Each kind has a sentinel value usable with errors.Is, and a detail-typed
// wrapper that keeps context alongside the sentinel: MalformedNetlistError
// carries a github.com/pkg/errors chain (which segment failed to parse),
// UnknownWireError the missing wire name, and DidNotConvergeError how many
// steps were run.
package simerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors. Match against these with errors.Is.
var (
	ErrMalformedNetlist = errors.New("malformed netlist")
	ErrUnknownWire      = errors.New("unknown wire")
	ErrDidNotConverge   = errors.New("did not converge")
)

// MalformedNetlistError wraps ErrMalformedNetlist with parse context.
type MalformedNetlistError struct {
	cause error
}

func (e *MalformedNetlistError) Error() string { return "malformed netlist: " + e.cause.Error() }
func (e *MalformedNetlistError) Unwrap() error { return ErrMalformedNetlist }
func (e *MalformedNetlistError) Cause() error  { return e.cause }

// NewMalformedNetlist wraps msg (and optional formatting args) as a
// MalformedNetlistError.
func NewMalformedNetlist(format string, args ...interface{}) error {
	return &MalformedNetlistError{cause: errors.Errorf(format, args...)}
}

// WrapMalformedNetlist wraps an existing error as a MalformedNetlistError,
// preserving err's chain via github.com/pkg/errors.Wrap.
func WrapMalformedNetlist(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &MalformedNetlistError{cause: errors.Wrap(err, msg)}
}

// UnknownWireError wraps ErrUnknownWire with the offending wire name.
type UnknownWireError struct {
	Name string
}

func (e *UnknownWireError) Error() string { return fmt.Sprintf("unknown wire %q", e.Name) }
func (e *UnknownWireError) Unwrap() error { return ErrUnknownWire }

// NewUnknownWire builds an UnknownWireError for the given wire name.
func NewUnknownWire(name string) error {
	return &UnknownWireError{Name: name}
}

// DidNotConvergeError wraps ErrDidNotConverge with iteration diagnostics.
type DidNotConvergeError struct {
	Steps        int
	PendingWires int
}

func (e *DidNotConvergeError) Error() string {
	return fmt.Sprintf("did not converge after %d steps (%d wires still pending)", e.Steps, e.PendingWires)
}
func (e *DidNotConvergeError) Unwrap() error { return ErrDidNotConverge }

// NewDidNotConverge builds a DidNotConvergeError.
func NewDidNotConverge(steps, pendingWires int) error {
	return &DidNotConvergeError{Steps: steps, PendingWires: pendingWires}
}
