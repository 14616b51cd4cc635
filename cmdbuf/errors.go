// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package cmdbuf

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Errors returned by Recorder methods.
var (
	// Every error returned by a poisoned Recorder
	// matches ErrPoisoned.
	ErrPoisoned = errors.New("cmdbuf: recorder is poisoned")
	// ErrFinished is returned when recording into a
	// Recorder that was already finished.
	ErrFinished = errors.New("cmdbuf: recorder is finished")
	// ErrDiscarded is the cause of the errors returned
	// by a discarded Recorder.
	ErrDiscarded = errors.New("cmdbuf: recorder was discarded")
	// ErrNilCommand is returned by Append when the
	// command is nil.
	ErrNilCommand = errors.New("cmdbuf: nil command")
)

// StateError describes a sequencing error: a command (or
// Finish) issued in a state that does not allow it.
// Returning a StateError poisons the Recorder.
//
// Errors returned by an already poisoned Recorder are also
// of this type, with State set to Invalid and Err set to
// the error that poisoned it. Such errors match
// ErrPoisoned.
type StateError struct {
	// Command is the name of the offending command, or
	// "Finish".
	Command string
	// State and Subpass describe the state of the
	// Recorder. Subpass is -1 unless State is Inside.
	// A Recorder in the Initial state checks commands as
	// if it were Outside, or Inside the continued subpass
	// for continuation buffers, but reports Initial.
	State   State
	Subpass int
	// Reason describes the violation.
	Reason string
	// Err is the underlying error, if any.
	Err error
}

func (e *StateError) Error() string {
	if e.State == Invalid {
		return fmt.Sprintf("cmdbuf: %s: recorder is poisoned: %v", e.Command, e.Err)
	}
	state := e.State.String()
	if e.State == Inside {
		state = fmt.Sprintf("%s (subpass %d)", state, e.Subpass)
	}
	s := fmt.Sprintf("cmdbuf: %s: %s [%s]", e.Command, e.Reason, state)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns e.Err.
func (e *StateError) Unwrap() error { return e.Err }

// Is reports whether target is ErrPoisoned and e was
// returned by a poisoned Recorder.
func (e *StateError) Is(target error) bool {
	return target == ErrPoisoned && e.State == Invalid
}
