// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package cmdbuf

// State is the state of a Recorder.
type State int

// Recorder states.
const (
	// No command has been recorded yet.
	Initial State = iota
	// Recording outside of a render pass.
	Outside
	// Recording inside a subpass of a render pass.
	// Recorder.Subpass identifies the subpass.
	Inside
	// Finished successfully. No further command can be
	// recorded.
	Executable
	// Poisoned by a sequencing error, or discarded.
	// This state is terminal.
	Invalid
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Initial:
		return "initial"
	case Outside:
		return "outside render pass"
	case Inside:
		return "inside render pass"
	case Executable:
		return "executable"
	case Invalid:
		return "invalid"
	}
	return "unknown state"
}
