package react

import "fmt"

// ObservationKind classifies an Observation.
type ObservationKind int

const (
	ObservationToolOutput ObservationKind = iota + 1
	ObservationToolError
	ObservationUnknownTool
	ObservationInvalidArguments
	ObservationMalformedStep
)

func (k ObservationKind) String() string {
	switch k {
	case ObservationToolOutput:
		return "tool_output"
	case ObservationToolError:
		return "tool_error"
	case ObservationUnknownTool:
		return "unknown_tool"
	case ObservationInvalidArguments:
		return "invalid_arguments"
	case ObservationMalformedStep:
		return "malformed_step"
	default:
		return fmt.Sprintf("ObservationKind(%d)", int(k))
	}
}

// Observation is what the loop feeds back to the provider after a non-final
// step. Err keeps the underlying cause for logging; it is never returned.
type Observation struct {
	Text string
	Err  error
	Kind ObservationKind
}

// Entry pairs a step with its observation. Observation is nil for the finish step.
type Entry struct {
	Index       int
	Step        Step
	Observation *Observation
}

// Transcript is the append-only history of one run. Only the loop appends to
// it; everything else gets read access.
type Transcript struct {
	entries []Entry
}

func (t *Transcript) append(step Step, obs *Observation) Entry {
	e := Entry{Index: len(t.entries), Step: step, Observation: obs}
	t.entries = append(t.entries, e)
	return e
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the entries in order.
func (t *Transcript) Entries() []Entry {
	if t == nil {
		return nil
	}
	return append([]Entry(nil), t.entries...)
}

// At returns the entry at index i.
func (t *Transcript) At(i int) (Entry, bool) {
	if t == nil || i < 0 || i >= len(t.entries) {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Last returns the most recent entry.
func (t *Transcript) Last() (Entry, bool) {
	return t.At(t.Len() - 1)
}
