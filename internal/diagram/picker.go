package diagram

import (
	"sld-editor/internal/model"
)

// PickOutcome describes what an anchor click did.
type PickOutcome int

const (
	// PickStored: first pick, anchor held pending.
	PickStored PickOutcome = iota
	// PickCancelled: same anchor clicked again, slot cleared.
	PickCancelled
	// PickConnected: second pick, connection added.
	PickConnected
	// PickRejected: second pick, model refused the connection.
	PickRejected
)

// Picker implements the two-click connection protocol: a single
// process-wide slot holding at most one pending terminal pick. The slot
// is deliberately the only owner of this state; renderers query it for
// highlighting but never mutate it.
type Picker struct {
	pending model.TerminalID
	has     bool
}

// NewPicker returns an empty picker.
func NewPicker() *Picker {
	return &Picker{}
}

// Pending returns the held terminal while a first pick is pending.
func (k *Picker) Pending() (model.TerminalID, bool) {
	return k.pending, k.has
}

// Click feeds an anchor click into the protocol. On the second pick it
// attempts the connection against the project; the returned error is
// non-nil only for PickRejected and is safe to show to the user. In
// every terminal outcome the slot ends up empty and the model is only
// mutated on PickConnected.
func (k *Picker) Click(p *model.Project, terminal model.TerminalID) (PickOutcome, error) {
	if !k.has {
		k.pending = terminal
		k.has = true
		return PickStored, nil
	}

	if k.pending == terminal {
		k.Clear()
		return PickCancelled, nil
	}

	first := k.pending
	k.Clear()
	if err := p.AddConnection(first, terminal); err != nil {
		return PickRejected, err
	}
	return PickConnected, nil
}

// Clear empties the slot, used on background clicks and view switches.
func (k *Picker) Clear() {
	k.pending = 0
	k.has = false
}
