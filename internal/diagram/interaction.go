package diagram

import (
	"sld-editor/internal/model"
	"sld-editor/pkg/geometry"
)

// Phase is the interaction state of the currently tracked entity.
type Phase int

const (
	// PhaseIdle: nothing selected.
	PhaseIdle Phase = iota
	// PhaseSelected: one entity selected, not moving.
	PhaseSelected
	// PhaseDragging: the selected entity follows the pointer.
	PhaseDragging
)

// Interaction is the single process-wide selection and drag state
// machine. At most one entity of one kind is tracked at a time;
// selecting another entity of any kind replaces it. A drag always ends
// back in PhaseSelected, never in PhaseIdle.
//
// Transitions:
//
//	Press on unselected entity   Idle/Selected(other) -> Selected(this)
//	Press on selected entity     Selected(this)       -> Dragging(this)
//	Move while dragging          entity tracks pointer, model untouched
//	Release while dragging       Dragging(this)       -> Selected(this), commit
//	Background press             any (no drag active) -> Idle
type Interaction struct {
	phase Phase
	kind  model.Kind
	block model.BlockID

	// grab is the press point's offset inside the entity, in screen
	// units, so the entity does not jump to the cursor on drag start.
	grab geometry.Point2D
	// live is the entity's current screen center while dragging.
	live geometry.Point2D
}

// NewInteraction returns the state machine in PhaseIdle.
func NewInteraction() *Interaction {
	return &Interaction{}
}

// Phase returns the current phase.
func (in *Interaction) Phase() Phase { return in.phase }

// Selected returns the tracked block and true unless idle.
func (in *Interaction) Selected() (model.BlockID, model.Kind, bool) {
	if in.phase == PhaseIdle {
		return 0, "", false
	}
	return in.block, in.kind, true
}

// DragActive reports whether a drag holds pointer capture. View panning
// must be suppressed while it does.
func (in *Interaction) DragActive() bool {
	return in.phase == PhaseDragging
}

// Press handles a pointer press on an entity. entityPos is the entity's
// current screen center, pressPos the pointer position. It returns true
// when the press started a drag (press on the already-selected entity).
func (in *Interaction) Press(block model.BlockID, kind model.Kind, entityPos, pressPos geometry.Point2D) bool {
	if in.phase == PhaseSelected && in.block == block {
		in.phase = PhaseDragging
		in.grab = pressPos.Sub(entityPos)
		in.live = entityPos
		return true
	}
	in.phase = PhaseSelected
	in.block = block
	in.kind = kind
	return false
}

// Move advances a drag to the given pointer position and returns the
// entity's new screen center. Ignored unless dragging.
func (in *Interaction) Move(pointer geometry.Point2D) (geometry.Point2D, bool) {
	if in.phase != PhaseDragging {
		return geometry.Point2D{}, false
	}
	in.live = pointer.Sub(in.grab)
	return in.live, true
}

// Live returns the dragged entity's current screen center. False
// unless a drag is active.
func (in *Interaction) Live() (geometry.Point2D, bool) {
	if in.phase != PhaseDragging {
		return geometry.Point2D{}, false
	}
	return in.live, true
}

// Release ends a drag, returning the final screen center for the caller
// to convert through the view's camera and persist on the block. The
// machine returns to PhaseSelected with the same entity.
func (in *Interaction) Release(pointer geometry.Point2D) (geometry.Point2D, bool) {
	if in.phase != PhaseDragging {
		return geometry.Point2D{}, false
	}
	in.live = pointer.Sub(in.grab)
	in.phase = PhaseSelected
	return in.live, true
}

// BackgroundPress handles a press on empty canvas: deselect-all. A
// press that arrives while a drag is active is ignored; the drag owns
// pointer capture until release.
func (in *Interaction) BackgroundPress() {
	if in.phase == PhaseDragging {
		return
	}
	in.phase = PhaseIdle
	in.block = 0
	in.kind = ""
}

// Clear unconditionally resets to idle, used when the tracked entity is
// deleted out from under the selection.
func (in *Interaction) Clear() {
	in.phase = PhaseIdle
	in.block = 0
	in.kind = ""
}
