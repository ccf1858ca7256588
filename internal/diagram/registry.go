package diagram

import (
	"sort"

	"sld-editor/pkg/apperrors"
	"sld-editor/pkg/geometry"
)

// ViewState is one open tab: a camera plus the single-shot deferred
// action used to fit content once the viewport has been laid out.
type ViewState struct {
	ID     ViewID
	Camera *Camera

	deferred func()
}

// Defer schedules fn to run after the view's next layout pass.
// Re-issuing replaces any action still pending; this is a one-slot
// deferral, not a scheduler.
func (v *ViewState) Defer(fn func()) {
	v.deferred = fn
}

// ResolveDeferred runs and clears the pending action, if any. The
// renderer calls this once the viewport size is known.
func (v *ViewState) ResolveDeferred() {
	if v.deferred == nil {
		return
	}
	fn := v.deferred
	v.deferred = nil
	fn()
}

// Registry maps the layout view and each opened location to its own
// independent view state. Cameras are never shared between tabs.
type Registry struct {
	views  map[ViewID]*ViewState
	canvas geometry.Size

	minZoom float64
	maxZoom float64
}

// NewRegistry creates a registry producing cameras with the given
// logical canvas extent and zoom bounds.
func NewRegistry(canvas geometry.Size, minZoom, maxZoom float64) *Registry {
	return &Registry{
		views:   make(map[ViewID]*ViewState),
		canvas:  canvas,
		minZoom: minZoom,
		maxZoom: maxZoom,
	}
}

// Open returns the view for id, creating it on first use. The layout
// view gets an origin-anchored camera; location views anchor at their
// canvas center.
func (r *Registry) Open(id ViewID) *ViewState {
	if v, ok := r.views[id]; ok {
		return v
	}
	var cam *Camera
	if id == LayoutViewID {
		cam = NewLayoutCamera(r.canvas, r.minZoom, r.maxZoom)
	} else {
		cam = NewLocationCamera(r.canvas, r.minZoom, r.maxZoom)
	}
	v := &ViewState{ID: id, Camera: cam}
	r.views[id] = v
	return v
}

// Get returns an already-open view.
func (r *Registry) Get(id ViewID) (*ViewState, error) {
	v, ok := r.views[id]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "view %d is not open", id)
	}
	return v, nil
}

// Close discards a view's state when its tab closes.
func (r *Registry) Close(id ViewID) {
	delete(r.views, id)
}

// Open-view ids in stable order, for renderers that refresh every tab.
func (r *Registry) OpenViews() []ViewID {
	ids := make([]ViewID, 0, len(r.views))
	for id := range r.views {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
