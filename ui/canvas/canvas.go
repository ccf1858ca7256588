// Package canvas provides the diagram canvas with pan, zoom, selection,
// drag, and terminal picking.
package canvas

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"sld-editor/internal/app"
	"sld-editor/internal/diagram"
	"sld-editor/internal/model"
	"sld-editor/pkg/geometry"
)

// dragMode tracks what the current drag gesture is doing.
type dragMode int

const (
	dragNone dragMode = iota
	dragEntity
	dragPan
	// dragIgnore consumes the rest of a gesture that selected a fresh
	// entity or pressed an undraggable row.
	dragIgnore
)

// DiagramCanvas renders one diagram view and routes pointer input into
// the shared interaction and picker state machines. Every open tab has
// its own canvas and camera; the interaction and picker are shared so
// selection stays exclusive across tabs.
type DiagramCanvas struct {
	widget.BaseWidget

	state    *app.State
	view     diagram.ViewID
	vs       *diagram.ViewState
	interact *diagram.Interaction
	picker   *diagram.Picker

	raster *fynecanvas.Raster

	mode        dragMode
	lastPointer geometry.Point2D

	// Callbacks
	onStatus       func(msg string)
	onOpenLocation func(id model.BlockID)
}

// NewDiagramCanvas creates a canvas for the given view. The interaction
// and picker come from the main window so they are shared across views.
func NewDiagramCanvas(state *app.State, view diagram.ViewID, interact *diagram.Interaction, picker *diagram.Picker) *DiagramCanvas {
	dc := &DiagramCanvas{
		state:    state,
		view:     view,
		vs:       state.Views.Open(view),
		interact: interact,
		picker:   picker,
	}
	dc.raster = fynecanvas.NewRaster(dc.draw)
	dc.raster.ScaleMode = fynecanvas.ImageScalePixels
	dc.ExtendBaseWidget(dc)
	return dc
}

// View returns the view id this canvas renders.
func (dc *DiagramCanvas) View() diagram.ViewID { return dc.view }

// OnStatus sets a callback for one-line status messages.
func (dc *DiagramCanvas) OnStatus(callback func(msg string)) {
	dc.onStatus = callback
}

// OnOpenLocation sets a callback fired when a location is double-clicked
// in the layout view.
func (dc *DiagramCanvas) OnOpenLocation(callback func(id model.BlockID)) {
	dc.onOpenLocation = callback
}

func (dc *DiagramCanvas) status(format string, args ...any) {
	if dc.onStatus != nil {
		dc.onStatus(fmt.Sprintf(format, args...))
	}
}

// FitToContent fits the camera to the view's content, deferring until
// the viewport has been laid out if necessary.
func (dc *DiagramCanvas) FitToContent() {
	fit := func() {
		shapes := diagram.Renderables(dc.state.Project, dc.view)
		if err := dc.vs.Camera.Fit(diagram.ContentBounds(shapes)); err == nil {
			dc.Refresh()
		}
	}
	if dc.vs.Camera.Ready() {
		fit()
		return
	}
	dc.vs.Defer(fit)
}

// ZoomIn zooms around the viewport center.
func (dc *DiagramCanvas) ZoomIn() {
	dc.vs.Camera.ZoomIn(dc.vs.Camera.ViewportCenter())
	dc.Refresh()
}

// ZoomOut zooms around the viewport center.
func (dc *DiagramCanvas) ZoomOut() {
	dc.vs.Camera.ZoomOut(dc.vs.Camera.ViewportCenter())
	dc.Refresh()
}

func (dc *DiagramCanvas) shapes() []diagram.Shape {
	return diagram.Renderables(dc.state.Project, dc.view)
}

func pt(p fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
}

// Scrolled zooms around the pointer so the point under the cursor stays
// put.
func (dc *DiagramCanvas) Scrolled(ev *fyne.ScrollEvent) {
	pivot := pt(ev.Position)
	if ev.Scrolled.DY > 0 {
		dc.vs.Camera.ZoomIn(pivot)
	} else if ev.Scrolled.DY < 0 {
		dc.vs.Camera.ZoomOut(pivot)
	}
	dc.Refresh()
}

// Tapped handles a click: anchor picks first, then block selection,
// then background deselect.
func (dc *DiagramCanvas) Tapped(ev *fyne.PointEvent) {
	pointer := pt(ev.Position)
	logical := dc.vs.Camera.ToLogical(pointer)
	shapes := dc.shapes()

	pickRadius := diagram.AnchorPickRadius / dc.vs.Camera.Zoom()
	if anchor, ok := diagram.AnchorAt(shapes, logical, pickRadius); ok {
		dc.clickAnchor(anchor)
		dc.Refresh()
		return
	}

	if s, ok := diagram.HitTest(shapes, logical); ok {
		b := s.Block()
		// A plain click on the selected block stays a selection; only
		// a drag gesture may enter the dragging phase.
		if sel, _, ok := dc.interact.Selected(); !ok || sel != b.ID {
			center, _ := s.Center()
			dc.interact.Press(b.ID, b.Kind, dc.vs.Camera.ToScreen(center), pointer)
		}
		dc.state.Emit(app.EventSelectionChanged, b.ID)
	} else {
		dc.interact.BackgroundPress()
		if _, pending := dc.picker.Pending(); pending {
			dc.picker.Clear()
			dc.status("connection cancelled")
		}
		dc.state.Emit(app.EventSelectionChanged, nil)
	}
	dc.Refresh()
}

// clickAnchor feeds an anchor click into the two-click protocol.
func (dc *DiagramCanvas) clickAnchor(anchor diagram.Anchor) {
	first, _ := dc.picker.Pending()
	outcome, err := dc.picker.Click(dc.state.Project, anchor.Terminal)
	switch outcome {
	case diagram.PickStored:
		dc.status("terminal picked, click another to connect")
	case diagram.PickCancelled:
		dc.status("pick cancelled")
	case diagram.PickConnected:
		dc.state.SetModified(true)
		dc.state.Emit(app.EventConnectionAdded, model.Connection{LeftID: first, RightID: anchor.Terminal})
		dc.status("connected")
	case diagram.PickRejected:
		dc.status("cannot connect: %v", err)
	}
}

// DoubleTapped opens the detail view of a location in the layout view.
func (dc *DiagramCanvas) DoubleTapped(ev *fyne.PointEvent) {
	if dc.view != diagram.LayoutViewID || dc.onOpenLocation == nil {
		return
	}
	logical := dc.vs.Camera.ToLogical(pt(ev.Position))
	if s, ok := diagram.HitTest(dc.shapes(), logical); ok {
		if b := s.Block(); b.Kind == model.KindLocation {
			dc.onOpenLocation(b.ID)
		}
	}
}

// Dragged moves the selected entity when the drag started on it, and
// pans the view otherwise.
func (dc *DiagramCanvas) Dragged(ev *fyne.DragEvent) {
	pointer := pt(ev.Position)
	dc.lastPointer = pointer

	if dc.mode == dragNone {
		press := geometry.Point2D{
			X: pointer.X - float64(ev.Dragged.DX),
			Y: pointer.Y - float64(ev.Dragged.DY),
		}
		dc.beginDrag(press)
	}

	switch dc.mode {
	case dragEntity:
		dc.interact.Move(pointer)
	case dragPan:
		pan := dc.vs.Camera.Pan()
		dc.vs.Camera.SetPan(geometry.Point2D{
			X: pan.X + float64(ev.Dragged.DX),
			Y: pan.Y + float64(ev.Dragged.DY),
		})
	}
	dc.Refresh()
}

// beginDrag classifies the gesture from its press point. Rows derive
// their geometry from the owning busbar and cannot be dragged.
func (dc *DiagramCanvas) beginDrag(press geometry.Point2D) {
	logical := dc.vs.Camera.ToLogical(press)
	s, ok := diagram.HitTest(dc.shapes(), logical)
	if !ok {
		dc.interact.BackgroundPress()
		dc.mode = dragPan
		return
	}
	b := s.Block()
	if b.Kind == model.KindRow {
		dc.mode = dragIgnore
		return
	}
	center, _ := s.Center()
	started := dc.interact.Press(b.ID, b.Kind, dc.vs.Camera.ToScreen(center), press)
	dc.state.Emit(app.EventSelectionChanged, b.ID)
	if started {
		dc.mode = dragEntity
	} else {
		// Fresh selection: the rest of this gesture does nothing.
		dc.mode = dragIgnore
	}
}

// DragEnd commits an entity drag to the model. Gated on the gesture
// mode, not on the state machine, so a pan never commits a move.
func (dc *DiagramCanvas) DragEnd() {
	defer func() { dc.mode = dragNone }()

	if dc.mode != dragEntity || !dc.interact.DragActive() {
		return
	}
	block, _, _ := dc.interact.Selected()
	live, ok := dc.interact.Release(dc.lastPointer)
	if !ok {
		return
	}
	logical := dc.vs.Camera.ToLogical(live)
	if err := dc.state.MoveBlock(block, logical); err != nil {
		dc.status("move failed: %v", err)
	}
	dc.Refresh()
}

// draw renders the view through its camera.
func (dc *DiagramCanvas) draw(w, h int) image.Image {
	dc.vs.Camera.SetViewport(geometry.Size{Width: float64(w), Height: float64(h)})
	dc.vs.ResolveDeferred()

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	dc.render(out)
	return out
}

// Refresh redraws the raster.
func (dc *DiagramCanvas) Refresh() {
	dc.raster.Refresh()
	dc.BaseWidget.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (dc *DiagramCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(dc.raster)
}
