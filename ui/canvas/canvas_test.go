package canvas

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"sld-editor/internal/app"
	"sld-editor/internal/config"
	"sld-editor/internal/diagram"
	"sld-editor/internal/model"
	"sld-editor/pkg/geometry"
)

func newTestCanvas(t *testing.T, view diagram.ViewID) (*app.State, *DiagramCanvas) {
	t.Helper()
	test.NewApp()

	state := app.NewState(config.Default())
	dc := NewDiagramCanvas(state, view, diagram.NewInteraction(), diagram.NewPicker())
	dc.vs.Camera.SetViewport(geometry.Size{Width: 800, Height: 600})
	return state, dc
}

func tapAt(dc *DiagramCanvas, pos geometry.Point2D) {
	dc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(float32(pos.X), float32(pos.Y))})
}

func dragStep(dc *DiagramCanvas, pos geometry.Point2D, dx, dy float32) {
	dc.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(float32(pos.X), float32(pos.Y))},
		Dragged:    fyne.Delta{DX: dx, DY: dy},
	})
}

func TestPlainClicksNeverStartDrag(t *testing.T) {
	state, dc := newTestCanvas(t, diagram.LayoutViewID)
	supply, err := state.Project.AddSupply("Shore power")
	if err != nil {
		t.Fatalf("AddSupply: %v", err)
	}
	if err := state.Project.SetPosition(supply.ID, geometry.NewPoint2D(100, 100)); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	center := dc.vs.Camera.ToScreen(geometry.NewPoint2D(100, 100))
	tapAt(dc, center)
	if dc.interact.Phase() != diagram.PhaseSelected {
		t.Fatalf("first click phase = %v, want PhaseSelected", dc.interact.Phase())
	}

	// A repeated click must stay a selection; only a drag gesture may
	// enter the dragging phase.
	tapAt(dc, center)
	if dc.interact.Phase() != diagram.PhaseSelected {
		t.Errorf("second click phase = %v, want PhaseSelected", dc.interact.Phase())
	}
	if dc.interact.DragActive() {
		t.Error("plain clicks left a drag active")
	}
}

func TestBackgroundPanDoesNotMoveBlock(t *testing.T) {
	state, dc := newTestCanvas(t, diagram.LayoutViewID)
	supply, err := state.Project.AddSupply("Shore power")
	if err != nil {
		t.Fatalf("AddSupply: %v", err)
	}
	if err := state.Project.SetPosition(supply.ID, geometry.NewPoint2D(100, 100)); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	// Click the block twice, then pan across the background.
	center := dc.vs.Camera.ToScreen(geometry.NewPoint2D(100, 100))
	tapAt(dc, center)
	tapAt(dc, center)

	dragStep(dc, geometry.NewPoint2D(410, 410), 10, 10)
	dragStep(dc, geometry.NewPoint2D(690, 490), 280, 80)
	dc.DragEnd()

	b, err := state.Project.Block(supply.ID)
	if err != nil {
		t.Fatalf("Block: %v", err)
	}
	if b.Position == nil || b.Position.X != 100 || b.Position.Y != 100 {
		t.Errorf("background pan moved the block to %+v, want (100, 100)", b.Position)
	}
	if pan := dc.vs.Camera.Pan(); pan.X == 0 && pan.Y == 0 {
		t.Error("pan gesture did not pan the camera")
	}
}

func TestEntityDragCommitsOnRelease(t *testing.T) {
	state, dc := newTestCanvas(t, diagram.LayoutViewID)
	supply, err := state.Project.AddSupply("Shore power")
	if err != nil {
		t.Fatalf("AddSupply: %v", err)
	}
	if err := state.Project.SetPosition(supply.ID, geometry.NewPoint2D(100, 100)); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	center := dc.vs.Camera.ToScreen(geometry.NewPoint2D(100, 100))
	tapAt(dc, center)

	// Drag gesture starting on the selected block moves it 50 units.
	dragStep(dc, center.Add(geometry.NewPoint2D(10, 0)), 10, 0)
	dragStep(dc, center.Add(geometry.NewPoint2D(50, 0)), 40, 0)
	dc.DragEnd()

	b, _ := state.Project.Block(supply.ID)
	if b.Position == nil || b.Position.X != 150 || b.Position.Y != 100 {
		t.Errorf("drag commit position = %+v, want (150, 100)", b.Position)
	}
	if dc.interact.Phase() != diagram.PhaseSelected {
		t.Errorf("phase after drag = %v, want PhaseSelected", dc.interact.Phase())
	}
}

func TestAnchorsTrackLiveDrag(t *testing.T) {
	state, _ := newTestCanvas(t, diagram.LayoutViewID)
	loc, err := state.Project.AddLocation("Engine room")
	if err != nil {
		t.Fatalf("AddLocation: %v", err)
	}
	bus, err := state.Project.AddBusbar(loc.ID, "DC main")
	if err != nil {
		t.Fatalf("AddBusbar: %v", err)
	}
	if _, err := state.Project.AddRow(bus.ID, "Nav lights", model.ProtectionBreaker); err != nil {
		t.Fatalf("AddRow: %v", err)
	}
	if err := state.Project.SetPosition(bus.ID, geometry.NewPoint2D(0, 0)); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	dc := NewDiagramCanvas(state, diagram.ViewID(loc.ID), diagram.NewInteraction(), diagram.NewPicker())
	dc.vs.Camera.SetViewport(geometry.Size{Width: 800, Height: 600})

	shapes := dc.shapes()
	resting := diagram.AnchorPositions(shapes)

	// Start a drag on the busbar and move it 60 right, 40 down.
	center := dc.vs.Camera.ToScreen(geometry.NewPoint2D(0, 0))
	dc.interact.Press(bus.ID, bus.Kind, center, center)
	dc.interact.Press(bus.ID, bus.Kind, center, center)
	dc.interact.Move(center.Add(geometry.NewPoint2D(60, 40)))

	live := dc.liveAnchorPositions(shapes)
	for terminal, rest := range resting {
		got, ok := live[terminal]
		if !ok {
			t.Fatalf("terminal %d missing from live anchors", terminal)
		}
		want := rest.Add(geometry.NewPoint2D(60, 40))
		if got.Distance(want) > 1e-9 {
			t.Errorf("terminal %d live anchor = %+v, want %+v", terminal, got, want)
		}
	}
}

func TestAnchorPickRadiusIsScreenSpace(t *testing.T) {
	state, dc := newTestCanvas(t, diagram.LayoutViewID)
	supply, err := state.Project.AddSupply("Shore power")
	if err != nil {
		t.Fatalf("AddSupply: %v", err)
	}
	if err := state.Project.SetPosition(supply.ID, geometry.NewPoint2D(100, 100)); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	dc.vs.Camera.SetZoom(10, geometry.Point2D{})
	anchors := diagram.AnchorPositions(dc.shapes())
	var anchorPos geometry.Point2D
	for _, pos := range anchors {
		anchorPos = pos
		break
	}
	screen := dc.vs.Camera.ToScreen(anchorPos)

	// 20 screen pixels off the anchor: inside the old zoom-scaled
	// radius (8 logical units = 80 px at zoom 10), outside the fixed
	// 8 px screen radius.
	tapAt(dc, screen.Add(geometry.NewPoint2D(0, 20)))
	if _, pending := dc.picker.Pending(); pending {
		t.Error("tap 20px from the anchor picked it at zoom 10")
	}

	tapAt(dc, screen)
	if _, pending := dc.picker.Pending(); !pending {
		t.Error("tap on the anchor did not pick it")
	}
}
