package mainwindow

import (
	"math"
	"testing"

	"fyne.io/fyne/v2/test"

	"sld-editor/internal/app"
	"sld-editor/internal/config"
	"sld-editor/internal/diagram"
	"sld-editor/pkg/geometry"
)

func TestOpeningTabFramesContent(t *testing.T) {
	fyneApp := test.NewApp()

	state := app.NewState(config.Default())
	supply, err := state.Project.AddSupply("Shore power")
	if err != nil {
		t.Fatalf("AddSupply: %v", err)
	}
	if err := state.Project.SetPosition(supply.ID, geometry.NewPoint2D(100, 100)); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	New(fyneApp, state, nil)

	vs, err := state.Views.Get(diagram.LayoutViewID)
	if err != nil {
		t.Fatalf("layout view not open: %v", err)
	}
	if vs.Camera.Ready() {
		t.Fatal("camera measured before any layout pass")
	}
	if vs.Camera.Zoom() != 1 {
		t.Fatalf("zoom changed before the viewport was measured: %v", vs.Camera.Zoom())
	}

	// The layout pass measures the viewport; the deferred fit then
	// frames the single 80x60 block with 10% padding.
	vs.Camera.SetViewport(geometry.Size{Width: 800, Height: 600})
	vs.ResolveDeferred()

	want := math.Min(800/88.0, 600/66.0)
	if got := vs.Camera.Zoom(); math.Abs(got-want) > 1e-9 {
		t.Errorf("zoom after deferred fit = %v, want %v", got, want)
	}

	// Resolving again is a no-op; the deferral slot holds one action.
	pan := vs.Camera.Pan()
	vs.ResolveDeferred()
	if vs.Camera.Pan() != pan {
		t.Error("second resolve re-ran the fit")
	}
}

func TestStructureChangeRefitsOwningView(t *testing.T) {
	fyneApp := test.NewApp()

	state := app.NewState(config.Default())
	first, err := state.Project.AddSupply("Shore power")
	if err != nil {
		t.Fatalf("AddSupply: %v", err)
	}
	if err := state.Project.SetPosition(first.ID, geometry.NewPoint2D(100, 100)); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	New(fyneApp, state, nil)

	vs, err := state.Views.Get(diagram.LayoutViewID)
	if err != nil {
		t.Fatalf("layout view not open: %v", err)
	}
	vs.Camera.SetViewport(geometry.Size{Width: 800, Height: 600})
	vs.ResolveDeferred()
	before := vs.Camera.Zoom()

	// New content outside the framed extent must widen the view.
	second, err := state.Project.AddAlternator("Genset")
	if err != nil {
		t.Fatalf("AddAlternator: %v", err)
	}
	if err := state.Project.SetPosition(second.ID, geometry.NewPoint2D(500, 100)); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	state.Emit(app.EventStructureChanged, second.ID)

	after := vs.Camera.Zoom()
	if after >= before {
		t.Errorf("zoom after structure change = %v, want < %v", after, before)
	}

	// A second emit with unchanged content is idempotent.
	pan := vs.Camera.Pan()
	state.Emit(app.EventStructureChanged, second.ID)
	if vs.Camera.Zoom() != after || vs.Camera.Pan() != pan {
		t.Error("refit of unchanged content moved the camera")
	}
}
