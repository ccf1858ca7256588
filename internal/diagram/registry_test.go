package diagram

import (
	"testing"

	"sld-editor/pkg/apperrors"
	"sld-editor/pkg/geometry"
)

func TestRegistryIndependentCameras(t *testing.T) {
	r := NewRegistry(testCanvas(), 0.1, 10.0)

	layout := r.Open(LayoutViewID)
	locA := r.Open(3)
	locB := r.Open(7)

	if layout.Camera == locA.Camera || locA.Camera == locB.Camera {
		t.Fatal("views must not share cameras")
	}

	locA.Camera.SetViewport(geometry.NewSize(800, 600))
	locA.Camera.SetZoom(4.0, locA.Camera.ViewportCenter())
	if locB.Camera.Zoom() != 1.0 {
		t.Errorf("zooming one view changed another: %v", locB.Camera.Zoom())
	}

	// Re-opening returns the same live state.
	if again := r.Open(3); again != locA {
		t.Error("Open of an open view should return the existing state")
	}
}

func TestRegistryCloseDiscardsState(t *testing.T) {
	r := NewRegistry(testCanvas(), 0.1, 10.0)
	v := r.Open(5)
	v.Camera.SetViewport(geometry.NewSize(400, 400))
	v.Camera.SetZoom(2.0, v.Camera.ViewportCenter())

	r.Close(5)
	if _, err := r.Get(5); !apperrors.Is(err, apperrors.ErrCodeNotFound) {
		t.Errorf("Get after Close = %v, want NOT_FOUND", err)
	}

	if reopened := r.Open(5); reopened.Camera.Zoom() != 1.0 {
		t.Errorf("reopened view kept old zoom %v", reopened.Camera.Zoom())
	}
}

func TestDeferredFitIsSingleShot(t *testing.T) {
	r := NewRegistry(testCanvas(), 0.1, 10.0)
	v := r.Open(LayoutViewID)

	calls := 0
	v.Defer(func() { calls++ })
	v.ResolveDeferred()
	v.ResolveDeferred()
	if calls != 1 {
		t.Errorf("deferred ran %d times, want 1", calls)
	}
}

func TestDeferredFitCancelOnReissue(t *testing.T) {
	r := NewRegistry(testCanvas(), 0.1, 10.0)
	v := r.Open(LayoutViewID)

	var ran []string
	v.Defer(func() { ran = append(ran, "first") })
	v.Defer(func() { ran = append(ran, "second") })
	v.ResolveDeferred()

	if len(ran) != 1 || ran[0] != "second" {
		t.Errorf("ran = %v, want only the re-issued action", ran)
	}
}

func TestOpenViewsStableOrder(t *testing.T) {
	r := NewRegistry(testCanvas(), 0.1, 10.0)
	r.Open(9)
	r.Open(LayoutViewID)
	r.Open(2)

	got := r.OpenViews()
	want := []ViewID{LayoutViewID, 2, 9}
	if len(got) != len(want) {
		t.Fatalf("OpenViews = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("OpenViews[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
