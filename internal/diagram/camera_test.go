package diagram

import (
	"math"
	"testing"

	"sld-editor/pkg/apperrors"
	"sld-editor/pkg/geometry"
)

func testCanvas() geometry.Size {
	return geometry.NewSize(2000, 1500)
}

func TestZoomPivotStaysStationary(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *Camera)
		zoom  float64
		pivot geometry.Point2D
	}{
		{
			name:  "ViewportCenterPivot",
			zoom:  2.0,
			pivot: geometry.Point2D{X: 400, Y: 300},
		},
		{
			name:  "MousePivot",
			zoom:  0.5,
			pivot: geometry.Point2D{X: 123, Y: 456},
		},
		{
			name: "PannedView",
			setup: func(c *Camera) {
				c.SetPan(geometry.Point2D{X: -250, Y: 80})
			},
			zoom:  3.7,
			pivot: geometry.Point2D{X: 10, Y: 590},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewLayoutCamera(testCanvas(), DefaultMinZoom, DefaultMaxZoom)
			c.SetViewport(geometry.NewSize(800, 600))
			if tt.setup != nil {
				tt.setup(c)
			}

			before := c.ToLogical(tt.pivot)
			c.SetZoom(tt.zoom, tt.pivot)
			after := c.ToLogical(tt.pivot)

			if before.Distance(after) > 1e-9 {
				t.Errorf("pivot moved in logical space: %+v -> %+v", before, after)
			}
			if c.ToScreen(before).Distance(tt.pivot) > 1e-9 {
				t.Errorf("pivot moved on screen: %+v", c.ToScreen(before))
			}
		})
	}
}

func TestZoomStaysClamped(t *testing.T) {
	c := NewLayoutCamera(testCanvas(), 0.1, 10.0)
	c.SetViewport(geometry.NewSize(800, 600))
	pivot := c.ViewportCenter()

	for i := 0; i < 50; i++ {
		c.ZoomIn(pivot)
	}
	if c.Zoom() > 10.0 {
		t.Errorf("zoom %v exceeds max", c.Zoom())
	}

	for i := 0; i < 200; i++ {
		c.ZoomOut(pivot)
		c.SetPan(c.Pan().Add(geometry.Point2D{X: 3, Y: -2}))
	}
	if c.Zoom() < 0.1 {
		t.Errorf("zoom %v below min", c.Zoom())
	}
}

func TestRoundTripConversion(t *testing.T) {
	layout := NewLayoutCamera(testCanvas(), DefaultMinZoom, DefaultMaxZoom)
	location := NewLocationCamera(testCanvas(), DefaultMinZoom, DefaultMaxZoom)

	for _, c := range []*Camera{layout, location} {
		c.SetViewport(geometry.NewSize(800, 600))
		c.SetPan(geometry.Point2D{X: -77, Y: 31})
		c.SetZoom(2.5, c.ViewportCenter())

		p := geometry.Point2D{X: 12.5, Y: -90.25}
		back := c.ToLogical(c.ToScreen(p))
		if p.Distance(back) > 1e-9 {
			t.Errorf("round trip drifted: %+v -> %+v", p, back)
		}
	}
}

func TestViewVariantsDiffer(t *testing.T) {
	// The same local coordinates must land on different screen points
	// in the layout view and a location view; the anchors differ.
	layout := NewLayoutCamera(testCanvas(), DefaultMinZoom, DefaultMaxZoom)
	location := NewLocationCamera(testCanvas(), DefaultMinZoom, DefaultMaxZoom)

	p := geometry.Point2D{X: 10, Y: 10}
	if layout.ToScreen(p) == location.ToScreen(p) {
		t.Error("layout and location anchoring should disagree away from the canvas center")
	}

	// Local (0,0) of a location view is the canvas center.
	center := location.ToScreen(geometry.Point2D{})
	want := layout.ToScreen(geometry.Point2D{X: testCanvas().Width / 2, Y: testCanvas().Height / 2})
	if center.Distance(want) > 1e-9 {
		t.Errorf("location origin = %+v, want canvas center %+v", center, want)
	}
}

func TestFitEmptyCentersCanvas(t *testing.T) {
	c := NewLayoutCamera(testCanvas(), DefaultMinZoom, DefaultMaxZoom)
	c.SetViewport(geometry.NewSize(800, 600))

	if err := c.Fit(nil); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if c.Zoom() != 1.0 {
		t.Errorf("empty fit zoom = %v, want 1.0", c.Zoom())
	}

	canvasCenter := geometry.Point2D{X: 1000, Y: 750}
	if got := c.ToScreen(canvasCenter); got.Distance(geometry.Point2D{X: 400, Y: 300}) > 1e-9 {
		t.Errorf("canvas center maps to %+v, want viewport center", got)
	}
}

func TestFitFramesContent(t *testing.T) {
	c := NewLocationCamera(testCanvas(), 0.1, 10.0)
	c.SetViewport(geometry.NewSize(800, 600))

	content := []geometry.Rect{
		{X: -50, Y: -39, Width: 100, Height: 78},
		{X: 120, Y: -20, Width: 60, Height: 40},
	}
	if err := c.Fit(content); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	// zoom = min(viewport/padded) per the fit formula.
	padded := content[0].Union(content[1]).Expand(0.1)
	wantZoom := math.Min(800/padded.Width, 600/padded.Height)
	if math.Abs(c.Zoom()-wantZoom) > 1e-9 {
		t.Errorf("zoom = %v, want %v", c.Zoom(), wantZoom)
	}

	// Padded center maps to the viewport center.
	if got := c.ToScreen(padded.Center()); got.Distance(geometry.Point2D{X: 400, Y: 300}) > 1e-9 {
		t.Errorf("content center maps to %+v, want viewport center", got)
	}

	// Every content corner lands inside the viewport.
	for _, r := range content {
		for _, corner := range []geometry.Point2D{
			{X: r.X, Y: r.Y},
			{X: r.X + r.Width, Y: r.Y + r.Height},
		} {
			s := c.ToScreen(corner)
			if s.X < 0 || s.Y < 0 || s.X > 800 || s.Y > 600 {
				t.Errorf("corner %+v maps off-screen to %+v", corner, s)
			}
		}
	}
}

func TestFitIsIdempotent(t *testing.T) {
	c := NewLayoutCamera(testCanvas(), 0.1, 10.0)
	c.SetViewport(geometry.NewSize(1024, 768))

	content := []geometry.Rect{
		{X: 10, Y: 20, Width: 300, Height: 120},
		{X: -200, Y: 50, Width: 80, Height: 400},
	}

	if err := c.Fit(content); err != nil {
		t.Fatalf("first Fit: %v", err)
	}
	zoom1, pan1 := c.Zoom(), c.Pan()

	if err := c.Fit(content); err != nil {
		t.Fatalf("second Fit: %v", err)
	}
	if c.Zoom() != zoom1 || c.Pan() != pan1 {
		t.Errorf("fit not idempotent: (%v, %+v) vs (%v, %+v)", zoom1, pan1, c.Zoom(), c.Pan())
	}
}

func TestFitBeforeLayoutFails(t *testing.T) {
	c := NewLayoutCamera(testCanvas(), DefaultMinZoom, DefaultMaxZoom)
	err := c.Fit(nil)
	if !apperrors.Is(err, apperrors.ErrCodeViewNotReady) {
		t.Errorf("Fit without viewport = %v, want VIEW_NOT_READY", err)
	}
}

func TestFitClampsExtremeContent(t *testing.T) {
	c := NewLayoutCamera(testCanvas(), 0.1, 10.0)
	c.SetViewport(geometry.NewSize(800, 600))

	// Tiny content would need zoom far above max.
	if err := c.Fit([]geometry.Rect{{X: 0, Y: 0, Width: 1, Height: 1}}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if c.Zoom() != 10.0 {
		t.Errorf("tiny content zoom = %v, want max 10.0", c.Zoom())
	}

	// Huge content would need zoom far below min.
	if err := c.Fit([]geometry.Rect{{X: 0, Y: 0, Width: 1e6, Height: 1e6}}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if c.Zoom() != 0.1 {
		t.Errorf("huge content zoom = %v, want min 0.1", c.Zoom())
	}
}
