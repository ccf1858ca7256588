// Package diagram implements the interactive diagram engine: the
// per-view coordinate transform, the capability contract block kinds
// render through, the selection and drag state machine, the two-click
// connection protocol, and fit-to-content.
package diagram

import (
	"sld-editor/pkg/apperrors"
	"sld-editor/pkg/geometry"
)

// Default camera limits, overridable through the app config.
const (
	DefaultMinZoom  = 0.1
	DefaultMaxZoom  = 10.0
	DefaultZoomStep = 1.25

	// fitPadding is the fraction of padding added per axis around the
	// content bounding box when fitting.
	fitPadding = 0.1
)

// Camera owns one view's mapping between logical space and screen
// space: a uniform zoom factor and a pan offset in screen units.
//
// Every view's screen position obeys
//
//	screen = pan + (origin + logical) * zoom
//
// where origin is the view's logical anchor: the zero point for the
// layout view, the logical canvas center for a location view. Location
// views store child positions relative to their own canvas center, so
// the two variants must not be mixed.
type Camera struct {
	zoom float64
	pan  geometry.Point2D

	origin   geometry.Point2D
	canvas   geometry.Size
	viewport geometry.Size

	minZoom float64
	maxZoom float64
}

// NewLayoutCamera creates the camera for the top-level layout view,
// anchored at the logical origin.
func NewLayoutCamera(canvas geometry.Size, minZoom, maxZoom float64) *Camera {
	return newCamera(geometry.Point2D{}, canvas, minZoom, maxZoom)
}

// NewLocationCamera creates a camera for a location view, anchored at
// the view's own logical canvas center.
func NewLocationCamera(canvas geometry.Size, minZoom, maxZoom float64) *Camera {
	return newCamera(geometry.Point2D{X: canvas.Width / 2, Y: canvas.Height / 2}, canvas, minZoom, maxZoom)
}

func newCamera(origin geometry.Point2D, canvas geometry.Size, minZoom, maxZoom float64) *Camera {
	if minZoom <= 0 {
		minZoom = DefaultMinZoom
	}
	if maxZoom <= minZoom {
		maxZoom = DefaultMaxZoom
	}
	return &Camera{
		zoom:    1.0,
		origin:  origin,
		canvas:  canvas,
		minZoom: minZoom,
		maxZoom: maxZoom,
	}
}

// Zoom returns the current zoom factor.
func (c *Camera) Zoom() float64 { return c.zoom }

// Pan returns the current pan offset in screen units.
func (c *Camera) Pan() geometry.Point2D { return c.pan }

// SetPan moves the view by replacing the pan offset.
func (c *Camera) SetPan(pan geometry.Point2D) { c.pan = pan }

// Viewport returns the last measured viewport size.
func (c *Camera) Viewport() geometry.Size { return c.viewport }

// SetViewport records the view's pixel size after a layout pass.
func (c *Camera) SetViewport(size geometry.Size) { c.viewport = size }

// Ready reports whether the viewport has a measured size.
func (c *Camera) Ready() bool {
	return c.viewport.Width > 0 && c.viewport.Height > 0
}

// ToScreen converts a logical point of this view into screen space.
func (c *Camera) ToScreen(p geometry.Point2D) geometry.Point2D {
	return c.pan.Add(c.origin.Add(p).Scale(c.zoom))
}

// ToLogical converts a screen point back into this view's logical space.
func (c *Camera) ToLogical(s geometry.Point2D) geometry.Point2D {
	return s.Sub(c.pan).Scale(1 / c.zoom).Sub(c.origin)
}

// clampZoom bounds a zoom factor to the configured range.
func (c *Camera) clampZoom(z float64) float64 {
	if z < c.minZoom {
		return c.minZoom
	}
	if z > c.maxZoom {
		return c.maxZoom
	}
	return z
}

// SetZoom changes the zoom factor, keeping the pivot point visually
// stationary. Pivot is in screen coordinates; pass the viewport center
// for toolbar zoom, the cursor position for wheel zoom.
func (c *Camera) SetZoom(zoom float64, pivot geometry.Point2D) {
	newZoom := c.clampZoom(zoom)
	if newZoom == c.zoom {
		return
	}
	ratio := newZoom / c.zoom
	c.pan = pivot.Sub(pivot.Sub(c.pan).Scale(ratio))
	c.zoom = newZoom
}

// ZoomIn steps the zoom up around the pivot.
func (c *Camera) ZoomIn(pivot geometry.Point2D) {
	c.SetZoom(c.zoom*DefaultZoomStep, pivot)
}

// ZoomOut steps the zoom down around the pivot.
func (c *Camera) ZoomOut(pivot geometry.Point2D) {
	c.SetZoom(c.zoom/DefaultZoomStep, pivot)
}

// ViewportCenter returns the center of the viewport in screen units.
func (c *Camera) ViewportCenter() geometry.Point2D {
	return geometry.Point2D{X: c.viewport.Width / 2, Y: c.viewport.Height / 2}
}

// Fit frames the given logical bounding boxes inside the viewport:
// union, 10% padding per axis, min-ratio zoom clamped to the zoom
// range, pan centering the padded box. With no content the camera
// centers the logical canvas at zoom 1. Fit is idempotent for an
// unchanged box set. Fails with VIEW_NOT_READY before the viewport has
// been measured; the registry defers and retries after layout.
func (c *Camera) Fit(content []geometry.Rect) error {
	if !c.Ready() {
		return apperrors.New(apperrors.ErrCodeViewNotReady, "viewport has no measured size")
	}

	if len(content) == 0 {
		c.zoom = 1.0
		canvasCenter := geometry.Point2D{X: c.canvas.Width / 2, Y: c.canvas.Height / 2}.Sub(c.origin)
		c.pan = c.ViewportCenter().Sub(c.origin.Add(canvasCenter).Scale(c.zoom))
		return nil
	}

	box := content[0]
	for _, r := range content[1:] {
		box = box.Union(r)
	}
	box = box.Expand(fitPadding)

	zoom := c.maxZoom
	if box.Width > 0 {
		zoom = c.viewport.Width / box.Width
	}
	if box.Height > 0 {
		if zy := c.viewport.Height / box.Height; zy < zoom {
			zoom = zy
		}
	}
	c.zoom = c.clampZoom(zoom)
	c.pan = c.ViewportCenter().Sub(c.origin.Add(box.Center()).Scale(c.zoom))
	return nil
}
