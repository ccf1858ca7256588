package diagram

import (
	"sld-editor/internal/model"
	"sld-editor/pkg/geometry"
)

// ViewID names a view in the registry: the layout view or one location.
type ViewID = model.BlockID

// LayoutViewID is the id of the top-level layout view.
const LayoutViewID = model.RootID

// AnchorPickRadius is the pick radius around a connection anchor, in
// screen pixels. Callers divide by the camera zoom to get the logical
// radius so the pick target stays the same size on screen.
const AnchorPickRadius = 8.0

// Renderables returns the shapes belonging to a view: root blocks whose
// preferred view is the layout, or the children of one location
// (including derived busbar rows). Unplaced blocks are excluded; they
// have no geometry yet.
func Renderables(p *model.Project, view ViewID) []Shape {
	wantView := ViewLocation
	if view == LayoutViewID {
		wantView = ViewLayout
	}

	var shapes []Shape
	var walk func(parent model.BlockID)
	walk = func(parent model.BlockID) {
		for _, b := range p.Children(parent) {
			s, err := ShapeFor(p, b)
			if err != nil || s.PreferredView() != wantView {
				continue
			}
			if _, placed := s.Center(); !placed {
				continue
			}
			shapes = append(shapes, s)
			if b.Kind == model.KindBusbar {
				walk(b.ID)
			}
		}
	}
	walk(view)
	return shapes
}

// ContentBounds returns the logical bounding boxes of the given shapes,
// each derived from its center and footprint. Feed the result to
// Camera.Fit.
func ContentBounds(shapes []Shape) []geometry.Rect {
	var boxes []geometry.Rect
	for _, s := range shapes {
		center, placed := s.Center()
		if !placed {
			continue
		}
		boxes = append(boxes, geometry.RectAround(center, s.Footprint()))
	}
	return boxes
}

// HitTest returns the topmost shape containing the logical point.
// Shapes later in the slice render on top, so iteration runs backwards.
// Rows win over their busbar because Renderables appends them after it.
func HitTest(shapes []Shape, p geometry.Point2D) (Shape, bool) {
	for i := len(shapes) - 1; i >= 0; i-- {
		s := shapes[i]
		center, placed := s.Center()
		if !placed {
			continue
		}
		if geometry.RectAround(center, s.Footprint()).Contains(p) {
			return s, true
		}
	}
	return nil, false
}

// AnchorAt returns the connection anchor within radius logical units of
// the logical point, if any. The nearest anchor wins when several
// overlap.
func AnchorAt(shapes []Shape, p geometry.Point2D, radius float64) (Anchor, bool) {
	best := Anchor{}
	bestDist := radius
	found := false
	for _, s := range shapes {
		center, placed := s.Center()
		if !placed {
			continue
		}
		for _, a := range s.Anchors(center) {
			if d := a.Pos.Distance(p); d <= bestDist {
				best = a
				bestDist = d
				found = true
			}
		}
	}
	return best, found
}

// AnchorPositions collects every anchor of the view's shapes, used by
// renderers to draw the connection dots and by the exporter to route
// connection lines.
func AnchorPositions(shapes []Shape) map[model.TerminalID]geometry.Point2D {
	out := make(map[model.TerminalID]geometry.Point2D)
	for _, s := range shapes {
		center, placed := s.Center()
		if !placed {
			continue
		}
		for _, a := range s.Anchors(center) {
			out[a.Terminal] = a.Pos
		}
	}
	return out
}
