package diagram

import (
	"sld-editor/internal/model"
	"sld-editor/pkg/apperrors"
	"sld-editor/pkg/geometry"
)

// View identifies which view family a shape renders into.
type View int

const (
	// ViewLayout is the top-level view of root blocks.
	ViewLayout View = iota
	// ViewLocation is the per-location detail view.
	ViewLocation
)

// Anchor is the rendered connection point of one terminal.
type Anchor struct {
	Terminal model.TerminalID
	// Pos is the anchor's logical position, already offset by the
	// block center handed to Anchors.
	Pos geometry.Point2D
	// Tag is an opaque marker the renderer may use to style the
	// anchor (e.g. the protection kind of a busbar row).
	Tag string
}

// Shape is the capability contract every placeable block kind
// implements. It lets hit-testing, anchor placement, and fit-to-content
// treat heterogeneous equipment uniformly, without a type switch and
// without reflecting on per-kind position fields.
type Shape interface {
	// Block returns the underlying model block.
	Block() *model.Block

	// PreferredView routes the shape to the layout or a location view.
	PreferredView() View

	// Footprint is the rendered extent in logical units.
	Footprint() geometry.Size

	// Center resolves the logical center position. The second return
	// is false while the block is unplaced. Rows resolve through
	// their owning busbar rather than a stored position.
	Center() (geometry.Point2D, bool)

	// Anchors lists the connection anchors relative to the given
	// block center, ordered by terminal id.
	Anchors(center geometry.Point2D) []Anchor
}

// Logical footprints per kind. Busbars grow with their row count.
var (
	sizeLocation    = geometry.NewSize(140, 90)
	sizeSupply      = geometry.NewSize(80, 60)
	sizeAlternator  = geometry.NewSize(80, 60)
	sizeConductor   = geometry.NewSize(120, 20)
	sizeTransformer = geometry.NewSize(70, 70)
	sizeLoad        = geometry.NewSize(60, 40)
	sizeExtBusbar   = geometry.NewSize(100, 30)
)

const (
	busbarWidth   = 100.0
	busbarHeaderH = 30.0
	busbarRowH    = 24.0
)

// ShapeFor returns the capability adapter for a block. Every placeable
// kind has one; an unknown kind fails with NOT_FOUND.
func ShapeFor(p *model.Project, b *model.Block) (Shape, error) {
	base := baseShape{p: p, b: b}
	switch b.Kind {
	case model.KindLocation:
		return locationShape{base}, nil
	case model.KindSupply:
		return boxShape{base, ViewLayout, sizeSupply, anchorBottom}, nil
	case model.KindAlternator:
		return boxShape{base, ViewLayout, sizeAlternator, anchorBottom}, nil
	case model.KindConductor:
		return conductorShape{base}, nil
	case model.KindBusbar:
		return busbarShape{base}, nil
	case model.KindTransformerUPS:
		return boxShape{base, ViewLocation, sizeTransformer, anchorThrough}, nil
	case model.KindLoad:
		return boxShape{base, ViewLocation, sizeLoad, anchorTop}, nil
	case model.KindExternalBusbar:
		return boxShape{base, ViewLocation, sizeExtBusbar, anchorLeft}, nil
	case model.KindRow:
		return rowShape{base}, nil
	}
	return nil, apperrors.New(apperrors.ErrCodeNotFound, "no shape for kind %q", b.Kind)
}

type baseShape struct {
	p *model.Project
	b *model.Block
}

func (s baseShape) Block() *model.Block { return s.b }

func (s baseShape) Center() (geometry.Point2D, bool) {
	if s.b.Position == nil {
		return geometry.Point2D{}, false
	}
	return *s.b.Position, true
}

// terminalAnchors spreads the block's terminals over the offsets
// produced by place, in terminal-id order.
func (s baseShape) terminalAnchors(center geometry.Point2D, place func(i, n int) geometry.Point2D) []Anchor {
	terms := s.p.Terminals(s.b.ID)
	anchors := make([]Anchor, 0, len(terms))
	for i, t := range terms {
		anchors = append(anchors, Anchor{
			Terminal: t.ID,
			Pos:      center.Add(place(i, len(terms))),
			Tag:      t.Name,
		})
	}
	return anchors
}

// anchorStyle positions a box shape's terminals on its outline.
type anchorStyle int

const (
	anchorBottom  anchorStyle = iota // all terminals on the bottom edge
	anchorTop                        // all terminals on the top edge
	anchorLeft                       // all terminals on the left edge
	anchorThrough                    // first on top, rest on bottom
)

// boxShape renders plain rectangular equipment.
type boxShape struct {
	baseShape
	view  View
	size  geometry.Size
	style anchorStyle
}

func (s boxShape) PreferredView() View      { return s.view }
func (s boxShape) Footprint() geometry.Size { return s.size }

func (s boxShape) Anchors(center geometry.Point2D) []Anchor {
	w, h := s.size.Width, s.size.Height
	return s.terminalAnchors(center, func(i, n int) geometry.Point2D {
		x := spread(i, n, w)
		switch s.style {
		case anchorTop:
			return geometry.Point2D{X: x, Y: -h / 2}
		case anchorLeft:
			return geometry.Point2D{X: -w / 2, Y: spread(i, n, h)}
		case anchorThrough:
			if i == 0 {
				return geometry.Point2D{X: 0, Y: -h / 2}
			}
			return geometry.Point2D{X: spread(i-1, n-1, w), Y: h / 2}
		default:
			return geometry.Point2D{X: x, Y: h / 2}
		}
	})
}

// spread distributes n points evenly across an extent centered on zero.
func spread(i, n int, extent float64) float64 {
	if n <= 1 {
		return 0
	}
	step := extent / float64(n+1)
	return step*float64(i+1) - extent/2
}

// locationShape renders a location tile on the layout view. Locations
// expose no terminals of their own; their external busbar carries the
// incoming connection.
type locationShape struct {
	baseShape
}

func (s locationShape) PreferredView() View      { return ViewLayout }
func (s locationShape) Footprint() geometry.Size { return sizeLocation }

func (s locationShape) Anchors(center geometry.Point2D) []Anchor {
	return s.terminalAnchors(center, func(i, n int) geometry.Point2D {
		return geometry.Point2D{X: spread(i, n, sizeLocation.Width), Y: sizeLocation.Height / 2}
	})
}

// conductorShape renders a horizontal conductor with a terminal at
// each end.
type conductorShape struct {
	baseShape
}

func (s conductorShape) PreferredView() View      { return ViewLayout }
func (s conductorShape) Footprint() geometry.Size { return sizeConductor }

func (s conductorShape) Anchors(center geometry.Point2D) []Anchor {
	w := sizeConductor.Width
	return s.terminalAnchors(center, func(i, n int) geometry.Point2D {
		if i == 0 {
			return geometry.Point2D{X: -w / 2, Y: 0}
		}
		return geometry.Point2D{X: w / 2, Y: 0}
	})
}

// busbarShape renders a busbar whose footprint grows with its rows.
type busbarShape struct {
	baseShape
}

func (s busbarShape) PreferredView() View { return ViewLocation }

func (s busbarShape) Footprint() geometry.Size {
	rows := len(s.p.Rows(s.b.ID))
	return geometry.NewSize(busbarWidth, busbarHeaderH+float64(rows)*busbarRowH)
}

// Anchors returns only the busbar's own input anchor; each row shape
// contributes its output anchor separately.
func (s busbarShape) Anchors(center geometry.Point2D) []Anchor {
	h := s.Footprint().Height
	return s.terminalAnchors(center, func(i, n int) geometry.Point2D {
		return geometry.Point2D{X: -busbarWidth / 2, Y: -h/2 + busbarHeaderH/2}
	})
}

// rowShape is the one adapter whose geometry is fully derived: a row
// has no stored position, it occupies a band of its owning busbar.
type rowShape struct {
	baseShape
}

func (s rowShape) PreferredView() View      { return ViewLocation }
func (s rowShape) Footprint() geometry.Size { return geometry.NewSize(busbarWidth, busbarRowH) }

func (s rowShape) Center() (geometry.Point2D, bool) {
	bus, err := s.p.Block(s.b.ParentID)
	if err != nil || bus.Position == nil {
		return geometry.Point2D{}, false
	}
	idx := s.p.RowIndex(s.b.ID)
	if idx < 0 {
		return geometry.Point2D{}, false
	}
	busShape := busbarShape{baseShape{p: s.p, b: bus}}
	h := busShape.Footprint().Height
	y := bus.Position.Y - h/2 + busbarHeaderH + (float64(idx)+0.5)*busbarRowH
	return geometry.Point2D{X: bus.Position.X, Y: y}, true
}

func (s rowShape) Anchors(center geometry.Point2D) []Anchor {
	anchors := s.terminalAnchors(center, func(i, n int) geometry.Point2D {
		return geometry.Point2D{X: busbarWidth / 2, Y: 0}
	})
	// Tag rows with their protection device so anchors can render
	// breaker vs. fuse glyphs.
	for i := range anchors {
		anchors[i].Tag = string(s.b.Protection)
	}
	return anchors
}
