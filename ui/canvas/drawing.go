// Drawing primitives for the diagram canvas raster.
package canvas

import (
	"image"
	"image/color"
	"image/draw"

	"sld-editor/internal/diagram"
	"sld-editor/internal/model"
	"sld-editor/pkg/colorutil"
	"sld-editor/pkg/geometry"
)

const (
	anchorDotRadius  = 4.0
	selectionPadding = 3
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// letterPatterns contains 3x5 pixel patterns for letters A-Z and common symbols.
var letterPatterns = map[rune][5]uint8{
	'A': {0b010, 0b101, 0b111, 0b101, 0b101},
	'B': {0b110, 0b101, 0b110, 0b101, 0b110},
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'D': {0b110, 0b101, 0b101, 0b101, 0b110},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'G': {0b011, 0b100, 0b101, 0b101, 0b011},
	'H': {0b101, 0b101, 0b111, 0b101, 0b101},
	'I': {0b111, 0b010, 0b010, 0b010, 0b111},
	'J': {0b001, 0b001, 0b001, 0b101, 0b010},
	'K': {0b101, 0b101, 0b110, 0b101, 0b101},
	'L': {0b100, 0b100, 0b100, 0b100, 0b111},
	'M': {0b101, 0b111, 0b101, 0b101, 0b101},
	'N': {0b101, 0b111, 0b111, 0b101, 0b101},
	'O': {0b010, 0b101, 0b101, 0b101, 0b010},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'Q': {0b010, 0b101, 0b101, 0b111, 0b011},
	'R': {0b110, 0b101, 0b110, 0b101, 0b101},
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	'T': {0b111, 0b010, 0b010, 0b010, 0b010},
	'U': {0b101, 0b101, 0b101, 0b101, 0b111},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
	'W': {0b101, 0b101, 0b101, 0b111, 0b101},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	'Y': {0b101, 0b101, 0b010, 0b010, 0b010},
	'Z': {0b111, 0b001, 0b010, 0b100, 0b111},
	'+': {0b000, 0b010, 0b111, 0b010, 0b000},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	'*': {0b000, 0b101, 0b010, 0b101, 0b000},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

// getCharPattern returns the 3x5 pixel pattern for a character.
// Returns a zero pattern for unsupported characters.
func getCharPattern(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitPatterns[ch-'0']
	}
	if ch >= 'a' && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	if pattern, ok := letterPatterns[ch]; ok {
		return pattern
	}
	return [5]uint8{}
}

// render draws the whole view into the raster image.
func (dc *DiagramCanvas) render(out *image.RGBA) {
	draw.Draw(out, out.Bounds(), image.NewUniform(colorutil.Background), image.Point{}, draw.Src)

	shapes := dc.shapes()
	cam := dc.vs.Camera
	_, pickPending := dc.picker.Pending()

	dc.drawConnections(out, dc.liveAnchorPositions(shapes))
	for _, s := range shapes {
		dc.drawShape(out, s, pickPending)
	}
	dc.drawAnchors(out, shapes)

	// Selection outline on top, tracking the live drag position.
	if block, _, ok := dc.interact.Selected(); ok {
		for _, s := range shapes {
			if s.Block().ID != block {
				continue
			}
			center, placed := dc.liveCenter(s)
			if !placed {
				break
			}
			dc.drawSelectionOutline(out, cam.ToScreen(center), s.Footprint())
			break
		}
	}
}

// liveCenter resolves a shape's logical center, substituting the live
// drag position for the dragged block. Rows riding on a dragged busbar
// shift by the same displacement so their anchors stay attached.
func (dc *DiagramCanvas) liveCenter(s diagram.Shape) (geometry.Point2D, bool) {
	center, placed := s.Center()
	if !placed {
		return geometry.Point2D{}, false
	}
	sel, _, ok := dc.interact.Selected()
	if !ok {
		return center, true
	}
	live, dragging := dc.interact.Live()
	if !dragging {
		return center, true
	}
	b := s.Block()
	switch {
	case b.ID == sel:
		return dc.vs.Camera.ToLogical(live), true
	case b.ParentID == sel:
		parent, err := dc.state.Project.Block(sel)
		if err != nil || parent.Position == nil {
			return center, true
		}
		delta := dc.vs.Camera.ToLogical(live).Sub(*parent.Position)
		return center.Add(delta), true
	}
	return center, true
}

// liveAnchorPositions mirrors diagram.AnchorPositions but computes each
// anchor from the drag-adjusted block center.
func (dc *DiagramCanvas) liveAnchorPositions(shapes []diagram.Shape) map[model.TerminalID]geometry.Point2D {
	out := make(map[model.TerminalID]geometry.Point2D)
	for _, s := range shapes {
		center, placed := dc.liveCenter(s)
		if !placed {
			continue
		}
		for _, a := range s.Anchors(center) {
			out[a.Terminal] = a.Pos
		}
	}
	return out
}

// drawConnections draws each connection whose two terminals both have
// anchors in this view.
func (dc *DiagramCanvas) drawConnections(out *image.RGBA, anchors map[model.TerminalID]geometry.Point2D) {
	cam := dc.vs.Camera
	for _, c := range dc.state.Project.Connections() {
		from, okFrom := anchors[c.LeftID]
		to, okTo := anchors[c.RightID]
		if !okFrom || !okTo {
			continue
		}
		a := cam.ToScreen(from)
		b := cam.ToScreen(to)
		drawLine(out, int(a.X), int(a.Y), int(b.X), int(b.Y), colorutil.WireGray, 2)
	}
}

func (dc *DiagramCanvas) drawShape(out *image.RGBA, s diagram.Shape, dimmed bool) {
	// While a block is being dragged it renders at the live pointer
	// position; the model keeps the old position until release.
	center, placed := dc.liveCenter(s)
	if !placed {
		return
	}
	cam := dc.vs.Camera
	b := s.Block()

	screenCenter := cam.ToScreen(center)

	size := s.Footprint()
	w := int(size.Width * cam.Zoom())
	h := int(size.Height * cam.Zoom())
	x1 := int(screenCenter.X) - w/2
	y1 := int(screenCenter.Y) - h/2

	fill := colorutil.BlockColor(string(b.Kind))
	if dimmed {
		fill = colorutil.Dim(fill, 0.5)
	}
	fillRect(out, x1, y1, x1+w, y1+h, fill)
	drawRectOutline(out, x1, y1, x1+w, y1+h, colorutil.Black, 1)

	label := b.Name
	if label == "" {
		label = string(b.Kind)
	}
	drawLabel(out, label, int(screenCenter.X), int(screenCenter.Y), colorutil.Black, labelScale(cam.Zoom()))
}

func (dc *DiagramCanvas) drawAnchors(out *image.RGBA, shapes []diagram.Shape) {
	cam := dc.vs.Camera
	pending, hasPending := dc.picker.Pending()
	for _, s := range shapes {
		center, placed := dc.liveCenter(s)
		if !placed {
			continue
		}
		for _, a := range s.Anchors(center) {
			pos := cam.ToScreen(a.Pos)
			col := colorutil.AnchorGreen
			if hasPending && a.Terminal == pending {
				col = colorutil.PendingAmber
			}
			drawCircle(out, pos.X, pos.Y, anchorDotRadius, col)
		}
	}
}

func (dc *DiagramCanvas) drawSelectionOutline(out *image.RGBA, screenCenter geometry.Point2D, size geometry.Size) {
	cam := dc.vs.Camera
	w := int(size.Width*cam.Zoom()) + 2*selectionPadding
	h := int(size.Height*cam.Zoom()) + 2*selectionPadding
	x1 := int(screenCenter.X) - w/2
	y1 := int(screenCenter.Y) - h/2
	drawRectOutline(out, x1, y1, x1+w, y1+h, colorutil.SelectionBlue, 2)
}

// labelScale maps the zoom factor to a pixel-font scale.
func labelScale(zoom float64) int {
	scale := int(zoom * 2)
	if scale < 1 {
		scale = 1
	}
	if scale > 6 {
		scale = 6
	}
	return scale
}

// fillRect fills a rectangle, clipped to the image bounds.
func fillRect(out *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := out.Bounds()
	for y := y1; y <= y2; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := x1; x <= x2; x++ {
			if x >= bounds.Min.X && x < bounds.Max.X {
				out.Set(x, y, col)
			}
		}
	}
}

// drawRectOutline draws a rectangle outline of the given thickness.
func drawRectOutline(out *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := out.Bounds()
	set := func(x, y int) {
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			out.Set(x, y, col)
		}
	}
	for t := 0; t < thickness; t++ {
		for x := x1; x <= x2; x++ {
			set(x, y1+t)
			set(x, y2-t)
		}
		for y := y1; y <= y2; y++ {
			set(x1+t, y)
			set(x2-t, y)
		}
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(out *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := out.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					out.Set(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawCircle draws a filled circle.
func drawCircle(out *image.RGBA, cx, cy, r float64, col color.RGBA) {
	bounds := out.Bounds()
	r2 := r * r
	for y := int(cy - r - 1); y <= int(cy+r+1); y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := int(cx - r - 1); x <= int(cx+r+1); x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r2 {
				out.Set(x, y, col)
			}
		}
	}
}

// drawLabel draws a centered label using the 3x5 pixel font.
func drawLabel(out *image.RGBA, label string, centerX, centerY int, col color.RGBA, scale int) {
	charWidth := 3 * scale
	charHeight := 5 * scale
	spacing := scale
	runes := []rune(label)
	labelWidth := len(runes)*charWidth + (len(runes)-1)*spacing

	startX := centerX - labelWidth/2
	startY := centerY - charHeight/2

	bounds := out.Bounds()

	for i, ch := range runes {
		pattern := getCharPattern(ch)
		charX := startX + i*(charWidth+spacing)

		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if (pattern[row] & (1 << (2 - c))) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						px := charX + c*scale + dx
						py := startY + row*scale + dy
						if px >= bounds.Min.X && px < bounds.Max.X &&
							py >= bounds.Min.Y && py < bounds.Max.Y {
							out.Set(px, py, col)
						}
					}
				}
			}
		}
	}
}
