// Package export renders diagram views to PNG files, used by the File
// menu and the sldexport command line tool.
package export

import (
	"io"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"sld-editor/internal/diagram"
	"sld-editor/internal/model"
	"sld-editor/pkg/apperrors"
	"sld-editor/pkg/colorutil"
	"sld-editor/pkg/geometry"
)

// Options configures PNG rendering.
type Options struct {
	Width    int
	Height   int
	FontSize float64
	Title    string
}

// DefaultOptions returns sensible defaults for PNG rendering.
func DefaultOptions() Options {
	return Options{
		Width:    1600,
		Height:   1200,
		FontSize: 13,
	}
}

const anchorDotRadius = 3.0

// RenderPNG renders one view of the project to PNG.
func RenderPNG(p *model.Project, view diagram.ViewID, w io.Writer, opts Options) error {
	img, err := render(p, view, opts)
	if err != nil {
		return err
	}
	if err := img.EncodePNG(w); err != nil {
		return apperrors.Wrap(apperrors.ErrCodePersistence, err, "encode png")
	}
	return nil
}

// WritePNG renders one view of the project to a PNG file.
func WritePNG(p *model.Project, view diagram.ViewID, path string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodePersistence, err, "create png file")
	}
	defer f.Close()
	return RenderPNG(p, view, f, opts)
}

func render(p *model.Project, view diagram.ViewID, opts Options) (*gg.Context, error) {
	shapes := diagram.Renderables(p, view)

	// A camera maps logical coordinates onto the image the same way the
	// on-screen view does, fitted to the content.
	canvas := geometry.Size{Width: float64(opts.Width), Height: float64(opts.Height)}
	var cam *diagram.Camera
	if view == diagram.LayoutViewID {
		cam = diagram.NewLayoutCamera(canvas, diagram.DefaultMinZoom, diagram.DefaultMaxZoom)
	} else {
		cam = diagram.NewLocationCamera(canvas, diagram.DefaultMinZoom, diagram.DefaultMaxZoom)
	}
	cam.SetViewport(canvas)
	if err := cam.Fit(diagram.ContentBounds(shapes)); err != nil {
		return nil, err
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(colorutil.Background)
	dc.Clear()

	ttfFont, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodePersistence, err, "parse font")
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	anchors := diagram.AnchorPositions(shapes)
	drawConnections(dc, p, cam, anchors)
	for _, s := range shapes {
		drawShape(dc, cam, s)
	}
	drawAnchors(dc, cam, shapes)

	if opts.Title != "" {
		dc.SetColor(colorutil.Black)
		dc.DrawStringAnchored(opts.Title, float64(opts.Width)/2, opts.FontSize*1.5, 0.5, 0.5)
	}
	return dc, nil
}

// drawConnections draws a straight line for every connection whose two
// terminals both have anchors in this view.
func drawConnections(dc *gg.Context, p *model.Project, cam *diagram.Camera, anchors map[model.TerminalID]geometry.Point2D) {
	dc.SetColor(colorutil.WireGray)
	dc.SetLineWidth(1.5)
	for _, c := range p.Connections() {
		from, okFrom := anchors[c.LeftID]
		to, okTo := anchors[c.RightID]
		if !okFrom || !okTo {
			continue
		}
		a := cam.ToScreen(from)
		b := cam.ToScreen(to)
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		dc.Stroke()
	}
}

func drawShape(dc *gg.Context, cam *diagram.Camera, s diagram.Shape) {
	center, placed := s.Center()
	if !placed {
		return
	}
	b := s.Block()
	box := geometry.RectAround(center, s.Footprint())
	tl := cam.ToScreen(geometry.Point2D{X: box.X, Y: box.Y})
	w := box.Width * cam.Zoom()
	h := box.Height * cam.Zoom()

	dc.SetColor(colorutil.BlockColor(string(b.Kind)))
	dc.DrawRectangle(tl.X, tl.Y, w, h)
	dc.Fill()
	dc.SetColor(colorutil.Black)
	dc.SetLineWidth(1.0)
	dc.DrawRectangle(tl.X, tl.Y, w, h)
	dc.Stroke()

	sc := cam.ToScreen(center)
	label := b.Name
	if label == "" {
		label = string(b.Kind)
	}
	dc.DrawStringAnchored(label, sc.X, sc.Y, 0.5, 0.5)
}

func drawAnchors(dc *gg.Context, cam *diagram.Camera, shapes []diagram.Shape) {
	for _, s := range shapes {
		center, placed := s.Center()
		if !placed {
			continue
		}
		for _, a := range s.Anchors(center) {
			pos := cam.ToScreen(a.Pos)
			dc.SetColor(colorutil.AnchorGreen)
			dc.DrawCircle(pos.X, pos.Y, anchorDotRadius)
			dc.Fill()
		}
	}
}
