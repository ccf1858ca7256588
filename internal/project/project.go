// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"os"
	"time"

	"sld-editor/internal/model"
	"sld-editor/pkg/apperrors"
	"sld-editor/pkg/geometry"
)

// CurrentVersion is the file format written by Save.
const CurrentVersion = 2

// Legacy version 1 files stored positions in fixed 1024x768 editor
// pixels with a top-left origin. Load migrates them onto the logical
// canvas with an affine fit between the two coordinate frames.
const (
	legacyCanvasW = 1024.0
	legacyCanvasH = 768.0
)

// File represents a diagram project file (.sldproj).
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	Blocks      []blockRecord      `json:"blocks"`
	Terminals   []terminalRecord   `json:"terminals"`
	Connections []connectionRecord `json:"connections"`
	Views       []ViewRecord       `json:"views,omitempty"`
}

type blockRecord struct {
	ID         model.BlockID    `json:"id"`
	Parent     model.BlockID    `json:"parent"`
	Kind       model.Kind       `json:"kind"`
	Name       string           `json:"name"`
	Placed     bool             `json:"placed"`
	X          float64          `json:"x,omitempty"`
	Y          float64          `json:"y,omitempty"`
	Protection model.Protection `json:"protection,omitempty"`
	CatalogRef string           `json:"catalog_ref,omitempty"`
}

type terminalRecord struct {
	ID    model.TerminalID `json:"id"`
	Block model.BlockID    `json:"block"`
	Name  string           `json:"name"`
}

type connectionRecord struct {
	Left  model.TerminalID `json:"left"`
	Right model.TerminalID `json:"right"`
}

// ViewRecord captures the camera state of one open view so it can be
// restored on the next load.
type ViewRecord struct {
	Block model.BlockID `json:"block"`
	Zoom  float64       `json:"zoom"`
	PanX  float64       `json:"pan_x"`
	PanY  float64       `json:"pan_y"`
}

// New creates an empty project file.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  CurrentVersion,
		Name:     name,
		Created:  now,
		Modified: now,
	}
}

// Snapshot captures the model state into the file for saving.
func (f *File) Snapshot(p *model.Project) {
	f.Name = p.Name
	f.Blocks = f.Blocks[:0]
	f.Terminals = f.Terminals[:0]
	f.Connections = f.Connections[:0]

	for _, b := range p.Blocks() {
		rec := blockRecord{
			ID:         b.ID,
			Parent:     b.ParentID,
			Kind:       b.Kind,
			Name:       b.Name,
			Protection: b.Protection,
			CatalogRef: b.CatalogRef,
		}
		if b.Placed() {
			rec.Placed = true
			rec.X = b.Position.X
			rec.Y = b.Position.Y
		}
		f.Blocks = append(f.Blocks, rec)

		for _, t := range p.Terminals(b.ID) {
			f.Terminals = append(f.Terminals, terminalRecord{ID: t.ID, Block: t.BlockID, Name: t.Name})
		}
	}
	for _, c := range p.Connections() {
		f.Connections = append(f.Connections, connectionRecord{Left: c.LeftID, Right: c.RightID})
	}
}

// Restore rebuilds a model project from the file contents. Legacy
// version 1 positions are migrated onto the given logical canvas.
func (f *File) Restore(canvas geometry.Size) (*model.Project, error) {
	if f.Version < 1 || f.Version > CurrentVersion {
		return nil, apperrors.New(apperrors.ErrCodePersistence, "unsupported project version %d", f.Version)
	}

	migrate := geometry.Identity()
	if f.Version == 1 {
		var err error
		migrate, err = legacyTransform(canvas)
		if err != nil {
			return nil, err
		}
	}

	p := model.NewProject(f.Name)
	var maxBlock model.BlockID
	var maxTerminal model.TerminalID

	for i := range f.Blocks {
		rec := &f.Blocks[i]
		b := &model.Block{
			ID:         rec.ID,
			ParentID:   rec.Parent,
			Kind:       rec.Kind,
			Name:       rec.Name,
			Protection: rec.Protection,
			CatalogRef: rec.CatalogRef,
		}
		if rec.Placed {
			pos := migrate.Apply(geometry.Point2D{X: rec.X, Y: rec.Y})
			b.Position = &pos
		}
		p.RestoreBlock(b)
		if rec.ID > maxBlock {
			maxBlock = rec.ID
		}
	}
	for _, rec := range f.Terminals {
		p.RestoreTerminal(&model.Terminal{ID: rec.ID, BlockID: rec.Block, Name: rec.Name})
		if rec.ID > maxTerminal {
			maxTerminal = rec.ID
		}
	}
	for _, rec := range f.Connections {
		p.RestoreConnection(model.Connection{LeftID: rec.Left, RightID: rec.Right})
	}
	p.RestoreIDs(maxBlock, maxTerminal)

	return p, nil
}

// legacyTransform fits the affine map from the fixed legacy editor
// frame onto the logical canvas, matching corners and center.
func legacyTransform(canvas geometry.Size) (geometry.AffineTransform, error) {
	src := []geometry.Point2D{
		{X: 0, Y: 0},
		{X: legacyCanvasW, Y: 0},
		{X: 0, Y: legacyCanvasH},
		{X: legacyCanvasW, Y: legacyCanvasH},
		{X: legacyCanvasW / 2, Y: legacyCanvasH / 2},
	}
	dst := []geometry.Point2D{
		{X: 0, Y: 0},
		{X: canvas.Width, Y: 0},
		{X: 0, Y: canvas.Height},
		{X: canvas.Width, Y: canvas.Height},
		{X: canvas.Width / 2, Y: canvas.Height / 2},
	}
	tf, err := geometry.FitAffine(src, dst)
	if err != nil {
		return geometry.AffineTransform{}, apperrors.Wrap(apperrors.ErrCodePersistence, err, "migrate legacy positions")
	}
	return tf, nil
}

// Load loads a project from a .sldproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodePersistence, err, "read project")
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodePersistence, err, "parse project")
	}

	return &f, nil
}

// Save saves the project to a file.
func (f *File) Save(path string) error {
	f.Version = CurrentVersion
	f.Modified = time.Now()

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodePersistence, err, "encode project")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return apperrors.Wrap(apperrors.ErrCodePersistence, err, "write project")
	}
	return nil
}
