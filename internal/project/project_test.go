package project

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"sld-editor/internal/model"
	"sld-editor/pkg/apperrors"
	"sld-editor/pkg/geometry"
)

var testCanvas = geometry.Size{Width: 2000, Height: 1500}

func buildProject(t *testing.T) *model.Project {
	t.Helper()
	p := model.NewProject("Boat")
	loc, err := p.AddLocation("Engine room")
	if err != nil {
		t.Fatalf("AddLocation: %v", err)
	}
	bus, err := p.AddBusbar(loc.ID, "DC main")
	if err != nil {
		t.Fatalf("AddBusbar: %v", err)
	}
	if _, err := p.AddRow(bus.ID, "Nav lights", model.ProtectionBreaker); err != nil {
		t.Fatalf("AddRow: %v", err)
	}
	sup, err := p.AddSupply("Shore")
	if err != nil {
		t.Fatalf("AddSupply: %v", err)
	}
	if err := p.SetPosition(bus.ID, geometry.Point2D{X: 120, Y: -60}); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	supOut := p.Terminals(sup.ID)[0]
	busIn := p.Terminals(bus.ID)[0]
	if err := p.AddConnection(supOut.ID, busIn.ID); err != nil {
		t.Fatalf("AddConnection: %v", err)
	}
	return p
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	p := buildProject(t)

	f := New(p.Name)
	f.Snapshot(p)

	path := filepath.Join(t.TempDir(), "boat.sldproj")
	if err := f.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Version != CurrentVersion {
		t.Errorf("version = %d, want %d", loaded.Version, CurrentVersion)
	}

	got, err := loaded.Restore(testCanvas)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got.Name != "Boat" {
		t.Errorf("name = %q", got.Name)
	}
	if len(got.Blocks()) != len(p.Blocks()) {
		t.Fatalf("got %d blocks, want %d", len(got.Blocks()), len(p.Blocks()))
	}
	for _, want := range p.Blocks() {
		b, err := got.Block(want.ID)
		if err != nil {
			t.Fatalf("Block %d: %v", want.ID, err)
		}
		if b.Kind != want.Kind || b.Name != want.Name || b.ParentID != want.ParentID {
			t.Errorf("block %d = %+v, want %+v", want.ID, b, want)
		}
		if want.Placed() != b.Placed() {
			t.Errorf("block %d placed = %v, want %v", want.ID, b.Placed(), want.Placed())
		}
	}
	if len(got.Connections()) != 1 {
		t.Fatalf("got %d connections", len(got.Connections()))
	}

	// New blocks must not collide with restored ids.
	extra, err := got.AddLocation("Aft cabin")
	if err != nil {
		t.Fatalf("AddLocation after restore: %v", err)
	}
	for _, b := range p.Blocks() {
		if extra.ID == b.ID {
			t.Errorf("new block reused id %d", extra.ID)
		}
	}
}

func TestRestoreLegacyPositions(t *testing.T) {
	// A version 1 file with a block at the center of the old 1024x768
	// frame: it must land at the center of the logical canvas.
	f := &File{
		Version: 1,
		Name:    "Old boat",
		Blocks: []blockRecord{
			{ID: 0, Parent: model.RootID, Kind: model.KindSupply, Name: "Shore", Placed: true, X: 512, Y: 384},
			{ID: 1, Parent: model.RootID, Kind: model.KindConductor, Name: "Feed", Placed: true, X: 0, Y: 0},
		},
	}

	p, err := f.Restore(testCanvas)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	center, _ := p.Block(0)
	if math.Abs(center.Position.X-1000) > 1e-6 || math.Abs(center.Position.Y-750) > 1e-6 {
		t.Errorf("center migrated to %+v, want (1000, 750)", center.Position)
	}
	corner, _ := p.Block(1)
	if math.Abs(corner.Position.X) > 1e-6 || math.Abs(corner.Position.Y) > 1e-6 {
		t.Errorf("origin migrated to %+v, want (0, 0)", corner.Position)
	}
}

func TestRestoreRejectsUnknownVersion(t *testing.T) {
	f := &File{Version: 99}
	if _, err := f.Restore(testCanvas); !apperrors.Is(err, apperrors.ErrCodePersistence) {
		t.Errorf("got err %v, want PERSISTENCE", err)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.sldproj")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !apperrors.Is(err, apperrors.ErrCodePersistence) {
		t.Errorf("got err %v, want PERSISTENCE", err)
	}
}
