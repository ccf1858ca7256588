package prefs

import (
	"path/filepath"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")

	p := loadFrom(path)
	if p.WindowWidth != 0 || p.LastProject != "" {
		t.Fatalf("missing file should load zero prefs, got %+v", p)
	}

	p.WindowWidth = 1440
	p.WindowHeight = 900
	p.LastProject = "/tmp/boat.sldproj"
	if err := p.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := loadFrom(path)
	if got.WindowWidth != 1440 || got.WindowHeight != 900 {
		t.Errorf("window size = %vx%v, want 1440x900", got.WindowWidth, got.WindowHeight)
	}
	if got.LastProject != "/tmp/boat.sldproj" {
		t.Errorf("last project = %q", got.LastProject)
	}
}
