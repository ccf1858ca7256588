package app

import (
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"

	"sld-editor/internal/config"
)

func TestReloadAppliesConfigAndNotifies(t *testing.T) {
	test.NewApp()

	path := filepath.Join(t.TempDir(), "config.toml")
	conf := "[zoom]\nmin = 0.5\nmax = 4.0\n"
	if err := os.WriteFile(path, []byte(conf), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	s := newTestState()
	var got *config.Config
	s.On(EventConfigReloaded, func(data interface{}) {
		got = data.(*config.Config)
	})

	w := &ConfigWatcher{state: s, path: path}
	w.reload()

	if s.Config.Zoom.Max != 4.0 || s.Config.Zoom.Min != 0.5 {
		t.Errorf("config not applied: %+v", s.Config.Zoom)
	}
	if got == nil {
		t.Fatal("no reload notification")
	}
	if got.Zoom.Max != 4.0 {
		t.Errorf("listener saw zoom max %v, want 4.0", got.Zoom.Max)
	}
}

func TestReloadKeepsConfigOnParseError(t *testing.T) {
	test.NewApp()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[zoom]\nmin = -1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	s := newTestState()
	notified := false
	s.On(EventConfigReloaded, func(interface{}) { notified = true })

	w := &ConfigWatcher{state: s, path: path}
	w.reload()

	if s.Config.Zoom.Min != 0.1 {
		t.Errorf("invalid file replaced the config: %+v", s.Config.Zoom)
	}
	if notified {
		t.Error("invalid reload still notified listeners")
	}
}
