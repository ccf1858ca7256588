// Package main provides the entry point for the SLD Editor application.
package main

import (
	"os"
	"path/filepath"

	"sld-editor/internal/app"
	"sld-editor/internal/catalog"
	"sld-editor/internal/config"
	"sld-editor/ui/mainwindow"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/charmbracelet/log"
)

func main() {
	if os.Getenv("SLD_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	cfgPath := config.DefaultPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Error("bad configuration, using defaults", "path", cfgPath, "err", err)
		cfg = config.Default()
	}

	cat := openCatalog(cfg)
	if cat != nil {
		defer cat.Close()
	}

	state := app.NewState(cfg)

	watcher := app.NewConfigWatcher(state, cfgPath)
	if watcher != nil {
		defer watcher.Stop()
	}

	fyneApp := fyneapp.NewWithID("io.sld-editor")
	fyneApp.Settings().SetTheme(&app.SLDTheme{})

	win := mainwindow.New(fyneApp, state, cat)

	// Open a project from the command line, else the last one used.
	switch {
	case len(os.Args) > 1:
		win.OpenProjectPath(os.Args[1])
	case win.LastProject() != "":
		win.OpenProjectPath(win.LastProject())
	}

	win.ShowAndRun()
}

// openCatalog opens (and seeds on first run) the equipment catalog.
// The editor degrades to running without one.
func openCatalog(cfg *config.Config) *catalog.DB {
	path := cfg.Catalog.Path
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			configDir = filepath.Join(os.Getenv("HOME"), ".config")
		}
		path = filepath.Join(configDir, "sld-editor", "catalog.db")
	}

	cat, err := catalog.Open(path)
	if err != nil {
		log.Warn("equipment catalog unavailable", "path", path, "err", err)
		return nil
	}
	if err := cat.Seed(); err != nil {
		log.Warn("catalog seed failed", "err", err)
	}
	return cat
}
