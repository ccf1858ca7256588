// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"sld-editor/internal/app"
	"sld-editor/internal/catalog"
	"sld-editor/internal/diagram"
	"sld-editor/internal/export"
	"sld-editor/internal/model"
	"sld-editor/internal/version"
	"sld-editor/ui/canvas"
	"sld-editor/ui/dialogs"
	"sld-editor/ui/panels"
	"sld-editor/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const projectExt = ".sldproj"

// MainWindow is the primary application window: structure tree and
// property sheet on the left, diagram view tabs in the center.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	// Shared across all view tabs so selection stays exclusive.
	interact *diagram.Interaction
	picker   *diagram.Picker

	tabs     *container.DocTabs
	canvases map[diagram.ViewID]*canvas.DiagramCanvas

	treePanel *panels.TreePanel
	propSheet *panels.PropertySheet
	statusBar *widget.Label

	selected model.BlockID
}

// New creates the main window bound to the application state. The
// catalog may be nil when the equipment database failed to open.
func New(fyneApp fyne.App, state *app.State, cat *catalog.DB) *MainWindow {
	win := fyneApp.NewWindow("SLD Editor")

	mw := &MainWindow{
		Window:   win,
		app:      fyneApp,
		state:    state,
		prefs:    prefs.Load(),
		interact: diagram.NewInteraction(),
		picker:   diagram.NewPicker(),
		canvases: make(map[diagram.ViewID]*canvas.DiagramCanvas),
	}

	mw.setupUI(cat)
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.rebuildTabs()
	mw.restoreGeometry()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI(cat *catalog.DB) {
	mw.treePanel = panels.NewTreePanel(mw.state)
	mw.propSheet = panels.NewPropertySheet(mw.state, cat)
	mw.statusBar = widget.NewLabel("Ready")

	mw.treePanel.OnSelect(func(id model.BlockID) {
		mw.selected = id
		mw.propSheet.ShowBlock(id)
	})

	mw.tabs = container.NewDocTabs()
	mw.tabs.CloseIntercept = func(item *container.TabItem) {
		dc, ok := item.Content.(*canvas.DiagramCanvas)
		if !ok {
			return
		}
		// The layout tab never closes.
		if dc.View() == diagram.LayoutViewID {
			return
		}
		mw.state.Views.Close(dc.View())
		delete(mw.canvases, dc.View())
		mw.tabs.Remove(item)
		mw.state.Emit(app.EventViewClosed, dc.View())
	}

	side := container.NewVSplit(mw.treePanel.Container(), mw.propSheet.Container())
	side.SetOffset(0.6)

	center := container.NewBorder(
		mw.createToolbar(),
		nil, nil, nil,
		mw.tabs,
	)

	split := container.NewHSplit(side, center)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil, nil,
		split,
	)
	mw.SetContent(content)

	mw.SetCloseIntercept(func() {
		mw.saveGeometry()
		mw.Close()
	})
}

// createToolbar creates the toolbar above the diagram tabs.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	addBtn := widget.NewButton("Add", mw.onAddEquipment)
	removeBtn := widget.NewButton("Remove", mw.onRemoveSelected)
	placeBtn := widget.NewButton("Place", mw.onPlaceSelected)
	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onFit)

	return container.NewHBox(
		addBtn,
		removeBtn,
		placeBtn,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", mw.onNewProject),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", mw.onExportPNG),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			mw.saveGeometry()
			mw.app.Quit()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Add Equipment...", mw.onAddEquipment),
		fyne.NewMenuItem("Remove Selected", mw.onRemoveSelected),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Cancel Connection", mw.onCancelConnection),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Fit to Content", mw.onFit),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		mw.selected = 0
		mw.interact.Clear()
		mw.picker.Clear()
		mw.rebuildTabs()
		if path, ok := data.(string); ok && path != "" {
			mw.SetTitle("SLD Editor - " + filepath.Base(path))
			mw.updateStatus("Project loaded: " + path)
		} else {
			mw.SetTitle("SLD Editor - " + mw.state.Project.Name)
			mw.updateStatus("New project")
		}
	})

	mw.state.On(app.EventProjectSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("SLD Editor - " + filepath.Base(path))
			mw.updateStatus("Saved: " + path)
			mw.prefs.LastProject = path
			_ = mw.prefs.Save()
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})

	mw.state.On(app.EventSelectionChanged, func(data interface{}) {
		if id, ok := data.(model.BlockID); ok {
			mw.selected = id
			mw.propSheet.ShowBlock(id)
			mw.treePanel.Select(id)
		}
		mw.refreshCanvases()
	})

	mw.state.On(app.EventStructureChanged, func(data interface{}) {
		// Content extents may have changed, so refit the view that
		// holds the block before repainting.
		if id, ok := data.(model.BlockID); ok {
			mw.fitViewOf(id)
		}
		mw.refreshCanvases()
	})
	mw.state.On(app.EventPositionChanged, func(data interface{}) {
		mw.refreshCanvases()
	})
	mw.state.On(app.EventConnectionAdded, func(data interface{}) {
		mw.refreshCanvases()
	})

	mw.state.On(app.EventConfigReloaded, func(data interface{}) {
		mw.updateStatus("Configuration reloaded")
	})
}

// rebuildTabs recreates every view tab from the registry. Called on
// project load because the registry and its cameras are replaced.
func (mw *MainWindow) rebuildTabs() {
	mw.tabs.SetItems(nil)
	mw.canvases = make(map[diagram.ViewID]*canvas.DiagramCanvas)

	mw.addViewTab(diagram.LayoutViewID)
	for _, id := range mw.state.Views.OpenViews() {
		if id == diagram.LayoutViewID {
			continue
		}
		mw.addViewTab(id)
	}
	mw.tabs.SelectIndex(0)
}

// addViewTab creates a canvas tab for the view, reusing an existing one.
func (mw *MainWindow) addViewTab(id diagram.ViewID) {
	if dc, ok := mw.canvases[id]; ok {
		for _, item := range mw.tabs.Items {
			if item.Content == dc {
				mw.tabs.Select(item)
				return
			}
		}
	}

	dc := canvas.NewDiagramCanvas(mw.state, id, mw.interact, mw.picker)
	dc.OnStatus(mw.updateStatus)
	dc.OnOpenLocation(mw.openLocation)
	mw.canvases[id] = dc

	item := container.NewTabItem(mw.viewTitle(id), dc)
	mw.tabs.Append(item)
	mw.tabs.Select(item)
	// Frame the view's content on first open; the camera defers the
	// fit until the viewport has been laid out.
	dc.FitToContent()
	mw.state.Emit(app.EventViewOpened, id)
}

func (mw *MainWindow) viewTitle(id diagram.ViewID) string {
	if id == diagram.LayoutViewID {
		return "Layout"
	}
	b, err := mw.state.Project.Block(model.BlockID(id))
	if err != nil {
		return fmt.Sprintf("View %d", id)
	}
	if b.Name != "" {
		return b.Name
	}
	return string(b.Kind)
}

// openLocation opens (or focuses) the detail tab for a location.
func (mw *MainWindow) openLocation(id model.BlockID) {
	mw.state.Views.Open(diagram.ViewID(id))
	mw.addViewTab(diagram.ViewID(id))
}

// activeCanvas returns the canvas of the selected tab.
func (mw *MainWindow) activeCanvas() *canvas.DiagramCanvas {
	item := mw.tabs.Selected()
	if item == nil {
		return nil
	}
	dc, _ := item.Content.(*canvas.DiagramCanvas)
	return dc
}

// fitViewOf refits the open view that renders the given block. A block
// that no longer resolves was deleted, so every open view refits.
func (mw *MainWindow) fitViewOf(id model.BlockID) {
	b, err := mw.state.Project.Block(id)
	if err != nil {
		for _, dc := range mw.canvases {
			dc.FitToContent()
		}
		return
	}

	view := diagram.LayoutViewID
	if b.ParentID != model.RootID {
		view = diagram.ViewID(b.ParentID)
		// Rows render in their busbar's location view.
		if parent, err := mw.state.Project.Block(b.ParentID); err == nil && parent.Kind == model.KindBusbar {
			view = diagram.ViewID(parent.ParentID)
		}
	}
	if dc, ok := mw.canvases[view]; ok {
		dc.FitToContent()
	}
}

func (mw *MainWindow) refreshCanvases() {
	mw.treePanel.Refresh()
	for _, dc := range mw.canvases {
		dc.Refresh()
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// Menu and toolbar handlers

func (mw *MainWindow) onNewProject() {
	mw.state.NewProject("Untitled")
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		mw.OpenProjectPath(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{projectExt}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// OpenProjectPath loads a project file, reporting failures in a dialog.
func (mw *MainWindow) OpenProjectPath(path string) {
	if err := mw.state.LoadProject(path); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.prefs.LastProject = path
	_ = mw.prefs.Save()
}

func (mw *MainWindow) onSaveProject() {
	if mw.state.ProjectPath == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := mw.state.SaveProject(mw.state.ProjectPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != projectExt {
			path += projectExt
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("project" + projectExt)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportPNG() {
	dc := mw.activeCanvas()
	if dc == nil {
		return
	}
	view := dc.View()

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".png" {
			path += ".png"
		}
		opts := export.DefaultOptions()
		opts.Title = mw.viewTitle(view)
		if err := export.WritePNG(mw.state.Project, view, path, opts); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported: " + path)
	}, mw.Window)
	fd.SetFileName("diagram.png")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onAddEquipment() {
	var parent *model.Block
	if mw.selected != 0 {
		if b, err := mw.state.Project.Block(mw.selected); err == nil {
			parent = b
		}
	}
	dialogs.ShowAddEquipment(mw.Window, mw.state, parent, func(b *model.Block) {
		mw.selected = b.ID
		mw.treePanel.Select(b.ID)
		mw.propSheet.ShowBlock(b.ID)
		mw.updateStatus("Added " + string(b.Kind))
	})
}

func (mw *MainWindow) onRemoveSelected() {
	if mw.selected == 0 {
		return
	}
	b, err := mw.state.Project.Block(mw.selected)
	if err != nil {
		return
	}
	name := b.Name
	if name == "" {
		name = string(b.Kind)
	}
	dialog.ShowConfirm("Remove Equipment",
		"Remove "+name+" and everything inside it?",
		func(confirmed bool) {
			if !confirmed {
				return
			}
			if sel, _, ok := mw.interact.Selected(); ok && sel == b.ID {
				mw.interact.Clear()
			}
			if err := mw.state.RemoveBlock(b.ID); err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			mw.selected = 0
			mw.propSheet.ShowBlock(0)
		}, mw.Window)
}

// onPlaceSelected drops the tree-selected block at the center of the
// view it belongs to, opening that view first if needed.
func (mw *MainWindow) onPlaceSelected() {
	if mw.selected == 0 {
		return
	}
	b, err := mw.state.Project.Block(mw.selected)
	if err != nil {
		return
	}
	if b.Kind == model.KindRow {
		mw.updateStatus("Rows derive their position from the busbar")
		return
	}

	view := diagram.LayoutViewID
	if b.ParentID != model.RootID {
		view = diagram.ViewID(b.ParentID)
		mw.openLocation(b.ParentID)
	}
	vs, err := mw.state.Views.Get(view)
	if err != nil {
		return
	}
	pos := vs.Camera.ToLogical(vs.Camera.ViewportCenter())
	if err := mw.state.MoveBlock(b.ID, pos); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onCancelConnection() {
	mw.picker.Clear()
	mw.refreshCanvases()
	mw.updateStatus("Connection cancelled")
}

func (mw *MainWindow) onZoomIn() {
	if dc := mw.activeCanvas(); dc != nil {
		dc.ZoomIn()
	}
}

func (mw *MainWindow) onZoomOut() {
	if dc := mw.activeCanvas(); dc != nil {
		dc.ZoomOut()
	}
}

func (mw *MainWindow) onFit() {
	if dc := mw.activeCanvas(); dc != nil {
		dc.FitToContent()
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About SLD Editor",
		fmt.Sprintf("SLD Editor v%s\n\n"+
			"An interactive single-line diagram editor\n"+
			"for electrical power layouts.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

// Preferences helpers

// LastProject returns the most recently opened project path, if any.
func (mw *MainWindow) LastProject() string {
	return mw.prefs.LastProject
}

func (mw *MainWindow) getLastDir() fyne.ListableURI {
	if mw.prefs.LastDirectory == "" {
		return nil
	}
	uri := storage.NewFileURI(mw.prefs.LastDirectory)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.LastDirectory = filepath.Dir(filePath)
	_ = mw.prefs.Save()
}

func (mw *MainWindow) restoreGeometry() {
	w, h := mw.prefs.WindowWidth, mw.prefs.WindowHeight
	if w <= 0 || h <= 0 {
		w, h = 1280, 800
	}
	mw.Resize(fyne.NewSize(float32(w), float32(h)))
}

func (mw *MainWindow) saveGeometry() {
	size := mw.Canvas().Size()
	mw.prefs.WindowWidth = float64(size.Width)
	mw.prefs.WindowHeight = float64(size.Height)
	_ = mw.prefs.Save()
}
