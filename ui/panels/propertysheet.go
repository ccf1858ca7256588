package panels

import (
	"fmt"

	"sld-editor/internal/app"
	"sld-editor/internal/catalog"
	"sld-editor/internal/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// PropertySheet edits the currently selected block: its name, its
// catalog assignment, and read-only kind and protection info.
type PropertySheet struct {
	state   *app.State
	catalog *catalog.DB

	block model.BlockID

	kindLabel   *widget.Label
	nameEntry   *widget.Entry
	protLabel   *widget.Label
	ratingLabel *widget.Label
	catalogSel  *widget.Select

	// entries backs catalogSel: entries[i] matches option i+1 (index 0
	// is the "none" option).
	entries []catalog.Entry

	// loading suppresses the select callback while the sheet rebinds.
	loading bool

	container *fyne.Container
}

// NewPropertySheet creates the property editor. The catalog may be nil
// when the equipment database failed to open; the picker hides itself.
func NewPropertySheet(state *app.State, cat *catalog.DB) *PropertySheet {
	ps := &PropertySheet{state: state, catalog: cat}

	ps.kindLabel = widget.NewLabel("")
	ps.protLabel = widget.NewLabel("")
	ps.ratingLabel = widget.NewLabel("")
	ps.ratingLabel.Wrapping = fyne.TextWrapWord

	ps.nameEntry = widget.NewEntry()
	ps.nameEntry.OnSubmitted = func(text string) { ps.applyName(text) }
	applyBtn := widget.NewButton("Rename", func() { ps.applyName(ps.nameEntry.Text) })

	ps.catalogSel = widget.NewSelect(nil, func(string) { ps.applyCatalog() })

	form := container.NewVBox(
		widget.NewLabel("Properties"),
		widget.NewSeparator(),
		container.NewBorder(nil, nil, widget.NewLabel("Kind"), nil, ps.kindLabel),
		container.NewBorder(nil, nil, widget.NewLabel("Name"), applyBtn, ps.nameEntry),
		ps.protLabel,
		widget.NewSeparator(),
		widget.NewLabel("Catalog"),
		ps.catalogSel,
		ps.ratingLabel,
	)
	ps.container = form

	ps.ShowBlock(0)

	state.On(app.EventProjectLoaded, func(data interface{}) { ps.ShowBlock(0) })
	state.On(app.EventStructureChanged, func(data interface{}) {
		if _, err := state.Project.Block(ps.block); err != nil {
			ps.ShowBlock(0)
		}
	})

	return ps
}

// Container returns the panel's root container.
func (ps *PropertySheet) Container() fyne.CanvasObject {
	return ps.container
}

// ShowBlock binds the sheet to a block. Zero clears the sheet.
func (ps *PropertySheet) ShowBlock(id model.BlockID) {
	ps.block = id
	b, err := ps.state.Project.Block(id)
	if id == 0 || err != nil {
		ps.block = 0
		ps.kindLabel.SetText("-")
		ps.nameEntry.SetText("")
		ps.nameEntry.Disable()
		ps.protLabel.Hide()
		ps.catalogSel.Options = nil
		ps.catalogSel.Disable()
		ps.ratingLabel.SetText("")
		return
	}

	ps.kindLabel.SetText(string(b.Kind))
	ps.nameEntry.Enable()
	ps.nameEntry.SetText(b.Name)

	if b.Kind == model.KindRow {
		ps.protLabel.SetText("Protection: " + string(b.Protection))
		ps.protLabel.Show()
	} else {
		ps.protLabel.Hide()
	}

	ps.loadCatalogOptions(b)
}

func (ps *PropertySheet) loadCatalogOptions(b *model.Block) {
	ps.loading = true
	defer func() { ps.loading = false }()

	ps.entries = nil
	ps.catalogSel.Options = nil
	ps.catalogSel.Selected = ""
	ps.ratingLabel.SetText("")

	if ps.catalog == nil {
		ps.catalogSel.Disable()
		ps.catalogSel.Refresh()
		return
	}
	entries, err := ps.catalog.ByKind(b.Kind)
	if err != nil || len(entries) == 0 {
		ps.catalogSel.Disable()
		ps.catalogSel.Refresh()
		return
	}

	ps.entries = entries
	options := make([]string, 0, len(entries)+1)
	options = append(options, "(none)")
	selected := "(none)"
	for _, e := range entries {
		name := e.Manufacturer + " " + e.ModelName
		options = append(options, name)
		if e.Ref == b.CatalogRef && b.CatalogRef != "" {
			selected = name
			ps.ratingLabel.SetText(describeEntry(e))
		}
	}
	ps.catalogSel.Options = options
	ps.catalogSel.Enable()
	ps.catalogSel.SetSelected(selected)
}

func (ps *PropertySheet) applyName(name string) {
	b, err := ps.state.Project.Block(ps.block)
	if err != nil || name == "" || name == b.Name {
		return
	}
	b.Name = name
	ps.state.SetModified(true)
	ps.state.Emit(app.EventStructureChanged, b.ID)
}

func (ps *PropertySheet) applyCatalog() {
	if ps.loading {
		return
	}
	b, err := ps.state.Project.Block(ps.block)
	if err != nil {
		return
	}
	idx := ps.catalogSel.SelectedIndex()
	ref := ""
	if idx > 0 && idx <= len(ps.entries) {
		entry := ps.entries[idx-1]
		ref = entry.Ref
		ps.ratingLabel.SetText(describeEntry(entry))
	} else {
		ps.ratingLabel.SetText("")
	}
	if ref == b.CatalogRef {
		return
	}
	b.CatalogRef = ref
	ps.state.SetModified(true)
}

func describeEntry(e catalog.Entry) string {
	s := fmt.Sprintf("%.0fA @ %.0fV", e.RatedAmps, e.RatedVolts)
	if e.WireGauge != "" {
		s += ", " + e.WireGauge
	}
	return s
}
