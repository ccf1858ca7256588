// Package dialogs provides modal dialogs for creating equipment.
package dialogs

import (
	"sld-editor/internal/app"
	"sld-editor/internal/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// kindChoice pairs a dropdown label with the block kind it creates.
// Rows are handled separately because they need a protection choice.
type kindChoice struct {
	label string
	kind  model.Kind
}

var rootKinds = []kindChoice{
	{"Location", model.KindLocation},
	{"Supply", model.KindSupply},
	{"Alternator", model.KindAlternator},
	{"Conductor", model.KindConductor},
}

var locationKinds = []kindChoice{
	{"Busbar", model.KindBusbar},
	{"Transformer / UPS", model.KindTransformerUPS},
	{"External busbar", model.KindExternalBusbar},
	{"Load", model.KindLoad},
}

// ShowAddEquipment opens the dialog that creates a block under parent.
// Parent may be the project root, a location, or a busbar; the kind
// choices adapt. onAdded is invoked with the new block on success.
func ShowAddEquipment(win fyne.Window, state *app.State, parent *model.Block, onAdded func(*model.Block)) {
	switch {
	case parent == nil:
		showKindForm(win, state, model.RootID, rootKinds, onAdded)
	case parent.Kind == model.KindLocation:
		showKindForm(win, state, parent.ID, locationKinds, onAdded)
	case parent.Kind == model.KindBusbar:
		showRowForm(win, state, parent.ID, onAdded)
	default:
		dialog.ShowInformation("Add Equipment",
			"Equipment can be added at the top level, inside a location, or as a row on a busbar.", win)
	}
}

func showKindForm(win fyne.Window, state *app.State, parent model.BlockID, kinds []kindChoice, onAdded func(*model.Block)) {
	labels := make([]string, len(kinds))
	for i, k := range kinds {
		labels[i] = k.label
	}

	kindSel := widget.NewSelect(labels, nil)
	kindSel.SetSelectedIndex(0)
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("e.g. Engine room")

	items := []*widget.FormItem{
		widget.NewFormItem("Kind", kindSel),
		widget.NewFormItem("Name", nameEntry),
	}

	dialog.ShowForm("Add Equipment", "Add", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		idx := kindSel.SelectedIndex()
		if idx < 0 || idx >= len(kinds) {
			return
		}
		b, err := addBlock(state, parent, kinds[idx].kind, nameEntry.Text)
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		state.SetModified(true)
		state.Emit(app.EventStructureChanged, b.ID)
		if onAdded != nil {
			onAdded(b)
		}
	}, win)
}

func showRowForm(win fyne.Window, state *app.State, busbar model.BlockID, onAdded func(*model.Block)) {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("e.g. Nav lights")
	protSel := widget.NewSelect([]string{"Circuit breaker", "Pin fuse"}, nil)
	protSel.SetSelectedIndex(0)

	items := []*widget.FormItem{
		widget.NewFormItem("Name", nameEntry),
		widget.NewFormItem("Protection", protSel),
	}

	dialog.ShowForm("Add Busbar Row", "Add", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		prot := model.ProtectionBreaker
		if protSel.SelectedIndex() == 1 {
			prot = model.ProtectionPinFuse
		}
		b, err := state.Project.AddRow(busbar, nameEntry.Text, prot)
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		state.SetModified(true)
		state.Emit(app.EventStructureChanged, b.ID)
		if onAdded != nil {
			onAdded(b)
		}
	}, win)
}

func addBlock(state *app.State, parent model.BlockID, kind model.Kind, name string) (*model.Block, error) {
	p := state.Project
	switch kind {
	case model.KindLocation:
		return p.AddLocation(name)
	case model.KindSupply:
		return p.AddSupply(name)
	case model.KindAlternator:
		return p.AddAlternator(name)
	case model.KindConductor:
		return p.AddConductor(name)
	case model.KindBusbar:
		return p.AddBusbar(parent, name)
	case model.KindTransformerUPS:
		return p.AddTransformerUPS(parent, name)
	case model.KindExternalBusbar:
		return p.AddExternalBusbar(parent, name)
	case model.KindLoad:
		return p.AddLoad(parent, name)
	}
	return p.AddBlock(parent, kind, name)
}
