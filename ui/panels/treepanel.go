// Package panels provides the side panel UI components.
package panels

import (
	"fmt"
	"strconv"

	"sld-editor/internal/app"
	"sld-editor/internal/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// TreePanel shows the project structure as a tree: root equipment and
// locations at the top level, location contents beneath, busbar rows
// beneath their busbar.
type TreePanel struct {
	state *app.State
	tree  *widget.Tree

	onSelect func(id model.BlockID)

	container *fyne.Container
}

// NewTreePanel creates the structure tree bound to the application state.
func NewTreePanel(state *app.State) *TreePanel {
	tp := &TreePanel{state: state}

	tp.tree = widget.NewTree(
		tp.childUIDs,
		tp.isBranch,
		func(branch bool) fyne.CanvasObject {
			return widget.NewLabel("equipment")
		},
		tp.updateNode,
	)
	tp.tree.OnSelected = func(uid widget.TreeNodeID) {
		id, err := parseUID(uid)
		if err != nil {
			return
		}
		if tp.onSelect != nil {
			tp.onSelect(id)
		}
	}

	tp.container = container.NewBorder(
		widget.NewLabel("Project"),
		nil, nil, nil,
		tp.tree,
	)

	state.On(app.EventStructureChanged, func(data interface{}) { tp.Refresh() })
	state.On(app.EventProjectLoaded, func(data interface{}) { tp.Refresh() })

	return tp
}

// Container returns the panel's root container.
func (tp *TreePanel) Container() fyne.CanvasObject {
	return tp.container
}

// OnSelect registers the callback invoked when a tree node is selected.
func (tp *TreePanel) OnSelect(callback func(id model.BlockID)) {
	tp.onSelect = callback
}

// Refresh re-reads the project structure.
func (tp *TreePanel) Refresh() {
	tp.tree.Refresh()
}

// Select highlights and reveals the given block in the tree.
func (tp *TreePanel) Select(id model.BlockID) {
	uid := formatUID(id)
	tp.tree.ScrollTo(uid)
	tp.tree.Select(uid)
}

func (tp *TreePanel) childUIDs(uid widget.TreeNodeID) []widget.TreeNodeID {
	parent := model.RootID
	if uid != "" {
		id, err := parseUID(uid)
		if err != nil {
			return nil
		}
		parent = id
	}
	children := tp.state.Project.Children(parent)
	uids := make([]widget.TreeNodeID, 0, len(children))
	for _, b := range children {
		uids = append(uids, formatUID(b.ID))
	}
	return uids
}

func (tp *TreePanel) isBranch(uid widget.TreeNodeID) bool {
	if uid == "" {
		return true
	}
	id, err := parseUID(uid)
	if err != nil {
		return false
	}
	b, err := tp.state.Project.Block(id)
	if err != nil {
		return false
	}
	// Locations and busbars are containers even while empty.
	return b.Kind == model.KindLocation || b.Kind == model.KindBusbar
}

func (tp *TreePanel) updateNode(uid widget.TreeNodeID, branch bool, obj fyne.CanvasObject) {
	label, ok := obj.(*widget.Label)
	if !ok {
		return
	}
	id, err := parseUID(uid)
	if err != nil {
		label.SetText("?")
		return
	}
	b, err := tp.state.Project.Block(id)
	if err != nil {
		label.SetText("?")
		return
	}
	text := b.Name
	if text == "" {
		text = string(b.Kind)
	}
	if !b.Placed() && b.Kind != model.KindRow {
		text += " (unplaced)"
	}
	label.SetText(text)
}

func formatUID(id model.BlockID) widget.TreeNodeID {
	return widget.TreeNodeID(strconv.Itoa(int(id)))
}

func parseUID(uid widget.TreeNodeID) (model.BlockID, error) {
	n, err := strconv.Atoi(string(uid))
	if err != nil {
		return 0, fmt.Errorf("bad tree node id %q: %w", uid, err)
	}
	return model.BlockID(n), nil
}
