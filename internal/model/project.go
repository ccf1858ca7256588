package model

import (
	"sort"

	"sld-editor/pkg/apperrors"
	"sld-editor/pkg/geometry"
)

// Project is the root aggregate owning the block forest and the
// connection set. All mutation happens on the main event thread; the
// project carries no locking of its own.
type Project struct {
	Name string

	blocks      map[BlockID]*Block
	terminals   map[TerminalID]*Terminal
	connections []Connection

	nextBlockID    BlockID
	nextTerminalID TerminalID
}

// NewProject creates an empty project. Block and terminal ids start at
// 1 so that the zero value is never a live id.
func NewProject(name string) *Project {
	return &Project{
		Name:           name,
		blocks:         make(map[BlockID]*Block),
		terminals:      make(map[TerminalID]*Terminal),
		nextBlockID:    1,
		nextTerminalID: 1,
	}
}

// AddBlock creates a block of the given kind under parent and returns it.
// Fails with NOT_FOUND if the parent does not exist and with
// INVALID_INPUT if the kind may not live under that parent.
func (p *Project) AddBlock(parent BlockID, kind Kind, name string) (*Block, error) {
	parentKind := Kind("")
	if parent != RootID {
		pb, ok := p.blocks[parent]
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "parent block %d", parent)
		}
		parentKind = pb.Kind
	}
	if !canParent(kind, parentKind) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
			"%s cannot be created under %s", kind, parentLabel(parentKind))
	}

	b := &Block{
		ID:       p.nextBlockID,
		ParentID: parent,
		Kind:     kind,
		Name:     name,
	}
	p.nextBlockID++
	p.blocks[b.ID] = b
	return b, nil
}

func parentLabel(kind Kind) string {
	if kind == "" {
		return "the layout root"
	}
	return string(kind)
}

// AddTerminal creates a named terminal on an existing block.
func (p *Project) AddTerminal(block BlockID, name string) (*Terminal, error) {
	if _, ok := p.blocks[block]; !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "block %d", block)
	}
	t := &Terminal{
		ID:      p.nextTerminalID,
		BlockID: block,
		Name:    name,
	}
	p.nextTerminalID++
	p.terminals[t.ID] = t
	return t, nil
}

// Block looks up a block by id.
func (p *Project) Block(id BlockID) (*Block, error) {
	b, ok := p.blocks[id]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "block %d", id)
	}
	return b, nil
}

// Terminal looks up a terminal by id.
func (p *Project) Terminal(id TerminalID) (*Terminal, error) {
	t, ok := p.terminals[id]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "terminal %d", id)
	}
	return t, nil
}

// Blocks returns every block in the project, sorted by id.
func (p *Project) Blocks() []*Block {
	out := make([]*Block, 0, len(p.blocks))
	for _, b := range p.blocks {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Children returns the blocks directly under parent, sorted by id so
// busbar rows keep their creation order.
func (p *Project) Children(parent BlockID) []*Block {
	var out []*Block
	for _, b := range p.blocks {
		if b.ParentID == parent {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Terminals returns the terminals owned by a block, sorted by id.
func (p *Project) Terminals(block BlockID) []*Terminal {
	var out []*Terminal
	for _, t := range p.terminals {
		if t.BlockID == block {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Connections returns a copy of the full connection set.
func (p *Project) Connections() []Connection {
	out := make([]Connection, len(p.connections))
	copy(out, p.connections)
	return out
}

// ConnectionsFor returns every connection the terminal participates in,
// on either side.
func (p *Project) ConnectionsFor(terminal TerminalID) []Connection {
	var out []Connection
	for _, c := range p.connections {
		if c.Touches(terminal) {
			out = append(out, c)
		}
	}
	return out
}

// AddConnection links two distinct existing terminals. Fails with
// INVALID_CONNECTION for a self-connection or a terminal id that does
// not resolve. Duplicates are not rejected here.
func (p *Project) AddConnection(a, b TerminalID) error {
	if a == b {
		return apperrors.New(apperrors.ErrCodeInvalidConnection,
			"terminal %d cannot connect to itself", a)
	}
	if _, ok := p.terminals[a]; !ok {
		return apperrors.New(apperrors.ErrCodeInvalidConnection, "terminal %d does not exist", a)
	}
	if _, ok := p.terminals[b]; !ok {
		return apperrors.New(apperrors.ErrCodeInvalidConnection, "terminal %d does not exist", b)
	}
	p.connections = append(p.connections, Connection{LeftID: a, RightID: b})
	return nil
}

// SetPosition stores the block's logical render position.
func (p *Project) SetPosition(id BlockID, pos geometry.Point2D) error {
	b, ok := p.blocks[id]
	if !ok {
		return apperrors.New(apperrors.ErrCodeNotFound, "block %d", id)
	}
	b.Position = &geometry.Point2D{X: pos.X, Y: pos.Y}
	return nil
}

// RemoveBlock deletes a block, every descendant block, and every
// connection touching a removed terminal.
func (p *Project) RemoveBlock(id BlockID) error {
	if _, ok := p.blocks[id]; !ok {
		return apperrors.New(apperrors.ErrCodeNotFound, "block %d", id)
	}

	// Collect the subtree breadth-first.
	doomed := map[BlockID]bool{id: true}
	queue := []BlockID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, b := range p.blocks {
			if b.ParentID == cur && !doomed[b.ID] {
				doomed[b.ID] = true
				queue = append(queue, b.ID)
			}
		}
	}

	// Drop terminals of doomed blocks, remembering their ids.
	removedTerminals := map[TerminalID]bool{}
	for tid, t := range p.terminals {
		if doomed[t.BlockID] {
			removedTerminals[tid] = true
			delete(p.terminals, tid)
		}
	}

	// Cascade: no connection may reference a removed terminal.
	kept := p.connections[:0]
	for _, c := range p.connections {
		if !removedTerminals[c.LeftID] && !removedTerminals[c.RightID] {
			kept = append(kept, c)
		}
	}
	p.connections = kept

	for bid := range doomed {
		delete(p.blocks, bid)
	}
	return nil
}

// RestoreIDs advances the internal id counters past the given values.
// Used by the persistence layer after loading a project file.
func (p *Project) RestoreIDs(maxBlock BlockID, maxTerminal TerminalID) {
	if maxBlock >= p.nextBlockID {
		p.nextBlockID = maxBlock + 1
	}
	if maxTerminal >= p.nextTerminalID {
		p.nextTerminalID = maxTerminal + 1
	}
}

// RestoreBlock inserts a fully-formed block, used by the persistence
// layer. The caller is responsible for id uniqueness.
func (p *Project) RestoreBlock(b *Block) {
	p.blocks[b.ID] = b
}

// RestoreTerminal inserts a fully-formed terminal, used by the
// persistence layer.
func (p *Project) RestoreTerminal(t *Terminal) {
	p.terminals[t.ID] = t
}

// RestoreConnection appends a connection without validation, used by the
// persistence layer for files that were validated on save.
func (p *Project) RestoreConnection(c Connection) {
	p.connections = append(p.connections, c)
}
