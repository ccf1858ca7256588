package model

// Equipment constructors. Each creates a block together with the
// terminals that kind of equipment exposes, so callers never assemble
// terminal sets by hand.

// AddLocation creates a location at the layout root.
func (p *Project) AddLocation(name string) (*Block, error) {
	return p.AddBlock(RootID, KindLocation, name)
}

// AddSupply creates a mains supply at the layout root with a single
// output terminal.
func (p *Project) AddSupply(name string) (*Block, error) {
	b, err := p.AddBlock(RootID, KindSupply, name)
	if err != nil {
		return nil, err
	}
	if _, err := p.AddTerminal(b.ID, "out"); err != nil {
		return nil, err
	}
	return b, nil
}

// AddAlternator creates a standby alternator at the layout root with a
// single output terminal.
func (p *Project) AddAlternator(name string) (*Block, error) {
	b, err := p.AddBlock(RootID, KindAlternator, name)
	if err != nil {
		return nil, err
	}
	if _, err := p.AddTerminal(b.ID, "out"); err != nil {
		return nil, err
	}
	return b, nil
}

// AddConductor creates a conductor at the layout root with terminals at
// both ends.
func (p *Project) AddConductor(name string) (*Block, error) {
	b, err := p.AddBlock(RootID, KindConductor, name)
	if err != nil {
		return nil, err
	}
	for _, tn := range []string{"end_a", "end_b"} {
		if _, err := p.AddTerminal(b.ID, tn); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// AddBusbar creates a busbar under a location with an input terminal.
// Rows are added separately with AddRow.
func (p *Project) AddBusbar(location BlockID, name string) (*Block, error) {
	b, err := p.AddBlock(location, KindBusbar, name)
	if err != nil {
		return nil, err
	}
	if _, err := p.AddTerminal(b.ID, "in"); err != nil {
		return nil, err
	}
	return b, nil
}

// AddRow appends a protected output row to a busbar. The row owns the
// output terminal; its render geometry derives from the busbar.
func (p *Project) AddRow(busbar BlockID, name string, protection Protection) (*Block, error) {
	b, err := p.AddBlock(busbar, KindRow, name)
	if err != nil {
		return nil, err
	}
	b.Protection = protection
	if _, err := p.AddTerminal(b.ID, "out"); err != nil {
		return nil, err
	}
	return b, nil
}

// AddTransformerUPS creates a transformer/UPS under a location with
// input and output terminals.
func (p *Project) AddTransformerUPS(location BlockID, name string) (*Block, error) {
	b, err := p.AddBlock(location, KindTransformerUPS, name)
	if err != nil {
		return nil, err
	}
	for _, tn := range []string{"in", "out"} {
		if _, err := p.AddTerminal(b.ID, tn); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// AddExternalBusbar creates the location's external busbar with an
// input terminal.
func (p *Project) AddExternalBusbar(location BlockID, name string) (*Block, error) {
	b, err := p.AddBlock(location, KindExternalBusbar, name)
	if err != nil {
		return nil, err
	}
	if _, err := p.AddTerminal(b.ID, "in"); err != nil {
		return nil, err
	}
	return b, nil
}

// AddLoad creates a load as a direct child of a location with an input
// terminal.
func (p *Project) AddLoad(location BlockID, name string) (*Block, error) {
	b, err := p.AddBlock(location, KindLoad, name)
	if err != nil {
		return nil, err
	}
	if _, err := p.AddTerminal(b.ID, "in"); err != nil {
		return nil, err
	}
	return b, nil
}

// Rows returns the ordered row children of a busbar.
func (p *Project) Rows(busbar BlockID) []*Block {
	var rows []*Block
	for _, c := range p.Children(busbar) {
		if c.Kind == KindRow {
			rows = append(rows, c)
		}
	}
	return rows
}

// RowIndex returns the position of a row within its busbar, or -1 if
// the block is not a row.
func (p *Project) RowIndex(row BlockID) int {
	b, err := p.Block(row)
	if err != nil || b.Kind != KindRow {
		return -1
	}
	for i, r := range p.Rows(b.ParentID) {
		if r.ID == row {
			return i
		}
	}
	return -1
}
