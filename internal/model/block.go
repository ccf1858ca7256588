// Package model implements the diagram graph: the block forest, the
// terminals blocks expose, and the electrical connections between them.
package model

import (
	"sld-editor/pkg/geometry"
)

// BlockID identifies a block. IDs are unique across the whole project.
type BlockID int

// TerminalID identifies a terminal across the whole project.
type TerminalID int

// RootID is the parent id of top-level blocks.
const RootID BlockID = -1

// Kind tags a block with its equipment type.
type Kind string

const (
	KindLocation       Kind = "location"
	KindSupply         Kind = "supply"
	KindAlternator     Kind = "alternator"
	KindConductor      Kind = "conductor"
	KindBusbar         Kind = "busbar"
	KindTransformerUPS Kind = "transformer_ups"
	KindLoad           Kind = "load"
	KindExternalBusbar Kind = "external_busbar"
	KindRow            Kind = "row"
)

// Protection identifies the protection device on a busbar row.
type Protection string

const (
	ProtectionBreaker Protection = "circuit_breaker"
	ProtectionPinFuse Protection = "pin_fuse"
)

// Block is any placeable diagram entity.
type Block struct {
	ID       BlockID `json:"id"`
	ParentID BlockID `json:"parent_id"`
	Kind     Kind    `json:"kind"`
	Name     string  `json:"name"`

	// Position is the logical render position of the block's center.
	// Nil until the block has been placed on a diagram. Rows never
	// carry one; their geometry derives from the owning busbar.
	Position *geometry.Point2D `json:"position,omitempty"`

	// Protection is set on rows only.
	Protection Protection `json:"protection,omitempty"`

	// CatalogRef points at an equipment catalog record (rating, gauge).
	CatalogRef string `json:"catalog_ref,omitempty"`
}

// Placed reports whether the block has a stored render position.
func (b *Block) Placed() bool {
	return b.Position != nil
}

// Terminal is a named connection point owned by exactly one block.
type Terminal struct {
	ID      TerminalID `json:"id"`
	BlockID BlockID    `json:"block_id"`
	Name    string     `json:"name"`
}

// Connection is an unordered pair of terminals representing an
// electrical link. Duplicate and cyclic connections are permitted at
// this layer; rejecting them is the electrical-rules checker's job.
type Connection struct {
	LeftID  TerminalID `json:"left_id"`
	RightID TerminalID `json:"right_id"`
}

// Touches reports whether the connection has the terminal on either side.
func (c Connection) Touches(id TerminalID) bool {
	return c.LeftID == id || c.RightID == id
}

// Other returns the opposite terminal of the connection, or the argument
// itself if the terminal is not part of the connection.
func (c Connection) Other(id TerminalID) TerminalID {
	switch id {
	case c.LeftID:
		return c.RightID
	case c.RightID:
		return c.LeftID
	}
	return id
}

// allowedParents maps each kind to the parent kinds it may be created
// under. The zero Kind entry stands for the root.
var allowedParents = map[Kind][]Kind{
	KindLocation:       {""},
	KindSupply:         {""},
	KindAlternator:     {""},
	KindConductor:      {""},
	KindBusbar:         {KindLocation},
	KindTransformerUPS: {KindLocation},
	KindExternalBusbar: {KindLocation},
	KindLoad:           {KindLocation},
	KindRow:            {KindBusbar},
}

// canParent reports whether a block of kind child may live under a
// parent of kind parent ("" meaning root).
func canParent(child, parent Kind) bool {
	for _, k := range allowedParents[child] {
		if k == parent {
			return true
		}
	}
	return false
}
