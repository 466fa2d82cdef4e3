package world

import (
	"github.com/elliotchance/orderedmap/v2"
)

// BlockID identifies a block type. Empty (0) is air.
type BlockID uint16

const Empty BlockID = 0

// ResourceParams control where a resource block is scattered by 3D noise.
type ResourceParams struct {
	ScaleX, ScaleY, ScaleZ float64
	Scarcity               float64
}

// BlockType is one entry of the block table.
type BlockType struct {
	ID       BlockID
	Name     string
	Resource *ResourceParams
}

// IsResource reports whether the type carries generation parameters.
func (b BlockType) IsResource() bool {
	return b.Resource != nil
}

// BlockRegistry is an ordered block table. Iteration follows registration
// order, which is also the order resources are generated in.
type BlockRegistry struct {
	types  *orderedmap.OrderedMap[BlockID, BlockType]
	byName map[string]BlockID
}

// NewBlockRegistry creates a table holding only the empty type.
func NewBlockRegistry() *BlockRegistry {
	r := &BlockRegistry{
		types:  orderedmap.NewOrderedMap[BlockID, BlockType](),
		byName: make(map[string]BlockID),
	}
	r.types.Set(Empty, BlockType{ID: Empty, Name: "empty"})
	r.byName["empty"] = Empty
	return r
}

// DefaultBlockRegistry returns the stock table: grass, dirt and three resources.
func DefaultBlockRegistry() *BlockRegistry {
	r := NewBlockRegistry()
	r.Register(BlockType{ID: 1, Name: "grass"})
	r.Register(BlockType{ID: 2, Name: "dirt"})
	r.Register(BlockType{ID: 3, Name: "stone", Resource: &ResourceParams{ScaleX: 30, ScaleY: 30, ScaleZ: 30, Scarcity: 0.5}})
	r.Register(BlockType{ID: 4, Name: "coal_ore", Resource: &ResourceParams{ScaleX: 20, ScaleY: 20, ScaleZ: 20, Scarcity: 0.8}})
	r.Register(BlockType{ID: 5, Name: "iron_ore", Resource: &ResourceParams{ScaleX: 40, ScaleY: 40, ScaleZ: 40, Scarcity: 0.9}})
	return r
}

// Register adds a block type. It returns false if the id is Empty or already taken.
func (r *BlockRegistry) Register(t BlockType) bool {
	if t.ID == Empty {
		return false
	}
	if _, exists := r.types.Get(t.ID); exists {
		return false
	}
	r.types.Set(t.ID, t)
	r.byName[t.Name] = t.ID
	return true
}

// Get returns the type registered under id.
func (r *BlockRegistry) Get(id BlockID) (BlockType, bool) {
	return r.types.Get(id)
}

// Has reports whether id is registered.
func (r *BlockRegistry) Has(id BlockID) bool {
	_, ok := r.types.Get(id)
	return ok
}

// Lookup resolves a block id by name.
func (r *BlockRegistry) Lookup(name string) (BlockID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Len returns the number of registered types, including Empty.
func (r *BlockRegistry) Len() int {
	return r.types.Len()
}

// Types returns all types in registration order.
func (r *BlockRegistry) Types() []BlockType {
	out := make([]BlockType, 0, r.types.Len())
	for el := r.types.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Resources returns the resource types in registration order.
func (r *BlockRegistry) Resources() []BlockType {
	var out []BlockType
	for el := r.types.Front(); el != nil; el = el.Next() {
		if el.Value.IsResource() {
			out = append(out, el.Value)
		}
	}
	return out
}
