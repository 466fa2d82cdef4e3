package inventory

import (
	"voxsim/internal/world"
)

const HotbarSize = 9

// Hotbar is the row of block types the agent can place. Slots hold block ids;
// world.Empty marks an unused slot. Placement never consumes a slot.
type Hotbar struct {
	Slots   [HotbarSize]world.BlockID
	current int
}

// New fills the hotbar from the left with ids. Extra ids are ignored.
func New(ids ...world.BlockID) *Hotbar {
	h := &Hotbar{}
	for i, id := range ids {
		if i >= HotbarSize {
			break
		}
		h.Slots[i] = id
	}
	return h
}

// Current returns the selected slot index (0-8).
func (h *Hotbar) Current() int {
	return h.current
}

// Held returns the block type in the selected slot.
func (h *Hotbar) Held() world.BlockID {
	return h.Slots[h.current]
}

// SetCurrent selects a slot directly. Out of range indices are ignored.
func (h *Hotbar) SetCurrent(index int) {
	if index >= 0 && index < HotbarSize {
		h.current = index
	}
}

// Scroll moves the selection one slot against direction, wrapping around.
func (h *Hotbar) Scroll(direction int) {
	if direction > 0 {
		direction = 1
	} else if direction < 0 {
		direction = -1
	}

	h.current -= direction
	for h.current < 0 {
		h.current += HotbarSize
	}
	for h.current >= HotbarSize {
		h.current -= HotbarSize
	}
}

// Find returns the first slot holding id, or -1.
func (h *Hotbar) Find(id world.BlockID) int {
	for i, s := range h.Slots {
		if s == id {
			return i
		}
	}
	return -1
}

// Hold selects the slot holding id. If no slot has it, id goes into the first
// empty slot, or replaces the selected slot when the bar is full.
func (h *Hotbar) Hold(id world.BlockID) {
	if id == world.Empty {
		return
	}
	if i := h.Find(id); i >= 0 {
		h.current = i
		return
	}
	if i := h.Find(world.Empty); i >= 0 {
		h.current = i
	}
	h.Slots[h.current] = id
}
