package inventory

import (
	"testing"

	"voxsim/internal/world"
)

func TestScrollWraps(t *testing.T) {
	h := New(1, 2, 3)

	h.Scroll(1)
	if h.Current() != HotbarSize-1 {
		t.Fatalf("scroll up from 0: got %d, want %d", h.Current(), HotbarSize-1)
	}
	h.Scroll(-5)
	if h.Current() != 0 {
		t.Fatalf("scroll down wraps: got %d, want 0", h.Current())
	}
	h.Scroll(-1)
	if h.Held() != 2 {
		t.Fatalf("held = %d, want 2", h.Held())
	}
}

func TestSetCurrentIgnoresOutOfRange(t *testing.T) {
	h := New(1)
	h.SetCurrent(4)
	h.SetCurrent(HotbarSize)
	h.SetCurrent(-1)
	if h.Current() != 4 {
		t.Fatalf("current = %d, want 4", h.Current())
	}
}

func TestHold(t *testing.T) {
	h := New(1, 2)

	h.Hold(2)
	if h.Current() != 1 || h.Held() != 2 {
		t.Fatalf("hold existing: slot %d held %d", h.Current(), h.Held())
	}

	h.Hold(7)
	if h.Current() != 2 || h.Held() != 7 {
		t.Fatalf("hold new: slot %d held %d, want slot 2 held 7", h.Current(), h.Held())
	}

	h.Hold(world.Empty)
	if h.Held() != 7 {
		t.Fatalf("holding Empty changed the slot")
	}
}

func TestHoldFullBarReplacesSelected(t *testing.T) {
	h := New(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	if h.Slots[HotbarSize-1] != 9 {
		t.Fatalf("extra ids should be dropped, last slot = %d", h.Slots[HotbarSize-1])
	}
	h.SetCurrent(3)
	h.Hold(42)
	if h.Slots[3] != 42 || h.Current() != 3 {
		t.Fatalf("full bar: slot 3 = %d, current %d", h.Slots[3], h.Current())
	}
}
