package game

import (
	"testing"

	"voxsim/internal/input"
)

func TestParseScript(t *testing.T) {
	sc, err := ParseScript([]byte(`
- tick: 10
  release: forward
- tick: 0
  press: forward
- tick: 10
  look: [90, -10]
- tick: 12
  add: {x: 2, y: 5, z: 0, id: 3}
`))
	if err != nil {
		t.Fatalf("ParseScript failed: %v", err)
	}
	if sc.Len() != 4 {
		t.Fatalf("Expected 4 commands, got %d", sc.Len())
	}
	if sc.commands[0].Press != "forward" || sc.commands[1].Release != "forward" {
		t.Errorf("Commands not ordered by tick: %+v", sc.commands)
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown action", "- {tick: 1, press: fly}"},
		{"short look", "- {tick: 1, look: [10]}"},
		{"malformed", "- tick: ["},
	}
	for _, tt := range tests {
		if _, err := ParseScript([]byte(tt.body)); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestScriptApply(t *testing.T) {
	s, _ := newTestSession(t)
	sc := NewScript([]Command{
		{Tick: 0, Press: "forward"},
		{Tick: 3, Look: []float32{45, 10}, Select: 3},
		{Tick: 3, Add: &BlockEdit{X: 3, Y: 5, Z: 3, ID: 2}},
		{Tick: 5, Release: "forward"},
		{Tick: 5, Remove: &BlockEdit{X: 3, Y: 5, Z: 3}},
	})

	sc.Apply(s, 0)
	if !s.Input.IsActive(input.ActionMoveForward) {
		t.Errorf("Expected forward pressed")
	}
	sc.Apply(s, 4)
	if yaw, pitch := s.Input.Angles(); yaw != 45 || pitch != 10 {
		t.Errorf("Expected look (45,10), got (%v,%v)", yaw, pitch)
	}
	if s.Selected() != 3 {
		t.Errorf("Expected stone selected")
	}
	if id, _ := s.World.Block(3, 5, 3); id != 2 {
		t.Errorf("Expected scripted block at (3,5,3), got %v", id)
	}
	if sc.Done() {
		t.Errorf("Script should not be done yet")
	}
	sc.Apply(s, 5)
	if s.Input.IsActive(input.ActionMoveForward) {
		t.Errorf("Expected forward released")
	}
	if id, _ := s.World.Block(3, 5, 3); id != 0 {
		t.Errorf("Expected scripted removal, got %v", id)
	}
	if !sc.Done() {
		t.Errorf("Script should be done")
	}
}
