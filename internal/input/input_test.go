package input

import "testing"

func TestEdgeDetection(t *testing.T) {
	m := NewManager()

	m.Press(ActionJump)
	if !m.IsActive(ActionJump) || !m.JustPressed(ActionJump) {
		t.Fatalf("Expected jump active and just pressed")
	}

	// pressing again in the same step is not a new edge
	m.PostUpdate()
	m.Press(ActionJump)
	if m.JustPressed(ActionJump) {
		t.Errorf("Held action should not be just pressed")
	}

	m.Release(ActionJump)
	if m.IsActive(ActionJump) || !m.JustReleased(ActionJump) {
		t.Errorf("Expected jump released")
	}
	m.PostUpdate()
	if m.JustReleased(ActionJump) {
		t.Errorf("Edge flags should reset after PostUpdate")
	}
}

func TestOutOfRangeActions(t *testing.T) {
	m := NewManager()
	m.Press(ActionCount)
	m.Press(-1)
	if m.IsActive(ActionCount) || m.JustPressed(-1) || m.JustReleased(ActionCount) {
		t.Errorf("Out of range actions must be ignored")
	}
}

func TestReleaseAll(t *testing.T) {
	m := NewManager()
	m.Press(ActionMoveForward)
	m.Press(ActionSprint)
	m.ReleaseAll()
	for a := range ActionCount {
		if m.IsActive(a) {
			t.Errorf("%v still active", a)
		}
	}
}

func TestLookClampsPitch(t *testing.T) {
	m := NewManager()
	m.Look(45, 120)
	if yaw, pitch := m.Angles(); yaw != 45 || pitch != 89 {
		t.Errorf("Expected (45, 89), got (%v, %v)", yaw, pitch)
	}
	m.Turn(10, -200)
	if yaw, pitch := m.Angles(); yaw != 55 || pitch != -89 {
		t.Errorf("Expected (55, -89), got (%v, %v)", yaw, pitch)
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		want    Action
		wantErr bool
	}{
		{"forward", ActionMoveForward, false},
		{" Jump ", ActionJump, false},
		{"PLACE", ActionPlace, false},
		{"fly", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAction(%q) error = %v", tt.name, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseAction(%q) = %v, want %v", tt.name, got, tt.want)
		}
		if !tt.wantErr && got.String() != actionNames[got] {
			t.Errorf("String mismatch for %v", got)
		}
	}
}
