package input

import (
	"fmt"
	"strings"
	"sync"
)

// Action represents a logical agent action, not a physical key
type Action int

// Action constants using iota
const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionJump
	ActionSprint
	ActionSneak
	ActionBreak
	ActionPlace
	ActionCount // Sentinel value for array sizing
)

var actionNames = [ActionCount]string{
	ActionMoveForward:  "forward",
	ActionMoveBackward: "backward",
	ActionMoveLeft:     "left",
	ActionMoveRight:    "right",
	ActionJump:         "jump",
	ActionSprint:       "sprint",
	ActionSneak:        "sneak",
	ActionBreak:        "break",
	ActionPlace:        "place",
}

func (a Action) String() string {
	if a < 0 || a >= ActionCount {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction resolves an action by name, case insensitive.
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if n == name {
			return Action(a), nil
		}
	}
	return 0, fmt.Errorf("input: unknown action %q", name)
}

// Manager holds the action state an agent reads each step. Actions are set by
// whatever drives the agent: a script, a test, or an external controller.
type Manager struct {
	mu sync.RWMutex

	// Current step state (indexed by Action)
	currentState [ActionCount]bool

	// Previous step state (for edge detection)
	prevState [ActionCount]bool

	// Just pressed/released flags (reset each step)
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool

	// Look direction in degrees
	yaw, pitch float32
}

// NewManager creates a Manager with nothing pressed, looking along +X.
func NewManager() *Manager {
	return &Manager{}
}

// Set updates an action and records edges.
func (m *Manager) Set(action Action, pressed bool) {
	if action < 0 || action >= ActionCount {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if pressed && !m.currentState[action] {
		m.justPressed[action] = true
	}
	if !pressed && m.currentState[action] {
		m.justReleased[action] = true
	}
	m.currentState[action] = pressed
}

// Press is Set(action, true).
func (m *Manager) Press(action Action) {
	m.Set(action, true)
}

// Release is Set(action, false).
func (m *Manager) Release(action Action) {
	m.Set(action, false)
}

// ReleaseAll releases every held action.
func (m *Manager) ReleaseAll() {
	for a := range ActionCount {
		m.Set(a, false)
	}
}

// Look sets the look direction. Pitch is clamped to [-89, 89].
func (m *Manager) Look(yaw, pitch float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.yaw = yaw
	m.pitch = min(max(pitch, -89), 89)
}

// Turn adds to the look direction.
func (m *Manager) Turn(dyaw, dpitch float32) {
	yaw, pitch := m.Angles()
	m.Look(yaw+dyaw, pitch+dpitch)
}

// Angles returns yaw and pitch in degrees.
func (m *Manager) Angles() (yaw, pitch float32) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.yaw, m.pitch
}

// PostUpdate must be called at the end of each step to update edge detection states
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Reset edge flags and update prev state
	for i := range ActionCount {
		m.justPressed[i] = false
		m.justReleased[i] = false
		m.prevState[i] = m.currentState[i]
	}
}

// IsActive returns true if the action is currently being held down
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current step
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.justPressed[action]
}

// JustReleased returns true only if the action was released in the current step
func (m *Manager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.justReleased[action]
}
