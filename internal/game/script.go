package game

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"voxsim/internal/input"
	"voxsim/internal/world"
)

// Command is one scripted agent input, applied before the given tick.
type Command struct {
	Tick    uint64     `yaml:"tick"`
	Press   string     `yaml:"press,omitempty"`
	Release string     `yaml:"release,omitempty"`
	Look    []float32  `yaml:"look,omitempty"`
	Select  uint16     `yaml:"select,omitempty"`
	Add     *BlockEdit `yaml:"add,omitempty"`
	Remove  *BlockEdit `yaml:"remove,omitempty"`
}

// BlockEdit addresses a block for scripted edits.
type BlockEdit struct {
	X  int    `yaml:"x"`
	Y  int    `yaml:"y"`
	Z  int    `yaml:"z"`
	ID uint16 `yaml:"id,omitempty"`
}

// Script is a tick-ordered list of commands.
type Script struct {
	commands []Command
	next     int
}

// ParseScript decodes a YAML command list and checks action names.
func ParseScript(raw []byte) (*Script, error) {
	var cmds []Command
	if err := yaml.Unmarshal(raw, &cmds); err != nil {
		return nil, fmt.Errorf("script: parse: %w", err)
	}
	for i, c := range cmds {
		for _, name := range []string{c.Press, c.Release} {
			if name == "" {
				continue
			}
			if _, err := input.ParseAction(name); err != nil {
				return nil, fmt.Errorf("script: command %d: %w", i, err)
			}
		}
		if c.Look != nil && len(c.Look) != 2 {
			return nil, fmt.Errorf("script: command %d: look needs yaw and pitch", i)
		}
	}
	return NewScript(cmds), nil
}

// LoadScript reads a YAML script file.
func LoadScript(path string) (*Script, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	return ParseScript(raw)
}

// NewScript sorts cmds by tick, keeping the order of commands on the same tick.
func NewScript(cmds []Command) *Script {
	sorted := append([]Command(nil), cmds...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tick < sorted[j].Tick })
	return &Script{commands: sorted}
}

// DefaultScript walks forward, jumps, turns and edits a block in front of the agent.
func DefaultScript() *Script {
	return NewScript([]Command{
		{Tick: 0, Press: "forward"},
		{Tick: 120, Press: "jump"},
		{Tick: 121, Release: "jump"},
		{Tick: 240, Look: []float32{90, -30}},
		{Tick: 300, Press: "break"},
		{Tick: 301, Release: "break"},
		{Tick: 302, Press: "place"},
		{Tick: 303, Release: "place"},
		{Tick: 360, Press: "sprint"},
		{Tick: 600, Release: "forward"},
		{Tick: 600, Release: "sprint"},
	})
}

// Len returns the number of commands.
func (sc *Script) Len() int {
	return len(sc.commands)
}

// Done reports whether every command was applied.
func (sc *Script) Done() bool {
	return sc.next >= len(sc.commands)
}

// Apply runs every pending command scheduled at or before tick.
func (sc *Script) Apply(s *Session, tick uint64) {
	for sc.next < len(sc.commands) && sc.commands[sc.next].Tick <= tick {
		sc.apply(s, sc.commands[sc.next])
		sc.next++
	}
}

func (sc *Script) apply(s *Session, c Command) {
	if a, err := input.ParseAction(c.Press); err == nil {
		s.SetAgentInput(a, true)
	}
	if a, err := input.ParseAction(c.Release); err == nil {
		s.SetAgentInput(a, false)
	}
	if len(c.Look) == 2 {
		s.Look(c.Look[0], c.Look[1])
	}
	if c.Select != 0 {
		s.Select(world.BlockID(c.Select))
	}
	if e := c.Add; e != nil {
		s.AddBlock(e.X, e.Y, e.Z, world.BlockID(e.ID))
	}
	if e := c.Remove; e != nil {
		s.RemoveBlock(e.X, e.Y, e.Z)
	}
}
