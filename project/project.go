// Package project handles jade.toml project files: the sprites on the stage
// and the scripts each of them runs.
package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/phanxgames/jade/blocks"
	"github.com/phanxgames/jade/blocktext"
	"github.com/phanxgames/jade/engine"
	"github.com/phanxgames/jade/tuning"
)

// FileName is the manifest file looked up in a project directory.
const FileName = "jade.toml"

// Manifest represents a jade.toml project.
type Manifest struct {
	Project Project  `toml:"project"`
	Sprites []Sprite `toml:"sprite"`

	// Dir is the directory containing the jade.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name string `toml:"name"`
	// Tuning names an optional YAML tuning file, relative to Dir.
	Tuning string `toml:"tuning,omitempty"`
}

// Sprite is one sprite entry. Its scripts come from Script (a file relative
// to Dir), from Source (inline text), or both, in that order.
type Sprite struct {
	Name      string  `toml:"name"`
	X         float64 `toml:"x"`
	Y         float64 `toml:"y"`
	Direction float64 `toml:"direction,omitempty"`
	Size      float64 `toml:"size,omitempty"`
	Hidden    bool    `toml:"hidden,omitempty"`
	Script    string  `toml:"script,omitempty"`
	Source    string  `toml:"source,omitempty"`
}

// Load parses the jade.toml file in dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if m.Project.Name == "" {
		m.Project.Name = filepath.Base(m.Dir)
	}
	seen := make(map[string]bool, len(m.Sprites))
	for i := range m.Sprites {
		sp := &m.Sprites[i]
		if sp.Name == "" {
			return nil, fmt.Errorf("%s: sprite %d has no name", path, i+1)
		}
		if seen[sp.Name] {
			return nil, fmt.Errorf("%s: sprite %q: %w", path, sp.Name, engine.ErrDuplicateSprite)
		}
		seen[sp.Name] = true
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a jade.toml file, then loads
// and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Tuning loads the project's tuning file, or the defaults when none is set.
func (m *Manifest) Tuning() (tuning.Tuning, error) {
	if m.Project.Tuning == "" {
		return tuning.Default(), nil
	}
	return tuning.Load(filepath.Join(m.Dir, m.Project.Tuning))
}

// Build creates the stage and loads every sprite's scripts into a new graph.
func (m *Manifest) Build() (*blocks.Graph, *engine.Stage, error) {
	g := blocks.NewGraph()
	stage, err := engine.NewStage()
	if err != nil {
		return nil, nil, err
	}

	layout := blocktext.DefaultLayout()
	for _, ms := range m.Sprites {
		sp := engine.NewSprite(ms.Name, ms.X, ms.Y)
		if ms.Direction != 0 {
			sp.Direction = ms.Direction
		}
		if ms.Size != 0 {
			sp.Size = ms.Size
		}
		sp.Visible = !ms.Hidden
		if err := stage.Add(sp); err != nil {
			return nil, nil, err
		}

		if ms.Script != "" {
			path := filepath.Join(m.Dir, ms.Script)
			src, err := os.ReadFile(path)
			if err != nil {
				return nil, nil, fmt.Errorf("sprite %q: %w", ms.Name, err)
			}
			if err := m.load(g, &layout, path, string(src), ms.Name); err != nil {
				return nil, nil, err
			}
		}
		if ms.Source != "" {
			name := fmt.Sprintf("%s[%s]", FileName, ms.Name)
			if err := m.load(g, &layout, name, ms.Source, ms.Name); err != nil {
				return nil, nil, err
			}
		}
	}
	return g, stage, nil
}

// load adds one script text and moves the layout below what it placed.
func (m *Manifest) load(g *blocks.Graph, layout *blocktext.Layout, name, src, sprite string) error {
	heads, err := blocktext.Load(g, name, src, sprite, *layout)
	if err != nil {
		return fmt.Errorf("sprite %q: %w", sprite, err)
	}
	bottom := layout.Y
	for _, h := range heads {
		for _, id := range g.Stack(h) {
			if b := g.Block(id); b.Bottom() > bottom {
				bottom = b.Bottom()
			}
		}
	}
	layout.Y = bottom + layout.Spacing
	return nil
}

// Snapshot captures a stage and its workspace scripts as a manifest with
// inline sources.
func Snapshot(name string, g *blocks.Graph, stage *engine.Stage) *Manifest {
	m := &Manifest{Project: Project{Name: name}}
	for _, sp := range stage.Sprites() {
		m.Sprites = append(m.Sprites, Sprite{
			Name:      sp.Name,
			X:         sp.X,
			Y:         sp.Y,
			Direction: sp.Direction,
			Size:      sp.Size,
			Hidden:    !sp.Visible,
			Source:    blocktext.Format(g, []string{sp.Name}),
		})
	}
	return m
}

// Save writes the manifest to jade.toml in dir.
func (m *Manifest) Save(dir string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return fmt.Errorf("encode %s: %w", FileName, err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}
