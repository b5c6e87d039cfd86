package engine

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrDuplicateSprite is returned when a sprite name is already on the stage.
var ErrDuplicateSprite = errors.New("engine: duplicate sprite")

// Bubble is a sprite's speech bubble. A timed bubble disappears once the
// clock reaches Until.
type Bubble struct {
	Text  string
	Timed bool
	Until time.Duration
}

// Sprite is the mutable state scripts act on. Coordinates have their origin
// at the stage centre with y pointing up; Direction is in degrees with 90
// facing right.
type Sprite struct {
	Name      string
	X, Y      float64
	Direction float64
	Size      float64 // percent
	Visible   bool
	Volume    float64 // 0-100
	Bubble    Bubble

	// Vars holds the sprite's persistent variables. They survive Stop and
	// are cleared by Start.
	Vars map[string]string
}

// NewSprite creates a visible sprite facing right at (x, y).
func NewSprite(name string, x, y float64) *Sprite {
	return &Sprite{
		Name:      name,
		X:         x,
		Y:         y,
		Direction: 90,
		Size:      100,
		Visible:   true,
		Volume:    100,
		Vars:      make(map[string]string),
	}
}

// wrapDirection maps any angle into (-180, 180].
func wrapDirection(deg float64) float64 {
	d := math.Mod(deg+180, 360)
	if d <= 0 {
		d += 360
	}
	return d - 180
}

// Stage is the ordered set of sprites an engine runs against.
type Stage struct {
	sprites []*Sprite
	byName  map[string]*Sprite
}

// NewStage creates a stage holding sprites, in order.
func NewStage(sprites ...*Sprite) (*Stage, error) {
	s := &Stage{byName: make(map[string]*Sprite)}
	for _, sp := range sprites {
		if err := s.Add(sp); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a sprite. Names must be unique.
func (s *Stage) Add(sp *Sprite) error {
	if sp == nil {
		return errors.New("engine: nil sprite")
	}
	if _, dup := s.byName[sp.Name]; dup {
		return fmt.Errorf("add sprite %q: %w", sp.Name, ErrDuplicateSprite)
	}
	if sp.Vars == nil {
		sp.Vars = make(map[string]string)
	}
	s.sprites = append(s.sprites, sp)
	s.byName[sp.Name] = sp
	return nil
}

// Sprite returns the named sprite, or nil.
func (s *Stage) Sprite(name string) *Sprite {
	return s.byName[name]
}

// Sprites returns the sprites in stage order. The slice must not be
// mutated.
func (s *Stage) Sprites() []*Sprite {
	return s.sprites
}

// Names returns the sprite names in stage order.
func (s *Stage) Names() []string {
	out := make([]string, len(s.sprites))
	for i, sp := range s.sprites {
		out[i] = sp.Name
	}
	return out
}

// NextName returns the first free name of the form "SpriteN".
func (s *Stage) NextName() string {
	for n := len(s.sprites) + 1; ; n++ {
		name := fmt.Sprintf("Sprite%d", n)
		if _, taken := s.byName[name]; !taken {
			return name
		}
	}
}
