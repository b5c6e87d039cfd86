package jade

// HitShape is used for custom hit testing regions.
type HitShape interface {
	Contains(x, y float64) bool
}

// PointerContext carries pointer event data.
type PointerContext struct {
	Morph     *Morph
	EntityID  uint32
	UserData  any
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	PointerID int
	Modifiers KeyModifiers
}

// ClickContext carries click event data.
type ClickContext struct {
	Morph     *Morph
	EntityID  uint32
	UserData  any
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	PointerID int
	Modifiers KeyModifiers
}

// DragContext carries drag event data.
type DragContext struct {
	Morph     *Morph
	EntityID  uint32
	UserData  any
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	StartX    float64
	StartY    float64
	DeltaX    float64
	DeltaY    float64
	Button    MouseButton
	PointerID int
	Modifiers KeyModifiers
}

// KeyContext carries a key press. Name is the lower-case key name used by
// "when [] key pressed" hats ("space", "a", "up arrow"). Char is the typed
// character, or zero for keys that do not produce one.
type KeyContext struct {
	Name      string
	Char      rune
	Modifiers KeyModifiers
}

// morphIDCounter is a plain counter; the morph tree is single-threaded.
var morphIDCounter uint32

func nextMorphID() uint32 {
	morphIDCounter++
	return morphIDCounter
}

// Morph is the element of the editor's scene graph: palette and workspace
// blocks, buttons, labels, the stage and its sprites are all morphs. A single
// flat struct is used for every kind.
type Morph struct {
	ID   uint32
	Name string
	Kind MorphKind

	Parent   *Morph
	children []*Morph

	// Local transform. Width and Height are the unscaled size of box and
	// disc morphs; the pivot is in the same units.
	X, Y          float64
	Width, Height float64
	ScaleX        float64
	ScaleY        float64
	Rotation      float64
	PivotX        float64
	PivotY        float64

	worldTransform [6]float64
	worldAlpha     float64
	transformDirty bool

	Alpha        float64
	Visible      bool
	Interactable bool

	ZIndex         int
	childrenSorted bool
	sortedChildren []*Morph

	Color       Color
	BorderColor Color
	Label       string
	LabelColor  Color

	UserData any
	EntityID uint32

	HitShape HitShape

	OnPointerDown  func(PointerContext)
	OnPointerUp    func(PointerContext)
	OnPointerMove  func(PointerContext)
	OnClick        func(ClickContext)
	OnDragStart    func(DragContext)
	OnDrag         func(DragContext)
	OnDragEnd      func(DragContext)
	OnPointerEnter func(PointerContext)
	OnPointerLeave func(PointerContext)

	// OnUpdate is called once per World.Update with the frame time in
	// seconds, before input is processed.
	OnUpdate func(dt float64)

	disposed bool
}

func morphDefaults(m *Morph) {
	m.ID = nextMorphID()
	m.ScaleX = 1
	m.ScaleY = 1
	m.Alpha = 1
	m.Visible = true
	m.Color = ColorWhite
	m.LabelColor = ColorWhite
	m.childrenSorted = true
	m.transformDirty = true
}

// NewContainer creates a morph with no visual output. Containers pass hit
// testing through to their children.
func NewContainer(name string) *Morph {
	m := &Morph{Name: name, Kind: MorphContainer}
	morphDefaults(m)
	m.Interactable = true
	return m
}

// NewBox creates a filled, interactable rectangle of the given size.
func NewBox(name string, w, h float64, c Color) *Morph {
	m := &Morph{Name: name, Kind: MorphBox, Width: w, Height: h}
	morphDefaults(m)
	m.Color = c
	m.Interactable = true
	return m
}

// NewLabel creates a text morph. Labels are not interactable.
func NewLabel(name, text string, c Color) *Morph {
	m := &Morph{Name: name, Kind: MorphLabel, Label: text}
	morphDefaults(m)
	m.LabelColor = c
	m.Width, m.Height = labelSize(text)
	return m
}

// NewDisc creates a circle of the given radius centred on its position, with
// a heading line drawn along its rotation.
func NewDisc(name string, radius float64, c Color) *Morph {
	m := &Morph{Name: name, Kind: MorphDisc, Width: 2 * radius, Height: 2 * radius}
	morphDefaults(m)
	m.PivotX, m.PivotY = radius, radius
	m.Color = c
	m.Interactable = true
	m.HitShape = HitCircle{CenterX: radius, CenterY: radius, Radius: radius}
	return m
}

// SetLabel replaces the morph's text. Label morphs are resized to fit.
func (m *Morph) SetLabel(text string) {
	m.Label = text
	if m.Kind == MorphLabel {
		m.Width, m.Height = labelSize(text)
	}
}

// Bounds returns the morph's untransformed local rectangle.
func (m *Morph) Bounds() Rect {
	return Rect{X: m.X - m.PivotX*m.ScaleX, Y: m.Y - m.PivotY*m.ScaleY,
		Width: m.Width * m.ScaleX, Height: m.Height * m.ScaleY}
}

// --- Tree manipulation ---

// AddChild appends child to this morph's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this morph (cycle).
func (m *Morph) AddChild(child *Morph) {
	if child == nil {
		panic("jade: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(m, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, m) {
		panic("jade: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = m
	m.children = append(m.children, child)
	m.childrenSorted = false
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(m)
	}
}

// RemoveChild detaches child from this morph.
// Panics if child.Parent != m.
func (m *Morph) RemoveChild(child *Morph) {
	if child.Parent != m {
		panic("jade: child's parent is not this morph")
	}
	m.removeChildByPtr(child)
	child.Parent = nil
	m.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this morph from its parent.
// No-op if this morph has no parent.
func (m *Morph) RemoveFromParent() {
	if m.Parent == nil {
		return
	}
	m.Parent.RemoveChild(m)
}

// RemoveChildren disposes all children.
func (m *Morph) RemoveChildren() {
	for _, child := range m.children {
		child.Parent = nil
		child.dispose()
	}
	m.children = m.children[:0]
	m.sortedChildren = nil
	m.childrenSorted = true
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (m *Morph) Children() []*Morph {
	return m.children
}

// NumChildren returns the number of children.
func (m *Morph) NumChildren() int {
	return len(m.children)
}

// SetZIndex sets the morph's ZIndex and marks the parent's children as unsorted.
func (m *Morph) SetZIndex(z int) {
	if m.ZIndex == z {
		return
	}
	m.ZIndex = z
	if m.Parent != nil {
		m.Parent.childrenSorted = false
	}
}

// BringToFront raises the morph above all of its siblings.
func (m *Morph) BringToFront() {
	if m.Parent == nil {
		return
	}
	top := m.ZIndex
	for _, s := range m.Parent.children {
		if s != m && s.ZIndex >= top {
			top = s.ZIndex + 1
		}
	}
	m.SetZIndex(top)
}

// --- Disposal ---

// Dispose removes this morph from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (m *Morph) Dispose() {
	if m.disposed {
		return
	}
	m.RemoveFromParent()
	m.dispose()
}

func (m *Morph) dispose() {
	m.disposed = true
	m.ID = 0
	for _, child := range m.children {
		child.Parent = nil
		child.dispose()
	}
	m.children = nil
	m.sortedChildren = nil
	m.Parent = nil
	m.HitShape = nil
	m.UserData = nil
	m.OnPointerDown = nil
	m.OnPointerUp = nil
	m.OnPointerMove = nil
	m.OnClick = nil
	m.OnDragStart = nil
	m.OnDrag = nil
	m.OnDragEnd = nil
	m.OnPointerEnter = nil
	m.OnPointerLeave = nil
	m.OnUpdate = nil
}

// IsDisposed returns true if this morph has been disposed.
func (m *Morph) IsDisposed() bool {
	return m.disposed
}

// --- Helpers ---

func isAncestor(candidate, m *Morph) bool {
	for p := m; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

func (m *Morph) removeChildByPtr(child *Morph) {
	for i, c := range m.children {
		if c == child {
			copy(m.children[i:], m.children[i+1:])
			m.children[len(m.children)-1] = nil
			m.children = m.children[:len(m.children)-1]
			return
		}
	}
}

func markSubtreeDirty(m *Morph) {
	m.transformDirty = true
	for _, child := range m.children {
		markSubtreeDirty(child)
	}
}

// sortedKids returns the children in ZIndex order, rebuilding the cache when
// needed. Insertion sort keeps equal ZIndex in insertion order.
func (m *Morph) sortedKids() []*Morph {
	if m.childrenSorted && m.sortedChildren != nil {
		return m.sortedChildren
	}
	nc := len(m.children)
	if cap(m.sortedChildren) < nc {
		m.sortedChildren = make([]*Morph, nc)
	}
	m.sortedChildren = m.sortedChildren[:nc]
	copy(m.sortedChildren, m.children)
	for i := 1; i < nc; i++ {
		key := m.sortedChildren[i]
		j := i - 1
		for j >= 0 && m.sortedChildren[j].ZIndex > key.ZIndex {
			m.sortedChildren[j+1] = m.sortedChildren[j]
			j--
		}
		m.sortedChildren[j+1] = key
	}
	m.childrenSorted = true
	return m.sortedChildren
}
