package jade

import (
	"fmt"
	"strings"
	"testing"
)

func assertMorphDefaults(t *testing.T, m *Morph, name string, kind MorphKind) {
	t.Helper()
	if m.Name != name {
		t.Errorf("Name = %q, want %q", m.Name, name)
	}
	if m.Kind != kind {
		t.Errorf("Kind = %d, want %d", m.Kind, kind)
	}
	if m.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if m.ScaleX != 1 || m.ScaleY != 1 || m.Alpha != 1 {
		t.Errorf("scale/alpha = %v,%v,%v", m.ScaleX, m.ScaleY, m.Alpha)
	}
	if !m.Visible {
		t.Error("Visible should default to true")
	}
}

func TestConstructorDefaults(t *testing.T) {
	assertMorphDefaults(t, NewContainer("c"), "c", MorphContainer)

	box := NewBox("b", 120, 30, RGB(0x4a90e2))
	assertMorphDefaults(t, box, "b", MorphBox)
	if box.Width != 120 || box.Height != 30 || !box.Interactable {
		t.Errorf("box = %vx%v interactable=%v", box.Width, box.Height, box.Interactable)
	}

	lbl := NewLabel("l", "hello", ColorWhite)
	assertMorphDefaults(t, lbl, "l", MorphLabel)
	if lbl.Interactable {
		t.Error("labels should not be interactable")
	}
	if lbl.Width != 5*glyphWidth || lbl.Height != glyphHeight {
		t.Errorf("label size = %vx%v", lbl.Width, lbl.Height)
	}

	disc := NewDisc("d", 15, ColorWhite)
	assertMorphDefaults(t, disc, "d", MorphDisc)
	if disc.PivotX != 15 || disc.PivotY != 15 || disc.HitShape == nil {
		t.Errorf("disc pivot/hit = %v,%v,%v", disc.PivotX, disc.PivotY, disc.HitShape)
	}
}

func TestUniqueIDs(t *testing.T) {
	seen := make(map[uint32]bool)
	for i := 0; i < 50; i++ {
		m := NewContainer(fmt.Sprint(i))
		if seen[m.ID] {
			t.Fatalf("duplicate ID %d", m.ID)
		}
		seen[m.ID] = true
	}
}

func TestSetLabelResizesLabels(t *testing.T) {
	lbl := NewLabel("l", "a", ColorWhite)
	lbl.SetLabel("two\nlines!")
	if lbl.Width != 6*glyphWidth || lbl.Height != 2*glyphHeight {
		t.Errorf("size = %vx%v", lbl.Width, lbl.Height)
	}
	box := NewBox("b", 100, 30, ColorWhite)
	box.SetLabel("a much longer label than the box")
	if box.Width != 100 {
		t.Error("SetLabel resized a box")
	}
}

func TestAddChildReparents(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	c := NewBox("c", 1, 1, ColorWhite)
	a.AddChild(c)
	b.AddChild(c)
	if c.Parent != b {
		t.Error("parent not updated")
	}
	if a.NumChildren() != 0 || b.NumChildren() != 1 {
		t.Errorf("children = %d, %d", a.NumChildren(), b.NumChildren())
	}
}

func TestAddChildPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"nil child", func() { NewContainer("p").AddChild(nil) }},
		{"cycle", func() {
			a := NewContainer("a")
			b := NewContainer("b")
			a.AddChild(b)
			b.AddChild(a)
		}},
		{"self", func() {
			a := NewContainer("a")
			a.AddChild(a)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestRemoveChildWrongParentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewContainer("a").RemoveChild(NewContainer("b"))
}

func TestRemoveChildrenDisposes(t *testing.T) {
	p := NewContainer("p")
	kids := []*Morph{NewBox("a", 1, 1, ColorWhite), NewBox("b", 1, 1, ColorWhite)}
	for _, k := range kids {
		p.AddChild(k)
	}
	p.RemoveChildren()
	if p.NumChildren() != 0 {
		t.Errorf("children = %d", p.NumChildren())
	}
	for _, k := range kids {
		if !k.IsDisposed() || k.Parent != nil {
			t.Errorf("%s not disposed", k.Name)
		}
	}
}

func TestDisposeRecursive(t *testing.T) {
	root := NewContainer("root")
	mid := NewContainer("mid")
	leaf := NewBox("leaf", 1, 1, ColorWhite)
	leaf.OnClick = func(ClickContext) {}
	root.AddChild(mid)
	mid.AddChild(leaf)

	mid.Dispose()
	if root.NumChildren() != 0 {
		t.Error("disposed morph still attached")
	}
	if !mid.IsDisposed() || !leaf.IsDisposed() {
		t.Error("subtree not disposed")
	}
	if leaf.OnClick != nil || leaf.ID != 0 {
		t.Error("disposed leaf kept callbacks or ID")
	}
	mid.Dispose() // no-op
}

func TestSortedKidsByZIndex(t *testing.T) {
	p := NewContainer("p")
	a := NewBox("a", 1, 1, ColorWhite)
	b := NewBox("b", 1, 1, ColorWhite)
	c := NewBox("c", 1, 1, ColorWhite)
	p.AddChild(a)
	p.AddChild(b)
	p.AddChild(c)
	a.SetZIndex(5)

	got := p.sortedKids()
	want := []*Morph{b, c, a}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order[%d] = %s, want %s", i, got[i].Name, want[i].Name)
		}
	}
}

func TestBringToFront(t *testing.T) {
	p := NewContainer("p")
	a := NewBox("a", 1, 1, ColorWhite)
	b := NewBox("b", 1, 1, ColorWhite)
	p.AddChild(a)
	p.AddChild(b)
	b.SetZIndex(3)

	a.BringToFront()
	if a.ZIndex <= b.ZIndex {
		t.Errorf("a.ZIndex = %d, b.ZIndex = %d", a.ZIndex, b.ZIndex)
	}
	kids := p.sortedKids()
	if kids[len(kids)-1] != a {
		t.Error("a is not last in painter order")
	}
}

func TestDebugModeDisposedMorphPanics(t *testing.T) {
	w := NewWorld()
	w.SetDebugMode(true)
	defer w.SetDebugMode(false)

	child := NewBox("child", 1, 1, ColorWhite)
	child.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild with disposed morph")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()
	w.Root().AddChild(child)
}

func TestBoundsAndChildren(t *testing.T) {
	d := NewDisc("d", 10, ColorWhite)
	d.SetPosition(50, 50)
	d.SetScale(2, 2)
	if got := d.Bounds(); got != (Rect{30, 30, 40, 40}) {
		t.Errorf("Bounds = %+v", got)
	}

	p := NewContainer("p")
	p.AddChild(d)
	if kids := p.Children(); len(kids) != 1 || kids[0] != d {
		t.Errorf("Children = %v", kids)
	}
	d.RemoveFromParent()
	if p.NumChildren() != 0 || d.Parent != nil {
		t.Error("RemoveFromParent left the morph attached")
	}
	d.RemoveFromParent() // no parent: no-op
}
