package chordwm

import "testing"

// fakeSurface is a minimal Surface used across this package's tests.
type fakeSurface struct {
	damage Region
	opaque Region
	input  Region
	buf    Buffer
}

func (s *fakeSurface) Damage() Region   { return s.damage }
func (s *fakeSurface) ClearDamage()     { s.damage = Region{} }
func (s *fakeSurface) Opaque() Region   { return s.opaque }
func (s *fakeSurface) Input() Region    { return s.input }
func (s *fakeSurface) Buffer() Buffer   { return s.buf }

func newTestView(x, y, w, h int32) *View {
	v := NewView(&fakeSurface{})
	v.SetGeometry(Rect{X: x, Y: y, W: w, H: h})
	v.visible = true
	return v
}

func TestViewMoveInvalidatesClip(t *testing.T) {
	v := newTestView(10, 10, 100, 100)
	v.clip = RegionFromRect(Rect{X: 0, Y: 0, W: 5, H: 5})
	v.Move(20, 20)
	if !v.Clip().IsEmpty() {
		t.Fatalf("expected clip reset after Move, got %v", v.Clip().Rects())
	}
	if v.Geometry().X != 20 || v.Geometry().Y != 20 {
		t.Fatalf("geometry not updated: %v", v.Geometry())
	}
}

func TestViewBorderRings(t *testing.T) {
	v := newTestView(0, 0, 100, 50)
	v.SetBorder(0xffffff, 2, 0x000000, 3)
	if v.InnerRing() != (Rect{X: -2, Y: -2, W: 104, H: 54}) {
		t.Fatalf("unexpected inner ring: %v", v.InnerRing())
	}
	if v.OuterRing() != (Rect{X: -5, Y: -5, W: 110, H: 60}) {
		t.Fatalf("unexpected outer ring: %v", v.OuterRing())
	}
}

func TestViewShowHideCascade(t *testing.T) {
	parent := newTestView(0, 0, 10, 10)
	child := newTestView(0, 0, 5, 5)
	child.SetParent(parent)
	parent.Hide()
	if child.Visible() {
		t.Fatalf("expected child hidden when parent hides")
	}
	parent.Show()
	if !child.Visible() {
		t.Fatalf("expected child shown when parent shows")
	}
}

func TestWindowDestroyRestoresSavedGeometry(t *testing.T) {
	parentView := newTestView(0, 0, 400, 300)
	parentWin := NewWindow(parentView, "term", 1)
	childView := newTestView(50, 50, 200, 150)
	childWin := NewWindow(childView, "select", 2)

	parentWin.AddSpawnChild(childWin)
	if parentWin.SavedGeometry != (Rect{X: 0, Y: 0, W: 400, H: 300}) {
		t.Fatalf("expected saved geometry captured, got %v", parentWin.SavedGeometry)
	}
	parentView.SetGeometry(Rect{X: 10, Y: 10, W: 10, H: 10})

	childWin.Destroy()
	if parentView.Geometry() != (Rect{X: 0, Y: 0, W: 400, H: 300}) {
		t.Fatalf("expected parent geometry restored, got %v", parentView.Geometry())
	}
	if len(parentWin.SpawnChildren) != 0 {
		t.Fatalf("expected spawn children cleared")
	}
}
