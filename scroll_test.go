package chordwm

import "testing"

func newTestComposAndScroll() (*Compositor, *ScrollEngine, *fakeSeat) {
	r := newFakeRenderer()
	comp := NewCompositor(r)
	screen := NewScreen(Rect{X: 0, Y: 0, W: 1920, H: 1080}, 1, &fakeTarget{})
	comp.AddScreen(screen)
	comp.SetCurrentScreen(screen)
	seat := newFakeSeat()
	cfg := DefaultConfig()
	scroll := NewScrollEngine(cfg, comp, seat)
	return comp, scroll, seat
}

// TestScrollConvergence exercises easeStep directly: a remainder of 1
// must not stall (floor(1/4)==0 would otherwise never reach zero).
func TestScrollConvergence(t *testing.T) {
	rem := int32(100)
	ticks := 0
	for rem != 0 && ticks < 1000 {
		step := easeStep(rem, 4, 64)
		if step == 0 {
			t.Fatalf("easeStep returned 0 for non-zero remainder %d", rem)
		}
		prevAbs := abs32(rem)
		rem -= step
		if abs32(rem) >= prevAbs {
			t.Fatalf("remainder did not shrink: was %d, now %d", prevAbs, abs32(rem))
		}
		ticks++
	}
	if rem != 0 {
		t.Fatalf("did not converge within 1000 ticks, remainder=%d", rem)
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// TestStickyUnaffectedByScroll is literal scenario 6: a sticky view's
// position must not move while a non-sticky view under the same
// scroll fully absorbs the pending delta.
func TestStickyUnaffectedByScroll(t *testing.T) {
	comp, scroll, _ := newTestComposAndScroll()

	a := newTestView(100, 100, 50, 50)
	aWin := NewWindow(a, "a", 1)
	aWin.Sticky = true
	comp.RegisterView(a)

	b := newTestView(200, 100, 50, 50)
	NewWindow(b, "b", 2)
	comp.RegisterView(b)

	scroll.AddScrollPixels(0, 64)
	for i := 0; i < 200 && scroll.remY != 0; i++ {
		scroll.Tick(int64(i) * 16)
	}

	if a.Geometry().Y != 100 {
		t.Fatalf("sticky view moved: y=%d", a.Geometry().Y)
	}
	if b.Geometry().Y != 100+64 {
		t.Fatalf("non-sticky view did not absorb full scroll: y=%d", b.Geometry().Y)
	}
}

// TestZoomEaseStep is literal scenario 5: current 1.0 easing toward
// 1.15 should take a first step of exactly diff/4.
func TestZoomEaseStep(t *testing.T) {
	_, scroll, _ := newTestComposAndScroll()
	scroll.zoomCurrent = 1.0
	scroll.SetZoomTarget(1.15)
	scroll.tickZoom()

	want := 1.0 + 0.15/4
	if diff := scroll.ZoomCurrent() - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("zoom step mismatch: got %v want %v", scroll.ZoomCurrent(), want)
	}
}

func TestZoomSnapsWithinFloor(t *testing.T) {
	_, scroll, _ := newTestComposAndScroll()
	scroll.zoomCurrent = 0.999
	scroll.SetZoomTarget(1.0)
	scroll.tickZoom()
	if scroll.ZoomCurrent() != 1.0 {
		t.Fatalf("expected snap to target, got %v", scroll.ZoomCurrent())
	}
}

func TestMoveEasingFollowsCursor(t *testing.T) {
	comp, scroll, seat := newTestComposAndScroll()
	v := newTestView(0, 0, 100, 100)
	NewWindow(v, "w", 1)
	comp.RegisterView(v)

	seat.x, seat.y = 500, 500
	scroll.BeginMove(v, 500, 500)
	seat.x, seat.y = 600, 500 // cursor moves 100px right
	scroll.tickMove()

	want := int32(float64(100) * scroll.cfg.MoveEaseFactor)
	if v.Geometry().X != want {
		t.Fatalf("move ease mismatch: got %d want %d", v.Geometry().X, want)
	}
}
