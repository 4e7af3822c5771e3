// region_test.go - tests for region union/subtract/intersect (C1).

package chordwm

import "testing"

func areaOf(reg Region) int64 {
	var total int64
	for _, r := range reg.rects {
		total += int64(r.W) * int64(r.H)
	}
	return total
}

func TestRegionUnionDisjoint(t *testing.T) {
	reg := RegionFromRect(Rect{0, 0, 10, 10})
	reg = reg.UnionRect(Rect{20, 20, 10, 10})
	if got := areaOf(reg); got != 200 {
		t.Errorf("area = %d, want 200", got)
	}
	if !reg.ContainsPoint(5, 5) || !reg.ContainsPoint(25, 25) {
		t.Error("expected both rects covered")
	}
}

func TestRegionUnionOverlapping(t *testing.T) {
	reg := RegionFromRect(Rect{0, 0, 10, 10})
	reg = reg.UnionRect(Rect{5, 5, 10, 10})
	// total covered area must be 100 + 100 - 25 (overlap) = 175
	if got := areaOf(reg); got != 175 {
		t.Errorf("area = %d, want 175 (no double counting)", got)
	}
}

func TestRegionSubtract(t *testing.T) {
	reg := RegionFromRect(Rect{0, 0, 10, 10})
	reg = reg.SubtractRect(Rect{3, 3, 4, 4})
	if got := areaOf(reg); got != 100-16 {
		t.Errorf("area = %d, want %d", got, 100-16)
	}
	if reg.ContainsPoint(4, 4) {
		t.Error("subtracted hole should not be covered")
	}
	if !reg.ContainsPoint(0, 0) {
		t.Error("corner outside the hole should remain covered")
	}
}

func TestRegionSubtractFullyCovers(t *testing.T) {
	reg := RegionFromRect(Rect{0, 0, 10, 10})
	reg = reg.SubtractRect(Rect{-5, -5, 100, 100})
	if !reg.IsEmpty() {
		t.Errorf("expected empty region, got %v", reg.rects)
	}
}

func TestRegionIntersect(t *testing.T) {
	a := RegionFromRect(Rect{0, 0, 10, 10})
	b := RegionFromRect(Rect{5, 5, 10, 10})
	got := a.Intersect(b)
	if areaOf(got) != 25 {
		t.Errorf("area = %d, want 25", areaOf(got))
	}
}

func TestRegionExtents(t *testing.T) {
	reg := RegionFromRect(Rect{0, 0, 10, 10})
	reg = reg.UnionRect(Rect{90, 90, 10, 10})
	want := Rect{0, 0, 100, 100}
	if got := reg.Extents(); got != want {
		t.Errorf("Extents() = %v, want %v", got, want)
	}
}

func TestRegionTranslate(t *testing.T) {
	reg := RegionFromRect(Rect{0, 0, 10, 10})
	reg = reg.Translate(5, 5)
	if !reg.ContainsPoint(5, 5) || reg.ContainsPoint(0, 0) {
		t.Error("translate did not shift region correctly")
	}
}
