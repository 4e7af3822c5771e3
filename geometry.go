// geometry.go - rectangle arithmetic and saturating conversions (C1).

package chordwm

import "math"

// Rect is an axis-aligned integer rectangle. Width and height are
// always non-negative; a Rect with W<=0 or H<=0 is considered empty.
type Rect struct {
	X, Y, W, H int32
}

// EmptyRect is the zero-area rectangle returned by operations with no
// result (e.g. intersecting disjoint rectangles).
var EmptyRect = Rect{}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Left() int32   { return r.X }
func (r Rect) Top() int32    { return r.Y }
func (r Rect) Right() int32  { return clampI32(int64(r.X) + int64(r.W)) }
func (r Rect) Bottom() int32 { return clampI32(int64(r.Y) + int64(r.H)) }

// ContainsPoint reports whether (x,y) lies within the rectangle,
// treating the right/bottom edge as exclusive.
func (r Rect) ContainsPoint(x, y int32) bool {
	if r.Empty() {
		return false
	}
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Translate shifts the rectangle by (dx,dy), saturating the result.
func (r Rect) Translate(dx, dy int32) Rect {
	if r.Empty() {
		return r
	}
	return Rect{
		X: clampI32(int64(r.X) + int64(dx)),
		Y: clampI32(int64(r.Y) + int64(dy)),
		W: r.W,
		H: r.H,
	}
}

// Intersect returns the overlapping sub-rectangle of r and o, or
// EmptyRect if they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	if r.Empty() || o.Empty() {
		return EmptyRect
	}
	x0 := maxI32(r.Left(), o.Left())
	y0 := maxI32(r.Top(), o.Top())
	x1 := minI32(r.Right(), o.Right())
	y1 := minI32(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return EmptyRect
	}
	return Rect{X: x0, Y: y0, W: spanU32AsI32(x0, x1), H: spanU32AsI32(y0, y1)}
}

// Union returns the smallest rectangle enclosing both r and o. Either
// operand may be empty, in which case the other is returned unchanged.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := minI32(r.Left(), o.Left())
	y0 := minI32(r.Top(), o.Top())
	x1 := maxI32(r.Right(), o.Right())
	y1 := maxI32(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: spanU32AsI32(x0, x1), H: spanU32AsI32(y0, y1)}
}

// Expand grows the rectangle by n on every side (n may be negative to
// shrink). A shrink past zero area yields EmptyRect.
func (r Rect) Expand(n int32) Rect {
	if r.Empty() && n <= 0 {
		return EmptyRect
	}
	x0 := clampI32(int64(r.Left()) - int64(n))
	y0 := clampI32(int64(r.Top()) - int64(n))
	x1 := clampI32(int64(r.Right()) + int64(n))
	y1 := clampI32(int64(r.Bottom()) + int64(n))
	if x1 <= x0 || y1 <= y0 {
		return EmptyRect
	}
	return Rect{X: x0, Y: y0, W: spanU32AsI32(x0, x1), H: spanU32AsI32(y0, y1)}
}

// Center returns the rectangle's midpoint, truncated toward zero.
func (r Rect) Center() (int32, int32) {
	return r.X + r.W/2, r.Y + r.H/2
}

// clampI32 saturates a 64-bit intermediate to the int32 range instead
// of wrapping, matching clamp_i32 in the geometry source this is
// grounded on (original_source/swc/libswc/compositor.c).
func clampI32(v int64) int32 {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}

// spanU32 returns the non-negative distance between lo and hi (0 if hi
// <= lo), matching span_u32 in the same source.
func spanU32(lo, hi int32) uint32 {
	if hi <= lo {
		return 0
	}
	return uint32(int64(hi) - int64(lo))
}

// spanU32AsI32 is spanU32 saturated back into the signed width/height
// field of a Rect.
func spanU32AsI32(lo, hi int32) int32 {
	s := spanU32(lo, hi)
	if s > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(s)
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
