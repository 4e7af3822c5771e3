// region.go - region set algebra: union, subtract, intersect (C1).
//
// A Region is a set of disjoint rectangles. Implementations may use an
// off-the-shelf region library (pixman, freetype spans, etc) as long as
// these operations hold; this one is a plain rectangle-splitting
// implementation with no external dependency, since none of the
// example repos ship a general-purpose 2D region algebra package.

package chordwm

// Region is an immutable-by-convention set of disjoint rectangles.
// Every operation returns a new Region; callers that mutate in a loop
// should reassign (reg = reg.UnionRect(r)).
type Region struct {
	rects []Rect
}

// RegionFromRect builds a single-rectangle region.
func RegionFromRect(r Rect) Region {
	if r.Empty() {
		return Region{}
	}
	return Region{rects: []Rect{r}}
}

func (reg Region) IsEmpty() bool { return len(reg.rects) == 0 }

// Rects returns a defensive copy of the region's rectangles.
func (reg Region) Rects() []Rect {
	out := make([]Rect, len(reg.rects))
	copy(out, reg.rects)
	return out
}

// Extents returns the smallest rectangle enclosing the whole region.
func (reg Region) Extents() Rect {
	if len(reg.rects) == 0 {
		return EmptyRect
	}
	ext := reg.rects[0]
	for _, r := range reg.rects[1:] {
		ext = ext.Union(r)
	}
	return ext
}

func (reg Region) ContainsPoint(x, y int32) bool {
	for _, r := range reg.rects {
		if r.ContainsPoint(x, y) {
			return true
		}
	}
	return false
}

func (reg Region) Translate(dx, dy int32) Region {
	if len(reg.rects) == 0 {
		return reg
	}
	out := make([]Rect, len(reg.rects))
	for i, r := range reg.rects {
		out[i] = r.Translate(dx, dy)
	}
	return Region{rects: out}
}

// UnionRect adds r to the region, clipping r against the existing
// rectangles so the result stays disjoint.
func (reg Region) UnionRect(r Rect) Region {
	if r.Empty() {
		return reg
	}
	pieces := []Rect{r}
	for _, e := range reg.rects {
		pieces = subtractRectFromList(pieces, e)
	}
	out := make([]Rect, 0, len(reg.rects)+len(pieces))
	out = append(out, reg.rects...)
	out = append(out, pieces...)
	return Region{rects: out}
}

func (reg Region) Union(other Region) Region {
	result := reg
	for _, r := range other.rects {
		result = result.UnionRect(r)
	}
	return result
}

// SubtractRect removes r's coverage from the region.
func (reg Region) SubtractRect(r Rect) Region {
	if r.Empty() || reg.IsEmpty() {
		return reg
	}
	var out []Rect
	for _, e := range reg.rects {
		out = append(out, subtractRectFromRect(e, r)...)
	}
	return Region{rects: out}
}

func (reg Region) Subtract(other Region) Region {
	result := reg
	for _, r := range other.rects {
		result = result.SubtractRect(r)
	}
	return result
}

// IntersectRect clips the region to r.
func (reg Region) IntersectRect(r Rect) Region {
	if r.Empty() {
		return Region{}
	}
	var out []Rect
	for _, e := range reg.rects {
		i := e.Intersect(r)
		if !i.Empty() {
			out = append(out, i)
		}
	}
	return Region{rects: out}
}

func (reg Region) Intersect(other Region) Region {
	if reg.IsEmpty() || other.IsEmpty() {
		return Region{}
	}
	var out []Rect
	for _, a := range reg.rects {
		for _, b := range other.rects {
			i := a.Intersect(b)
			if !i.Empty() {
				out = append(out, i)
			}
		}
	}
	return Region{rects: out}
}

// subtractRectFromRect returns the parts of a not covered by b, as up
// to four disjoint rectangles (top strip, bottom strip, and the
// left/right strips of the row spanned by the intersection).
func subtractRectFromRect(a, b Rect) []Rect {
	i := a.Intersect(b)
	if i.Empty() {
		return []Rect{a}
	}
	var out []Rect
	if i.Top() > a.Top() {
		out = append(out, Rect{X: a.X, Y: a.Y, W: a.W, H: i.Top() - a.Y})
	}
	if i.Bottom() < a.Bottom() {
		out = append(out, Rect{X: a.X, Y: i.Bottom(), W: a.W, H: a.Bottom() - i.Bottom()})
	}
	midY := i.Top()
	midH := i.Bottom() - i.Top()
	if i.Left() > a.Left() {
		out = append(out, Rect{X: a.X, Y: midY, W: i.Left() - a.X, H: midH})
	}
	if i.Right() < a.Right() {
		out = append(out, Rect{X: i.Right(), Y: midY, W: a.Right() - i.Right(), H: midH})
	}
	return out
}

func subtractRectFromList(rects []Rect, b Rect) []Rect {
	var out []Rect
	for _, r := range rects {
		out = append(out, subtractRectFromRect(r, b)...)
	}
	return out
}
