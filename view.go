// view.go - the per-surface visual record and border model (C2).

package chordwm

import "errors"

// Border describes the two concentric frames drawn around a view's
// content: the inner frame touches the content, the outer frame
// surrounds the inner frame. A width of 0 produces no ring.
type Border struct {
	InnerWidth int32
	InnerColor uint32
	OuterWidth int32
	OuterColor uint32

	DamagedInner bool
	DamagedOuter bool
}

// View is one per visible surface: a top-level window view or a
// subsurface view. Only top-level views (Window != nil) participate in
// focus and stacking policy. The compositor field is a weak,
// non-owning back-reference set when the view is registered; the
// compositor's stacking list is the sole owner of a View's lifetime.
type View struct {
	surface Surface
	buffer  Buffer
	proxy   Buffer

	geometry Rect
	extents  Rect
	clip     Region

	visible bool
	parent  *View
	childOf map[*View]bool

	border Border

	destroySubscribers []func(*View)

	// Window is non-nil for top-level views; nil for subsurfaces.
	Window *Window

	comp *Compositor
}

// NewView creates a hidden view observing surface, with no buffer
// attached yet. Callers attach a buffer before the view participates
// in repaint.
func NewView(surface Surface) *View {
	return &View{surface: surface, childOf: make(map[*View]bool)}
}

func (v *View) Geometry() Rect { return v.geometry }
func (v *View) Extents() Rect  { return v.extents }
func (v *View) Clip() Region   { return v.clip }
func (v *View) Visible() bool  { return v.visible }
func (v *View) Parent() *View  { return v.parent }
func (v *View) Buffer() Buffer { return v.buffer }

func (v *View) borderWidth() int32 { return v.border.OuterWidth + v.border.InnerWidth }

func (v *View) recomputeExtents() {
	v.extents = v.geometry.Expand(v.borderWidth())
}

// Attach replaces the view's buffer, per §4.2. If the renderer cannot
// read the supplied buffer directly, a mappable proxy buffer of the
// same size/format is allocated and client damage is copied into it
// each frame by the compositor's damage pass (flush-view). If the
// buffer's size differs from the prior one, the old/new extents
// difference is folded into compositor damage as a resize.
func (v *View) Attach(renderer Renderer, buf Buffer) error {
	oldExtents := v.extents
	oldSize := Rect{}
	if v.buffer != nil {
		oldSize = Rect{W: v.buffer.Width(), H: v.buffer.Height()}
	}
	newSize := Rect{W: buf.Width(), H: buf.Height()}

	if caps := renderer.Capabilities(buf); caps&CapRead == 0 {
		proxy, err := renderer.CreateBuffer(newSize.W, newSize.H, buf.Format(), 0)
		if err != nil {
			return newError("View.Attach", "proxy buffer allocation failed", errors.Join(ErrAllocationFailed, err))
		}
		v.proxy = proxy
	} else {
		v.proxy = nil
	}

	v.buffer = buf
	if oldSize != newSize && v.comp != nil {
		v.recomputeExtents()
		diff := RegionFromRect(oldExtents).UnionRect(v.extents).SubtractRect(oldExtents.Intersect(v.extents))
		diff = diff.Subtract(v.clip)
		v.comp.damage = v.comp.damage.Union(diff)
	} else {
		v.recomputeExtents()
	}
	return nil
}

// Move updates the view's position, folding damageBelow both before
// and after the move into compositor damage, and invalidates the clip
// region until the next damage pass recomputes it (§4.2).
func (v *View) Move(x, y int32) {
	if v.comp != nil {
		v.comp.damageBelowView(v)
	}
	v.geometry.X = x
	v.geometry.Y = y
	v.recomputeExtents()
	v.clip = Region{} // assume uncovered until recomputed
	if v.comp != nil {
		v.comp.damageBelowView(v)
	}
}

// SetGeometry repositions and resizes in one step, used by the window
// manager layer and by interactive resize.
func (v *View) SetGeometry(r Rect) {
	if v.comp != nil {
		v.comp.damageBelowView(v)
	}
	v.geometry = r
	v.recomputeExtents()
	v.clip = Region{}
	if v.comp != nil {
		v.comp.damageBelowView(v)
	}
}

// Show/Hide cascade to every view whose parent is this view.
func (v *View) Show() {
	v.visible = true
	for child := range v.childOf {
		child.Show()
	}
}

func (v *View) Hide() {
	v.visible = false
	for child := range v.childOf {
		child.Hide()
	}
}

// SetBorder marks both border segments damaged; geometry is left
// unchanged, the caller decides whether to compensate.
func (v *View) SetBorder(innerColor uint32, innerWidth int32, outerColor uint32, outerWidth int32) {
	v.border.InnerColor = innerColor
	v.border.InnerWidth = innerWidth
	v.border.OuterColor = outerColor
	v.border.OuterWidth = outerWidth
	v.border.DamagedInner = true
	v.border.DamagedOuter = true
	v.recomputeExtents()
}

// SetParent establishes subsurface parentage for cascade show/hide.
func (v *View) SetParent(parent *View) {
	if v.parent != nil {
		delete(v.parent.childOf, v)
	}
	v.parent = parent
	if parent != nil {
		parent.childOf[v] = true
	}
}

// OnDestroy registers a subscriber invoked when the view is destroyed.
func (v *View) OnDestroy(fn func(*View)) {
	v.destroySubscribers = append(v.destroySubscribers, fn)
}

// Destroy tears the view down: subsurface children become parentless
// but remain visible until their own surface is destroyed (§3
// Lifecycle), and every destroy subscriber is notified.
func (v *View) Destroy() {
	for child := range v.childOf {
		child.parent = nil
	}
	v.childOf = make(map[*View]bool)
	for _, fn := range v.destroySubscribers {
		fn(v)
	}
}

// InnerRing returns the outer bound of the inner border frame: the
// geometry expanded by innerWidth. The frame itself is this rectangle
// minus the content rectangle; callers subtract that themselves.
func (v *View) InnerRing() Rect {
	return v.geometry.Expand(v.border.InnerWidth)
}

// OuterRing returns the outer bound of the outer border frame: the
// extents. The frame itself is this rectangle minus InnerRing();
// callers subtract that themselves.
func (v *View) OuterRing() Rect {
	return v.extents
}
