// screen.go - output geometry and render target bookkeeping.

package chordwm

// Screen is one compositor output. Mask is a unique per-screen bit
// used for cheap set membership in the compositor's scheduled-updates
// and pending-flips bitmasks.
type Screen struct {
	Geometry Rect
	Mask     uint64

	Target RenderTarget

	// Wallpaper is an opaque external buffer handle blitted as the
	// repaint base layer when present (SPEC_FULL.md §3 item 9);
	// decoding the image is out of the core's scope.
	Wallpaper Buffer
}

// NewScreen allocates a screen with the given geometry and mask bit.
// The mask must be a single set bit, unique among live screens.
func NewScreen(geometry Rect, mask uint64, target RenderTarget) *Screen {
	return &Screen{Geometry: geometry, Mask: mask, Target: target}
}

// Contains reports whether (x,y) falls within the screen's geometry.
func (s *Screen) Contains(x, y int32) bool {
	return s.Geometry.ContainsPoint(x, y)
}
