// zoom.go - the zoom composite path (C3 §4.3 Zoom path).
//
// Grounded on original_source/swc/libswc/compositor.c's
// render_zoomed_to_shm (software per-view composite into a mappable
// SHM buffer, one final region copy to the scanout target). Every
// zoomed frame is composited and presented by this software path.

package chordwm

import (
	"image"
	"image/draw"

	"gioui.org/f32"
	ximagedraw "golang.org/x/image/draw"
)

// zoomTransform returns the f32.Affine2D mapping compositor-global
// coordinates to the zoomed frame, per §4.3: zoomed = (geom -
// screenCenter) * zoom + screenCenter.
func zoomTransform(zoom float64, centerX, centerY float32) f32.Affine2D {
	return f32.Affine2D{}.
		Offset(f32.Point{X: -centerX, Y: -centerY}).
		Scale(f32.Point{}, f32.Point{X: float32(zoom), Y: float32(zoom)}).
		Offset(f32.Point{X: centerX, Y: centerY})
}

func transformRect(t f32.Affine2D, r Rect) Rect {
	x0, y0 := t.Transform(f32.Point{X: float32(r.X), Y: float32(r.Y)}).X, t.Transform(f32.Point{X: float32(r.X), Y: float32(r.Y)}).Y
	x1, y1 := t.Transform(f32.Point{X: float32(r.Right()), Y: float32(r.Bottom())}).X, t.Transform(f32.Point{X: float32(r.Right()), Y: float32(r.Bottom())}).Y
	return Rect{
		X: int32(x0), Y: int32(y0),
		W: spanU32AsI32(int32(x0), int32(x1)),
		H: spanU32AsI32(int32(y0), int32(y1)),
	}
}

// repaintZoom diverts the repaint through a pixel-level software
// composite, per §4.3: allocate a screen-sized mappable buffer, paint
// background, draw every visible view scaled and frustum-culled with
// its borders, bilinear-blit its source buffer, then copy the whole
// result to the scanout target in one region copy.
func (c *Compositor) repaintZoom(s *Screen, damage Region) {
	dstW, dstH := s.Geometry.W, s.Geometry.H
	dst := image.NewRGBA(image.Rect(0, 0, int(dstW), int(dstH)))

	cx, cy := float32(dstW)/2, float32(dstH)/2
	t := zoomTransform(c.zoom, cx+float32(s.Geometry.X), cy+float32(s.Geometry.Y))

	// background
	draw.Draw(dst, dst.Bounds(), image.NewUniform(image.Black), image.Point{}, draw.Src)

	for i := len(c.stack) - 1; i >= 0; i-- {
		v := c.stack[i]
		if !v.visible {
			continue
		}
		zoomed := transformRect(t, v.extents).Translate(-s.Geometry.X, -s.Geometry.Y)
		if zoomed.Intersect(Rect{X: 0, Y: 0, W: dstW, H: dstH}).Empty() {
			continue // frustum-culled
		}
		c.drawZoomedBorders(dst, v, t, s)
		content := transformRect(t, v.geometry).Translate(-s.Geometry.X, -s.Geometry.Y)
		c.blitZoomedView(dst, v, content)
	}

	if c.renderer == nil || s.Target == nil {
		return
	}
	buf := newMemBuffer(dstW, dstH, FormatARGB8888)
	copy(buf.pixels, dst.Pix)
	c.renderer.CopyRegion(buf, 0, 0, RegionFromRect(Rect{X: 0, Y: 0, W: dstW, H: dstH}))
}

func (c *Compositor) drawZoomedBorders(dst *image.RGBA, v *View, t f32.Affine2D, s *Screen) {
	outer := transformRect(t, v.OuterRing()).Translate(-s.Geometry.X, -s.Geometry.Y)
	inner := transformRect(t, v.InnerRing()).Translate(-s.Geometry.X, -s.Geometry.Y)
	fillRectRGBA(dst, outer, v.border.OuterColor)
	fillRectRGBA(dst, inner, v.border.InnerColor)
}

func fillRectRGBA(dst *image.RGBA, r Rect, color uint32) {
	if r.Empty() {
		return
	}
	draw.Draw(dst, image.Rect(int(r.X), int(r.Y), int(r.Right()), int(r.Bottom())), image.NewUniform(rgbaFromUint32(color)), image.Point{}, draw.Src)
}

func rgbaFromUint32(c uint32) colorRGBA {
	a := uint8(c >> 24)
	if a == 0 {
		a = 0xff
	}
	return colorRGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: a}
}

type colorRGBA struct{ R, G, B, A uint8 }

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

// blitZoomedView maps v's source buffer (via the mem-buffer fake or a
// real renderer mapping) and bilinear-scales it into dst at zoomed.
func (c *Compositor) blitZoomedView(dst *image.RGBA, v *View, zoomed Rect) {
	if v.buffer == nil || c.renderer == nil {
		return
	}
	pixels, err := c.renderer.Map(v.buffer)
	if err != nil {
		return
	}
	defer c.renderer.Unmap(v.buffer)

	src := &image.RGBA{
		Pix:    pixels,
		Stride: int(v.buffer.Width()) * 4,
		Rect:   image.Rect(0, 0, int(v.buffer.Width()), int(v.buffer.Height())),
	}
	destRect := image.Rect(int(zoomed.X), int(zoomed.Y), int(zoomed.Right()), int(zoomed.Bottom()))
	ximagedraw.BiLinear.Scale(dst, destRect, src, src.Bounds(), ximagedraw.Over, nil)
}
