// renderer.go - the external renderer contract (§6, consumed by C3).
//
// The renderer itself (GPU context, DRM/SHM plumbing) is out of scope
// per §1; this file only states the interface the compositor pipeline
// drives. EbitenRenderer is the default concrete implementation,
// modeled on the teacher's video_backend_ebiten.go: it owns the
// window, translates ebiten's own event loop into the frame-signal and
// pointer-event contracts this core expects.

package chordwm

import (
	"fmt"
)

type Format int32

const (
	FormatARGB8888 Format = iota
	FormatXRGB8888
)

type Capability uint8

const (
	CapRead Capability = 1 << iota
	CapWrite
)

type BufferKind int

const (
	BufferKindSHM BufferKind = iota
	BufferKindDMABuf
)

// Buffer is an opaque pixel buffer handle.
type Buffer interface {
	Width() int32
	Height() int32
	Format() Format
}

// RenderTarget is a screen's scanout destination: a surface plus its
// current/next buffers. SwapBuffers presents the composited frame.
type RenderTarget interface {
	SwapBuffers() error
}

// Renderer is the external rendering backend the compositor pipeline
// drives. None of these allocate on the hot paint path once the
// screen set is stable (§4.1); CreateBuffer/CreateSurface are only
// called on attach/resize/screen-hotplug.
type Renderer interface {
	CreateSurface(w, h int32, format Format, flags uint32) (RenderTarget, error)
	CreateBuffer(w, h int32, format Format, flags uint32) (Buffer, error)
	ImportBuffer(kind BufferKind, object any, w, h int32, format Format, pitch int32) (Buffer, error)
	SetTarget(t RenderTarget)
	CopyRegion(src Buffer, sx, sy int32, region Region)
	CopyRectangle(src Buffer, sx, sy, dx, dy, w, h int32)
	FillRegion(color uint32, region Region)
	FillRectangle(color uint32, x, y, w, h int32)
	Map(b Buffer) ([]byte, error)
	Unmap(b Buffer)
	Flush()
	Capabilities(b Buffer) Capability
	Take(t RenderTarget) (Buffer, error)
	Release(t RenderTarget, b Buffer)
	// Damage folds region into t's accumulated, unpresented damage and
	// returns the accumulated total (§6: "damage(surface, region) →
	// accumulatedDamage").
	Damage(t RenderTarget, region Region) Region
}

// memBuffer is a trivial in-process Buffer, used by the fake renderer
// in tests and as the software zoom composite's destination image.
type memBuffer struct {
	w, h   int32
	format Format
	pixels []byte
}

func newMemBuffer(w, h int32, format Format) *memBuffer {
	return &memBuffer{w: w, h: h, format: format, pixels: make([]byte, int(w)*int(h)*4)}
}

func (b *memBuffer) Width() int32   { return b.w }
func (b *memBuffer) Height() int32  { return b.h }
func (b *memBuffer) Format() Format { return b.format }

// fakeTarget is a RenderTarget stub used by tests; Deny makes the next
// SwapBuffers call return a renderer-denied error.
type fakeTarget struct {
	Deny     bool
	Accepted int
}

func (t *fakeTarget) SwapBuffers() error {
	if t.Deny {
		return newError("SwapBuffers", "access denied", ErrRendererDenied)
	}
	t.Accepted++
	return nil
}

// fakeRenderer is a headless Renderer used by compositor tests and by
// golang.org/x/exp/shiny-free environments where no real GPU context
// is available.
type fakeRenderer struct {
	damage map[RenderTarget]Region
	target RenderTarget
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{damage: make(map[RenderTarget]Region)}
}

func (r *fakeRenderer) CreateSurface(w, h int32, format Format, flags uint32) (RenderTarget, error) {
	return &fakeTarget{}, nil
}

func (r *fakeRenderer) CreateBuffer(w, h int32, format Format, flags uint32) (Buffer, error) {
	return newMemBuffer(w, h, format), nil
}

func (r *fakeRenderer) ImportBuffer(kind BufferKind, object any, w, h int32, format Format, pitch int32) (Buffer, error) {
	return newMemBuffer(w, h, format), nil
}

func (r *fakeRenderer) SetTarget(t RenderTarget) { r.target = t }

func (r *fakeRenderer) CopyRegion(src Buffer, sx, sy int32, region Region)             {}
func (r *fakeRenderer) CopyRectangle(src Buffer, sx, sy, dx, dy, w, h int32)           {}
func (r *fakeRenderer) FillRegion(color uint32, region Region)                        {}
func (r *fakeRenderer) FillRectangle(color uint32, x, y, w, h int32)                  {}

func (r *fakeRenderer) Map(b Buffer) ([]byte, error) {
	if mb, ok := b.(*memBuffer); ok {
		return mb.pixels, nil
	}
	return nil, fmt.Errorf("not mappable")
}

func (r *fakeRenderer) Unmap(b Buffer) {}
func (r *fakeRenderer) Flush()         {}

func (r *fakeRenderer) Capabilities(b Buffer) Capability { return CapRead | CapWrite }

func (r *fakeRenderer) Take(t RenderTarget) (Buffer, error) {
	return newMemBuffer(1, 1, FormatARGB8888), nil
}

func (r *fakeRenderer) Release(t RenderTarget, b Buffer) {}

func (r *fakeRenderer) Damage(t RenderTarget, region Region) Region {
	total := r.damage[t].Union(region)
	r.damage[t] = total
	return total
}

func (r *fakeRenderer) clearDamage(t RenderTarget) { r.damage[t] = Region{} }
