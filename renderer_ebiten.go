//go:build !headless

// renderer_ebiten.go - the default Renderer/RenderTarget backend.
//
// Adapted from video_backend_ebiten.go's EbitenOutput: an ebiten.Image
// as the presented frame, a frame-ready channel closed on the first
// Update call, and inpututil-polled mouse button and wheel state
// translated into this project's Button/axis events instead of the
// teacher's single-byte keyHandler callback. Keyboard state is not
// polled.

package chordwm

import (
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EbitenRenderer is the default concrete Renderer: one ebiten.Image
// backs the composited screen, and CopyRegion/FillRegion draw directly
// into it instead of accumulating a separate software framebuffer.
type EbitenRenderer struct {
	mu     sync.Mutex
	screen *ebiten.Image
	w, h   int

	target  *ebitenTarget
	engine  *Engine
	ready   chan struct{}
	readyOnce sync.Once

	lastMouseX, lastMouseY int32
}

// ebitenTarget is the sole RenderTarget this backend produces. Swap
// has nothing to do: drawing goes straight into the image ebiten's own
// Draw presents, and ebiten already double-buffers internally. Update
// delivers the frame signal for screens drawing into this target.
type ebitenTarget struct{ r *EbitenRenderer }

func (t *ebitenTarget) SwapBuffers() error { return nil }

// ebitenBuffer wraps an *ebiten.Image as a Buffer.
type ebitenBuffer struct {
	img    *ebiten.Image
	w, h   int32
	format Format
}

func (b *ebitenBuffer) Width() int32   { return b.w }
func (b *ebitenBuffer) Height() int32  { return b.h }
func (b *ebitenBuffer) Format() Format { return b.format }

// NewEbitenRenderer constructs a renderer of the given window size.
// engine is polled every Update for its Tick and fed pointer/key
// events; it may be nil during construction and set via SetEngine once
// NewEngine has wired the rest of the pipeline.
func NewEbitenRenderer(w, h int) *EbitenRenderer {
	r := &EbitenRenderer{
		screen: ebiten.NewImage(w, h),
		w:      w,
		h:      h,
		ready:  make(chan struct{}),
	}
	r.target = &ebitenTarget{r: r}
	return r
}

func (r *EbitenRenderer) SetEngine(e *Engine) { r.engine = e }

// Run starts ebiten's own game loop; it blocks until the window
// closes, matching ebiten.RunGame's own contract (video_backend_ebiten
// runs this in a goroutine and waits on a similar ready channel).
func (r *EbitenRenderer) Run(title string) error {
	ebiten.SetWindowSize(r.w, r.h)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	return ebiten.RunGame(r)
}

func (r *EbitenRenderer) Update() error {
	r.readyOnce.Do(func() { close(r.ready) })
	if r.engine == nil {
		return nil
	}
	// The previous frame has been presented by Draw: deliver the frame
	// signal that clears each screen's pending-flip bit.
	for _, s := range r.engine.Compositor.Screens() {
		if s.Target == RenderTarget(r.target) {
			r.engine.Compositor.NotifyFrameSignal(s)
		}
	}

	x, y := ebiten.CursorPosition()
	r.lastMouseX, r.lastMouseY = int32(x), int32(y)

	for btn, mapped := range ebitenButtonMap {
		if inpututil.IsMouseButtonJustPressed(btn) {
			r.engine.HandleButton(ebitenNowMillis(), mapped, true)
		}
		if inpututil.IsMouseButtonJustReleased(btn) {
			r.engine.HandleButton(ebitenNowMillis(), mapped, false)
		}
	}
	_, dy := ebiten.Wheel()
	if dy != 0 {
		r.engine.HandleAxis(0, int32(dy*120))
	}
	r.engine.Tick(ebitenNowMillis())
	return nil
}

func (r *EbitenRenderer) Draw(screen *ebiten.Image) {
	r.mu.Lock()
	defer r.mu.Unlock()
	screen.DrawImage(r.screen, nil)
}

func (r *EbitenRenderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.w, r.h
}

// CursorPosition implements the Seat fragment this renderer can supply
// directly, since ebiten already tracks it.
func (r *EbitenRenderer) CursorPosition() (int32, int32, error) {
	return r.lastMouseX, r.lastMouseY, nil
}

var ebitenButtonMap = map[ebiten.MouseButton]Button{
	ebiten.MouseButtonLeft:   ButtonLeft,
	ebiten.MouseButtonMiddle: ButtonMiddle,
	ebiten.MouseButtonRight:  ButtonRight,
}

// ebitenNowMillis stands in for a monotonic millisecond clock; hosts
// embedding this renderer outside of tests use ebiten's own frame
// timer, so no wall-clock call is needed on the hot path.
var ebitenFrameCounter int64

func ebitenNowMillis() int64 {
	ebitenFrameCounter += 16
	return ebitenFrameCounter
}

// --- Renderer interface ---

func (r *EbitenRenderer) CreateSurface(w, h int32, format Format, flags uint32) (RenderTarget, error) {
	return r.target, nil
}

func (r *EbitenRenderer) CreateBuffer(w, h int32, format Format, flags uint32) (Buffer, error) {
	return &ebitenBuffer{img: ebiten.NewImage(int(w), int(h)), w: w, h: h, format: format}, nil
}

func (r *EbitenRenderer) ImportBuffer(kind BufferKind, object any, w, h int32, format Format, pitch int32) (Buffer, error) {
	return r.CreateBuffer(w, h, format, 0)
}

func (r *EbitenRenderer) SetTarget(t RenderTarget) {}

func (r *EbitenRenderer) CopyRegion(src Buffer, sx, sy int32, region Region) {
	eb, ok := src.(*ebitenBuffer)
	if !ok || eb.img == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rect := range region.Rects() {
		opts := &ebiten.DrawImageOptions{}
		opts.GeoM.Translate(float64(rect.X), float64(rect.Y))
		sub := eb.img.SubImage(image.Rect(int(rect.X-sx), int(rect.Y-sy), int(rect.Right()-sx), int(rect.Bottom()-sy))).(*ebiten.Image)
		r.screen.DrawImage(sub, opts)
	}
}

func (r *EbitenRenderer) CopyRectangle(src Buffer, sx, sy, dx, dy, w, h int32) {
	r.CopyRegion(src, sx-dx, sy-dy, RegionFromRect(Rect{X: dx, Y: dy, W: w, H: h}))
}

func (r *EbitenRenderer) FillRegion(color uint32, region Region) {
	r.mu.Lock()
	defer r.mu.Unlock()
	col := rgbaFromUint32(color)
	for _, rect := range region.Rects() {
		sub := r.screen.SubImage(image.Rect(int(rect.X), int(rect.Y), int(rect.Right()), int(rect.Bottom()))).(*ebiten.Image)
		sub.Fill(col)
	}
}

func (r *EbitenRenderer) FillRectangle(color uint32, x, y, w, h int32) {
	r.FillRegion(color, RegionFromRect(Rect{X: x, Y: y, W: w, H: h}))
}

func (r *EbitenRenderer) Map(b Buffer) ([]byte, error) {
	eb, ok := b.(*ebitenBuffer)
	if !ok {
		return nil, newError("Map", "not an ebiten buffer", nil)
	}
	pix := make([]byte, eb.w*eb.h*4)
	eb.img.ReadPixels(pix)
	return pix, nil
}

func (r *EbitenRenderer) Unmap(b Buffer) {}

func (r *EbitenRenderer) Flush() {}

func (r *EbitenRenderer) Capabilities(b Buffer) Capability { return CapRead | CapWrite }

func (r *EbitenRenderer) Take(t RenderTarget) (Buffer, error) {
	return &ebitenBuffer{img: r.screen, w: int32(r.w), h: int32(r.h)}, nil
}

func (r *EbitenRenderer) Release(t RenderTarget, b Buffer) {}

func (r *EbitenRenderer) Damage(t RenderTarget, region Region) Region { return region }
