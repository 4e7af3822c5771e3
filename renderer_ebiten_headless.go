//go:build headless

// renderer_ebiten_headless.go - headless stand-in for EbitenRenderer,
// matching video_backend_headless.go's build-tag convention so CI and
// other environments without a display server can still build and run
// the test suite.

package chordwm

// NewEbitenRenderer under the headless tag returns the same in-process
// fake renderer the test suite already uses, so headless builds get a
// working Renderer without touching a real window.
func NewEbitenRenderer(w, h int) Renderer {
	return newFakeRenderer()
}
