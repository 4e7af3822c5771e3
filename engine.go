// engine.go - the single wired-together value driving one seat (§5).
//
// Design Notes call for "global mutable records become a single
// well-typed engine value passed explicitly to all handlers" instead
// of the package-level globals a straight port would carry over;
// Engine is that value. It owns construction order (compositor, then
// the scroll engine that drives it, then the chord machine that drives
// the scroll engine) and is the sole parameter HandlerFunc receives.

package chordwm

// Engine wires C1-C5 plus the bindings/bell supplements into the one
// object the host event loop drives.
type Engine struct {
	Config     Config
	Compositor *Compositor
	Scroll     *ScrollEngine
	Chord      *Chord
	Bindings   *Bindings
	Seat       Seat
	Bell       *BellPlayer
}

// NewEngine constructs and wires every component. bell may be nil (bell
// disabled, e.g. no audio device); bindings may be nil to fall back to
// an empty set.
func NewEngine(cfg Config, renderer Renderer, seat Seat, spawner Spawner, bindings *Bindings, bell *BellPlayer) *Engine {
	comp := NewCompositor(renderer)
	scroll := NewScrollEngine(cfg, comp, seat)
	chord := NewChord(cfg, comp, seat, scroll, spawner)
	if bindings == nil {
		bindings = NewBindings()
	}
	return &Engine{
		Config:     cfg,
		Compositor: comp,
		Scroll:     scroll,
		Chord:      chord,
		Bindings:   bindings,
		Seat:       seat,
		Bell:       bell,
	}
}

// HandleButton routes a physical pointer button event to the chord
// state machine.
func (e *Engine) HandleButton(now int64, button Button, pressed bool) {
	e.Chord.Button(now, button, pressed)
	if pressed {
		e.Bindings.Dispatch(e, SourceButton, currentModifiers, int32(button))
	}
}

// currentModifiers is a package-level placeholder the host input
// backend overwrites via SetModifiers before dispatching; kept as a
// single value rather than threaded through every call because only
// one seat is ever driven per process (§1 Non-goals: single-seat).
var currentModifiers Modifier

// SetModifiers records the modifier keys currently held, consulted by
// the next binding dispatch.
func SetModifiers(m Modifier) { currentModifiers = m }

// HandleKey routes a keyboard event to the bindings table.
func (e *Engine) HandleKey(key int32, pressed bool) {
	if pressed {
		e.Bindings.Dispatch(e, SourceKey, currentModifiers, key)
	}
}

// HandleAxis routes a scroll-wheel axis event: bound axes fire their
// handler, unbound axes feed the scroll engine directly in wheel mode.
func (e *Engine) HandleAxis(axis int32, value120 int32) {
	e.Bindings.DispatchAxis(e, currentModifiers, axis)
	bound := false
	for _, ab := range e.Bindings.axes {
		if ab.axis == axis && (ab.mods&ModAny != 0 || ab.mods == currentModifiers) {
			bound = true
			break
		}
	}
	if !bound && !e.Config.ScrollDragMode {
		e.Scroll.AddScrollPixels(0, value120/120)
	}
}

// OnNewWindow registers a freshly mapped window per the process-spawn
// contract and, if nothing else has focus yet, focuses it.
func (e *Engine) OnNewWindow(v *View, now int64, lookupParentPID func(pid int) (int, bool)) {
	e.Chord.OnNewWindow(v, lookupParentPID)
	if e.Chord.Focused() == nil {
		e.Chord.Focus(v, now, false)
	}
}

// Tick drives every per-frame interpolator and should be called once
// per host frame (typically 60Hz) regardless of whether any chord is
// active; Chord.Tick and ScrollEngine.Tick are both no-ops when idle.
func (e *Engine) Tick(now int64) {
	e.Chord.Tick(now)
	if e.Compositor.NeedsPerform() {
		e.Compositor.Perform()
	}
}
