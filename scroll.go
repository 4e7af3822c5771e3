// scroll.go - eased scrolling, window-move, and zoom interpolation (C5).
//
// Grounded on original_source/mura.c's move_scroll_tick/scroll_tick/
// zoom_tick (exponential easing with sign-preserving floor division and
// a minimum step so the sequence always converges, edge auto-scroll
// during interactive move, and the scroll-position protocol broadcast
// on every successful step).

package chordwm

import (
	"log"
	"math"
)

// ScrollEngine is C5: the pending pixel accumulators, move-easing
// state, and zoom-easing state. Every tick is driven explicitly by the
// caller (Tick), so tests can advance a virtual clock instead of
// relying on a real timer (Design Notes, §9).
type ScrollEngine struct {
	cfg  Config
	comp *Compositor
	seat Seat

	remX, remY int32

	moving               *View
	moveStartWindowX     int32
	moveStartWindowY     int32
	moveStartCursorX     int32
	moveStartCursorY     int32

	dragSampling bool
	lastDragX    int32
	lastDragY    int32

	zoomCurrent float64
	zoomTarget  float64

	autoScrolling               bool
	autoCenterCooldownRemaining int

	scrollPos   int32
	OnScrollPos func(pos int32) // scroll-position protocol broadcast
}

func NewScrollEngine(cfg Config, comp *Compositor, seat Seat) *ScrollEngine {
	return &ScrollEngine{cfg: cfg, comp: comp, seat: seat, zoomCurrent: 1.0, zoomTarget: 1.0}
}

// easeStep computes rem/ease with sign-preserving floor: truncating
// division would get stuck at rem==1 forever for any ease>1, so a
// zero quotient is bumped to ±1 whenever rem is non-zero. The result
// is clamped to ±cap.
func easeStep(rem, ease, cap int32) int32 {
	if rem == 0 {
		return 0
	}
	if ease <= 0 {
		ease = 1
	}
	step := rem / ease
	if step == 0 {
		if rem > 0 {
			step = 1
		} else {
			step = -1
		}
	}
	if step > cap {
		step = cap
	}
	if step < -cap {
		step = -cap
	}
	return step
}

// Stop cancels any pending scroll, per §4.4's mode-exclusivity rule
// ("entering a new mode ... calls the scroll engine's stop routine").
// It does not end an in-progress interactive move; EndMove does that.
func (s *ScrollEngine) Stop() {
	s.remX, s.remY = 0, 0
	s.autoScrolling = false
	s.autoCenterCooldownRemaining = 0
}

// AddScrollPixels folds a wheel or drag delta into the pending
// accumulators. A fresh user-initiated delta arriving during the
// auto-center cooldown window cancels the auto-center instead of
// fighting it (SPEC_FULL.md §3 item 4, resolving spec.md's Open
// Question 3).
func (s *ScrollEngine) AddScrollPixels(dx, dy int32) {
	if s.autoScrolling && s.autoCenterCooldownRemaining > 0 {
		s.remX, s.remY = 0, 0
		s.autoScrolling = false
		s.autoCenterCooldownRemaining = 0
	}
	s.remX = clampI32(int64(s.remX) + int64(dx))
	s.remY = clampI32(int64(s.remY) + int64(dy))
}

// AutoScrollTo sets the pending accumulators directly to center a
// just-focused window, per §4.4 Auto-centering.
func (s *ScrollEngine) AutoScrollTo(dx, dy int32, cooldownTicks int) {
	s.remX, s.remY = dx, dy
	s.autoScrolling = true
	s.autoCenterCooldownRemaining = cooldownTicks
}

func (s *ScrollEngine) Pending() (int32, int32) { return s.remX, s.remY }

// BeginMove starts interactive move easing for v.
func (s *ScrollEngine) BeginMove(v *View, cursorX, cursorY int32) {
	s.moving = v
	g := v.Geometry()
	s.moveStartWindowX, s.moveStartWindowY = g.X, g.Y
	s.moveStartCursorX, s.moveStartCursorY = cursorX, cursorY
}

func (s *ScrollEngine) EndMove() { s.moving = nil }

func (s *ScrollEngine) Moving() *View { return s.moving }

// BeginScroll starts drag-mode cursor sampling if configured for it;
// in wheel mode, axis events feed AddScrollPixels directly instead.
func (s *ScrollEngine) BeginScroll() {
	s.dragSampling = s.cfg.ScrollDragMode
	if s.dragSampling && s.seat != nil {
		if x, y, err := s.seat.CursorPosition(); err == nil {
			s.lastDragX, s.lastDragY = x, y
		}
	}
}

func (s *ScrollEngine) EndScroll() { s.dragSampling = false }

// SetZoomTarget pulls the zoom level toward target over subsequent
// ticks; clamped to [0.1, 10.0] by Compositor.SetZoom.
func (s *ScrollEngine) SetZoomTarget(target float64) {
	if target < 0.1 {
		target = 0.1
	}
	if target > 10.0 {
		target = 10.0
	}
	s.zoomTarget = target
}

// Tick advances every active interpolator by one step. now is the
// current virtual or wall-clock time in milliseconds; callers
// self-reschedule every 16ms while any interpolator is active.
func (s *ScrollEngine) Tick(now int64) {
	if s.autoCenterCooldownRemaining > 0 {
		s.autoCenterCooldownRemaining--
	}

	s.tickScroll()
	s.tickScrollDrag()
	s.tickMove()
	s.tickZoom()
}

func (s *ScrollEngine) tickScroll() {
	stepX := easeStep(s.remX, s.cfg.ScrollEase, s.cfg.ScrollCap)
	stepY := easeStep(s.remY, s.cfg.ScrollEase, s.cfg.ScrollCap)
	if stepX == 0 && stepY == 0 {
		return
	}
	if s.cfg.DebugScroll {
		log.Printf("chordwm: scroll tick remX=%d remY=%d stepX=%d stepY=%d", s.remX, s.remY, stepX, stepY)
	}
	wheelMode := !s.cfg.ScrollDragMode
	for _, v := range s.comp.Stack() {
		if v.Window != nil && v.Window.Sticky {
			continue
		}
		if v == s.moving {
			continue // already following the cursor via move easing
		}
		if wheelMode && !s.intersectsCurrentScreenHorizontally(v) {
			continue
		}
		g := v.Geometry()
		v.Move(g.X+stepX, g.Y+stepY)
	}
	s.remX -= stepX
	s.remY -= stepY
	if stepY != 0 {
		s.scrollPos += stepY
		if s.OnScrollPos != nil {
			s.OnScrollPos(s.scrollPos)
		}
	}
	s.comp.ScheduleUpdate(-1)
}

func (s *ScrollEngine) intersectsCurrentScreenHorizontally(v *View) bool {
	screen := s.comp.CurrentScreen()
	if screen == nil {
		return true
	}
	g := v.Geometry()
	return g.X < screen.Geometry.Right() && g.Right() > screen.Geometry.X
}

func (s *ScrollEngine) tickScrollDrag() {
	if !s.dragSampling || s.seat == nil {
		return
	}
	x, y, err := s.seat.CursorPosition()
	if err != nil {
		return
	}
	dx := x - s.lastDragX
	dy := y - s.lastDragY
	s.lastDragX, s.lastDragY = x, y
	if dx != 0 || dy != 0 {
		s.AddScrollPixels(dx, dy)
	}
}

// tickMove implements §4.5 Move easing: the window eases toward
// moveStartWindow + (cursor - moveStartCursor) by ease_factor per
// tick, and entering a vertical edge strip injects edge auto-scroll.
func (s *ScrollEngine) tickMove() {
	if s.moving == nil || s.seat == nil {
		return
	}
	x, y, err := s.seat.CursorPosition()
	if err != nil {
		return
	}
	targetX := s.moveStartWindowX + (x - s.moveStartCursorX)
	targetY := s.moveStartWindowY + (y - s.moveStartCursorY)
	cur := s.moving.Geometry()
	dx := float64(targetX-cur.X) * s.cfg.MoveEaseFactor
	dy := float64(targetY-cur.Y) * s.cfg.MoveEaseFactor
	s.moving.Move(cur.X+int32(dx), cur.Y+int32(dy))

	screen := s.comp.CurrentScreen()
	if screen == nil {
		return
	}
	inset := s.cfg.MoveScrollEdgeInset
	switch {
	case x < screen.Geometry.X+inset:
		s.remX = clampI32(int64(s.remX) + int64(s.cfg.MoveScrollSpeed))
	case x > screen.Geometry.Right()-inset:
		s.remX = clampI32(int64(s.remX) - int64(s.cfg.MoveScrollSpeed))
	}
}

// tickZoom implements §4.5 Zoom easing: pull toward target by
// diff/4 per tick, minimum step 0.01, snapping on arrival.
func (s *ScrollEngine) tickZoom() {
	if s.zoomCurrent == s.zoomTarget {
		return
	}
	diff := s.zoomTarget - s.zoomCurrent
	if math.Abs(diff) < 0.01 {
		s.zoomCurrent = s.zoomTarget
	} else {
		step := diff / 4
		if step > 0 && step < 0.01 {
			step = 0.01
		}
		if step < 0 && step > -0.01 {
			step = -0.01
		}
		s.zoomCurrent += step
	}
	s.comp.SetZoom(s.zoomCurrent)
}

func (s *ScrollEngine) ZoomCurrent() float64 { return s.zoomCurrent }
