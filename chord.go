// chord.go - the multi-button chord state machine (C4).
//
// Grounded on original_source/mura.c's button/motion dispatch: a lone
// button press is deferred behind a click timeout so a second button
// pressed in time forms a chord instead of two independent clicks
// (mirroring acme's own chording mouse predicate, noted in
// SPEC_FULL.md §3 item 1), chords are mutually exclusive (entering one
// mode always tears down whatever mode preceded it), and the custom
// "2-1" action is a one-shot operation triggered on chord formation.
// The select-to-spawn rectangle is anchored when its chord forms and
// spawned when the chord is released.

package chordwm

// Button names a physical pointer button. Values match the ordering
// the chord table is defined over; a fourth distinct button is never
// consulted by chordMode and is simply ignored while a chord is active.
type Button int32

const (
	ButtonLeft Button = iota + 1
	ButtonMiddle
	ButtonRight
)

// Mode is the chord state machine's current interaction.
type Mode int

const (
	ModeIdle Mode = iota
	ModeClickPending
	ModeSelecting
	ModeKilling
	ModeScrolling
	ModeMoving
	ModeResizing
)

type pendingClickRecord struct {
	button    Button
	pressTime int64
	deadline  int64
}

// Spawner is the external collaborator that actually execs a terminal
// or select-target client; the chord layer only decides geometry and
// app id.
type Spawner interface {
	SpawnTerminal(appID, exe string, geometry Rect) error
}

// pendingSpawnRecord tracks a select-to-spawn rectangle still being
// dragged out, so Tick can keep the overlay in sync with the cursor.
type pendingSpawnRecord struct {
	anchorX, anchorY int32
}

// acmeAppID is the app_id original_source/mura.c:289's is_acme checks
// against; nothing in config.h parameterizes it, so it stays a
// hardcoded constant here too.
const acmeAppID = "acme"

// spawnGeometryRecord is the process-spawn contract's pending-spawn
// record (spec §4.4/§6): the geometry computed on selection release,
// held until the next new-window or app_id-changed event whose app_id
// matches consumes it and applies the geometry to that window.
type spawnGeometryRecord struct {
	geometry Rect
	appID    string
}

// Chord is C4: the press/release state machine, selection/kill/resize
// handling, and focus/auto-center policy. One Chord exists per seat.
type Chord struct {
	cfg     Config
	comp    *Compositor
	seat    Seat
	scroll  *ScrollEngine
	spawner Spawner

	mode          Mode
	primaryButton Button
	pending       *pendingClickRecord
	forwarded     map[Button]bool
	held          map[Button]bool

	selectSpawn  *pendingSpawnRecord
	pendingSpawn *spawnGeometryRecord

	resizing       *View
	resizeStartGeo Rect
	resizeStartX   int32
	resizeStartY   int32

	focused       *View
	focusedScreen *Screen

	jumping bool
}

func NewChord(cfg Config, comp *Compositor, seat Seat, scroll *ScrollEngine, spawner Spawner) *Chord {
	return &Chord{
		cfg:       cfg,
		comp:      comp,
		seat:      seat,
		scroll:    scroll,
		spawner:   spawner,
		forwarded: make(map[Button]bool),
		held:      make(map[Button]bool),
	}
}

func (c *Chord) Mode() Mode       { return c.mode }
func (c *Chord) Focused() *View   { return c.focused }
func (c *Chord) IsJumping() bool  { return c.jumping }

// Button dispatches one physical press or release event, per §4.4.
func (c *Chord) Button(now int64, button Button, pressed bool) {
	if pressed {
		c.press(now, button)
	} else {
		c.release(now, button)
	}
}

// acmePassthrough implements §4.4's Inputs predicate: true iff the
// window under (x,y) both has app_id "acme" and is the currently
// focused window. acme implements its own chording mouse semantics
// (original_source/mura.c:289 is_acme) and must see raw button events
// instead of having them reinterpreted by this state machine.
func (c *Chord) acmePassthrough(x, y int32) bool {
	if c.focused == nil {
		return false
	}
	v := c.comp.WindowAt(x, y)
	return v != nil && v == c.focused && v.Window != nil && v.Window.AppID == acmeAppID
}

func (c *Chord) press(now int64, button Button) {
	c.held[button] = true

	// "allow 1-3 chord to go to acme specifically" (mura.c:button): if
	// the window under the cursor is the focused acme window and the
	// other L/R button is already held, this press would otherwise
	// form the L-R selecting/killing chord; instead forward it raw so
	// acme's own chording sees it.
	if button == ButtonLeft || button == ButtonRight {
		if x, y, err := c.seat.CursorPosition(); err == nil && c.acmePassthrough(x, y) {
			other := ButtonRight
			if button == ButtonRight {
				other = ButtonLeft
			}
			if c.held[other] {
				c.seat.PointerSendButton(now, int32(button), true)
				c.forwarded[button] = true
				return
			}
		}
	}

	switch {
	case c.mode == ModeIdle && c.primaryButton == 0:
		c.beginClickPending(now, button)

	case c.mode == ModeClickPending && button != c.primaryButton:
		// Second, different button arrives before the click timeout:
		// absorb the pending click entirely (scenario "chord
		// absorption") and form whatever chord the table names.
		first := c.primaryButton
		c.discardPendingClick()
		c.primaryButton = first
		mode := c.chordMode(first, button)
		c.enterMode(mode, now)

	case c.mode == ModeIdle && c.forwarded[c.primaryButton]:
		// Past the click window; this button press is unrelated to
		// chord formation and is simply forwarded live.
		c.seat.PointerSendButton(now, int32(button), true)
		c.forwarded[button] = true

	default:
		// A mode is already active (or a third button arrived); extra
		// presses are ignored until the active chord is released.
	}
}

func (c *Chord) release(now int64, button Button) {
	delete(c.held, button)
	switch {
	case c.mode == ModeClickPending && button == c.primaryButton:
		c.flushPendingClick(now)
		c.primaryButton = 0
		c.mode = ModeIdle

	case c.forwarded[button]:
		c.seat.PointerSendButton(now, int32(button), false)
		delete(c.forwarded, button)
		if button == c.primaryButton {
			c.primaryButton = 0
		}

	case c.isActiveMode():
		// Releasing either half of the chord ends the mode; the other
		// button, if still held, returns to plain idle rather than
		// re-entering a pending click.
		c.exitMode(now)
		c.primaryButton = 0
		c.mode = ModeIdle
	}
	// With every physical button up, clear any leftover bookkeeping
	// (e.g. the momentary custom 2-1 action leaves primaryButton set
	// with no sustained mode to release it) so the next press starts
	// clean.
	if len(c.held) == 0 {
		c.primaryButton = 0
		c.mode = ModeIdle
		c.pending = nil
		c.forwarded = make(map[Button]bool)
	}
}

func (c *Chord) beginClickPending(now int64, button Button) {
	c.primaryButton = button
	c.pending = &pendingClickRecord{
		button:    button,
		pressTime: now,
		deadline:  now + c.cfg.ChordClickTimeoutMS,
	}
	c.mode = ModeClickPending
}

func (c *Chord) discardPendingClick() {
	c.pending = nil
}

// flushPendingClick forwards the buffered press at its original
// timestamp followed immediately by the release at now, per scenario
// 1 ("click fidelity"): a lone click is indistinguishable from one
// forwarded without any deferral at all, from the client's point of
// view.
func (c *Chord) flushPendingClick(now int64) {
	if c.pending == nil {
		return
	}
	c.seat.PointerSendButton(c.pending.pressTime, int32(c.pending.button), true)
	c.seat.PointerSendButton(now, int32(c.pending.button), false)
	c.pending = nil
}

// chordMode maps an (first, second) button pair to a mode, honoring
// the compile-time M-chord alternates (§6, config.go).
func (c *Chord) chordMode(first, second Button) Mode {
	switch {
	case first == ButtonLeft && second == ButtonRight:
		return ModeSelecting
	case first == ButtonRight && second == ButtonLeft:
		return ModeKilling
	case first == ButtonLeft && second == ButtonMiddle:
		if c.cfg.MiddleWithLeft == MiddleRunsCustomAction {
			return ModeIdle // runTwoOneAction fires once, below
		}
		return ModeMoving
	case first == ButtonRight && second == ButtonMiddle:
		if c.cfg.MiddleWithRight == MiddleResizes {
			return ModeResizing
		}
		return ModeScrolling
	default:
		return ModeIdle
	}
}

func (c *Chord) isActiveMode() bool {
	switch c.mode {
	case ModeSelecting, ModeKilling, ModeScrolling, ModeMoving, ModeResizing:
		return true
	}
	return false
}

// enterMode performs the one-time setup for a newly formed chord.
func (c *Chord) enterMode(mode Mode, now int64) {
	c.scroll.Stop()
	c.mode = mode
	switch mode {
	case ModeSelecting:
		c.beginSelection()
	case ModeKilling:
		c.killUnderCursor()
	case ModeMoving:
		if c.focused != nil {
			if x, y, err := c.seat.CursorPosition(); err == nil {
				c.scroll.BeginMove(c.focused, x, y)
			}
		}
	case ModeScrolling:
		c.scroll.BeginScroll()
	case ModeResizing:
		c.beginResize()
	case ModeIdle:
		// The Left+Middle chord resolved to the custom action instead
		// of a sustained mode: run it once, immediately.
		if c.cfg.MiddleWithLeft == MiddleRunsCustomAction && c.primaryButton == ButtonLeft {
			c.runTwoOneAction(now)
		}
	}
}

// exitMode tears down whatever mode was active, per the mutual
// exclusivity rule ("entering a new mode stops the scroll engine").
func (c *Chord) exitMode(now int64) {
	switch c.mode {
	case ModeSelecting:
		c.finishSelection(now)
		c.comp.OverlayClear()
		// c.selectSpawn (the drag anchor) is done; c.pendingSpawn (the
		// computed geometry the next matching new window consumes)
		// survives until OnNewWindow/OnAppIDChanged claims it.
		c.selectSpawn = nil
	case ModeMoving:
		c.scroll.EndMove()
	case ModeScrolling:
		c.scroll.EndScroll()
		c.scroll.Stop()
	case ModeResizing:
		c.resizing = nil
	}
}

// beginSelection anchors the select-to-spawn rectangle at the current
// cursor position and raises the overlay.
func (c *Chord) beginSelection() {
	x, y, err := c.seat.CursorPosition()
	if err != nil {
		return
	}
	c.selectSpawn = &pendingSpawnRecord{anchorX: x, anchorY: y}
	c.comp.OverlaySetBox(x, y, x, y, c.cfg.SelectColor, c.cfg.SelectBorder)
}

// finishSelection computes the final spawn geometry per scenario 3:
// shrink the dragged rectangle by the configured border thickness,
// then clamp to a 50x50 floor, before asking the spawner to exec a
// terminal there. The same geometry is kept as a pending-spawn record
// (spec §4.4/§6) until OnNewWindow/OnAppIDChanged applies it to the
// next window whose app_id matches c.cfg.TerminalAppID.
func (c *Chord) finishSelection(now int64) {
	if c.selectSpawn == nil || c.spawner == nil {
		return
	}
	x, y, err := c.seat.CursorPosition()
	if err != nil {
		return
	}
	x0, y0 := minI32(c.selectSpawn.anchorX, x), minI32(c.selectSpawn.anchorY, y)
	x1, y1 := maxI32(c.selectSpawn.anchorX, x), maxI32(c.selectSpawn.anchorY, y)
	raw := Rect{X: x0, Y: y0, W: spanU32AsI32(x0, x1), H: spanU32AsI32(y0, y1)}

	borderWidth := c.cfg.OuterActive.Width + c.cfg.InnerActive.Width
	shrunk := raw.Expand(-borderWidth)

	geom := clampMinSize(shrunk, 50, 50)
	c.pendingSpawn = &spawnGeometryRecord{geometry: geom, appID: c.cfg.TerminalAppID}
	_ = c.spawner.SpawnTerminal(c.cfg.TerminalAppID, c.cfg.TerminalExe, geom)
}

// claimPendingSpawn consumes the pending-spawn record if v's app_id
// matches the expected selection app_id, applying the saved geometry
// to v and clearing the record so it is claimed at most once.
func (c *Chord) claimPendingSpawn(v *View) {
	if c.pendingSpawn == nil || v.Window == nil {
		return
	}
	if v.Window.AppID != c.pendingSpawn.appID {
		return
	}
	v.SetGeometry(c.pendingSpawn.geometry)
	c.pendingSpawn = nil
}

// clampMinSize grows r, centered, so neither dimension falls below
// minW/minH.
func clampMinSize(r Rect, minW, minH int32) Rect {
	w, h := r.W, r.H
	if w < minW {
		w = minW
	}
	if h < minH {
		h = minH
	}
	if w == r.W && h == r.H {
		return r
	}
	cx, cy := r.Center()
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// killUnderCursor implements the R-then-L chord: destroy whatever
// top-level window is under the cursor at the moment the chord forms.
func (c *Chord) killUnderCursor() {
	x, y, err := c.seat.CursorPosition()
	if err != nil {
		return
	}
	v := c.comp.WindowAt(x, y)
	if v == nil || v.Window == nil {
		return
	}
	v.Window.Destroy()
	if v == c.focused {
		c.focused = nil
	}
}

// beginResize starts a direct (non-eased) interactive resize.
func (c *Chord) beginResize() {
	if c.focused == nil {
		return
	}
	x, y, err := c.seat.CursorPosition()
	if err != nil {
		return
	}
	c.resizing = c.focused
	c.resizeStartGeo = c.focused.Geometry()
	c.resizeStartX, c.resizeStartY = x, y
}

func (c *Chord) tickResize() {
	if c.resizing == nil || c.seat == nil {
		return
	}
	x, y, err := c.seat.CursorPosition()
	if err != nil {
		return
	}
	dw := x - c.resizeStartX
	dh := y - c.resizeStartY
	w := c.resizeStartGeo.W + dw
	h := c.resizeStartGeo.H + dh
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	g := c.resizeStartGeo
	g.W, g.H = w, h
	c.resizing.SetGeometry(g)
	c.comp.ScheduleUpdate(-1)
}

// runTwoOneAction implements the custom 2-1 chord (§6 TwoOneAction):
// toggle sticky, toggle fullscreen, or jump to the nearest other
// window, depending on the compile-time selection.
func (c *Chord) runTwoOneAction(now int64) {
	if c.focused == nil {
		return
	}
	switch c.cfg.TwoOneAction {
	case ActionSticky:
		c.focused.Window.Sticky = !c.focused.Window.Sticky
	case ActionFullscreen:
		c.toggleFullscreen(c.focused)
		c.focused.Window.Sticky = !c.focused.Window.Sticky
	case ActionJump:
		c.jumpToNearestWindow(now)
	}
}

func (c *Chord) toggleFullscreen(v *View) {
	screen := c.screenFor(v)
	if screen == nil {
		return
	}
	if v.Window.SavedGeometry.Empty() {
		v.Window.SavedGeometry = v.Geometry()
		v.SetGeometry(screen.Geometry)
	} else {
		v.SetGeometry(v.Window.SavedGeometry)
		v.Window.SavedGeometry = EmptyRect
	}
	c.comp.ScheduleUpdate(-1)
}

// jumpToNearestWindow resolves the spec's Open Question 2: the
// jumping flag is set for the duration of the search regardless of
// outcome, and is unconditionally cleared immediately afterward -- it
// is never left set when no other window exists to jump to.
func (c *Chord) jumpToNearestWindow(now int64) {
	c.jumping = true
	defer func() { c.jumping = false }()

	if c.focused == nil {
		return
	}
	fx, fy := c.focused.Geometry().Center()
	var best *View
	var bestDist int64
	for _, v := range c.comp.Stack() {
		if v == c.focused || v.Window == nil || !v.Visible() {
			continue
		}
		cx, cy := v.Geometry().Center()
		dx, dy := int64(cx-fx), int64(cy-fy)
		dist := dx*dx + dy*dy
		if best == nil || dist < bestDist {
			best, bestDist = v, dist
		}
	}
	if best != nil {
		c.Focus(best, now, true)
	}
}

func (c *Chord) screenFor(v *View) *Screen {
	cx, cy := v.Geometry().Center()
	for _, s := range c.comp.Screens() {
		if s.Contains(cx, cy) {
			return s
		}
	}
	return c.comp.CurrentScreen()
}

// Focus transfers input focus to v, resets zoom to 1.0, and, unless v
// is sticky, auto-centers it under the configured cooldown hysteresis
// (SPEC_FULL.md §3 item 4, resolving Open Question 3). viaJump
// distinguishes a jump-triggered focus change from a click-to-focus
// one; both currently share the same policy, but the caller context is
// preserved for callers that want to react differently later.
func (c *Chord) Focus(v *View, now int64, viaJump bool) {
	c.focused = v
	if v == nil {
		return
	}
	c.focusedScreen = c.screenFor(v)
	c.seat.PointerSetFocus(v)
	c.scroll.SetZoomTarget(1.0)

	if !c.cfg.FocusCenter || v.Window == nil || v.Window.Sticky {
		return
	}
	screen := c.focusedScreen
	if screen == nil {
		return
	}
	scx, scy := screen.Geometry.Center()
	wcx, wcy := v.Geometry().Center()
	dx := scx - wcx
	dy := scy - wcy
	if !c.cfg.ScrollDragMode {
		dx = 0 // wheel mode auto-centers vertically only
	}
	if dx != 0 || dy != 0 {
		c.scroll.AutoScrollTo(dx, dy, c.cfg.AutoCenterCooldown)
	}
}

// OnNewWindow registers a freshly mapped top-level window. It first
// offers v to the process-spawn contract's pending-spawn record (spec
// §4.4/§6): if v's app_id matches the expected selection app_id, the
// geometry computed on selection release is applied to v here. It
// then, independently, links v as a spawn child of its originating
// terminal if its PID is a terminal-app-id descendant by way of
// lookupParentPID (SPEC_FULL.md §3 item 5).
func (c *Chord) OnNewWindow(v *View, lookupParentPID func(pid int) (parentPID int, ok bool)) {
	if v.Window == nil {
		return
	}
	c.claimPendingSpawn(v)
	if lookupParentPID == nil {
		return
	}
	pid := v.Window.PID
	for depth := 0; depth < 10; depth++ {
		parentPID, ok := lookupParentPID(pid)
		if !ok {
			return
		}
		for _, other := range c.comp.Stack() {
			if other.Window != nil && other.Window.PID == parentPID && isTerminalAppID(c.cfg, other.Window.AppID) {
				other.Window.AddSpawnChild(v.Window)
				return
			}
		}
		pid = parentPID
	}
}

func isTerminalAppID(cfg Config, appID string) bool {
	for _, id := range cfg.TerminalAppIDs {
		if id == appID {
			return true
		}
	}
	return false
}

// OnAppIDChanged re-evaluates terminal-ness when a client sets its
// app id after mapping (some terminals set it late).
func (c *Chord) OnAppIDChanged(v *View, lookupParentPID func(pid int) (parentPID int, ok bool)) {
	c.OnNewWindow(v, lookupParentPID)
}

// Tick advances the click-timeout watchdog, keeps the selection
// overlay following the cursor, keeps an active resize following the
// cursor, and drives the scroll engine's own per-tick interpolators.
func (c *Chord) Tick(now int64) {
	if c.pending != nil && now >= c.pending.deadline {
		c.seat.PointerSendButton(c.pending.pressTime, int32(c.pending.button), true)
		c.forwarded[c.pending.button] = true
		c.pending = nil
		c.mode = ModeIdle
	}
	if c.mode == ModeSelecting && c.selectSpawn != nil {
		if x, y, err := c.seat.CursorPosition(); err == nil {
			c.comp.OverlaySetBox(c.selectSpawn.anchorX, c.selectSpawn.anchorY, x, y, c.cfg.SelectColor, c.cfg.SelectBorder)
		}
	}
	if c.mode == ModeResizing {
		c.tickResize()
	}
	c.scroll.Tick(now)
}
