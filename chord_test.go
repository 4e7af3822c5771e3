package chordwm

import "testing"

type fakeSpawner struct {
	geometry Rect
	appID    string
	called   bool
}

func (f *fakeSpawner) SpawnTerminal(appID, exe string, geometry Rect) error {
	f.appID = appID
	f.geometry = geometry
	f.called = true
	return nil
}

func newTestChord() (*Chord, *Compositor, *fakeSeat, *fakeSpawner) {
	r := newFakeRenderer()
	comp := NewCompositor(r)
	screen := NewScreen(Rect{X: 0, Y: 0, W: 1920, H: 1080}, 1, &fakeTarget{})
	comp.AddScreen(screen)
	comp.SetCurrentScreen(screen)
	seat := newFakeSeat()
	cfg := DefaultConfig()
	scroll := NewScrollEngine(cfg, comp, seat)
	spawner := &fakeSpawner{}
	chord := NewChord(cfg, comp, seat, scroll, spawner)
	return chord, comp, seat, spawner
}

// TestClickFidelity is literal scenario 1: a lone press/release inside
// the click timeout is forwarded as press (at its original timestamp)
// immediately followed by release, indistinguishable from a click that
// was never deferred.
func TestClickFidelity(t *testing.T) {
	chord, _, seat, _ := newTestChord()

	chord.Button(1000, ButtonLeft, true)
	if chord.Mode() != ModeClickPending {
		t.Fatalf("expected ModeClickPending, got %v", chord.Mode())
	}
	chord.Button(1040, ButtonLeft, false)

	if len(seat.sentButton) != 2 {
		t.Fatalf("expected press+release forwarded, got %d events", len(seat.sentButton))
	}
	if seat.sentButton[0].Time != 1000 || !seat.sentButton[0].Pressed {
		t.Fatalf("press not forwarded at original timestamp: %+v", seat.sentButton[0])
	}
	if seat.sentButton[1].Time != 1040 || seat.sentButton[1].Pressed {
		t.Fatalf("release mismatch: %+v", seat.sentButton[1])
	}
	if chord.Mode() != ModeIdle {
		t.Fatalf("expected return to idle, got %v", chord.Mode())
	}
}

// TestClickTimeoutForwardsPress verifies Tick flushes the press alone
// once the deadline passes without a release.
func TestClickTimeoutForwardsPress(t *testing.T) {
	chord, _, seat, _ := newTestChord()
	chord.Button(1000, ButtonLeft, true)
	chord.Tick(1000 + chord.cfg.ChordClickTimeoutMS)

	if len(seat.sentButton) != 1 || !seat.sentButton[0].Pressed {
		t.Fatalf("expected press forwarded on timeout, got %+v", seat.sentButton)
	}
	if !chord.forwarded[ButtonLeft] {
		t.Fatalf("expected button marked forwarded after timeout")
	}
}

// TestChordAbsorption is literal scenario 2: a second, different
// button pressed before the click timeout absorbs the pending click
// entirely -- it is never forwarded -- and forms the table's chord.
func TestChordAbsorption(t *testing.T) {
	chord, _, seat, _ := newTestChord()

	chord.Button(1000, ButtonLeft, true)
	chord.Button(1010, ButtonRight, true)

	if len(seat.sentButton) != 0 {
		t.Fatalf("expected pending click discarded, not forwarded: %+v", seat.sentButton)
	}
	if chord.Mode() != ModeSelecting {
		t.Fatalf("expected L-then-R chord to enter ModeSelecting, got %v", chord.Mode())
	}
}

// TestSelectSpawnGeometry is literal scenario 3: the dragged selection
// rectangle is shrunk by the total border width (outer+inner) and then
// clamped to a 50x50 floor.
func TestSelectSpawnGeometry(t *testing.T) {
	chord, _, seat, spawner := newTestChord()

	seat.x, seat.y = 100, 100
	chord.Button(1000, ButtonLeft, true)
	chord.Button(1010, ButtonRight, true) // forms ModeSelecting, anchors at (100,100)

	seat.x, seat.y = 300, 260
	chord.Button(1020, ButtonRight, false) // release ends the chord

	if !spawner.called {
		t.Fatalf("expected spawner invoked")
	}
	want := Rect{X: 108, Y: 108, W: 184, H: 144}
	if spawner.geometry != want {
		t.Fatalf("spawn geometry mismatch: got %v want %v", spawner.geometry, want)
	}
}

func TestSelectSpawnGeometryClampsToMinimum(t *testing.T) {
	chord, _, seat, spawner := newTestChord()

	seat.x, seat.y = 100, 100
	chord.Button(1000, ButtonLeft, true)
	chord.Button(1010, ButtonRight, true)

	seat.x, seat.y = 110, 105 // tiny drag, well under the border-shrunk floor
	chord.Button(1020, ButtonRight, false)

	if !spawner.called {
		t.Fatalf("expected spawner invoked")
	}
	if spawner.geometry.W < 50 || spawner.geometry.H < 50 {
		t.Fatalf("expected clamp to 50x50 floor, got %v", spawner.geometry)
	}
}

// TestAutoCenterWheelModeVerticalOnly is literal scenario 4: in wheel
// (non-drag) mode, focusing a window centers it only on the Y axis.
func TestAutoCenterWheelModeVerticalOnly(t *testing.T) {
	chord, comp, _, _ := newTestChord()
	screen := comp.CurrentScreen()
	scx, scy := screen.Geometry.Center()

	v := newTestView(scx+400, scy+300, 100, 100)
	NewWindow(v, "w", 1)
	comp.RegisterView(v)

	chord.Focus(v, 1000, false)

	remX, remY := chord.scroll.Pending()
	if remX != 0 {
		t.Fatalf("expected horizontal auto-center suppressed in wheel mode, got remX=%d", remX)
	}
	if remY == 0 {
		t.Fatalf("expected vertical auto-center scheduled")
	}
}

func TestFocusResetsZoomTarget(t *testing.T) {
	chord, comp, _, _ := newTestChord()
	v := newTestView(0, 0, 100, 100)
	NewWindow(v, "w", 1)
	comp.RegisterView(v)
	chord.scroll.zoomTarget = 2.0

	chord.Focus(v, 1000, false)

	if chord.scroll.zoomTarget != 1.0 {
		t.Fatalf("expected zoom target reset to 1.0, got %v", chord.scroll.zoomTarget)
	}
}

// TestJumpClearsFlagUnconditionally resolves Open Question 2: the
// jumping flag must never be left set, even when there is no other
// window to jump to.
func TestJumpClearsFlagUnconditionally(t *testing.T) {
	chord, comp, _, _ := newTestChord()
	v := newTestView(0, 0, 100, 100)
	NewWindow(v, "only", 1)
	comp.RegisterView(v)
	chord.focused = v

	chord.jumpToNearestWindow(1000)

	if chord.IsJumping() {
		t.Fatalf("expected jumping flag cleared even with no target")
	}
}

// TestFullscreenActionTogglesSticky matches mura.c's custom "2-1"
// FULLSCREEN branch: it both requests fullscreen and flips sticky on
// every invocation, rather than forcing sticky on once and leaving it
// stuck there.
func TestFullscreenActionTogglesSticky(t *testing.T) {
	chord, comp, _, _ := newTestChord()
	chord.cfg.TwoOneAction = ActionFullscreen

	v := newTestView(10, 10, 200, 150)
	NewWindow(v, "term", 1)
	comp.RegisterView(v)
	chord.focused = v

	chord.runTwoOneAction(1000)
	if !v.Window.Sticky {
		t.Fatalf("expected sticky set true after first fullscreen toggle")
	}
	chord.runTwoOneAction(1001)
	if v.Window.Sticky {
		t.Fatalf("expected sticky toggled back to false after second fullscreen toggle")
	}
}

func TestKillUnderCursor(t *testing.T) {
	chord, comp, seat, _ := newTestChord()
	v := newTestView(0, 0, 100, 100)
	NewWindow(v, "victim", 1)
	comp.RegisterView(v)
	chord.focused = v
	seat.x, seat.y = 50, 50

	chord.Button(1000, ButtonRight, true)
	chord.Button(1010, ButtonLeft, true) // R-then-L chord: killing

	if chord.Mode() != ModeKilling {
		t.Fatalf("expected ModeKilling, got %v", chord.Mode())
	}
	if chord.Focused() != nil {
		t.Fatalf("expected focus cleared on kill of focused window")
	}
}

// TestAcmePassthroughForwardsRawChordButtons verifies §4.4's acme
// passthrough predicate: when the cursor is over the focused acme
// window, the second button of an L-R combo that would otherwise form
// the selecting chord is instead forwarded raw to the client
// immediately, so acme's own chording sees it (mirroring mura.c's
// "allow 1-3 chord to go to acme specifically").
func TestAcmePassthroughForwardsRawChordButtons(t *testing.T) {
	chord, comp, seat, _ := newTestChord()
	v := newTestView(0, 0, 100, 100)
	NewWindow(v, "acme", 1)
	comp.RegisterView(v)
	chord.focused = v
	seat.x, seat.y = 50, 50

	chord.Button(1000, ButtonLeft, true)
	chord.Button(1010, ButtonRight, true)

	if chord.Mode() == ModeSelecting {
		t.Fatalf("expected acme passthrough to suppress chord formation")
	}
	if len(seat.sentButton) != 1 {
		t.Fatalf("expected the second (right) button forwarded raw immediately, got %v", seat.sentButton)
	}
	if !seat.sentButton[0].Pressed || seat.sentButton[0].Button != int32(ButtonRight) {
		t.Fatalf("expected raw right press forwarded, got %v", seat.sentButton[0])
	}
}

// TestAcmePassthroughRequiresFocus verifies the predicate's second half:
// an "acme" window under the cursor that is not the focused window does
// not get passthrough treatment, and the L-R chord forms normally.
func TestAcmePassthroughRequiresFocus(t *testing.T) {
	chord, comp, seat, _ := newTestChord()
	v := newTestView(0, 0, 100, 100)
	NewWindow(v, "acme", 1)
	comp.RegisterView(v)
	// chord.focused left nil: acme window is under the cursor but unfocused.
	seat.x, seat.y = 50, 50

	chord.Button(1000, ButtonLeft, true)
	chord.Button(1010, ButtonRight, true)

	if chord.Mode() != ModeSelecting {
		t.Fatalf("expected normal chord formation when acme window isn't focused, got %v", chord.Mode())
	}
}

// TestSelectSpawnAppliesPendingGeometryToNewWindow is the process-spawn
// contract from spec.md §4.4/§6: the geometry computed on selection
// release is kept as a pending-spawn record and applied to the next
// new window whose app_id matches, not to the window that doesn't
// exist yet at selection time.
func TestSelectSpawnAppliesPendingGeometryToNewWindow(t *testing.T) {
	chord, comp, seat, spawner := newTestChord()

	seat.x, seat.y = 100, 100
	chord.Button(1000, ButtonLeft, true)
	chord.Button(1010, ButtonRight, true)
	seat.x, seat.y = 300, 260
	chord.Button(1020, ButtonRight, false)

	if !spawner.called {
		t.Fatalf("expected spawner invoked")
	}
	want := Rect{X: 108, Y: 108, W: 184, H: 144}

	newWin := newTestView(0, 0, 10, 10)
	NewWindow(newWin, chord.cfg.TerminalAppID, 99)
	comp.RegisterView(newWin)

	chord.OnNewWindow(newWin, nil)

	if newWin.Geometry() != want {
		t.Fatalf("expected pending-spawn geometry applied to new window: got %v want %v", newWin.Geometry(), want)
	}
	if chord.pendingSpawn != nil {
		t.Fatalf("expected pending-spawn record consumed exactly once")
	}
}

// TestSelectSpawnIgnoresMismatchedAppID checks the record is left
// pending for a window whose app_id doesn't match the expected one, so
// a later matching window can still claim it.
func TestSelectSpawnIgnoresMismatchedAppID(t *testing.T) {
	chord, comp, seat, _ := newTestChord()

	seat.x, seat.y = 100, 100
	chord.Button(1000, ButtonLeft, true)
	chord.Button(1010, ButtonRight, true)
	seat.x, seat.y = 300, 260
	chord.Button(1020, ButtonRight, false)

	other := newTestView(5, 5, 10, 10)
	NewWindow(other, "unrelated", 5)
	comp.RegisterView(other)
	chord.OnNewWindow(other, nil)

	if other.Geometry() != (Rect{X: 5, Y: 5, W: 10, H: 10}) {
		t.Fatalf("expected mismatched-app_id window left untouched, got %v", other.Geometry())
	}
	if chord.pendingSpawn == nil {
		t.Fatalf("expected pending-spawn record to survive for the correct window")
	}
}
