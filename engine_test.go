package chordwm

import "testing"

func TestEngineClickPassesThroughBindings(t *testing.T) {
	r := newFakeRenderer()
	cfg := DefaultConfig()
	seat := newFakeSeat()
	e := NewEngine(cfg, r, seat, &fakeSpawner{}, nil, nil)

	fired := false
	e.Bindings.RegisterHandler("fire", func(*Engine) { fired = true })
	e.Bindings.AddBinding(SourceButton, ModAny, int32(ButtonLeft), "fire")

	e.HandleButton(1000, ButtonLeft, true)
	if !fired {
		t.Fatalf("expected button binding to fire on press")
	}
	if e.Chord.Mode() != ModeClickPending {
		t.Fatalf("expected chord to independently track the click, got %v", e.Chord.Mode())
	}
}

func TestEngineTickDrivesPerform(t *testing.T) {
	r := newFakeRenderer()
	cfg := DefaultConfig()
	seat := newFakeSeat()
	e := NewEngine(cfg, r, seat, &fakeSpawner{}, nil, nil)
	screen := NewScreen(Rect{X: 0, Y: 0, W: 100, H: 100}, 1, &fakeTarget{})
	e.Compositor.AddScreen(screen)
	e.Compositor.SetCurrentScreen(screen)

	e.Compositor.ScheduleUpdate(-1)
	if !e.Compositor.NeedsPerform() {
		t.Fatalf("expected perform scheduled")
	}
	e.Tick(1000)
	if e.Compositor.NeedsPerform() {
		t.Fatalf("expected Tick to drain the pending perform")
	}
}
