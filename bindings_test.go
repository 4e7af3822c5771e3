package chordwm

import "testing"

func TestBindingsDispatchMatchesModifiers(t *testing.T) {
	b := NewBindings()
	fired := false
	b.RegisterHandler("test", func(e *Engine) { fired = true })
	b.AddBinding(SourceKey, ModCtrl, 65, "test")

	b.Dispatch(nil, SourceKey, ModShift, 65)
	if fired {
		t.Fatalf("expected no dispatch on mismatched modifiers")
	}
	b.Dispatch(nil, SourceKey, ModCtrl, 65)
	if !fired {
		t.Fatalf("expected dispatch on matching modifiers")
	}
}

func TestBindingsModAnyIgnoresModifiers(t *testing.T) {
	b := NewBindings()
	count := 0
	b.RegisterHandler("test", func(e *Engine) { count++ })
	b.AddBinding(SourceButton, ModAny, 1, "test")

	b.Dispatch(nil, SourceButton, 0, 1)
	b.Dispatch(nil, SourceButton, ModCtrl|ModShift, 1)
	if count != 2 {
		t.Fatalf("expected ModAny to match regardless of held modifiers, count=%d", count)
	}
}

func TestLoadBindingsScriptRegistersHandlers(t *testing.T) {
	b := NewBindings()
	fired := false
	b.RegisterHandler("my_action", func(e *Engine) { fired = true })

	err := LoadBindingsScript(b, `bind_key(0, 32, "my_action")`)
	if err != nil {
		t.Fatalf("LoadBindingsScript failed: %v", err)
	}
	b.Dispatch(nil, SourceKey, 0, 32)
	if !fired {
		t.Fatalf("expected lua-registered binding to fire")
	}
}
