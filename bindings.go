// bindings.go - the bindings API (§6) and clipboard copy action.

package chordwm

import (
	"fmt"

	"golang.design/x/clipboard"
)

// Modifier is a bitmask of keyboard modifiers a binding requires.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModLogo
	ModShift
	ModAny
)

// BindingSource distinguishes a key binding from a button binding;
// both share the same (modifiers, value, handler) shape.
type BindingSource int

const (
	SourceKey BindingSource = iota
	SourceButton
)

// HandlerFunc is invoked when a binding fires. engine is passed so a
// handler can reach window/compositor/chord operations without a
// package-level global (Design Notes: "global mutable records become
// a single well-typed engine value passed explicitly").
type HandlerFunc func(e *Engine)

type keyBinding struct {
	source BindingSource
	mods   Modifier
	value  int32
	handle HandlerFunc
}

type axisBinding struct {
	mods  Modifier
	axis  int32
	handle HandlerFunc
}

// Bindings holds the set of key/button/axis bindings registered at
// construction. Named handlers (used by the Lua loader) are resolved
// against a registry populated with RegisterHandler before loading.
type Bindings struct {
	keys      []keyBinding
	axes      []axisBinding
	named     map[string]HandlerFunc
}

func NewBindings() *Bindings {
	return &Bindings{named: map[string]HandlerFunc{
		"copy_focused_geometry": CopyFocusedGeometry,
	}}
}

// RegisterHandler names a handler so Lua-loaded bindings can refer to
// it by string.
func (b *Bindings) RegisterHandler(name string, fn HandlerFunc) {
	b.named[name] = fn
}

// AddBinding registers a key or button binding directly (the Go-native
// path; LoadBindingsScript uses this as its target for handler names).
func (b *Bindings) AddBinding(source BindingSource, mods Modifier, value int32, handlerName string) {
	fn, ok := b.named[handlerName]
	if !ok {
		fn = func(*Engine) {}
	}
	b.keys = append(b.keys, keyBinding{source: source, mods: mods, value: value, handle: fn})
}

func (b *Bindings) AddAxisBinding(mods Modifier, axis int32, handlerName string) {
	fn, ok := b.named[handlerName]
	if !ok {
		fn = func(*Engine) {}
	}
	b.axes = append(b.axes, axisBinding{mods: mods, axis: axis, handle: fn})
}

// Dispatch fires every binding matching source/value/mods (ModAny
// matches regardless of the mods actually held).
func (b *Bindings) Dispatch(e *Engine, source BindingSource, mods Modifier, value int32) {
	for _, kb := range b.keys {
		if kb.source != source || kb.value != value {
			continue
		}
		if kb.mods&ModAny != 0 || kb.mods == mods {
			kb.handle(e)
		}
	}
}

func (b *Bindings) DispatchAxis(e *Engine, mods Modifier, axis int32) {
	for _, ab := range b.axes {
		if ab.axis != axis {
			continue
		}
		if ab.mods&ModAny != 0 || ab.mods == mods {
			ab.handle(e)
		}
	}
}

// CopyFocusedGeometry copies the focused window's "x,y wxh" geometry
// string to the system clipboard. This is a supplemented binding
// action (SPEC_FULL.md §2) exercising golang.design/x/clipboard in the
// opposite direction from the teacher's paste-from-clipboard path.
func CopyFocusedGeometry(e *Engine) {
	v := e.Chord.Focused()
	if v == nil {
		return
	}
	g := v.Geometry()
	text := fmt.Sprintf("%d,%d %dx%d", g.X, g.Y, g.W, g.H)
	clipboard.Write(clipboard.FmtText, []byte(text))
}
