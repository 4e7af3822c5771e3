// config.go - compile-time configuration for the compositor core.

package chordwm

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// TwoOneAction selects which command the custom "2-1" chord (L held,
// then M pressed) performs. Chosen once at construction, per §6.
type TwoOneAction int

const (
	ActionSticky TwoOneAction = iota
	ActionFullscreen
	ActionJump
)

// CursorTheme names the cursor bitmap theme the seat should load.
type CursorTheme string

const (
	CursorThemeSWC  CursorTheme = "swc"
	CursorThemeNein CursorTheme = "nein"
)

// MiddleWithLeftAction selects what an L-held, M-pressed chord does:
// the documented default (interactive move) or the custom 2-1 action.
// This resolves the spec's chord table rows "L down | M -> moving" and
// "L down | M (cfg) -> custom 2-1 action" as compile-time alternates of
// the same trigger, consistent with "chord semantics are compile-time
// configurable" (§1 Non-goals).
type MiddleWithLeftAction int

const (
	MiddleMoves MiddleWithLeftAction = iota
	MiddleRunsCustomAction
)

// MiddleWithRightAction selects what an R-held, M-pressed chord does:
// the documented default (scrolling) or the alternate interactive
// resize, resolving the table's "R down | M -> scrolling" vs. "R down |
// M (alt) -> resizing" rows the same way.
type MiddleWithRightAction int

const (
	MiddleScrolls MiddleWithRightAction = iota
	MiddleResizes
)

// BorderStyle is a color+width pair used for one of the two concentric
// border rings, in either the active or inactive window state.
type BorderStyle struct {
	Color uint32
	Width int32
}

// Config collects every compile-time constant named in §6. A Config is
// supplied once to NewEngine and never mutated afterward.
type Config struct {
	OuterActive   BorderStyle
	OuterInactive BorderStyle
	InnerActive   BorderStyle
	InnerInactive BorderStyle

	SelectColor  uint32
	SelectBorder int32

	CursorTheme CursorTheme

	TerminalAppID    string
	TerminalExe      string
	TerminalWindowID string
	SpawnEnabled     bool
	TerminalAppIDs   []string

	ChordClickTimeoutMS   int64
	MoveScrollEdgeInset   int32
	MoveScrollSpeed       int32
	MoveEaseFactor        float64
	ScrollDragMode        bool
	FocusCenter           bool
	EnableZoom            bool
	TwoOneAction          TwoOneAction
	MiddleWithLeft        MiddleWithLeftAction
	MiddleWithRight       MiddleWithRightAction
	AutoCenterCooldown    int // ticks, §3 of SPEC_FULL.md
	ScrollEase            int32
	ScrollCap             int32
	DebugScroll           bool
}

// DefaultConfig mirrors original_source/config.h's constants.
func DefaultConfig() Config {
	return Config{
		OuterActive:   BorderStyle{Color: 0x000000, Width: 4},
		OuterInactive: BorderStyle{Color: 0x444444, Width: 4},
		InnerActive:   BorderStyle{Color: 0xffffff, Width: 4},
		InnerInactive: BorderStyle{Color: 0x888888, Width: 4},

		SelectColor:  0x00ff00,
		SelectBorder: 2,

		CursorTheme: CursorThemeNein,

		TerminalAppID:    "hevel-select",
		TerminalExe:      "havoc",
		TerminalWindowID: "",
		SpawnEnabled:     true,
		TerminalAppIDs:   []string{"havoc", "hevel-select"},

		ChordClickTimeoutMS: 125,
		MoveScrollEdgeInset: 80,
		MoveScrollSpeed:     8,
		MoveEaseFactor:      0.37,
		ScrollDragMode:      false,
		FocusCenter:         true,
		EnableZoom:          true,
		TwoOneAction:        ActionSticky,
		MiddleWithLeft:      MiddleMoves,
		MiddleWithRight:     MiddleScrolls,
		AutoCenterCooldown:  3,
		ScrollEase:          4,
		ScrollCap:           64,
		DebugScroll:         false,
	}
}

// LoadBindingsScript interprets a small Lua script once, giving an
// operator a textual keymap instead of a recompile without making the
// chord semantics runtime hot-pluggable: the script runs once per
// call, and its effect is just a sequence of AddBinding/AddAxisBinding
// calls against bindings. NewEngine does not run scripts itself; it
// takes the already-populated Bindings.
func LoadBindingsScript(bindings *Bindings, source string) error {
	L := lua.NewState()
	defer L.Close()

	L.SetGlobal("bind_key", L.NewFunction(func(ls *lua.LState) int {
		mods := Modifier(ls.ToInt(1))
		key := ls.ToInt(2)
		handler := ls.ToString(3)
		bindings.AddBinding(SourceKey, mods, int32(key), handler)
		return 0
	}))
	L.SetGlobal("bind_button", L.NewFunction(func(ls *lua.LState) int {
		mods := Modifier(ls.ToInt(1))
		btn := ls.ToInt(2)
		handler := ls.ToString(3)
		bindings.AddBinding(SourceButton, mods, int32(btn), handler)
		return 0
	}))
	L.SetGlobal("bind_axis", L.NewFunction(func(ls *lua.LState) int {
		mods := Modifier(ls.ToInt(1))
		axis := ls.ToInt(2)
		handler := ls.ToString(3)
		bindings.AddAxisBinding(mods, int32(axis), handler)
		return 0
	}))

	if err := L.DoString(source); err != nil {
		return newError("LoadBindingsScript", fmt.Sprintf("script error"), err)
	}
	return nil
}
