// surface.go - external Surface and Seat contracts (§6, consumed).
//
// Grounded on the wire-level shape in other_examples/gogpu-gogpu's
// wl_compositor/wl_surface opcode handling (damage/opaque/input region
// requests) and dominikh-go-libwayland's opaque-object-handle style;
// neither is imported directly since the real protocol machinery is
// out of scope per §1 — only the Go-shaped boundary is specified here.

package chordwm

// Surface is a client surface's regions and buffer, owned by the
// protocol layer and observed by a View.
type Surface interface {
	Damage() Region
	ClearDamage()
	Opaque() Region
	Input() Region
	Buffer() Buffer
}

// CursorMode selects whether the seat shows the client's requested
// cursor image or the compositor's mode cursor.
type CursorMode int

const (
	CursorModeClient CursorMode = iota
	CursorModeCompositor
)

// CursorKind names a built-in cursor image the mode-cursor updater may
// request (left_ptr, move, resize corners, and so on).
type CursorKind int

// Seat is the external pointer/keyboard collaborator. CursorPosition
// returns integer compositor-global pixel coordinates, which the core
// uses as they are: it performs no fixed-point conversion and no
// inverse zoom transform. ErrNoCursor is returned when no pointer is
// present, per §7's "missing cursor position" taxonomy entry.
type Seat interface {
	CursorPosition() (fx, fy int32, err error)
	PointerSetFocus(v *View)
	PointerSendButton(time int64, button int32, pressed bool)
	PointerSendAxis(time int64, axis int32, value120 int32)
	CursorSetMode(mode CursorMode)
	CursorSetImage(kind CursorKind, pixels []byte, w, h, hotspotX, hotspotY int32)
	CursorSet(kind CursorKind)
}

// fakeSeat is a minimal Seat used by chord/scroll tests; it never
// forwards anything, it only records calls.
type fakeSeat struct {
	x, y       int32
	hasCursor  bool
	focus      *View
	sentButton []struct {
		Time    int64
		Button  int32
		Pressed bool
	}
	sentAxis []struct {
		Time     int64
		Axis     int32
		Value120 int32
	}
	mode CursorMode
}

func newFakeSeat() *fakeSeat { return &fakeSeat{hasCursor: true} }

func (s *fakeSeat) CursorPosition() (int32, int32, error) {
	if !s.hasCursor {
		return 0, 0, ErrNoCursor
	}
	return s.x, s.y, nil
}

func (s *fakeSeat) PointerSetFocus(v *View) { s.focus = v }

func (s *fakeSeat) PointerSendButton(time int64, button int32, pressed bool) {
	s.sentButton = append(s.sentButton, struct {
		Time    int64
		Button  int32
		Pressed bool
	}{time, button, pressed})
}

func (s *fakeSeat) PointerSendAxis(time int64, axis int32, value120 int32) {
	s.sentAxis = append(s.sentAxis, struct {
		Time     int64
		Axis     int32
		Value120 int32
	}{time, axis, value120})
}

func (s *fakeSeat) CursorSetMode(mode CursorMode) { s.mode = mode }
func (s *fakeSeat) CursorSetImage(kind CursorKind, pixels []byte, w, h, hotspotX, hotspotY int32) {
}
func (s *fakeSeat) CursorSet(kind CursorKind) {}
