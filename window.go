// window.go - policy record attached to a top-level view (C2/C3).

package chordwm

// Window is the policy record attached to a top-level view: title,
// app_id, originating process, spawn-child bookkeeping, and the
// sticky flag the scroll engine checks on every tick.
type Window struct {
	view *View

	Title string
	AppID string
	PID   int

	SpawnParent   *View
	SpawnChildren []*View
	SavedGeometry Rect

	Sticky bool
}

// NewWindow attaches a Window policy record to a top-level view.
func NewWindow(v *View, appID string, pid int) *Window {
	w := &Window{view: v, AppID: appID, PID: pid}
	v.Window = w
	return w
}

func (w *Window) View() *View { return w.view }

// AddSpawnChild links child as having been spawned from this window
// (typically a terminal spawning a select-to-spawn client). The
// parent's current geometry is saved so it can be restored once every
// spawn child is gone.
func (w *Window) AddSpawnChild(child *Window) {
	child.SpawnParent = w.view
	w.SpawnChildren = append(w.SpawnChildren, child.view)
	if len(w.SpawnChildren) == 1 {
		w.SavedGeometry = w.view.Geometry()
	}
}

// removeSpawnChild unlinks child from w's spawn-children list.
func (w *Window) removeSpawnChild(child *View) {
	for i, c := range w.SpawnChildren {
		if c == child {
			w.SpawnChildren = append(w.SpawnChildren[:i], w.SpawnChildren[i+1:]...)
			return
		}
	}
}

// Destroy implements the destroy-cascade policy decided in
// SPEC_FULL.md §3 item 2: spawn children are unparented, not
// recursively closed, and the parent's saved geometry is restored if
// it was hidden behind the last spawn child.
func (w *Window) Destroy() {
	if w.SpawnParent != nil && w.SpawnParent.Window != nil {
		parent := w.SpawnParent.Window
		parent.removeSpawnChild(w.view)
		if len(parent.SpawnChildren) == 0 && !parent.SavedGeometry.Empty() {
			parent.view.SetGeometry(parent.SavedGeometry)
		}
	}
	for _, child := range w.SpawnChildren {
		if child.Window != nil {
			child.Window.SpawnParent = nil
		}
	}
	w.SpawnChildren = nil
	w.view.Destroy()
}
