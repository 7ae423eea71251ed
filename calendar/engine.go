// Package calendar binds a calendar-rendering widget to the appointment API.
// The widget owns the grid, the date math and the drag mechanics; this
// package owns the modal dialog state, the event source and the translation
// of user gestures into HTTP calls.
package calendar

import "time"

// Engine is the controller's handle on the rendering widget. After a
// successful mutation the controller asks the widget to re-run its event
// source instead of patching the view in place.
type Engine interface {
	Refetch()
}

// UI exposes the host environment's blocking prompts.
type UI interface {
	Alert(message string)
	Confirm(message string) bool
}

// Patient is reference data used to populate the modal's selector. Loaded
// once per session, never mutated locally.
type Patient struct {
	ID       uint
	FullName string
}

// Event is one appointment as reported by the backend. Title is a
// human-readable summary whose format the backend owns.
type Event struct {
	ID      uint
	Title   string
	Start   time.Time
	End     time.Time
	Service string
	Note    string
}

// Selection is a range-selection gesture on the grid. A zero End means the
// user clicked a single point in time instead of dragging a range.
type Selection struct {
	Start time.Time
	End   time.Time
}

// EventChange is a drag or resize gesture reported by the engine. End is
// zero when the engine reports none. Revert restores the widget to its
// pre-gesture state after a failed save.
type EventChange struct {
	EventID uint
	Start   time.Time
	End     time.Time
	Revert  func()
}

// FetchRange is the visible date range the engine wants events for.
type FetchRange struct {
	Start time.Time
	End   time.Time
}
