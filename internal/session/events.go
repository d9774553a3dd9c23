package session

import "dualhex/internal/hexview"

// Origin separates what the user did from what the session did to the views
// in response. Handlers act on User events only; Programmatic events are
// notifications and are dropped if they come back in.
type Origin int

const (
	User Origin = iota
	Programmatic
)

func (o Origin) String() string {
	if o == Programmatic {
		return "programmatic"
	}
	return "user"
}

// Event is anything the view layer reports or the session announces.
// Generation, when non-zero, names the window the offsets were computed
// against; events for a superseded window are dropped.
type Event interface {
	origin() Origin
	generation() uint64
}

type CaretMoved struct {
	View       hexview.View
	Offset     int
	Mark       hexview.Span
	Origin     Origin
	Generation uint64
}

type Scrolled struct {
	View       hexview.View
	Row        int
	Origin     Origin
	Generation uint64
}

// NibbleKey is a hex digit typed into the hex view at Offset.
type NibbleKey struct {
	Offset     int
	Digit      byte
	Generation uint64
}

type DeleteKey struct {
	View       hexview.View
	Offset     int
	Generation uint64
}

// WindowLoaded is announced after every rebuild of the window model.
type WindowLoaded struct {
	Offset     int64
	Generation uint64
}

func (e CaretMoved) origin() Origin       { return e.Origin }
func (e CaretMoved) generation() uint64   { return e.Generation }
func (e Scrolled) origin() Origin         { return e.Origin }
func (e Scrolled) generation() uint64     { return e.Generation }
func (e NibbleKey) origin() Origin        { return User }
func (e NibbleKey) generation() uint64    { return e.Generation }
func (e DeleteKey) origin() Origin        { return User }
func (e DeleteKey) generation() uint64    { return e.Generation }
func (e WindowLoaded) origin() Origin     { return Programmatic }
func (e WindowLoaded) generation() uint64 { return e.Generation }

// Listener receives the session's programmatic updates. It may call back
// into the session; anything it dispatches while an update is in progress
// is suppressed.
type Listener func(Event)

// Stats counts event handling, mostly for tests and debug logging.
type Stats struct {
	Handled    int
	Suppressed int
	Rebuilds   int
	Shifts     int
}
