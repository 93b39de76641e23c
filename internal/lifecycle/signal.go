// Package lifecycle turns foreground/background signals from the host into
// refresh scheduler transitions.
package lifecycle

// Signal is a visibility notification from the host application.
type Signal int

const (
	Resumed  Signal = iota // visible and focused
	Inactive               // visible, lost focus
	Hidden                 // not visible
	Paused                 // suspended
	Detached               // host is going away
)

func (s Signal) String() string {
	switch s {
	case Resumed:
		return "resumed"
	case Inactive:
		return "inactive"
	case Hidden:
		return "hidden"
	case Paused:
		return "paused"
	case Detached:
		return "detached"
	default:
		return "unknown"
	}
}

// State is the observer's view of the application.
type State int

const (
	Foreground State = iota
	Background
)

func (s State) String() string {
	switch s {
	case Foreground:
		return "foreground"
	case Background:
		return "background"
	default:
		return "?"
	}
}

// Classify returns the state a signal moves the application into. ok is
// false for Detached, which never changes state.
func Classify(sig Signal) (st State, ok bool) {
	switch sig {
	case Resumed:
		return Foreground, true
	case Inactive, Hidden, Paused:
		return Background, true
	default:
		return Foreground, false
	}
}
