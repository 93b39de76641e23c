// Package client defines the auth client contract that authsync projects into
// snapshots, plus an in-memory implementation used by the terminal host and
// tests. The real auth client (token exchange, cookies, OAuth) lives elsewhere.
package client

import (
	"fmt"
	"maps"
)

// Status is the coarse authentication lifecycle stage.
type Status int

const (
	StatusInitial Status = iota
	StatusLoading
	StatusAuthenticated
	StatusUnauthenticated
)

var statusNames = [...]string{
	StatusInitial:         "initial",
	StatusLoading:         "loading",
	StatusAuthenticated:   "authenticated",
	StatusUnauthenticated: "unauthenticated",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus converts the text form back into a Status.
func ParseStatus(text string) (Status, error) {
	for i, name := range statusNames {
		if name == text {
			return Status(i), nil
		}
	}
	return StatusInitial, fmt.Errorf("unknown status %q", text)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Session is opaque authenticated-user data owned by the auth client. A nil
// Session means no session.
type Session map[string]any

// Clone returns a shallow copy. Cloning nil yields nil.
func (s Session) Clone() Session {
	if s == nil {
		return nil
	}
	return maps.Clone(s)
}

// ID returns the "id" field as a string, or "" if absent.
func (s Session) ID() string {
	return s.str("id")
}

// Name returns the "name" field, falling back to the ID.
func (s Session) Name() string {
	if name := s.str("name"); name != "" {
		return name
	}
	return s.ID()
}

func (s Session) str(key string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

// --- Events ---

// Event is a change notification emitted by an AuthClient. It is a closed
// set: SessionChanged and StatusChanged are the only implementations.
type Event interface {
	isEvent()
}

// SessionChanged carries the client's new session (nil when signed out).
type SessionChanged struct{ Session Session }

// StatusChanged carries the client's new status.
type StatusChanged struct{ Status Status }

func (SessionChanged) isEvent() {}
func (StatusChanged) isEvent()  {}

func (e SessionChanged) String() string {
	if e.Session == nil {
		return "session changed: <none>"
	}
	return "session changed: " + e.Session.Name()
}

func (e StatusChanged) String() string {
	return "status changed: " + e.Status.String()
}
