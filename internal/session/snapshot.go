// Package session projects an auth client's session and status into
// immutable snapshots and publishes them to observers.
package session

import (
	"fmt"
	"reflect"

	"github.com/agent-racer/authsync/internal/client"
)

// Snapshot is an immutable (session, status) pair. The zero value is the
// initial state: no session, StatusInitial.
type Snapshot struct {
	session client.Session
	status  client.Status
}

// NewSnapshot builds a snapshot. The session map is copied.
func NewSnapshot(s client.Session, status client.Status) Snapshot {
	return Snapshot{session: s.Clone(), status: status}
}

// Session returns a copy of the session, or nil when absent.
func (s Snapshot) Session() client.Session {
	return s.session.Clone()
}

// HasSession reports whether a session is present.
func (s Snapshot) HasSession() bool {
	return s.session != nil
}

// Status returns the status.
func (s Snapshot) Status() client.Status {
	return s.status
}

// CopyWith returns a new snapshot with each field updated by its marker.
// The receiver is left untouched.
func (s Snapshot) CopyWith(sess Field[client.Session], status Field[client.Status]) Snapshot {
	return NewSnapshot(sess.Apply(s.session), status.Apply(s.status))
}

// Equal reports whether both snapshots hold the same session and status.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.status != o.status {
		return false
	}
	if (s.session == nil) != (o.session == nil) {
		return false
	}
	return reflect.DeepEqual(s.session, o.session)
}

func (s Snapshot) String() string {
	if s.session == nil {
		return fmt.Sprintf("{status: %s, session: <none>}", s.status)
	}
	return fmt.Sprintf("{status: %s, session: %s}", s.status, s.session.Name())
}
