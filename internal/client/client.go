package client

import "context"

// AuthClient is the external collaborator authsync subscribes to and
// delegates into.
type AuthClient interface {
	// Session returns the current session, or nil when there is none.
	Session() Session
	// Status returns the current status.
	Status() Status
	// Subscribe registers fn for every future event. Events are delivered one
	// at a time in emission order. The returned func unsubscribes and is
	// safe to call more than once.
	Subscribe(fn func(Event)) (unsubscribe func())
	// Refresh re-validates the session against the client's backing store.
	Refresh(ctx context.Context) error
	// RecoverFromCache restores a previously persisted session, reporting the
	// outcome through the event stream.
	RecoverFromCache(ctx context.Context) error
}
