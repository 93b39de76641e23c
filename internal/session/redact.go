package session

import (
	"crypto/sha256"
	"fmt"
	"path"
	"strings"

	"github.com/agent-racer/authsync/internal/client"
)

const masked = "••••••"

// Redactor masks sensitive session fields before they are shown. The zero
// value changes nothing.
type Redactor struct {
	// MaskIDs replaces the session id with a short stable hash.
	MaskIDs bool
	// Keys are case-insensitive glob patterns (path.Match syntax) naming
	// fields whose values are hidden, e.g. "*token*".
	Keys []string
}

// IsNoop reports whether Apply would return its input unchanged.
func (r Redactor) IsNoop() bool {
	return !r.MaskIDs && len(r.Keys) == 0
}

// Apply returns a redacted copy of s. Nested maps are walked; s itself is
// never modified.
func (r Redactor) Apply(s client.Session) client.Session {
	if s == nil {
		return nil
	}
	out := client.Session(r.walk(map[string]any(s)))
	if r.MaskIDs {
		if id := s.ID(); id != "" {
			out["id"] = shortHash(id)
		}
	}
	return out
}

// Snapshot applies the redactor to snap's session.
func (r Redactor) Snapshot(snap Snapshot) Snapshot {
	if r.IsNoop() || !snap.HasSession() {
		return snap
	}
	return snap.CopyWith(Set(r.Apply(snap.Session())), Keep[client.Status]())
}

func (r Redactor) walk(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch {
		case r.sensitive(k):
			out[k] = masked
		case isMap(v):
			out[k] = r.walk(v.(map[string]any))
		default:
			out[k] = v
		}
	}
	return out
}

func (r Redactor) sensitive(key string) bool {
	key = strings.ToLower(key)
	for _, pattern := range r.Keys {
		if ok, _ := path.Match(strings.ToLower(pattern), key); ok {
			return true
		}
	}
	return false
}

func isMap(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// shortHash returns a truncated SHA-256 hex digest for an opaque identifier.
func shortHash(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h[:6])
}
