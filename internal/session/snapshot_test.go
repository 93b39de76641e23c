package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agent-racer/authsync/internal/client"
)

func TestZeroSnapshotIsInitial(t *testing.T) {
	var s Snapshot
	require.Equal(t, client.StatusInitial, s.Status())
	require.False(t, s.HasSession())
	require.Nil(t, s.Session())
}

func TestCopyWithMarkers(t *testing.T) {
	base := NewSnapshot(client.Session{"id": "u1"}, client.StatusAuthenticated)

	tests := []struct {
		name        string
		session     Field[client.Session]
		status      Field[client.Status]
		wantID      string
		wantSession bool
		wantStatus  client.Status
	}{
		{
			name:        "keep both",
			session:     Keep[client.Session](),
			status:      Keep[client.Status](),
			wantID:      "u1",
			wantSession: true,
			wantStatus:  client.StatusAuthenticated,
		},
		{
			name:        "set session keeps status",
			session:     Set(client.Session{"id": "u2"}),
			status:      Keep[client.Status](),
			wantID:      "u2",
			wantSession: true,
			wantStatus:  client.StatusAuthenticated,
		},
		{
			name:        "clear session keeps status",
			session:     Clear[client.Session](),
			status:      Keep[client.Status](),
			wantSession: false,
			wantStatus:  client.StatusAuthenticated,
		},
		{
			name:        "set nil session is absent",
			session:     Set[client.Session](nil),
			status:      Keep[client.Status](),
			wantSession: false,
			wantStatus:  client.StatusAuthenticated,
		},
		{
			name:        "set status keeps session",
			session:     Keep[client.Session](),
			status:      Set(client.StatusLoading),
			wantID:      "u1",
			wantSession: true,
			wantStatus:  client.StatusLoading,
		},
		{
			name:        "clear status resets to initial",
			session:     Keep[client.Session](),
			status:      Clear[client.Status](),
			wantID:      "u1",
			wantSession: true,
			wantStatus:  client.StatusInitial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.CopyWith(tt.session, tt.status)
			require.Equal(t, tt.wantSession, got.HasSession())
			require.Equal(t, tt.wantID, got.Session().ID())
			require.Equal(t, tt.wantStatus, got.Status())

			// The original is never modified.
			require.Equal(t, "u1", base.Session().ID())
			require.Equal(t, client.StatusAuthenticated, base.Status())
		})
	}
}

func TestSnapshotIsolatedFromCallerMaps(t *testing.T) {
	src := client.Session{"id": "u1"}
	s := NewSnapshot(src, client.StatusAuthenticated)

	src["id"] = "mutated"
	require.Equal(t, "u1", s.Session().ID())

	out := s.Session()
	out["id"] = "mutated"
	require.Equal(t, "u1", s.Session().ID())
}

func TestSnapshotEqual(t *testing.T) {
	a := NewSnapshot(client.Session{"id": "u1"}, client.StatusAuthenticated)
	b := NewSnapshot(client.Session{"id": "u1"}, client.StatusAuthenticated)
	require.True(t, a.Equal(b))

	require.False(t, a.Equal(NewSnapshot(client.Session{"id": "u2"}, client.StatusAuthenticated)))
	require.False(t, a.Equal(NewSnapshot(client.Session{"id": "u1"}, client.StatusLoading)))
	require.False(t, a.Equal(NewSnapshot(nil, client.StatusAuthenticated)))
	require.False(t, NewSnapshot(client.Session{}, client.StatusInitial).Equal(Snapshot{}))
}

func TestSnapshotString(t *testing.T) {
	require.Equal(t, "{status: initial, session: <none>}", Snapshot{}.String())
	s := NewSnapshot(client.Session{"id": "u1", "name": "ada"}, client.StatusAuthenticated)
	require.Equal(t, "{status: authenticated, session: ada}", s.String())
}
