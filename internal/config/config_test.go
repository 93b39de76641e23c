package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agent-racer/authsync/internal/client"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "authsync.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
refetch_interval: 30s
refetch_on_focus: false
client:
  status: loading
  session:
    id: u1
    name: ada
  cached_session:
    id: u0
  refresh_latency: 250ms
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.RefetchInterval != 30*time.Second {
		t.Errorf("RefetchInterval = %s, want 30s", cfg.RefetchInterval)
	}
	if cfg.RefetchOnFocus {
		t.Error("RefetchOnFocus = true, want false")
	}
	if cfg.Client.Status != client.StatusLoading {
		t.Errorf("Client.Status = %s, want loading", cfg.Client.Status)
	}
	if cfg.Client.Session.ID() != "u1" || cfg.Client.Session.Name() != "ada" {
		t.Errorf("Client.Session = %v, want u1/ada", cfg.Client.Session)
	}
	if cfg.Client.CachedSession.ID() != "u0" {
		t.Errorf("Client.CachedSession = %v, want id u0", cfg.Client.CachedSession)
	}
	if cfg.Client.RefreshLatency != 250*time.Millisecond {
		t.Errorf("Client.RefreshLatency = %s, want 250ms", cfg.Client.RefreshLatency)
	}

	// Defaults should still be applied for unspecified fields.
	if cfg.Client.SessionTTL != 30*time.Minute {
		t.Errorf("Client.SessionTTL = %s, want default 30m", cfg.Client.SessionTTL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/authsync.yaml")
	if err == nil {
		t.Fatal("Load() on missing file should return error")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault("/nonexistent/path/authsync.yaml")
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if cfg.RefetchInterval != 0 {
		t.Errorf("RefetchInterval = %s, want 0 (polling off)", cfg.RefetchInterval)
	}
	if !cfg.RefetchOnFocus {
		t.Error("RefetchOnFocus = false, want default true")
	}
	if cfg.Client.Status != client.StatusInitial {
		t.Errorf("Client.Status = %s, want initial", cfg.Client.Status)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", ":::not valid yaml"},
		{"unknown status", "client:\n  status: sleepy\n"},
		{"negative interval", "refetch_interval: -1s\n"},
		{"zero ttl", "client:\n  session_ttl: 0s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatal("Load() should return error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AUTHSYNC_REFETCH_INTERVAL", "5s")
	t.Setenv("AUTHSYNC_REFETCH_ON_FOCUS", "false")
	t.Setenv("AUTHSYNC_CLIENT_STATUS", "unauthenticated")
	t.Setenv("AUTHSYNC_CLIENT_FAIL_REFRESH", "offline")

	cfg, err := Load(writeConfig(t, "refetch_interval: 1m\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.RefetchInterval != 5*time.Second {
		t.Errorf("RefetchInterval = %s, want env value 5s", cfg.RefetchInterval)
	}
	if cfg.RefetchOnFocus {
		t.Error("RefetchOnFocus = true, want env value false")
	}
	if cfg.Client.Status != client.StatusUnauthenticated {
		t.Errorf("Client.Status = %s, want unauthenticated", cfg.Client.Status)
	}
	if cfg.Client.FailRefresh != "offline" {
		t.Errorf("Client.FailRefresh = %q, want offline", cfg.Client.FailRefresh)
	}
}

func TestEnvOverridesInvalid(t *testing.T) {
	t.Setenv("AUTHSYNC_REFETCH_INTERVAL", "soon")
	if _, err := LoadOrDefault("/nonexistent/path/authsync.yaml"); err == nil {
		t.Fatal("LoadOrDefault() with bad env should return error")
	}
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name       string
		cfg        ClientConfig
		wantStatus client.Status
		wantID     string
	}{
		{"empty", ClientConfig{SessionTTL: time.Minute}, client.StatusInitial, ""},
		{"seeded session", ClientConfig{SessionTTL: time.Minute, Session: client.Session{"id": "u1"}}, client.StatusAuthenticated, "u1"},
		{"explicit status wins", ClientConfig{SessionTTL: time.Minute, Session: client.Session{"id": "u1"}, Status: client.StatusLoading}, client.StatusLoading, "u1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Client: tt.cfg}
			m := cfg.NewClient()
			if got := m.Status(); got != tt.wantStatus {
				t.Errorf("Status() = %s, want %s", got, tt.wantStatus)
			}
			if got := m.Session().ID(); got != tt.wantID {
				t.Errorf("Session().ID() = %q, want %q", got, tt.wantID)
			}
		})
	}
}

func TestNewClientFailRefresh(t *testing.T) {
	cfg := &Config{Client: ClientConfig{
		SessionTTL:  time.Minute,
		Session:     client.Session{"id": "u1"},
		FailRefresh: "backend down",
	}}
	err := cfg.NewClient().Refresh(t.Context())
	if err == nil || err.Error() != "backend down" {
		t.Errorf("Refresh() error = %v, want backend down", err)
	}
}

func TestScopeOptions(t *testing.T) {
	cfg := defaultConfig()
	if got := len(cfg.ScopeOptions()); got != 2 {
		t.Errorf("len(ScopeOptions()) = %d, want 2", got)
	}
}

func TestDisplayConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, "display:\n  mask_ids: true\n  mask_keys: [\"jwt\"]\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	r := cfg.Display.Redactor()
	if !r.MaskIDs {
		t.Error("MaskIDs = false, want true")
	}
	if len(r.Keys) != 1 || r.Keys[0] != "jwt" {
		t.Errorf("Keys = %v, want [jwt]", r.Keys)
	}

	if got := defaultConfig().Display.Redactor(); got.IsNoop() {
		t.Error("default display config should mask token-like keys")
	}
}

func TestDisplayEnvOverride(t *testing.T) {
	t.Setenv("AUTHSYNC_DISPLAY_MASK_KEYS", "jwt,cookie")
	cfg, err := LoadOrDefault("/nonexistent/path/authsync.yaml")
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if got := cfg.Display.MaskKeys; len(got) != 2 || got[1] != "cookie" {
		t.Errorf("MaskKeys = %v, want [jwt cookie]", got)
	}
}
