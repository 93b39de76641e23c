package app

import (
	"context"
	"fmt"
	"time"

	"github.com/agent-racer/authsync/internal/client"
	"github.com/agent-racer/authsync/internal/config"
	"github.com/agent-racer/authsync/internal/lifecycle"
	"github.com/agent-racer/authsync/internal/session"
	"github.com/agent-racer/authsync/internal/theme"
	"github.com/agent-racer/authsync/internal/views/debug"
	"github.com/agent-racer/authsync/internal/views/detail"
	"github.com/agent-racer/authsync/internal/views/status"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayDetail
	OverlayDebug
)

// SnapshotMsg carries a new auth snapshot into the program.
type SnapshotMsg struct {
	Snapshot session.Snapshot
}

// ConfigReloadedMsg carries a config reloaded from disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// ActionResultMsg reports the outcome of a user-triggered client call.
type ActionResultMsg struct {
	Op  string
	Err error
}

// Scope is the part of scope.Scope the UI drives.
type Scope interface {
	Subscriber
	Current() session.Snapshot
	Polling() bool
	Interval() time.Duration
	Foreground() bool
	SetInterval(time.Duration)
	SetRefetchOnFocus(bool)
}

// Actions are the client calls bound to keys.
type Actions interface {
	SignIn(ctx context.Context, user string) error
	SignOut(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// Option configures the root model.
type Option func(*Model)

// WithConfigChanges applies configs received on ch while running.
func WithConfigChanges(ch <-chan *config.Config) Option {
	return func(m *Model) { m.configs = ch }
}

// WithUser sets the name used for sign-in.
func WithUser(name string) Option {
	return func(m *Model) { m.user = name }
}

// WithRedactor masks session fields in the detail overlay.
func WithRedactor(r session.Redactor) Option {
	return func(m *Model) { m.redact = r }
}

// Model is the root Bubble Tea model.
type Model struct {
	scope     Scope
	actions   Actions
	lifecycle *lifecycle.Manual
	feed      *Feed
	configs   <-chan *config.Config
	ctx       context.Context
	cancel    context.CancelFunc

	keys   KeyMap
	width  int
	height int
	user   string
	redact session.Redactor

	snap    session.Snapshot
	overlay Overlay

	statusBar status.Model
	debug     debug.Model
	spinner   spinner.Model
}

// New creates the root model. Host lifecycle messages are forwarded to src.
func New(sc Scope, actions Actions, src *lifecycle.Manual, opts ...Option) Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		scope:     sc,
		actions:   actions,
		lifecycle: src,
		ctx:       ctx,
		cancel:    cancel,
		keys:      DefaultKeyMap(),
		user:      "guest",
		statusBar: status.New(),
		debug:     debug.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	for _, opt := range opts {
		opt(&m)
	}

	// Subscribe before reading Current so no snapshot falls in between.
	m.feed = NewFeed(sc)
	m.snap = sc.Current()
	m.syncStatus()
	m.debug.Addf(debug.KindAuth, "initial %s", m.snap)
	return m
}

// Init starts the snapshot feed, the config watcher and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.feed.Next(), m.waitConfig(), m.spinner.Tick)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.FocusMsg:
		m.signal(lifecycle.Resumed)
		return m, nil

	case tea.BlurMsg:
		m.signal(lifecycle.Inactive)
		return m, nil

	case tea.ResumeMsg:
		m.signal(lifecycle.Resumed)
		return m, nil

	case SnapshotMsg:
		m.logTransition(m.snap, msg.Snapshot)
		m.snap = msg.Snapshot
		m.syncStatus()
		return m, m.feed.Next()

	case ConfigReloadedMsg:
		m.applyConfig(msg.Config)
		return m, m.waitConfig()

	case ActionResultMsg:
		if msg.Err != nil {
			m.debug.Addf(debug.KindError, "%s failed: %v", msg.Op, msg.Err)
		} else {
			m.debug.Addf(debug.KindAction, "%s ok", msg.Op)
		}
		m.syncStatus()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.statusBar.Spinner = m.spinner.View()
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.signal(lifecycle.Detached)
		m.feed.Close()
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Suspend):
		m.signal(lifecycle.Paused)
		return m, tea.Suspend
	}

	if m.overlay != OverlayNone {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.overlay = OverlayNone
		case m.overlay == OverlayDebug && key.Matches(msg, m.keys.Up):
			m.debug.ScrollUp(1)
		case m.overlay == OverlayDebug && key.Matches(msg, m.keys.Down):
			m.debug.ScrollDown(1)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.SignIn):
		user := m.user
		return m, m.run("sign in", func(ctx context.Context) error { return m.actions.SignIn(ctx, user) })

	case key.Matches(msg, m.keys.SignOut):
		return m, m.run("sign out", m.actions.SignOut)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.run("refresh", m.actions.Refresh)

	case key.Matches(msg, m.keys.Background):
		if m.scope.Foreground() {
			m.signal(lifecycle.Hidden)
		} else {
			m.signal(lifecycle.Resumed)
		}
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		m.overlay = OverlayDetail
		return m, nil

	case key.Matches(msg, m.keys.Debug):
		m.overlay = OverlayDebug
		return m, nil
	}

	return m, nil
}

// run performs a client call off the update loop.
func (m Model) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return ActionResultMsg{Op: op, Err: fn(ctx)}
	}
}

func (m Model) waitConfig() tea.Cmd {
	if m.configs == nil {
		return nil
	}
	ch, done := m.configs, m.ctx.Done()
	return func() tea.Msg {
		select {
		case cfg, ok := <-ch:
			if !ok {
				return nil
			}
			return ConfigReloadedMsg{Config: cfg}
		case <-done:
			return nil
		}
	}
}

func (m *Model) signal(sig lifecycle.Signal) {
	if m.lifecycle == nil {
		return
	}
	m.lifecycle.Emit(sig)
	m.debug.Addf(debug.KindLifecycle, "%s (%s)", sig, foregroundLabel(m.scope.Foreground()))
	m.syncStatus()
}

func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.scope.SetInterval(cfg.RefetchInterval)
	m.scope.SetRefetchOnFocus(cfg.RefetchOnFocus)
	m.redact = cfg.Display.Redactor()
	m.debug.Addf(debug.KindConfig, "reloaded: interval %s, refetch on focus %t", cfg.RefetchInterval, cfg.RefetchOnFocus)
	m.syncStatus()
}

func (m *Model) logTransition(prev, next session.Snapshot) {
	if prev.Status() != next.Status() {
		m.debug.Addf(debug.KindAuth, "status %s → %s", prev.Status(), next.Status())
	}
	switch {
	case prev.HasSession() && !next.HasSession():
		m.debug.Add(debug.KindAuth, "session cleared")
	case next.HasSession() && !prev.Equal(next.CopyWith(session.Keep[client.Session](), session.Set(prev.Status()))):
		m.debug.Addf(debug.KindAuth, "session %s expires %v", next.Session().Name(), next.Session()["expires"])
	}
}

func (m *Model) syncStatus() {
	m.statusBar.Status = m.snap.Status()
	m.statusBar.User = ""
	if m.snap.HasSession() {
		m.statusBar.User = m.snap.Session().Name()
	}
	m.statusBar.Polling = m.scope.Polling()
	m.statusBar.Interval = m.scope.Interval()
	m.statusBar.Foreground = m.scope.Foreground()
}

func foregroundLabel(fg bool) string {
	if fg {
		return "foreground"
	}
	return "background"
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var body string
	switch m.overlay {
	case OverlayDetail:
		body = detail.New(m.redact.Snapshot(m.snap)).View()
	case OverlayDebug:
		body = m.debug.View(m.width, m.height-4)
	default:
		body = m.renderSummary()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.statusBar.View(),
		body,
		theme.StyleDimmed.Render("  s:sign in  o:sign out  r:refresh  b:background  enter:detail  d:log  q:quit"),
	)
}

func (m Model) renderSummary() string {
	var lines []string
	lines = append(lines, theme.StyleHeader.Render("=== SESSION ==="))

	st := m.snap.Status().String()
	statusStr := lipgloss.NewStyle().Foreground(theme.StatusColor(st)).Render(st)
	lines = append(lines, "  status:  "+statusStr)

	if m.snap.HasSession() {
		s := m.snap.Session()
		lines = append(lines, "  user:    "+s.Name())
		if exp, ok := s["expires"]; ok {
			lines = append(lines, fmt.Sprintf("  expires: %v", exp))
		}
	} else {
		lines = append(lines, theme.StyleDimmed.Render("  No session"))
	}

	if n := len(m.debug.Entries); n > 0 {
		last := m.debug.Entries[n-1]
		lines = append(lines, "", theme.StyleDimmed.Render("  last: "+string(last.Kind)+" "+last.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
