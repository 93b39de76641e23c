package refresh

import (
	"sync"
	"time"
)

// ticker is the part of *time.Ticker the scheduler needs.
type ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ *time.Ticker }

func (t realTicker) C() <-chan time.Time { return t.Ticker.C }

func newRealTicker(d time.Duration) ticker { return realTicker{time.NewTicker(d)} }

// Scheduler calls a refresh Func on a fixed interval while the application
// is in the foreground. At most one ticker is live at any time.
type Scheduler struct {
	refresh   Func
	newTicker func(time.Duration) ticker

	mu         sync.Mutex // protects the fields below
	interval   time.Duration
	foreground bool
	stop       chan struct{} // nil when no ticker is running
}

// NewScheduler creates a stopped scheduler. A non-positive interval means
// the scheduler never ticks.
func NewScheduler(fn Func, interval time.Duration) *Scheduler {
	return &Scheduler{
		refresh:    fn,
		newTicker:  newRealTicker,
		interval:   interval,
		foreground: true,
	}
}

// Start (re)starts the ticker. It does nothing without a positive interval
// or while in the background; any existing ticker is replaced.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked()
}

// startLocked is Start without locking. Caller must hold s.mu.
func (s *Scheduler) startLocked() {
	if s.interval <= 0 || !s.foreground {
		return
	}
	s.stopLocked()

	stop := make(chan struct{})
	s.stop = stop
	go s.run(s.newTicker(s.interval), stop)
}

// Stop cancels the ticker. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// stopLocked closes the active stop channel. Caller must hold s.mu.
func (s *Scheduler) stopLocked() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}

// SetForeground records whether the application is visible. It does not
// start or stop the ticker by itself.
func (s *Scheduler) SetForeground(fg bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.foreground = fg
}

// SetInterval changes the tick interval. A running scheduler restarts on the
// new interval; a non-positive interval stops it.
func (s *Scheduler) SetInterval(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d == s.interval {
		return
	}
	s.interval = d
	if s.stop == nil {
		return
	}
	if d <= 0 {
		s.stopLocked()
		return
	}
	s.startLocked()
}

// Interval returns the configured interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Running reports whether a ticker is live.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

func (s *Scheduler) run(t ticker, stop <-chan struct{}) {
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			// A tick can race with Stop; the stop channel wins.
			select {
			case <-stop:
				return
			default:
			}
			BestEffort("scheduled refresh", s.refresh)
		}
	}
}
