package sequencer

import (
	"context"
	"errors"
	"sync"
	"time"

	"transit/debug"
	"transit/grid"
)

// DefaultInterval is the redraw/blink period
const DefaultInterval = 100 * time.Millisecond

// ErrDeviceClosed is returned by Run when the grid's key channel closes
var ErrDeviceClosed = errors.New("grid device closed")

type job struct {
	fn   func(*Session)
	done chan struct{}
}

// Manager owns the Session and is the only goroutine that touches it.
// Key events, the redraw tick and queued work all go through Run's loop.
type Manager struct {
	session  *Session
	playback Playback
	interval time.Duration

	work chan job

	mu      sync.Mutex
	running bool
	idle    chan struct{} // closed when the current Run returns

	// Notify TUI of updates
	UpdateChan chan Status
}

// NewManager creates a manager for s. A zero interval means DefaultInterval.
func NewManager(s *Session, p Playback, interval time.Duration) *Manager {
	if s == nil {
		s = NewSession()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Manager{
		session:    s,
		playback:   p,
		interval:   interval,
		work:       make(chan job),
		UpdateChan: make(chan Status, 1),
	}
}

// Run drives dev until ctx is cancelled (returns nil) or the device goes
// away (returns ErrDeviceClosed). The session survives, so Run can be called
// again with a reconnected device. Run must not be called concurrently.
func (m *Manager) Run(ctx context.Context, dev grid.Device) error {
	rows, cols := dev.Size()
	layout := LayoutFor(rows, cols)
	dispatcher := NewDispatcher(m.session, layout, m.playback)
	buf := grid.NewBuffer(rows, cols)

	debug.Log("manager", "run %s (%dx%d) tick=%v", dev.ID(), rows, cols, m.interval)

	draw := func() {
		Render(m.session, layout, buf)
		if err := dev.Render(buf); err != nil {
			debug.Warn("manager", "render %s: %v", dev.ID(), err)
		}
		m.notifyUpdate(buf)
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// device is ready: start blinking right away
	m.session.TogglePhase()
	draw()

	keys := dev.Keys()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-keys:
			if !ok {
				debug.Log("manager", "device %s closed", dev.ID())
				return ErrDeviceClosed
			}
			dispatcher.HandleKey(ev)
			draw()
		case j := <-m.work:
			j.fn(m.session)
			draw()
			close(j.done)
		case <-ticker.C:
			m.session.TogglePhase()
			draw()
		}
	}
}

// Session returns the managed session. Only touch it while Run is not
// running; use Do otherwise.
func (m *Manager) Session() *Session {
	return m.session
}

// Do runs fn on the manager goroutine and waits until it has run and the
// grid has been redrawn. With no Run loop active fn runs right away on the
// caller's goroutine. It fails with ctx's error if a running loop doesn't
// pick the job up before ctx is done.
func (m *Manager) Do(ctx context.Context, fn func(*Session)) error {
	for {
		m.mu.Lock()
		if !m.running {
			fn(m.session)
			m.mu.Unlock()
			return nil
		}
		idle := m.idle
		m.mu.Unlock()

		j := job{fn: fn, done: make(chan struct{})}
		select {
		case m.work <- j:
			<-j.done
			return nil
		case <-idle:
			// loop stopped first, go again
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// notifyUpdate publishes the latest status, dropping it if the UI is behind
func (m *Manager) notifyUpdate(buf *grid.Buffer) {
	st := NewStatus(m.session, buf)
	select {
	case m.UpdateChan <- st:
		return
	default:
	}
	// replace the stale status so the UI always sees the newest one
	select {
	case <-m.UpdateChan:
	default:
	}
	select {
	case m.UpdateChan <- st:
	default:
	}
}
