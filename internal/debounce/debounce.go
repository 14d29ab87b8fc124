// Package debounce coalesces bursts of triggers into a single delayed firing
// on the Bubble Tea event loop.
package debounce

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// FireMsg is emitted when a scheduled delay elapses. Owners forward it to
// Fire; ticks belonging to other schedulers or superseded calls are ignored.
type FireMsg struct {
	ID  int
	tag int
}

// Scheduler holds at most one pending invocation. Each Schedule replaces the
// pending args and invalidates every earlier tick.
type Scheduler[T any] struct {
	id      int
	tag     int
	delay   time.Duration
	pending *T
	stopped bool
}

// New creates a scheduler that fires delay after the last Schedule call.
func New[T any](delay time.Duration) Scheduler[T] {
	return Scheduler[T]{
		id:    nextID(),
		delay: delay,
	}
}

// ID returns the scheduler's process-unique id.
func (s Scheduler[T]) ID() int {
	return s.id
}

// Delay returns the quiet period.
func (s Scheduler[T]) Delay() time.Duration {
	return s.delay
}

// Pending reports whether an invocation is waiting to fire.
func (s Scheduler[T]) Pending() bool {
	return s.pending != nil
}

// Schedule records args and restarts the quiet period. It returns nil once
// the scheduler has been stopped.
func (s *Scheduler[T]) Schedule(args T) tea.Cmd {
	if s.stopped {
		return nil
	}
	s.tag++
	s.pending = &args

	id, tag := s.id, s.tag
	return tea.Tick(s.delay, func(time.Time) tea.Msg {
		return FireMsg{ID: id, tag: tag}
	})
}

// Cancel drops the pending invocation, if any.
func (s *Scheduler[T]) Cancel() {
	s.tag++
	s.pending = nil
}

// Stop cancels and disables the scheduler for good.
func (s *Scheduler[T]) Stop() {
	s.Cancel()
	s.stopped = true
}

// Fire returns the args of the latest Schedule call when msg is the tick
// that call produced. It reports true at most once per Schedule.
func (s *Scheduler[T]) Fire(msg tea.Msg) (T, bool) {
	var zero T
	fm, ok := msg.(FireMsg)
	if !ok || fm.ID != s.id || fm.tag != s.tag || s.pending == nil || s.stopped {
		return zero, false
	}
	args := *s.pending
	s.pending = nil
	return args, true
}
