package model

import (
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
)

// Scheduler is a single slot cancellable timer.
// Arming it cancels the previously armed callback.
type Scheduler struct {
	clock clock.Clock
	gen   uint64
	timer clock.Timer
	stop  chan struct{}
	mx    sync.Mutex
}

// NewScheduler returns a scheduler using c for its timers.
func NewScheduler(c clock.Clock) *Scheduler {
	if c == nil {
		c = clock.NewClock()
	}
	return &Scheduler{clock: c}
}

// Schedule arms fn to run after delay, replacing any armed callback.
// It returns the generation of the armed callback.
func (s *Scheduler) Schedule(fn func(), delay time.Duration) uint64 {
	s.mx.Lock()
	defer s.mx.Unlock()

	s.cancelLocked()
	gen := s.gen
	t, stop := s.clock.NewTimer(delay), make(chan struct{})
	s.timer, s.stop = t, stop

	go func() {
		select {
		case <-t.C():
		case <-stop:
			return
		}
		s.mx.Lock()
		live := s.gen == gen
		if live {
			s.timer, s.stop = nil, nil
		}
		s.mx.Unlock()
		if live {
			fn()
		}
	}()

	return gen
}

// Current reports whether gen is still the armed or last fired generation.
func (s *Scheduler) Current(gen uint64) bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.gen == gen
}

// CancelAll clears the slot. A cancelled callback never runs.
func (s *Scheduler) CancelAll() {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.cancelLocked()
}

// Pending reports whether a callback is armed.
func (s *Scheduler) Pending() bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.timer != nil
}

func (s *Scheduler) cancelLocked() {
	s.gen++
	if s.timer == nil {
		return
	}
	s.timer.Stop()
	close(s.stop)
	s.timer, s.stop = nil, nil
}
