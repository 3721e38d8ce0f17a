package model

import "sync"

// PendingGuard holds the reload queued for the end of the current cycle.
// The slot is empty, queued without an executor, or holds a callback.
type PendingGuard struct {
	queued bool
	fn     func()
	mx     sync.Mutex
}

// Queue marks a reload as queued by a path that runs it itself.
func (g *PendingGuard) Queue() {
	g.mx.Lock()
	defer g.mx.Unlock()
	g.queued, g.fn = true, nil
}

// QueueFunc stores fn unless a reload is already queued.
func (g *PendingGuard) QueueFunc(fn func()) bool {
	g.mx.Lock()
	defer g.mx.Unlock()
	if g.queued {
		return false
	}
	g.queued, g.fn = true, fn

	return true
}

// Pending reports whether a reload is queued.
func (g *PendingGuard) Pending() bool {
	g.mx.Lock()
	defer g.mx.Unlock()
	return g.queued
}

// Take empties the slot and returns its callback.
// A slot queued without a callback is left alone and nil is returned.
func (g *PendingGuard) Take() func() {
	g.mx.Lock()
	defer g.mx.Unlock()
	if g.fn == nil {
		return nil
	}
	fn := g.fn
	g.queued, g.fn = false, nil

	return fn
}

// Clear empties the slot.
func (g *PendingGuard) Clear() {
	g.mx.Lock()
	defer g.mx.Unlock()
	g.queued, g.fn = false, nil
}
