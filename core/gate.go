package core

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Gate is a counting admission gate bounding the number of concurrently
// in-flight external calls, independent of how many agents exist. A zero
// max admits everything.
type Gate struct {
	sem   *semaphore.Weighted
	mu    sync.Mutex
	inUse int
}

// NewGate creates a gate admitting at most max concurrent holders.
func NewGate(max int) *Gate {
	g := &Gate{}
	if max > 0 {
		g.sem = semaphore.NewWeighted(int64(max))
	}
	return g
}

// Acquire blocks until a slot is free or ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	if g.sem != nil {
		if err := g.sem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	g.mu.Lock()
	g.inUse++
	g.mu.Unlock()
	return nil
}

// Release frees a previously acquired slot.
func (g *Gate) Release() {
	g.mu.Lock()
	g.inUse--
	g.mu.Unlock()
	if g.sem != nil {
		g.sem.Release(1)
	}
}

// InFlight returns the number of currently held slots.
func (g *Gate) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inUse
}
