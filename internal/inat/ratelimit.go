package inat

import (
	"context"
	"sync"
	"time"
)

// DefaultRateLimit is the upstream-documented ceiling of 60 requests per minute.
const (
	DefaultRateLimit  = 60
	DefaultRateWindow = time.Minute
)

// Governor admits at most Limit outbound requests within any rolling Window.
// It is the only shared mutable state in the client layer: every upstream
// call goes through Admit before touching the network. Admit never fails on
// its own; it only delays, or returns early when ctx is cancelled.
type Governor struct {
	Limit  int
	Window time.Duration

	// Clock and Sleep are injectable for tests.
	Clock func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error

	// gate serializes waiters so admissions happen in arrival order.
	gate sync.Mutex

	mu       sync.Mutex
	admitted []time.Time
}

// NewGovernor creates a governor with the given ceiling per window.
// Non-positive arguments fall back to the defaults.
func NewGovernor(limit int, window time.Duration) *Governor {
	return &Governor{Limit: limit, Window: window}
}

// Admit blocks until a request slot is available within the rolling window,
// then reserves it. Callers racing for a freed slot are served FIFO: the
// gate admits one waiter at a time, so nobody overtakes an earlier arrival.
// The gate is released before the caller performs any network I/O.
func (g *Governor) Admit(ctx context.Context) error {
	g.gate.Lock()
	defer g.gate.Unlock()

	for {
		wait := g.tryAdmit()
		if wait <= 0 {
			return nil
		}
		if err := g.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// InFlight reports how many admissions are still inside the rolling window.
func (g *Governor) InFlight() int {
	now := g.now()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prune(now)
	return len(g.admitted)
}

// tryAdmit reserves a slot and returns 0, or returns how long until the
// oldest admission ages out of the window.
func (g *Governor) tryAdmit() time.Duration {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	g.prune(now)
	if len(g.admitted) < g.limit() {
		g.admitted = append(g.admitted, now)
		return 0
	}
	return g.admitted[0].Add(g.window()).Sub(now)
}

// prune drops admissions older than the window. Caller holds mu.
func (g *Governor) prune(now time.Time) {
	cutoff := now.Add(-g.window())
	idx := 0
	for idx < len(g.admitted) && !g.admitted[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		g.admitted = append(g.admitted[:0], g.admitted[idx:]...)
	}
}

func (g *Governor) limit() int {
	if g.Limit > 0 {
		return g.Limit
	}
	return DefaultRateLimit
}

func (g *Governor) window() time.Duration {
	if g.Window > 0 {
		return g.Window
	}
	return DefaultRateWindow
}

func (g *Governor) now() time.Time {
	if g.Clock != nil {
		return g.Clock()
	}
	return time.Now()
}

func (g *Governor) sleep(ctx context.Context, d time.Duration) error {
	if g.Sleep != nil {
		return g.Sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
