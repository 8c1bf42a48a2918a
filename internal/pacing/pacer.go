// Package pacing provides the cooperative delay abstraction used to pace
// externally visible planner behavior. Delays are injected so tests can run
// with a zero pacer and stay fully deterministic.
package pacing

import (
	"context"
	"math/rand"
	"time"
)

// Pacer models a bounded cooperative pause. Wait blocks for at most ceiling
// and returns early with the context error when the context is cancelled.
type Pacer interface {
	Wait(ctx context.Context, ceiling time.Duration) error
}

// randomPacer sleeps for a pseudo-random duration in [ceiling/4, ceiling].
type randomPacer struct{}

// Random returns a Pacer that pauses for a pseudo-random duration bounded
// by the given ceiling. A non-positive ceiling yields no pause.
func Random() Pacer {
	return randomPacer{}
}

func (randomPacer) Wait(ctx context.Context, ceiling time.Duration) error {
	if ceiling <= 0 {
		return ctx.Err()
	}

	// Never pause for less than a quarter of the ceiling so pacing stays
	// perceptible at low effort levels.
	min := ceiling / 4
	d := min + time.Duration(rand.Int63n(int64(ceiling-min+1)))

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// zeroPacer never pauses. Used in tests and anywhere pacing is disabled.
type zeroPacer struct{}

// Zero returns a Pacer that returns immediately without pausing.
// It still honors context cancellation.
func Zero() Pacer {
	return zeroPacer{}
}

func (zeroPacer) Wait(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
