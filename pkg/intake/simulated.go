package intake

import (
	"context"
	"time"

	"github.com/goliatone/go-leadform/pkg/lead"
)

// DefaultDelay is the latency the simulated intake waits before accepting.
const DefaultDelay = time.Second

// Simulated accepts every lead after Delay. A zero Delay accepts immediately.
type Simulated struct {
	Delay time.Duration
}

// NewSimulated returns a simulated intake. Negative delays use DefaultDelay.
func NewSimulated(delay time.Duration) *Simulated {
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Simulated{Delay: delay}
}

// Submit waits for Delay or until ctx ends.
func (s *Simulated) Submit(ctx context.Context, _ lead.Lead) error {
	if s == nil || s.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
