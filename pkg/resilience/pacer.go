// Package resilience paces calls to external tools.
package resilience

import (
	"context"
	"time"

	"github.com/mediascrape/mediascrape/pkg/fn"
)

// DefaultInterval is the pause after each caption request.
const DefaultInterval = 2 * time.Second

// Waiter blocks until the next call may proceed.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Pacer pauses for a fixed interval every time Wait is called, however long
// the preceding call took.
type Pacer struct {
	interval time.Duration
	sleep    func(context.Context, time.Duration) error
}

// NewPacer creates a pacer with the given interval. interval <= 0 disables
// pacing.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval, sleep: sleepCtx}
}

// Interval returns the pause applied by Wait.
func (p *Pacer) Interval() time.Duration { return p.interval }

// Wait sleeps for the full interval or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.interval <= 0 {
		return nil
	}
	return p.sleep(ctx, p.interval)
}

// PacedStage runs stage and then waits on w before returning, so the pause
// starts when the call ends.
func PacedStage[In, Out any](w Waiter, stage fn.Stage[In, Out]) fn.Stage[In, Out] {
	return func(ctx context.Context, in In) fn.Result[Out] {
		res := stage(ctx, in)
		if err := w.Wait(ctx); err != nil {
			return fn.Err[Out](err)
		}
		return res
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
