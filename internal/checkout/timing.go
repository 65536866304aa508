package checkout

import (
	"context"
	"time"
)

// Timer is a cancellable one-shot callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Sleeper blocks for d.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration)
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// realSleeper waits out the full delay even if ctx ends; the simulated payment cannot be
// cancelled once submitted.
type realSleeper struct{}

func (realSleeper) Sleep(_ context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	<-t.C
}
