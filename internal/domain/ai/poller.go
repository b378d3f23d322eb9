package ai

import (
	"context"
	"time"
)

// DefaultPollInterval matches the video service's expected turnaround.
const DefaultPollInterval = 10 * time.Second

// StatusChecker refreshes a long-running operation.
type StatusChecker interface {
	VideoStatus(ctx context.Context, op Operation) (Operation, error)
}

// Poller waits for an operation to report done. There is no timeout; only
// ctx ends the wait early.
type Poller struct {
	source   StatusChecker
	interval time.Duration
	onPoll   func(n int, op Operation)
}

func NewPoller(source StatusChecker, interval time.Duration, onPoll func(n int, op Operation)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{source: source, interval: interval, onPoll: onPoll}
}

// Wait sleeps one interval before every status check and returns the
// completed operation.
func (p *Poller) Wait(ctx context.Context, op Operation) (Operation, error) {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for n := 1; !op.Done; n++ {
		select {
		case <-ctx.Done():
			return op, ctx.Err()
		case <-timer.C:
		}

		next, err := p.source.VideoStatus(ctx, op)
		if err != nil {
			return op, Fail("video-status", err)
		}
		op = next
		if p.onPoll != nil {
			p.onPoll(n, op)
		}
		timer.Reset(p.interval)
	}
	return op, nil
}
