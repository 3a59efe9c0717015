package out

import (
	"context"
	"log"
	"sync"
	"time"

	sessionout "vigil/internal/modules/session/port/out"
)

// Pulser emits one unit of attention-getting feedback.
type Pulser interface {
	Pulse(ctx context.Context) error
}

// Repeater drives its pulsers on an interval until the duration cap
// elapses or StopAll is called. Starting while running replaces the
// previous schedule; stopping while idle is a no-op. StopAll waits for
// the loop to exit so no pulse fires after it returns.
type Repeater struct {
	mu      sync.Mutex
	pulsers []Pulser
	logger  *log.Logger
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewRepeater(logger *log.Logger, pulsers ...Pulser) sessionout.AlertChannel {
	return &Repeater{pulsers: pulsers, logger: logger}
}

func (r *Repeater) StartRepeating(_ context.Context, intervalSeconds, durationCapSeconds int) error {
	r.StopAll()
	if intervalSeconds <= 0 {
		intervalSeconds = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var loopCtx context.Context
	var cancel context.CancelFunc
	if durationCapSeconds > 0 {
		loopCtx, cancel = context.WithTimeout(context.Background(), time.Duration(durationCapSeconds)*time.Second)
	} else {
		loopCtx, cancel = context.WithCancel(context.Background())
	}
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	go r.loop(loopCtx, time.Duration(intervalSeconds)*time.Second, done)
	return nil
}

func (r *Repeater) StopAll() {
	r.mu.Lock()
	cancel := r.cancel
	done := r.done
	r.cancel = nil
	r.done = nil
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *Repeater) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	r.pulse(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.pulse(ctx)
		}
	}
}

func (r *Repeater) pulse(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	for _, pulser := range r.pulsers {
		if err := pulser.Pulse(ctx); err != nil && r.logger != nil {
			r.logger.Printf("alert pulse failed: %v", err)
		}
	}
}
