package out_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"vigil/internal/modules/session/adapter/out"
)

type countingPulser struct {
	mu sync.Mutex
	n  int
}

func (p *countingPulser) Pulse(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n++
	return nil
}

func (p *countingPulser) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}

func TestRepeaterPulsesUntilStopped(t *testing.T) {
	t.Parallel()
	pulser := &countingPulser{}
	repeater := out.NewRepeater(discard(), pulser)

	if err := repeater.StartRepeating(context.Background(), 1, 60); err != nil {
		t.Fatalf("start: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for pulser.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if pulser.count() == 0 {
		t.Fatalf("expected an immediate pulse")
	}

	repeater.StopAll()
	settled := pulser.count()
	time.Sleep(50 * time.Millisecond)
	if pulser.count() != settled {
		t.Fatalf("pulse after StopAll: %d -> %d", settled, pulser.count())
	}
}

func TestRepeaterStopIsIdempotent(t *testing.T) {
	t.Parallel()
	repeater := out.NewRepeater(discard(), &countingPulser{})
	repeater.StopAll()
	repeater.StopAll()

	if err := repeater.StartRepeating(context.Background(), 1, 1); err != nil {
		t.Fatalf("start: %v", err)
	}
	repeater.StopAll()
	repeater.StopAll()
}

func TestRepeaterStartReplacesSchedule(t *testing.T) {
	t.Parallel()
	first := &countingPulser{}
	repeater := out.NewRepeater(discard(), first)
	if err := repeater.StartRepeating(context.Background(), 1, 60); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := repeater.StartRepeating(context.Background(), 1, 60); err != nil {
		t.Fatalf("restart: %v", err)
	}
	repeater.StopAll()
	settled := first.count()
	time.Sleep(50 * time.Millisecond)
	if first.count() != settled {
		t.Fatalf("old schedule kept running")
	}
}
