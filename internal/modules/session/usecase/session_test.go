package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	achievementdto "vigil/internal/modules/achievement/dto"
	sessionout "vigil/internal/modules/session/adapter/out"
	"vigil/internal/modules/session/domain"
	"vigil/internal/modules/session/dto"
	sessionin "vigil/internal/modules/session/port/in"
	"vigil/internal/modules/session/service"
	"vigil/internal/modules/session/usecase"
	"vigil/internal/platform/config"
	apperrors "vigil/internal/platform/errors"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeIDs struct{ n int }

func (f *fakeIDs) New() string {
	f.n++
	return fmt.Sprintf("session-%d", f.n)
}

type fakeAlert struct {
	events []string
	caps   []int
}

func (f *fakeAlert) StartRepeating(_ context.Context, _ int, durationCapSeconds int) error {
	f.events = append(f.events, "start")
	f.caps = append(f.caps, durationCapSeconds)
	return nil
}

func (f *fakeAlert) StopAll() {
	f.events = append(f.events, "stop")
}

type fakeLedger struct {
	inputs []achievementdto.AddInput
	out    achievementdto.AddOutput
	err    error
}

func (f *fakeLedger) AddCompletedMinutes(_ context.Context, input achievementdto.AddInput) (achievementdto.AddOutput, error) {
	f.inputs = append(f.inputs, input)
	return f.out, f.err
}

func (f *fakeLedger) CheckAndApplyWeeklyReset(context.Context) (bool, error) { return false, nil }

func (f *fakeLedger) Level(context.Context, string) (int, error) { return 0, nil }

func (f *fakeLedger) ProgressPercentage(context.Context, string) (float64, error) { return 0, nil }

func (f *fakeLedger) MinutesToNextLevel(context.Context, string) (int, error) { return 0, nil }

func (f *fakeLedger) List(context.Context) ([]achievementdto.CategoryOutput, error) { return nil, nil }

func (f *fakeLedger) CreditableCategories(context.Context) ([]string, error) { return nil, nil }

type fakeSink struct{ events []domain.ExpiredEvent }

func (f *fakeSink) SessionExpired(event domain.ExpiredEvent) {
	f.events = append(f.events, event)
}

type harness struct {
	uc     sessionin.Usecase
	clock  *fakeClock
	alert  *fakeAlert
	ledger *fakeLedger
	sink   *fakeSink
	path   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessAt(t, filepath.Join(t.TempDir(), "state.json"))
}

func newHarnessAt(t *testing.T, path string) *harness {
	t.Helper()
	clk := &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)}
	return resume(t, path, clk)
}

// resume builds a fresh controller over an existing snapshot file, as a
// new process would after a crash.
func resume(t *testing.T, path string, clk *fakeClock) *harness {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	alert := &fakeAlert{}
	ledger := &fakeLedger{}
	sink := &fakeSink{}
	uc := usecase.NewInteractor(
		service.NewSessionService(clk, &fakeIDs{}),
		sessionout.NewFileSnapshotStore(path, logger),
		nil,
		nil,
		alert,
		sink,
		ledger,
		clk,
		config.DefaultTimer(),
		logger,
		[]string{"work", "study", "rest"},
	)
	return &harness{uc: uc, clock: clk, alert: alert, ledger: ledger, sink: sink, path: path}
}

func TestStartRejectsSecondSession(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if _, err := h.uc.Start(context.Background(), startInput("work", 1500)); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err := h.uc.Start(context.Background(), startInput("study", 600))
	if !errors.Is(err, apperrors.ErrSessionActive) {
		t.Fatalf("expected ErrSessionActive, got %v", err)
	}
}

func TestStartValidatesInput(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if _, err := h.uc.Start(context.Background(), startInput("work", 0)); !errors.Is(err, apperrors.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if _, err := h.uc.Start(context.Background(), startInput("gaming", 600)); !errors.Is(err, apperrors.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestExpiryAtExactPlannedDuration(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if _, err := h.uc.Start(context.Background(), startInput("work", 60)); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.clock.advance(60 * time.Second)
	status, err := h.uc.Tick(context.Background())
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if status.State != "verifying" {
		t.Fatalf("expected verifying, got %s", status.State)
	}
	if status.RemainingSeconds != 0 {
		t.Fatalf("expected zero remaining, got %d", status.RemainingSeconds)
	}
	if status.Method == "" || status.Prompt == "" {
		t.Fatalf("expected a verification challenge, got method=%q prompt=%q", status.Method, status.Prompt)
	}
	if len(h.alert.caps) != 1 || h.alert.caps[0] != config.DefaultTimer().BackgroundAlertCapSeconds {
		t.Fatalf("expected one background-capped alert, got %v", h.alert.caps)
	}
	if len(h.sink.events) != 1 {
		t.Fatalf("expected one expiry event, got %d", len(h.sink.events))
	}
}

func TestForegroundAlertCap(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.uc.SetForeground(true)
	if _, err := h.uc.Start(context.Background(), startInput("work", 30)); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.clock.advance(31 * time.Second)
	if _, err := h.uc.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(h.alert.caps) != 1 || h.alert.caps[0] != config.DefaultTimer().ForegroundAlertCapSeconds {
		t.Fatalf("expected foreground cap, got %v", h.alert.caps)
	}
}

func TestAdjustNeverGoesNegative(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if _, err := h.uc.Start(context.Background(), startInput("work", 120)); err != nil {
		t.Fatalf("start: %v", err)
	}
	status, err := h.uc.AdjustTime(context.Background(), -5)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if status.RemainingSeconds != 0 || status.PlannedSeconds != 0 {
		t.Fatalf("expected clamp to zero, got remaining=%d planned=%d", status.RemainingSeconds, status.PlannedSeconds)
	}
}

func TestAdjustExtendsCredit(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if _, err := h.uc.Start(context.Background(), startInput("work", 300)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.uc.AdjustTime(context.Background(), 5); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	h.clock.advance(600 * time.Second)
	if _, err := h.uc.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	out, err := h.uc.Submit(context.Background(), true)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !out.Credited || out.CreditedMinutes != 10 {
		t.Fatalf("expected 10 credited minutes, got %+v", out)
	}
}

func TestSubmitPassCreditsPlannedMinutes(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if _, err := h.uc.Start(context.Background(), startInput("work", 1500)); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.clock.advance(1500 * time.Second)
	if _, err := h.uc.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	out, err := h.uc.Submit(context.Background(), true)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.State != "completed" || !out.Credited || out.CreditedMinutes != 25 {
		t.Fatalf("unexpected resolution: %+v", out)
	}
	if len(h.ledger.inputs) != 1 || h.ledger.inputs[0].Minutes != 25 || h.ledger.inputs[0].Category != "work" {
		t.Fatalf("unexpected ledger credit: %+v", h.ledger.inputs)
	}
	if h.alert.events[len(h.alert.events)-1] != "stop" {
		t.Fatalf("expected alert stopped on submit, got %v", h.alert.events)
	}
}

func TestSubmitFailGrantsNoCredit(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if _, err := h.uc.Start(context.Background(), startInput("work", 60)); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.clock.advance(60 * time.Second)
	if _, err := h.uc.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	out, err := h.uc.Submit(context.Background(), false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.State != "cancelled" || out.Credited || out.CreditedMinutes != 0 {
		t.Fatalf("unexpected resolution: %+v", out)
	}
	if len(h.ledger.inputs) != 0 {
		t.Fatalf("ledger must not be credited on fail")
	}
}

func TestSubmitBeforeExpiry(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if _, err := h.uc.Start(context.Background(), startInput("work", 600)); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.clock.advance(10 * time.Second)
	if _, err := h.uc.Submit(context.Background(), true); !errors.Is(err, apperrors.ErrNotVerifying) {
		t.Fatalf("expected ErrNotVerifying, got %v", err)
	}
}

func TestSubmitStopsAlertEvenWhenCreditFails(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.ledger.err = errors.New("disk full")
	if _, err := h.uc.Start(context.Background(), startInput("work", 60)); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.clock.advance(60 * time.Second)
	if _, err := h.uc.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	out, err := h.uc.Submit(context.Background(), true)
	if err == nil {
		t.Fatalf("expected credit failure to surface")
	}
	if !out.Credited || out.CreditedMinutes != 1 {
		t.Fatalf("credit decision must still be recorded: %+v", out)
	}
	foundStop := false
	for _, event := range h.alert.events {
		if event == "stop" {
			foundStop = true
		}
	}
	if !foundStop {
		t.Fatalf("alert must be stopped even when crediting fails")
	}
	status, err := h.uc.Tick(context.Background())
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if status.State != "idle" {
		t.Fatalf("slot must be cleared, got %s", status.State)
	}
}

func TestCancelRunningGrantsPartialCredit(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		elapsed time.Duration
		minutes int
	}{
		{120 * time.Second, 2},
		{30 * time.Second, 1},
	} {
		h := newHarness(t)
		if _, err := h.uc.Start(context.Background(), startInput("work", 600)); err != nil {
			t.Fatalf("start: %v", err)
		}
		h.clock.advance(tc.elapsed)
		out, err := h.uc.Cancel(context.Background())
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if out.CreditedMinutes != tc.minutes {
			t.Fatalf("elapsed %s: expected %d minutes, got %d", tc.elapsed, tc.minutes, out.CreditedMinutes)
		}
	}
}

func TestCancelVerifyingForfeits(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if _, err := h.uc.Start(context.Background(), startInput("work", 60)); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.clock.advance(60 * time.Second)
	if _, err := h.uc.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	out, err := h.uc.Cancel(context.Background())
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if out.Credited || out.CreditedMinutes != 0 {
		t.Fatalf("verifying cancel must forfeit, got %+v", out)
	}
	if len(h.ledger.inputs) != 0 {
		t.Fatalf("ledger must not be credited")
	}
}

func TestCancelWithoutSession(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if _, err := h.uc.Cancel(context.Background()); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestRecoveryExpiresSuspendedSession(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.json")
	first := newHarnessAt(t, path)
	if _, err := first.uc.Start(context.Background(), startInput("work", 60)); err != nil {
		t.Fatalf("start: %v", err)
	}

	// New process, 90 seconds later.
	clk := &fakeClock{now: first.clock.now.Add(90 * time.Second)}
	second := resume(t, path, clk)
	status, err := second.uc.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if status.State != "verifying" {
		t.Fatalf("expected verifying after suspended expiry, got %s", status.State)
	}
	if len(second.alert.events) == 0 || second.alert.events[len(second.alert.events)-1] != "start" {
		t.Fatalf("expected alert re-armed, got %v", second.alert.events)
	}

	// A further restart must keep the same challenge.
	third := resume(t, path, &fakeClock{now: clk.now.Add(time.Minute)})
	again, err := third.uc.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if again.Method != status.Method {
		t.Fatalf("verification method must survive restarts: %q vs %q", again.Method, status.Method)
	}
}

func TestRestoreKeepsRunningSession(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.json")
	first := newHarnessAt(t, path)
	if _, err := first.uc.Start(context.Background(), startInput("study", 600)); err != nil {
		t.Fatalf("start: %v", err)
	}

	clk := &fakeClock{now: first.clock.now.Add(45 * time.Second)}
	second := resume(t, path, clk)
	status, err := second.uc.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if status.State != "running" {
		t.Fatalf("expected running, got %s", status.State)
	}
	if status.RemainingSeconds != 555 {
		t.Fatalf("expected 555 seconds remaining, got %d", status.RemainingSeconds)
	}
}

func startInput(category string, seconds int) dto.StartInput {
	return dto.StartInput{Category: category, DurationSeconds: seconds}
}
