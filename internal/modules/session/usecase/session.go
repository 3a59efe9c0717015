package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	achievementdto "vigil/internal/modules/achievement/dto"
	achievementin "vigil/internal/modules/achievement/port/in"
	"vigil/internal/modules/session/domain"
	"vigil/internal/modules/session/dto"
	sessionin "vigil/internal/modules/session/port/in"
	sessionout "vigil/internal/modules/session/port/out"
	"vigil/internal/modules/session/service"
	"vigil/internal/platform/clock"
	"vigil/internal/platform/config"
	apperrors "vigil/internal/platform/errors"
)

// Interactor is the session controller: the single owner of the
// active slot. Every mutating call serializes on one mutex, so
// callers never observe a partial transition and no per-session
// locking is needed.
type Interactor struct {
	mu        sync.Mutex
	svc       *service.SessionService
	snapshots sessionout.SnapshotStore
	journal   sessionout.HistoryStore
	projector sessionout.HistoryProjector
	alert     sessionout.AlertChannel
	sink      sessionout.ExpirySink
	ledger    achievementin.Usecase
	clock     clock.Clock
	timer     config.Timer
	logger    *log.Logger

	categories  map[string]bool
	active      *domain.Session
	seq         uint64
	loaded      bool
	foreground  bool
	lastPersist time.Time
}

func NewInteractor(
	svc *service.SessionService,
	snapshots sessionout.SnapshotStore,
	journal sessionout.HistoryStore,
	projector sessionout.HistoryProjector,
	alert sessionout.AlertChannel,
	sink sessionout.ExpirySink,
	ledger achievementin.Usecase,
	clk clock.Clock,
	timer config.Timer,
	logger *log.Logger,
	categories []string,
) sessionin.Usecase {
	allowed := make(map[string]bool, len(categories))
	for _, category := range categories {
		allowed[category] = true
	}
	return &Interactor{
		svc:        svc,
		snapshots:  snapshots,
		journal:    journal,
		projector:  projector,
		alert:      alert,
		sink:       sink,
		ledger:     ledger,
		clock:      clk,
		timer:      timer,
		logger:     logger,
		categories: allowed,
	}
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return dto.StartOutput{}, err
	}
	if i.active != nil && i.active.State.Active() {
		return dto.StartOutput{}, apperrors.ErrSessionActive
	}
	if input.DurationSeconds <= 0 {
		return dto.StartOutput{}, apperrors.ErrInvalidDuration
	}
	if len(i.categories) > 0 && !i.categories[input.Category] {
		return dto.StartOutput{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownCategory, input.Category)
	}
	session, err := i.svc.Create(input.Category, input.DurationSeconds)
	if err != nil {
		return dto.StartOutput{}, err
	}
	i.active = &session
	i.persist(ctx, true)
	return dto.StartOutput{
		SessionID: session.ID,
		Category:  session.Category,
		StartedAt: session.StartedAt,
		EndsAt:    session.StartedAt.Add(time.Duration(session.PlannedSeconds) * time.Second),
	}, nil
}

func (i *Interactor) Tick(ctx context.Context) (dto.StatusOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return dto.StatusOutput{}, err
	}
	i.advance(ctx, true)
	return i.status(), nil
}

func (i *Interactor) AdjustTime(ctx context.Context, deltaMinutes int) (dto.StatusOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return dto.StatusOutput{}, err
	}
	if i.active == nil || !i.active.State.Active() {
		return dto.StatusOutput{}, apperrors.ErrNoActiveSession
	}
	i.advance(ctx, true)
	if err := i.active.Adjust(deltaMinutes, i.clock.Now()); err != nil {
		return dto.StatusOutput{}, err
	}
	i.persist(ctx, true)
	return i.status(), nil
}

func (i *Interactor) Submit(ctx context.Context, passed bool) (dto.ResolveOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return dto.ResolveOutput{}, err
	}
	// Highest priority: no residual alert regardless of what the rest
	// of this call does.
	i.alert.StopAll()
	if i.active == nil || !i.active.State.Active() {
		return dto.ResolveOutput{}, apperrors.ErrNoActiveSession
	}
	i.advance(ctx, false)
	if i.active.State != domain.StateVerifying {
		return dto.ResolveOutput{}, apperrors.ErrNotVerifying
	}
	now := i.clock.Now()
	if passed {
		minutes := i.active.CompletedMinutes()
		i.svc.Resolve(i.active, domain.StateCompleted, minutes, now)
	} else {
		i.svc.Resolve(i.active, domain.StateCancelled, 0, now)
	}
	return i.retire(ctx)
}

func (i *Interactor) Cancel(ctx context.Context) (dto.ResolveOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return dto.ResolveOutput{}, err
	}
	i.alert.StopAll()
	if i.active == nil || !i.active.State.Active() {
		return dto.ResolveOutput{}, apperrors.ErrNoActiveSession
	}
	i.advance(ctx, false)
	now := i.clock.Now()
	if i.active.State == domain.StateVerifying {
		// Abandoning a pending verification forfeits the session.
		i.svc.Resolve(i.active, domain.StateCancelled, 0, now)
	} else {
		// Time genuinely spent focusing counts even without the bell,
		// down to a single full-or-partial minute.
		i.svc.Resolve(i.active, domain.StateCancelled, i.active.PartialMinutes(), now)
	}
	return i.retire(ctx)
}

func (i *Interactor) Restore(ctx context.Context) (dto.StatusOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.loaded = false
	if err := i.ensureLoaded(ctx); err != nil {
		return dto.StatusOutput{}, err
	}
	if i.active == nil {
		return i.status(), nil
	}
	switch i.active.State {
	case domain.StateRunning:
		// May transition straight to Verifying when the countdown ran
		// out while the process was gone.
		i.advance(ctx, true)
	case domain.StateVerifying:
		// The alert must never silently fail to resume: its whole
		// purpose is to force acknowledgement.
		i.armAlert(ctx)
		i.publishExpired()
	}
	return i.status(), nil
}

func (i *Interactor) SetForeground(foreground bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.foreground = foreground
}

// Run drives the countdown while the session is Running and returns
// once it is not. Stale ticks are harmless by construction: a tick
// recomputes from timestamps and no-ops unless the slot is Running.
func (i *Interactor) Run(ctx context.Context) error {
	interval := time.Duration(i.timer.TickSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			status, err := i.Tick(ctx)
			if err != nil {
				return err
			}
			if status.State != string(domain.StateRunning) {
				return nil
			}
		}
	}
}

func (i *Interactor) History(ctx context.Context, limit int) ([]dto.HistoryEntry, error) {
	if i.projector == nil {
		return nil, nil
	}
	sessions, err := i.projector.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistoryEntry, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, dto.HistoryEntry{
			SessionID:       session.ID,
			Category:        session.Category,
			State:           string(session.State),
			StartedAt:       session.StartedAt,
			EndedAt:         session.EndedAt,
			PlannedSeconds:  session.PlannedSeconds,
			Credited:        session.Credited,
			CreditedMinutes: session.CreditedMinutes,
			Method:          string(session.Method),
		})
	}
	return out, nil
}

// advance folds elapsed time in and handles expiry. armAlert is false
// on the Submit/Cancel paths, where the verification is being resolved
// in the same call and ringing would be pointless.
func (i *Interactor) advance(ctx context.Context, armAlert bool) {
	if i.active == nil || i.active.State != domain.StateRunning {
		return
	}
	now := i.clock.Now()
	i.active.Advance(now)
	if i.active.RemainingSeconds > 0 {
		i.persist(ctx, false)
		return
	}
	i.svc.BeginVerification(i.active, now)
	i.persist(ctx, true)
	if armAlert {
		i.armAlert(ctx)
		i.publishExpired()
	}
}

// retire folds the resolved session into history, clears the slot and
// persists before any ledger call, which makes crediting at-most-once:
// a crash after the persist leaves a terminal snapshot, never a
// replayable active session.
func (i *Interactor) retire(ctx context.Context) (dto.ResolveOutput, error) {
	session := *i.active
	if i.journal != nil {
		if _, err := i.journal.Record(ctx, session); err != nil && i.logger != nil {
			i.logger.Printf("journal write failed: %v", err)
		}
	}
	if i.projector != nil {
		if err := i.projector.Upsert(ctx, session); err != nil && i.logger != nil {
			i.logger.Printf("history projection failed: %v", err)
		}
	}
	i.active = nil
	i.persist(ctx, true)

	out := dto.ResolveOutput{
		SessionID:       session.ID,
		Category:        session.Category,
		State:           string(session.State),
		Credited:        session.Credited,
		CreditedMinutes: session.CreditedMinutes,
	}
	if !session.Credited {
		return out, nil
	}
	added, err := i.ledger.AddCompletedMinutes(ctx, achievementdto.AddInput{
		Category: session.Category,
		Minutes:  session.CreditedMinutes,
	})
	if err != nil {
		return out, fmt.Errorf("credit achievements: %w", err)
	}
	out.Unlocks = added.Unlocks
	return out, nil
}

func (i *Interactor) armAlert(ctx context.Context) {
	capSeconds := i.timer.BackgroundAlertCapSeconds
	if i.foreground {
		capSeconds = i.timer.ForegroundAlertCapSeconds
	}
	if err := i.alert.StartRepeating(ctx, i.timer.AlertIntervalSeconds, capSeconds); err != nil && i.logger != nil {
		i.logger.Printf("alert start failed: %v", err)
	}
}

func (i *Interactor) publishExpired() {
	if i.sink == nil || i.active == nil {
		return
	}
	i.sink.SessionExpired(domain.ExpiredEvent{
		SessionID: i.active.ID,
		Category:  i.active.Category,
		Method:    i.active.Method,
		Prompt:    i.active.Method.Prompt(),
		At:        i.clock.Now(),
	})
}

func (i *Interactor) ensureLoaded(ctx context.Context) error {
	if i.loaded {
		return nil
	}
	snapshot, ok, err := i.snapshots.Load(ctx)
	if err != nil {
		return err
	}
	i.active = nil
	if ok {
		i.seq = snapshot.Seq
		if snapshot.Active != nil && snapshot.Active.State.Active() {
			session := *snapshot.Active
			i.active = &session
		}
	}
	i.loaded = true
	return nil
}

// persist writes a snapshot, forced on transitions and otherwise at
// the configured cadence; this bounds data loss from an unclean exit.
// A store that fails twice is logged and ignored: in-memory state
// stays authoritative for the rest of this process.
func (i *Interactor) persist(ctx context.Context, force bool) {
	now := i.clock.Now()
	interval := time.Duration(i.timer.SnapshotIntervalSeconds) * time.Second
	if !force && now.Sub(i.lastPersist) < interval {
		return
	}
	i.seq++
	snapshot := domain.Snapshot{SchemaVersion: domain.SchemaVersion, Seq: i.seq, Active: i.active}
	if err := i.snapshots.Save(ctx, snapshot); err != nil {
		if err = i.snapshots.Save(ctx, snapshot); err != nil {
			if i.logger != nil {
				i.logger.Printf("snapshot save failed: %v", err)
			}
			return
		}
	}
	i.lastPersist = now
}

func (i *Interactor) status() dto.StatusOutput {
	if i.active == nil || !i.active.State.Active() {
		return dto.StatusOutput{State: "idle"}
	}
	return dto.StatusOutput{
		SessionID:        i.active.ID,
		Category:         i.active.Category,
		State:            string(i.active.State),
		PlannedSeconds:   i.active.PlannedSeconds,
		RemainingSeconds: i.active.RemainingSeconds,
		Method:           string(i.active.Method),
		Prompt:           i.active.Method.Prompt(),
		StartedAt:        i.active.StartedAt,
	}
}
