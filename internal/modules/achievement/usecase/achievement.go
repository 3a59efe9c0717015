package usecase

import (
	"context"
	"log"
	"sync"

	"vigil/internal/modules/achievement/domain"
	"vigil/internal/modules/achievement/dto"
	achievementin "vigil/internal/modules/achievement/port/in"
	achievementout "vigil/internal/modules/achievement/port/out"
	"vigil/internal/modules/achievement/service"
	"vigil/internal/platform/clock"
)

// Interactor owns the ledger. All mutations run under one mutex and
// persist synchronously before returning, so callers never observe a
// half-applied credit.
type Interactor struct {
	mu     sync.Mutex
	svc    *service.LedgerService
	store  achievementout.LedgerStore
	sink   achievementout.UnlockSink
	clock  clock.Clock
	logger *log.Logger

	ledger domain.Ledger
	loaded bool
}

func NewInteractor(svc *service.LedgerService, store achievementout.LedgerStore, sink achievementout.UnlockSink, clk clock.Clock, logger *log.Logger) achievementin.Usecase {
	return &Interactor{svc: svc, store: store, sink: sink, clock: clk, logger: logger}
}

func (i *Interactor) AddCompletedMinutes(ctx context.Context, input dto.AddInput) (dto.AddOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return dto.AddOutput{}, err
	}
	now := i.clock.Now()

	// The reset must never be skipped because the process was not
	// running at the week boundary.
	i.svc.ApplyWeeklyReset(&i.ledger, now)

	events, err := i.svc.Credit(&i.ledger, domain.Category(input.Category), input.Minutes, now)
	if err != nil {
		return dto.AddOutput{}, err
	}

	// A credited session also advances every streak category.
	spec, specErr := i.svc.Catalog().Spec(domain.Category(input.Category))
	if specErr == nil && spec.Rule == domain.RuleSum {
		for _, derived := range i.svc.Catalog().Specs() {
			if derived.Rule == domain.RuleSum {
				continue
			}
			derivedEvents, advErr := i.svc.Advance(&i.ledger, derived.Name, now)
			if advErr != nil {
				continue
			}
			events = append(events, derivedEvents...)
		}
	}

	i.persist(ctx)
	for _, event := range events {
		if i.sink != nil {
			i.sink.UnlockAchieved(event)
		}
	}

	record := i.ledger.Record(domain.Category(input.Category))
	level, _ := i.svc.Level(&i.ledger, domain.Category(input.Category))
	return dto.AddOutput{
		Category: input.Category,
		Value:    record.CumulativeValue,
		Level:    level,
		Unlocks:  toUnlockDTOs(events),
	}, nil
}

func (i *Interactor) CheckAndApplyWeeklyReset(ctx context.Context) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return false, err
	}
	applied := i.svc.ApplyWeeklyReset(&i.ledger, i.clock.Now())
	i.persist(ctx)
	return applied, nil
}

func (i *Interactor) Level(ctx context.Context, category string) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	return i.svc.Level(&i.ledger, domain.Category(category))
}

func (i *Interactor) ProgressPercentage(ctx context.Context, category string) (float64, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	ratio, err := i.svc.Progress(&i.ledger, domain.Category(category))
	if err != nil {
		return 0, err
	}
	return ratio * 100, nil
}

func (i *Interactor) MinutesToNextLevel(ctx context.Context, category string) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	return i.svc.UnitsToNext(&i.ledger, domain.Category(category))
}

func (i *Interactor) List(ctx context.Context) ([]dto.CategoryOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	specs := i.svc.Catalog().Specs()
	out := make([]dto.CategoryOutput, 0, len(specs))
	for _, spec := range specs {
		record := i.ledger.Record(spec.Name)
		out = append(out, dto.CategoryOutput{
			Category:    string(spec.Name),
			Title:       spec.Title,
			Rule:        string(spec.Rule),
			Periodic:    spec.Periodic,
			Value:       record.CumulativeValue,
			Level:       spec.Thresholds.Level(record.CumulativeValue),
			MaxLevel:    spec.Thresholds.MaxLevel(),
			Progress:    spec.Thresholds.Progress(record.CumulativeValue) * 100,
			UnitsToNext: spec.Thresholds.UnitsToNext(record.CumulativeValue),
			LastUpdated: record.LastUpdated,
		})
	}
	return out, nil
}

func (i *Interactor) CreditableCategories(_ context.Context) ([]string, error) {
	creditable := i.svc.Catalog().Creditable()
	out := make([]string, 0, len(creditable))
	for _, category := range creditable {
		out = append(out, string(category))
	}
	return out, nil
}

func (i *Interactor) ensureLoaded(ctx context.Context) error {
	if i.loaded {
		return nil
	}
	ledger, ok, err := i.store.Load(ctx)
	if err != nil {
		return err
	}
	if !ok {
		ledger = domain.NewLedger()
	}
	i.ledger = ledger
	i.loaded = true
	return nil
}

// persist retries once; a store that still fails is logged and the
// in-memory ledger stays authoritative for this process lifetime.
func (i *Interactor) persist(ctx context.Context) {
	if err := i.store.Save(ctx, i.ledger); err != nil {
		if err = i.store.Save(ctx, i.ledger); err != nil && i.logger != nil {
			i.logger.Printf("ledger save failed: %v", err)
		}
	}
}

func toUnlockDTOs(events []domain.UnlockEvent) []dto.Unlock {
	out := make([]dto.Unlock, 0, len(events))
	for _, event := range events {
		out = append(out, dto.Unlock{
			Category:  string(event.Category),
			Level:     event.Level,
			Threshold: event.Threshold,
			At:        event.At,
		})
	}
	return out
}
