package service

import (
	"fmt"
	"time"

	"vigil/internal/modules/achievement/domain"
	"vigil/internal/platform/calendar"
	apperrors "vigil/internal/platform/errors"
)

// LedgerService holds the pure progression rules: value updates,
// level computation and the unlock invariant
// level(cumulativeValue) == max(unlockedLevels) after every mutation.
type LedgerService struct {
	catalog domain.Catalog
}

func NewLedgerService(catalog domain.Catalog) *LedgerService {
	return &LedgerService{catalog: catalog}
}

func (s *LedgerService) Catalog() domain.Catalog {
	return s.catalog
}

// Credit applies one addition to a category and returns the unlock
// events for every newly crossed level, ascending. An update can cross
// more than one threshold in a single call.
func (s *LedgerService) Credit(ledger *domain.Ledger, category domain.Category, minutes int, now time.Time) ([]domain.UnlockEvent, error) {
	spec, err := s.catalog.Spec(category)
	if err != nil {
		return nil, err
	}
	if minutes <= 0 {
		return nil, fmt.Errorf("%w: minutes must be positive", apperrors.ErrInvalidInput)
	}
	record := ledger.Record(category)
	switch spec.Rule {
	case domain.RuleSum:
		record.CumulativeValue += minutes
	case domain.RuleStreakDaily:
		record.CumulativeValue = advanceDailyStreak(record, now)
	case domain.RuleStreakWeekly:
		record.CumulativeValue = advanceWeeklyStreak(record, now)
	}
	record.LastUpdated = now
	return s.recordUnlocks(spec, record, now), nil
}

// Advance moves a streak category forward because a session completed,
// without any minute amount. No-op for sum categories and for repeat
// updates on the same day/week.
func (s *LedgerService) Advance(ledger *domain.Ledger, category domain.Category, now time.Time) ([]domain.UnlockEvent, error) {
	spec, err := s.catalog.Spec(category)
	if err != nil {
		return nil, err
	}
	if spec.Rule == domain.RuleSum {
		return nil, nil
	}
	record := ledger.Record(category)
	switch spec.Rule {
	case domain.RuleStreakDaily:
		record.CumulativeValue = advanceDailyStreak(record, now)
	case domain.RuleStreakWeekly:
		record.CumulativeValue = advanceWeeklyStreak(record, now)
	}
	record.LastUpdated = now
	return s.recordUnlocks(spec, record, now), nil
}

// ApplyWeeklyReset zeroes the cumulative value of every periodic
// category when the ISO week changed. Unlock history is preserved:
// past unlocks are never revoked.
func (s *LedgerService) ApplyWeeklyReset(ledger *domain.Ledger, now time.Time) bool {
	week := calendar.WeekOf(now)
	if !ledger.LastResetWeek.IsZero() && ledger.LastResetWeek.Equal(week) {
		return false
	}
	applied := false
	if !ledger.LastResetWeek.IsZero() {
		for _, spec := range s.catalog.Specs() {
			if !spec.Periodic {
				continue
			}
			if record, ok := ledger.Records[spec.Name]; ok {
				record.CumulativeValue = 0
				record.LastUpdated = now
				applied = true
			}
		}
	}
	ledger.LastResetWeek = week
	return applied
}

func (s *LedgerService) Level(ledger *domain.Ledger, category domain.Category) (int, error) {
	spec, err := s.catalog.Spec(category)
	if err != nil {
		return 0, err
	}
	return spec.Thresholds.Level(ledger.Record(category).CumulativeValue), nil
}

func (s *LedgerService) Progress(ledger *domain.Ledger, category domain.Category) (float64, error) {
	spec, err := s.catalog.Spec(category)
	if err != nil {
		return 0, err
	}
	return spec.Thresholds.Progress(ledger.Record(category).CumulativeValue), nil
}

func (s *LedgerService) UnitsToNext(ledger *domain.Ledger, category domain.Category) (int, error) {
	spec, err := s.catalog.Spec(category)
	if err != nil {
		return 0, err
	}
	return spec.Thresholds.UnitsToNext(ledger.Record(category).CumulativeValue), nil
}

// recordUnlocks appends every level in (oldMax, newLevel] to the
// record and returns matching events, in ascending order. Notifying
// and recording happen in the same step so the invariant never
// observes a gap.
func (s *LedgerService) recordUnlocks(spec domain.CategorySpec, record *domain.Record, now time.Time) []domain.UnlockEvent {
	newLevel := spec.Thresholds.Level(record.CumulativeValue)
	oldMax := record.MaxUnlocked()
	if newLevel <= oldMax {
		return nil
	}
	events := make([]domain.UnlockEvent, 0, newLevel-oldMax)
	for level := oldMax + 1; level <= newLevel; level++ {
		record.UnlockedLevels = append(record.UnlockedLevels, level)
		events = append(events, domain.UnlockEvent{
			Category:  spec.Name,
			Level:     level,
			Threshold: spec.Thresholds[level-1],
			At:        now,
		})
	}
	return events
}

func advanceDailyStreak(record *domain.Record, now time.Time) int {
	switch {
	case record.CumulativeValue > 0 && calendar.SameDay(record.LastUpdated, now):
		return record.CumulativeValue
	case record.CumulativeValue > 0 && calendar.Yesterday(record.LastUpdated, now):
		return record.CumulativeValue + 1
	default:
		return 1
	}
}

func advanceWeeklyStreak(record *domain.Record, now time.Time) int {
	last := calendar.WeekOf(record.LastUpdated)
	current := calendar.WeekOf(now)
	switch {
	case record.CumulativeValue > 0 && last.Equal(current):
		return record.CumulativeValue
	case record.CumulativeValue > 0 && last.Previous(current):
		return record.CumulativeValue + 1
	default:
		return 1
	}
}
