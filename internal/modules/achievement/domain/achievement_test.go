package domain_test

import (
	"errors"
	"testing"

	"vigil/internal/modules/achievement/domain"
	apperrors "vigil/internal/platform/errors"
)

func TestThresholdTableValidate(t *testing.T) {
	t.Parallel()
	if err := (domain.ThresholdTable{}).Validate(); !errors.Is(err, apperrors.ErrInvalidThresholds) {
		t.Fatalf("expected ErrInvalidThresholds for empty table, got %v", err)
	}
	if err := (domain.ThresholdTable{100, 100, 200}).Validate(); !errors.Is(err, apperrors.ErrInvalidThresholds) {
		t.Fatalf("expected ErrInvalidThresholds for non-ascending table, got %v", err)
	}
	if err := (domain.ThresholdTable{0, 100}).Validate(); !errors.Is(err, apperrors.ErrInvalidThresholds) {
		t.Fatalf("expected ErrInvalidThresholds for non-positive threshold, got %v", err)
	}
	if err := (domain.ThresholdTable{100, 200, 300}).Validate(); err != nil {
		t.Fatalf("valid table rejected: %v", err)
	}
}

func TestThresholdTableLevel(t *testing.T) {
	t.Parallel()
	table := domain.ThresholdTable{100, 200, 300}
	for _, tc := range []struct {
		value int
		level int
	}{
		{-50, 0},
		{0, 0},
		{99, 0},
		{100, 1},
		{250, 2},
		{300, 3},
		{10000, 3},
	} {
		if got := table.Level(tc.value); got != tc.level {
			t.Fatalf("Level(%d) = %d, want %d", tc.value, got, tc.level)
		}
	}
}

func TestThresholdTableProgress(t *testing.T) {
	t.Parallel()
	table := domain.ThresholdTable{100, 200}
	if got := table.Progress(50); got != 0.5 {
		t.Fatalf("Progress(50) = %f, want 0.5", got)
	}
	if got := table.Progress(150); got != 0.5 {
		t.Fatalf("Progress(150) = %f, want 0.5", got)
	}
	if got := table.Progress(-10); got != 0 {
		t.Fatalf("Progress(-10) = %f, want 0", got)
	}
	if got := table.Progress(200); got != 1 {
		t.Fatalf("Progress(200) = %f, want 1", got)
	}
	if got := table.UnitsToNext(150); got != 50 {
		t.Fatalf("UnitsToNext(150) = %d, want 50", got)
	}
	if got := table.UnitsToNext(200); got != 0 {
		t.Fatalf("UnitsToNext(200) = %d, want 0", got)
	}
}

func TestCatalogRejectsDuplicates(t *testing.T) {
	t.Parallel()
	_, err := domain.NewCatalog([]domain.CategorySpec{
		{Name: "work", Title: "Work", Rule: domain.RuleSum, Thresholds: domain.ThresholdTable{60}},
		{Name: "work", Title: "Work again", Rule: domain.RuleSum, Thresholds: domain.ThresholdTable{60}},
	})
	if err == nil {
		t.Fatalf("expected duplicate category error")
	}
}

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()
	catalog := domain.DefaultCatalog()
	creditable := catalog.Creditable()
	if len(creditable) != 5 {
		t.Fatalf("expected 5 creditable categories, got %v", creditable)
	}
	for _, name := range creditable {
		if name == domain.CategoryBalanceMaster || name == domain.CategoryWeeklyStreak {
			t.Fatalf("derived category %s must not be creditable", name)
		}
	}
	spec, err := catalog.Spec(domain.CategoryBalanceMaster)
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	if !spec.Periodic || spec.Rule != domain.RuleStreakDaily {
		t.Fatalf("balance-master misconfigured: %+v", spec)
	}
}

func TestLedgerRecordAutoCreate(t *testing.T) {
	t.Parallel()
	ledger := domain.NewLedger()
	record := ledger.Record("work")
	record.CumulativeValue = 42
	if ledger.Record("work").CumulativeValue != 42 {
		t.Fatalf("record must be shared by reference")
	}
	if (domain.Record{UnlockedLevels: []int{2, 1, 3}}).MaxUnlocked() != 3 {
		t.Fatalf("MaxUnlocked wrong")
	}
}
