package domain

import (
	"fmt"
	"strings"
	"time"

	"vigil/internal/platform/calendar"
	apperrors "vigil/internal/platform/errors"
)

const SchemaVersion = 1

type Category string

const (
	CategoryWork        Category = "work"
	CategoryStudy       Category = "study"
	CategoryExercise    Category = "exercise"
	CategoryMindfulness Category = "mindfulness"
	CategoryRest        Category = "rest"

	// Derived categories advanced automatically whenever any session
	// is credited, not by direct minute sums.
	CategoryBalanceMaster Category = "balance-master"
	CategoryWeeklyStreak  Category = "weekly-streak"
)

// UpdateRule selects how a credit mutates the cumulative value.
type UpdateRule string

const (
	RuleSum          UpdateRule = "sum"
	RuleStreakDaily  UpdateRule = "streak_daily"
	RuleStreakWeekly UpdateRule = "streak_weekly"
)

func (r UpdateRule) Validate() error {
	switch r {
	case RuleSum, RuleStreakDaily, RuleStreakWeekly:
		return nil
	default:
		return fmt.Errorf("unknown update rule %q", string(r))
	}
}

// ThresholdTable is an ordered ascending list of cumulative values
// defining levels 1..N.
type ThresholdTable []int

func (t ThresholdTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty table", apperrors.ErrInvalidThresholds)
	}
	prev := 0
	for _, v := range t {
		if v <= prev {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidThresholds, []int(t))
		}
		prev = v
	}
	return nil
}

// Level is the count of thresholds at or below value. Negative input
// clamps to level 0.
func (t ThresholdTable) Level(value int) int {
	level := 0
	for _, threshold := range t {
		if value < threshold {
			break
		}
		level++
	}
	return level
}

// Progress is the linear interpolation toward the next level, 0..1.
// At the max level it is 1.
func (t ThresholdTable) Progress(value int) float64 {
	if value < 0 {
		value = 0
	}
	level := t.Level(value)
	if level >= len(t) {
		return 1.0
	}
	lower := 0
	if level > 0 {
		lower = t[level-1]
	}
	upper := t[level]
	return float64(value-lower) / float64(upper-lower)
}

// UnitsToNext is how much cumulative value remains until the next
// level, 0 at the max level.
func (t ThresholdTable) UnitsToNext(value int) int {
	if value < 0 {
		value = 0
	}
	level := t.Level(value)
	if level >= len(t) {
		return 0
	}
	return t[level] - value
}

func (t ThresholdTable) MaxLevel() int {
	return len(t)
}

type CategorySpec struct {
	Name       Category       `yaml:"name"`
	Title      string         `yaml:"title"`
	Rule       UpdateRule     `yaml:"rule"`
	Periodic   bool           `yaml:"periodic"`
	Thresholds ThresholdTable `yaml:"thresholds"`
}

func (s CategorySpec) Validate() error {
	if strings.TrimSpace(string(s.Name)) == "" {
		return fmt.Errorf("category name is required")
	}
	if err := s.Rule.Validate(); err != nil {
		return err
	}
	return s.Thresholds.Validate()
}

// Catalog is the full static achievement configuration: one spec per
// category, order preserved for display.
type Catalog struct {
	specs  []CategorySpec
	byName map[Category]CategorySpec
}

func NewCatalog(specs []CategorySpec) (Catalog, error) {
	byName := make(map[Category]CategorySpec, len(specs))
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return Catalog{}, fmt.Errorf("category %s: %w", spec.Name, err)
		}
		if _, ok := byName[spec.Name]; ok {
			return Catalog{}, fmt.Errorf("duplicate category %s", spec.Name)
		}
		byName[spec.Name] = spec
	}
	return Catalog{specs: specs, byName: byName}, nil
}

func (c Catalog) Spec(name Category) (CategorySpec, error) {
	spec, ok := c.byName[name]
	if !ok {
		return CategorySpec{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownCategory, name)
	}
	return spec, nil
}

func (c Catalog) Has(name Category) bool {
	_, ok := c.byName[name]
	return ok
}

func (c Catalog) Specs() []CategorySpec {
	out := make([]CategorySpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Creditable lists the categories a session may be started against:
// everything accrued by direct minute sums.
func (c Catalog) Creditable() []Category {
	out := make([]Category, 0, len(c.specs))
	for _, spec := range c.specs {
		if spec.Rule == RuleSum {
			out = append(out, spec.Name)
		}
	}
	return out
}

// Record is the mutable per-category ledger entry.
type Record struct {
	CumulativeValue int       `json:"cumulative_value"`
	UnlockedLevels  []int     `json:"unlocked_levels"`
	LastUpdated     time.Time `json:"last_updated"`
}

func (r Record) MaxUnlocked() int {
	max := 0
	for _, level := range r.UnlockedLevels {
		if level > max {
			max = level
		}
	}
	return max
}

// Ledger is the persisted achievement state.
type Ledger struct {
	SchemaVersion int                  `json:"schema_version"`
	Records       map[Category]*Record `json:"records"`
	LastResetWeek calendar.Week        `json:"last_reset_week"`
}

func NewLedger() Ledger {
	return Ledger{SchemaVersion: SchemaVersion, Records: map[Category]*Record{}}
}

// Record returns the entry for a category, creating it on first use.
func (l *Ledger) Record(name Category) *Record {
	if l.Records == nil {
		l.Records = map[Category]*Record{}
	}
	record, ok := l.Records[name]
	if !ok {
		record = &Record{}
		l.Records[name] = record
	}
	return record
}

// UnlockEvent reports one newly crossed level.
type UnlockEvent struct {
	Category  Category
	Level     int
	Threshold int
	At        time.Time
}

func DefaultCatalog() Catalog {
	hours := func(values ...int) ThresholdTable {
		out := make(ThresholdTable, len(values))
		for i, v := range values {
			out[i] = v * 60
		}
		return out
	}
	catalog, err := NewCatalog([]CategorySpec{
		{Name: CategoryWork, Title: "Deep Work", Rule: RuleSum, Thresholds: hours(5, 15, 40, 80, 150, 300)},
		{Name: CategoryStudy, Title: "Scholar", Rule: RuleSum, Thresholds: hours(5, 15, 40, 80, 150, 300)},
		{Name: CategoryExercise, Title: "In Motion", Rule: RuleSum, Thresholds: hours(2, 6, 15, 30, 60, 120)},
		{Name: CategoryMindfulness, Title: "Still Mind", Rule: RuleSum, Thresholds: hours(1, 3, 8, 20, 45, 90)},
		{Name: CategoryRest, Title: "Well Rested", Rule: RuleSum, Thresholds: hours(2, 6, 15, 30, 60, 120)},
		{Name: CategoryBalanceMaster, Title: "Balance Master", Rule: RuleStreakDaily, Periodic: true, Thresholds: ThresholdTable{2, 3, 4, 5, 6, 7}},
		{Name: CategoryWeeklyStreak, Title: "Week After Week", Rule: RuleStreakWeekly, Thresholds: ThresholdTable{2, 4, 8, 16, 32, 52}},
	})
	if err != nil {
		panic(err)
	}
	return catalog
}
