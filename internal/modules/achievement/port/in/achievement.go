package in

import (
	"context"

	"vigil/internal/modules/achievement/dto"
)

type Usecase interface {
	// AddCompletedMinutes credits a finished session and returns one
	// unlock event per newly crossed level, ascending.
	AddCompletedMinutes(ctx context.Context, input dto.AddInput) (dto.AddOutput, error)
	// CheckAndApplyWeeklyReset zeroes periodic categories when the ISO
	// week has changed since the last reset.
	CheckAndApplyWeeklyReset(ctx context.Context) (bool, error)
	Level(ctx context.Context, category string) (int, error)
	ProgressPercentage(ctx context.Context, category string) (float64, error)
	MinutesToNextLevel(ctx context.Context, category string) (int, error)
	List(ctx context.Context) ([]dto.CategoryOutput, error)
	// CreditableCategories lists the categories a session may target.
	CreditableCategories(ctx context.Context) ([]string, error)
}
