package in

import (
	"context"

	"vigil/internal/modules/achievement/dto"
	achievementin "vigil/internal/modules/achievement/port/in"
)

type CLIHandler struct {
	usecase achievementin.Usecase
}

func NewCLIHandler(usecase achievementin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.CategoryOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Add(ctx context.Context, category string, minutes int) (dto.AddOutput, error) {
	return h.usecase.AddCompletedMinutes(ctx, dto.AddInput{Category: category, Minutes: minutes})
}

func (h CLIHandler) ApplyWeeklyReset(ctx context.Context) (bool, error) {
	return h.usecase.CheckAndApplyWeeklyReset(ctx)
}
