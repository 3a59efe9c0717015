package in

import (
	"context"

	"vigil/internal/modules/session/dto"
	sessionin "vigil/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, category string, durationSeconds int) (dto.StartOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{Category: category, DurationSeconds: durationSeconds})
}

func (h CLIHandler) Status(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Tick(ctx)
}

func (h CLIHandler) Adjust(ctx context.Context, deltaMinutes int) (dto.StatusOutput, error) {
	return h.usecase.AdjustTime(ctx, deltaMinutes)
}

func (h CLIHandler) Submit(ctx context.Context, passed bool) (dto.ResolveOutput, error) {
	return h.usecase.Submit(ctx, passed)
}

func (h CLIHandler) Cancel(ctx context.Context) (dto.ResolveOutput, error) {
	return h.usecase.Cancel(ctx)
}

func (h CLIHandler) Restore(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Restore(ctx)
}

func (h CLIHandler) Run(ctx context.Context) error {
	return h.usecase.Run(ctx)
}

func (h CLIHandler) SetForeground(foreground bool) {
	h.usecase.SetForeground(foreground)
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]dto.HistoryEntry, error) {
	return h.usecase.History(ctx, limit)
}
