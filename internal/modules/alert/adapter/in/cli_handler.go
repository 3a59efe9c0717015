package in

import (
	"context"

	"vigil/internal/modules/alert/dto"
	alertin "vigil/internal/modules/alert/port/in"
)

type CLIHandler struct {
	usecase alertin.Usecase
}

func NewCLIHandler(usecase alertin.Usecase) *CLIHandler {
	return &CLIHandler{usecase: usecase}
}

func (h *CLIHandler) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return h.usecase.List(ctx)
}

func (h *CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

func (h *CLIHandler) Pulse(ctx context.Context, message, method string) (dto.PulseOutput, error) {
	return h.usecase.Pulse(ctx, dto.PulseInput{Message: message, Method: method})
}
