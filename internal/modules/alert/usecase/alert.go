package usecase

import (
	"context"

	"vigil/internal/modules/alert/dto"
	alertin "vigil/internal/modules/alert/port/in"
	"vigil/internal/modules/alert/service"
)

type Interactor struct {
	svc *service.AlertService
}

func NewInteractor(svc *service.AlertService) alertin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Pulse(ctx context.Context, input dto.PulseInput) (dto.PulseOutput, error) {
	results, err := i.svc.Pulse(ctx, input.Message, input.Method)
	if err != nil {
		return dto.PulseOutput{}, err
	}
	out := dto.PulseOutput{Results: make([]dto.PulseResult, 0, len(results))}
	for _, result := range results {
		out.Results = append(out.Results, dto.PulseResult{Plugin: result.Plugin, Error: result.Err})
	}
	return out, nil
}
