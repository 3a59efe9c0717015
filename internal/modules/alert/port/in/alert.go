package in

import (
	"context"

	"vigil/internal/modules/alert/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.PluginInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	// Pulse fans one alert out to every enabled provider; per-provider
	// failures land in the results, not in the error.
	Pulse(ctx context.Context, input dto.PulseInput) (dto.PulseOutput, error)
}
