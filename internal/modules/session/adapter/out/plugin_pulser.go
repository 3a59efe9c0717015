package out

import (
	"context"

	alertdto "vigil/internal/modules/alert/dto"
	alertin "vigil/internal/modules/alert/port/in"
)

// PluginPulser forwards each pulse to every enabled alert plugin.
type PluginPulser struct {
	alerts alertin.Usecase
}

func NewPluginPulser(alerts alertin.Usecase) *PluginPulser {
	return &PluginPulser{alerts: alerts}
}

func (p *PluginPulser) Pulse(ctx context.Context) error {
	_, err := p.alerts.Pulse(ctx, alertdto.PulseInput{Message: "focus session awaiting verification"})
	return err
}
