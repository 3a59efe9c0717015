package in

import (
	"context"

	"vigil/internal/modules/session/dto"
)

type Usecase interface {
	// Start opens a session; fails with ErrSessionActive while another
	// session occupies the active slot.
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	// Tick folds elapsed wall-clock time into the countdown and
	// performs the Expired -> Verifying transition when it hits zero.
	// Callers drive it once per second while a countdown is visible;
	// it is also how a fresh process learns the authoritative state.
	Tick(ctx context.Context) (dto.StatusOutput, error)
	AdjustTime(ctx context.Context, deltaMinutes int) (dto.StatusOutput, error)
	// Submit resolves a pending verification. The alert is stopped
	// before anything else, even when crediting fails.
	Submit(ctx context.Context, passed bool) (dto.ResolveOutput, error)
	Cancel(ctx context.Context) (dto.ResolveOutput, error)
	// Restore recovers the persisted slot after a process start,
	// re-arming the alert when a verification was pending.
	Restore(ctx context.Context) (dto.StatusOutput, error)
	// SetForeground switches the alert duration cap between the short
	// foreground profile and the longer background one.
	SetForeground(foreground bool)
	// Run drives Tick on the configured cadence until ctx ends.
	Run(ctx context.Context) error
	History(ctx context.Context, limit int) ([]dto.HistoryEntry, error)
}
