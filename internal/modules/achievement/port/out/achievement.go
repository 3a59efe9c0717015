package out

import (
	"context"

	"vigil/internal/modules/achievement/domain"
)

type LedgerStore interface {
	// Load returns the persisted ledger; ok is false when no usable
	// ledger exists (absent or undecodable).
	Load(ctx context.Context) (domain.Ledger, bool, error)
	Save(ctx context.Context, ledger domain.Ledger) error
}

// UnlockSink receives unlock events fire-and-forget; implementations
// must not block the ledger.
type UnlockSink interface {
	UnlockAchieved(event domain.UnlockEvent)
}
