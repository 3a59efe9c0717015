package out

import (
	"context"

	"vigil/internal/modules/session/domain"
)

// SnapshotStore persists the controller's single snapshot record.
// Save must be durably verifiable (read-after-write); Load reports
// ok=false when no usable snapshot exists.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot domain.Snapshot) error
	Load(ctx context.Context) (domain.Snapshot, bool, error)
}

// HistoryStore records sessions that left the active slot.
type HistoryStore interface {
	Record(ctx context.Context, session domain.Session) (string, error)
}

// HistoryProjector maintains the queryable read model of finished
// sessions.
type HistoryProjector interface {
	Upsert(ctx context.Context, session domain.Session) error
	List(ctx context.Context, limit int) ([]domain.Session, error)
}

// AlertChannel produces repeating audible feedback during
// verification. StartRepeating replaces any running schedule; StopAll
// is idempotent and safe with no alert active.
type AlertChannel interface {
	StartRepeating(ctx context.Context, intervalSeconds, durationCapSeconds int) error
	StopAll()
}

// ExpirySink receives expiry notifications fire-and-forget.
type ExpirySink interface {
	SessionExpired(event domain.ExpiredEvent)
}
