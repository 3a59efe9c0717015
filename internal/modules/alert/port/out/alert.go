package out

import (
	"context"

	"vigil/internal/modules/alert/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Pulse(ctx context.Context, manifest domain.Manifest, request domain.PulseRequest) error
}
