package ports

import (
	"context"

	"github.com/llmnexus/nexus/internal/domain"
)

// MetricsStore is an append-only telemetry sink. Append persists all
// records as one logical operation; each record must remain
// independently readable even if a later append fails mid-write.
type MetricsStore interface {
	Append(ctx context.Context, records []domain.MetricsRecord) error
	List(ctx context.Context) ([]domain.MetricsRecord, error)
}
