package application

import (
	"context"
	"fmt"

	"github.com/llmnexus/nexus/internal/domain"
	"github.com/llmnexus/nexus/internal/ports"
)

// Recorder turns dispatch outcomes into metrics records and a display
// summary. The summary never depends on the append succeeding.
type Recorder struct {
	store  ports.MetricsStore
	prices domain.PriceTable
	clock  ports.Clock
}

func NewRecorder(store ports.MetricsStore, prices domain.PriceTable, clock ports.Clock) *Recorder {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Recorder{store: store, prices: prices, clock: clock}
}

// Record appends one record per outcome in a single store operation and
// returns the summary. A non-nil error means the append failed; the
// summary is still valid and the caller should treat the error as a
// warning, not roll back the result.
func (r *Recorder) Record(ctx context.Context, userID string, outcomes map[domain.ModelID]domain.DispatchOutcome) (domain.Summary, error) {
	summary := domain.Summarize(outcomes, r.prices)
	if len(outcomes) == 0 {
		return summary, nil
	}

	records := domain.BuildRecords(r.clock.Now(), userID, outcomes, r.prices)
	if err := r.store.Append(ctx, records); err != nil {
		return summary, fmt.Errorf("append metrics records: %w", err)
	}

	return summary, nil
}
