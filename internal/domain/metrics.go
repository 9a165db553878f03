package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MetricsRecord is one append-only telemetry row. The field set and its
// CSV column order are a compatibility surface for dashboard consumers.
type MetricsRecord struct {
	Timestamp      time.Time
	User           string
	Model          ModelID
	LatencyMS      int64
	ResponseLength int
	Success        bool
	EstimatedCost  decimal.Decimal
}

// Summary is the caller-facing digest of one dispatch, derived purely
// from the outcomes with no further backend work.
type Summary struct {
	TotalCost    decimal.Decimal
	AvgLatency   time.Duration
	SuccessCount int
	FailureCount int
}

// BuildRecords converts outcomes to metrics records, one per cohort
// member in model-ID order. Failed outcomes get zero length and cost.
func BuildRecords(now time.Time, user string, outcomes map[ModelID]DispatchOutcome, prices PriceTable) []MetricsRecord {
	records := make([]MetricsRecord, 0, len(outcomes))
	for _, outcome := range sortedOutcomes(outcomes) {
		record := MetricsRecord{
			Timestamp:     now,
			User:          user,
			Model:         outcome.Model,
			LatencyMS:     outcome.Latency.Milliseconds(),
			Success:       outcome.Success(),
			EstimatedCost: decimal.Zero,
		}
		if outcome.Success() {
			record.ResponseLength = ResponseLength(outcome.Response)
			record.EstimatedCost = prices.EstimateCost(outcome.Model, record.ResponseLength)
		}

		records = append(records, record)
	}

	return records
}

// Summarize derives the display summary. AvgLatency is zero when no
// outcome succeeded.
func Summarize(outcomes map[ModelID]DispatchOutcome, prices PriceTable) Summary {
	summary := Summary{TotalCost: decimal.Zero}

	var latencySum time.Duration
	for _, outcome := range outcomes {
		if !outcome.Success() {
			summary.FailureCount++
			continue
		}

		summary.SuccessCount++
		latencySum += outcome.Latency
		summary.TotalCost = summary.TotalCost.Add(prices.EstimateCost(outcome.Model, ResponseLength(outcome.Response)))
	}

	if summary.SuccessCount > 0 {
		summary.AvgLatency = latencySum / time.Duration(summary.SuccessCount)
	}

	return summary
}

func sortedOutcomes(outcomes map[ModelID]DispatchOutcome) []DispatchOutcome {
	result := make([]DispatchOutcome, 0, len(outcomes))
	for _, outcome := range outcomes {
		result = append(result, outcome)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Model < result[j].Model
	})

	return result
}
