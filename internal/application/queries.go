package application

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/llmnexus/nexus/internal/domain"
)

// ExecuteResult carries everything the presentation layer renders for
// one request. MetricsPersisted is false when the telemetry append
// failed; the rest of the result is unaffected.
type ExecuteResult struct {
	RequestID        string
	Objective        domain.Objective
	Cohort           domain.Cohort
	Outcomes         map[domain.ModelID]domain.DispatchOutcome
	Summary          domain.Summary
	Elapsed          time.Duration
	MetricsPersisted bool
}

// OrderedOutcomes returns outcomes in cohort order for display.
func (r ExecuteResult) OrderedOutcomes() []domain.DispatchOutcome {
	ordered := make([]domain.DispatchOutcome, 0, len(r.Cohort))
	for _, model := range r.Cohort {
		if outcome, ok := r.Outcomes[model]; ok {
			ordered = append(ordered, outcome)
		}
	}
	return ordered
}

// ModelReport aggregates the metrics store per model, mirroring the
// original dashboard's performance tab.
type ModelReport struct {
	Model         domain.ModelID
	Requests      int
	Successes     int
	AvgLatencyMS  float64
	AvgLength     float64
	EstimatedCost decimal.Decimal
}

// BuildModelReports groups records by model. Latency averages over all
// requests; length averages over successful ones.
func BuildModelReports(records []domain.MetricsRecord) []ModelReport {
	byModel := make(map[domain.ModelID]*ModelReport)
	for _, record := range records {
		report, ok := byModel[record.Model]
		if !ok {
			report = &ModelReport{Model: record.Model, EstimatedCost: decimal.Zero}
			byModel[record.Model] = report
		}

		report.Requests++
		report.AvgLatencyMS += float64(record.LatencyMS)
		report.EstimatedCost = report.EstimatedCost.Add(record.EstimatedCost)
		if record.Success {
			report.Successes++
			report.AvgLength += float64(record.ResponseLength)
		}
	}

	reports := make([]ModelReport, 0, len(byModel))
	for _, report := range byModel {
		report.AvgLatencyMS /= float64(report.Requests)
		if report.Successes > 0 {
			report.AvgLength /= float64(report.Successes)
		}
		reports = append(reports, *report)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Model < reports[j].Model
	})

	return reports
}
