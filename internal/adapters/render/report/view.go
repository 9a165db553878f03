package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llmnexus/nexus/internal/application"
	"github.com/llmnexus/nexus/internal/domain"
)

// RenderResult renders one query's cohort outcomes and summary.
func RenderResult(result application.ExecuteResult) (string, error) {
	return render(func(s styles) string {
		return renderResultView(result, s)
	})
}

// RenderReports renders the per-model aggregates of the metrics store.
func RenderReports(reports []application.ModelReport) (string, error) {
	return render(func(s styles) string {
		return renderReportView(reports, s)
	})
}

// RenderCatalog renders the configured model catalog.
func RenderCatalog(catalog []domain.ModelSpec) (string, error) {
	return render(func(s styles) string {
		return renderCatalogView(catalog, s)
	})
}

func renderResultView(result application.ExecuteResult, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Objective: %s", result.Objective.Label())),
		s.header.Render(fmt.Sprintf("cohort: %s · elapsed: %s", joinCohort(result.Cohort), result.Elapsed.Round(time.Millisecond))),
	}

	for _, outcome := range result.OrderedOutcomes() {
		lines = append(lines, s.section.Render(renderOutcome(outcome, s)))
	}

	lines = append(lines, s.section.Render(renderSummary(result.Summary, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderOutcome(outcome domain.DispatchOutcome, s styles) string {
	header := s.model.Render(string(outcome.Model))

	if !outcome.Success() {
		detail := s.warning.Render(fmt.Sprintf("%s: %s", outcome.Failure, outcome.Cause))
		return lipgloss.JoinVertical(lipgloss.Left, header, detail)
	}

	meta := s.metaVal.Render(fmt.Sprintf("%dms · %d chars", outcome.Latency.Milliseconds(), domain.ResponseLength(outcome.Response)))
	body := s.response.Render(outcome.Response)

	return lipgloss.JoinVertical(lipgloss.Left, header, meta, body)
}

func renderSummary(summary domain.Summary, s styles) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		s.title.Render("Summary"),
		s.detail.Render(fmt.Sprintf("estimated cost: $%s", summary.TotalCost.StringFixed(4))),
		s.detail.Render(fmt.Sprintf("average latency: %dms", summary.AvgLatency.Milliseconds())),
		s.detail.Render(fmt.Sprintf("succeeded: %d · failed: %d", summary.SuccessCount, summary.FailureCount)),
	)
}

func renderReportView(reports []application.ModelReport, s styles) string {
	lines := []string{
		s.title.Render("Model Performance"),
		s.header.Render(fmt.Sprintf("models: %d", len(reports))),
	}

	if len(reports) == 0 {
		lines = append(lines, s.empty.Render("No metrics recorded yet. Run some queries first."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, report := range reports {
		lines = append(lines, s.section.Render(renderModelReport(report, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderModelReport(report application.ModelReport, s styles) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		s.model.Render(string(report.Model)),
		s.detail.Render(fmt.Sprintf("requests: %d · succeeded: %d", report.Requests, report.Successes)),
		s.detail.Render(fmt.Sprintf("avg latency: %.0fms · avg length: %.0f chars", report.AvgLatencyMS, report.AvgLength)),
		s.detail.Render(fmt.Sprintf("estimated cost: $%s", report.EstimatedCost.StringFixed(4))),
	)
}

func renderCatalogView(catalog []domain.ModelSpec, s styles) string {
	lines := []string{
		s.title.Render("Model Catalog"),
		s.header.Render(fmt.Sprintf("models: %d online", len(catalog))),
	}

	if len(catalog) == 0 {
		lines = append(lines, s.empty.Render("No models configured."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, spec := range catalog {
		tags := make([]string, 0, len(spec.Tags))
		for _, tag := range spec.Tags {
			tags = append(tags, string(tag))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.model.Render(string(spec.ID)),
			s.metaVal.Render(fmt.Sprintf("tags: %s", strings.Join(tags, ", "))),
		)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func joinCohort(cohort domain.Cohort) string {
	parts := make([]string, 0, len(cohort))
	for _, model := range cohort {
		parts = append(parts, string(model))
	}
	return strings.Join(parts, ", ")
}
