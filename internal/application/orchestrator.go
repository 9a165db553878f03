package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llmnexus/nexus/internal/domain"
	"github.com/llmnexus/nexus/internal/ports"
)

// Orchestrator runs the engine's control flow: Admit, Select, Run,
// Record. Request-level failures (denial, bad objective, empty catalog)
// abort before any backend work; per-model failures stay inside the
// outcomes.
type Orchestrator struct {
	limiter    *RateLimiter
	router     *Router
	dispatcher *Dispatcher
	recorder   *Recorder
	store      ports.MetricsStore
	deadline   time.Duration
	clock      ports.Clock
	logger     zerolog.Logger
}

func NewOrchestrator(
	limiter *RateLimiter,
	router *Router,
	dispatcher *Dispatcher,
	recorder *Recorder,
	store ports.MetricsStore,
	deadline time.Duration,
	clock ports.Clock,
	logger zerolog.Logger,
) *Orchestrator {
	if deadline <= 0 {
		deadline = DefaultDispatchDeadline
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Orchestrator{
		limiter:    limiter,
		router:     router,
		dispatcher: dispatcher,
		recorder:   recorder,
		store:      store,
		deadline:   deadline,
		clock:      clock,
		logger:     logger,
	}
}

func (o *Orchestrator) Execute(ctx context.Context, cmd ExecuteCommand) (ExecuteResult, error) {
	objective, err := domain.ParseObjective(cmd.Objective)
	if err != nil {
		return ExecuteResult{}, err
	}

	requestID := uuid.NewString()
	logger := o.logger.With().
		Str("request_id", requestID).
		Str("user", cmd.UserID).
		Str("objective", string(objective)).
		Logger()

	if !o.limiter.Admit(cmd.UserID) {
		logger.Info().Msg("request denied by rate limiter")
		return ExecuteResult{}, fmt.Errorf("user %q: %w", cmd.UserID, domain.ErrRateLimited)
	}

	cohort, err := o.router.Select(objective)
	if err != nil {
		return ExecuteResult{}, err
	}
	logger.Info().Int("cohort_size", len(cohort)).Msg("cohort selected")

	start := o.clock.Now()
	outcomes := o.dispatcher.Run(ctx, cmd.Prompt, cohort, o.deadline)
	elapsed := o.clock.Now().Sub(start)

	result := ExecuteResult{
		RequestID:        requestID,
		Objective:        objective,
		Cohort:           cohort,
		Outcomes:         outcomes,
		Elapsed:          elapsed,
		MetricsPersisted: true,
	}

	summary, err := o.recorder.Record(ctx, cmd.UserID, outcomes)
	result.Summary = summary
	if err != nil {
		// The computed result never rolls back on a telemetry failure.
		result.MetricsPersisted = false
		logger.Warn().Err(err).Msg("metrics write failed")
	}

	logger.Info().
		Int("successes", summary.SuccessCount).
		Int("failures", summary.FailureCount).
		Dur("elapsed", elapsed).
		Str("total_cost", summary.TotalCost.String()).
		Msg("request complete")

	return result, nil
}

// Report aggregates everything the metrics store holds, per model.
func (o *Orchestrator) Report(ctx context.Context) ([]ModelReport, error) {
	records, err := o.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list metrics records: %w", err)
	}

	return BuildModelReports(records), nil
}

// Catalog exposes the router's read-only model catalog.
func (o *Orchestrator) Catalog() []domain.ModelSpec {
	return o.router.Catalog()
}
