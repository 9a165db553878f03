package application

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/llmnexus/nexus/internal/domain"
	"github.com/llmnexus/nexus/internal/ports"
)

const DefaultDispatchDeadline = 2 * time.Second

// Dispatcher fans one request out to every cohort member at once under
// a single shared deadline. Cohort size is already bounded by the
// router, so there is no worker pool between the calls.
type Dispatcher struct {
	client ports.ModelClient
	clock  ports.Clock
	logger zerolog.Logger
}

func NewDispatcher(client ports.ModelClient, clock ports.Clock, logger zerolog.Logger) *Dispatcher {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Dispatcher{client: client, clock: clock, logger: logger}
}

// Run returns exactly one outcome per cohort member. A member that has
// not resolved when the deadline elapses is force-resolved to a timeout
// outcome; its late response, if any, lands in the buffered channel and
// is discarded, so no goroutine blocks on send.
func (d *Dispatcher) Run(ctx context.Context, prompt string, cohort domain.Cohort, deadline time.Duration) map[domain.ModelID]domain.DispatchOutcome {
	if deadline <= 0 {
		deadline = DefaultDispatchDeadline
	}

	callCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	results := make(chan domain.DispatchOutcome, len(cohort))
	for _, model := range cohort {
		go func(model domain.ModelID) {
			results <- d.dispatchOne(callCtx, model, prompt)
		}(model)
	}

	outcomes := make(map[domain.ModelID]domain.DispatchOutcome, len(cohort))
	for len(outcomes) < len(cohort) {
		select {
		case outcome := <-results:
			outcomes[outcome.Model] = outcome
		case <-callCtx.Done():
			d.collectStragglers(outcomes, results, cohort, deadline)
			return outcomes
		}
	}

	return outcomes
}

func (d *Dispatcher) dispatchOne(ctx context.Context, model domain.ModelID, prompt string) domain.DispatchOutcome {
	start := d.clock.Now()
	response, err := d.client.Call(ctx, model, prompt)
	latency := d.clock.Now().Sub(start)

	if err != nil {
		kind := domain.FailureBackend
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			kind = domain.FailureTimeout
		}

		d.logger.Warn().
			Str("model", string(model)).
			Dur("latency", latency).
			Str("failure", string(kind)).
			Err(err).
			Msg("model call failed")

		return domain.DispatchOutcome{
			Model:   model,
			Latency: latency,
			Failure: kind,
			Cause:   err.Error(),
		}
	}

	d.logger.Debug().
		Str("model", string(model)).
		Dur("latency", latency).
		Int("response_length", domain.ResponseLength(response)).
		Msg("model call succeeded")

	return domain.DispatchOutcome{
		Model:    model,
		Response: response,
		Latency:  latency,
	}
}

// collectStragglers drains outcomes that raced the deadline, then marks
// every still-missing member as timed out at the full deadline.
func (d *Dispatcher) collectStragglers(outcomes map[domain.ModelID]domain.DispatchOutcome, results <-chan domain.DispatchOutcome, cohort domain.Cohort, deadline time.Duration) {
	for len(outcomes) < len(cohort) {
		select {
		case outcome := <-results:
			outcomes[outcome.Model] = outcome
		default:
			for _, model := range cohort {
				if _, ok := outcomes[model]; ok {
					continue
				}

				d.logger.Warn().
					Str("model", string(model)).
					Dur("deadline", deadline).
					Msg("model missed the shared deadline")

				outcomes[model] = domain.DispatchOutcome{
					Model:   model,
					Latency: deadline,
					Failure: domain.FailureTimeout,
					Cause:   context.DeadlineExceeded.Error(),
				}
			}
			return
		}
	}
}
