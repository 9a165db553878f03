package application

import (
	"fmt"

	"github.com/llmnexus/nexus/internal/domain"
)

const DefaultMaxCohort = 3

// Router maps an objective to a cohort of catalog models. Selection is
// a deterministic walk over the objective's capability tiers: the first
// tier with at least one match supplies the whole cohort, truncated to
// maxCohort. Lower tiers never pad an already satisfied cohort.
type Router struct {
	catalog    []domain.ModelSpec
	priorities map[domain.Objective][]domain.Capability
	maxCohort  int
}

func NewRouter(catalog []domain.ModelSpec, priorities map[domain.Objective][]domain.Capability, maxCohort int) *Router {
	if priorities == nil {
		priorities = domain.DefaultPriorities()
	}
	if maxCohort <= 0 {
		maxCohort = DefaultMaxCohort
	}

	return &Router{
		catalog:    domain.NormalizeCatalog(catalog),
		priorities: priorities,
		maxCohort:  maxCohort,
	}
}

func (r *Router) Select(objective domain.Objective) (domain.Cohort, error) {
	tiers, ok := r.priorities[objective]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidObjective, objective)
	}

	for _, tier := range tiers {
		cohort := make(domain.Cohort, 0, r.maxCohort)
		for _, spec := range r.catalog {
			if !spec.HasTag(tier) {
				continue
			}

			cohort = append(cohort, spec.ID)
			if len(cohort) == r.maxCohort {
				break
			}
		}

		if len(cohort) > 0 {
			return cohort, nil
		}
	}

	return nil, fmt.Errorf("select cohort for %q: %w", objective, domain.ErrEmptyCatalog)
}

// Catalog returns the normalized, read-only model catalog.
func (r *Router) Catalog() []domain.ModelSpec {
	return r.catalog
}
