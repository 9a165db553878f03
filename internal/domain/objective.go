package domain

import (
	"fmt"
	"strings"
)

// Objective is the user-declared goal used to bias model selection.
type Objective string

const (
	ObjectiveGeneral      Objective = "general"
	ObjectiveCoding       Objective = "coding"
	ObjectiveFastResponse Objective = "fast_response"
	ObjectiveCostSaving   Objective = "cost_saving"
)

// ParseObjective accepts both the canonical values and the labels the
// original dashboard shows ("Fast Response", "Cost Saving").
func ParseObjective(raw string) (Objective, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")

	switch Objective(normalized) {
	case ObjectiveGeneral, ObjectiveCoding, ObjectiveFastResponse, ObjectiveCostSaving:
		return Objective(normalized), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidObjective, raw)
	}
}

func (o Objective) Label() string {
	switch o {
	case ObjectiveGeneral:
		return "General"
	case ObjectiveCoding:
		return "Coding"
	case ObjectiveFastResponse:
		return "Fast Response"
	case ObjectiveCostSaving:
		return "Cost Saving"
	default:
		return string(o)
	}
}

// DefaultPriorities enumerates the capability tiers each objective walks
// during selection. First tier with at least one catalog match wins.
func DefaultPriorities() map[Objective][]Capability {
	return map[Objective][]Capability{
		ObjectiveGeneral:      {CapabilityGeneral, CapabilityFast, CapabilityCode, CapabilityCheap},
		ObjectiveCoding:       {CapabilityCode, CapabilityGeneral, CapabilityFast, CapabilityCheap},
		ObjectiveFastResponse: {CapabilityFast, CapabilityCheap, CapabilityGeneral, CapabilityCode},
		ObjectiveCostSaving:   {CapabilityCheap, CapabilityFast, CapabilityGeneral, CapabilityCode},
	}
}
