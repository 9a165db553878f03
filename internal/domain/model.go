package domain

import "strings"

type ModelID string

// Capability tags a catalog model for objective-based routing.
type Capability string

const (
	CapabilityGeneral Capability = "general"
	CapabilityCode    Capability = "code"
	CapabilityFast    Capability = "fast"
	CapabilityCheap   Capability = "cheap"
)

func ParseCapability(raw string) (Capability, bool) {
	switch Capability(strings.ToLower(strings.TrimSpace(raw))) {
	case CapabilityGeneral:
		return CapabilityGeneral, true
	case CapabilityCode:
		return CapabilityCode, true
	case CapabilityFast:
		return CapabilityFast, true
	case CapabilityCheap:
		return CapabilityCheap, true
	default:
		return "", false
	}
}

// ModelSpec is one catalog entry. The catalog is loaded once at process
// start and treated as immutable afterwards.
type ModelSpec struct {
	ID        ModelID
	Tags      []Capability
	BaseURL   string
	APIKeyEnv string
}

func (m ModelSpec) HasTag(tag Capability) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NormalizeCatalog drops entries with empty IDs and duplicate IDs,
// keeping first occurrences in order.
func NormalizeCatalog(catalog []ModelSpec) []ModelSpec {
	result := make([]ModelSpec, 0, len(catalog))
	seen := make(map[ModelID]struct{}, len(catalog))

	for _, spec := range catalog {
		trimmed := ModelID(strings.TrimSpace(string(spec.ID)))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}

		seen[trimmed] = struct{}{}
		spec.ID = trimmed
		result = append(result, spec)
	}

	return result
}
