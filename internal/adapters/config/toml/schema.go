package toml

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/llmnexus/nexus/internal/domain"
)

const currentSchemaVersion = 1

// Settings is the engine's externally supplied configuration, loaded
// once at startup and treated as immutable by the core.
type Settings struct {
	Catalog     []domain.ModelSpec
	Priorities  map[domain.Objective][]domain.Capability
	RateCeiling int
	RateWindow  time.Duration
	MaxCohort   int
	Deadline    time.Duration
	Prices      domain.PriceTable
	MetricsPath string
}

type fileSchema struct {
	Version  int            `toml:"version"`
	Limits   limitsSchema   `toml:"limits"`
	Dispatch dispatchSchema `toml:"dispatch"`
	Metrics  metricsSchema  `toml:"metrics"`
	Pricing  pricingSchema  `toml:"pricing"`
	Models   []modelSchema  `toml:"models"`
	Routing  routingSchema  `toml:"routing"`
}

type limitsSchema struct {
	Ceiling int    `toml:"ceiling"`
	Window  string `toml:"window"`
}

type dispatchSchema struct {
	Deadline  string `toml:"deadline"`
	MaxCohort int    `toml:"max_cohort"`
}

type metricsSchema struct {
	Path string `toml:"path"`
}

type pricingSchema struct {
	DefaultRate string `toml:"default_rate"`
}

type modelSchema struct {
	ID        string   `toml:"id"`
	Tags      []string `toml:"tags"`
	BaseURL   string   `toml:"base_url,omitempty"`
	APIKeyEnv string   `toml:"api_key_env,omitempty"`
	Rate      string   `toml:"rate,omitempty"`
}

type routingSchema struct {
	General      []string `toml:"general,omitempty"`
	Coding       []string `toml:"coding,omitempty"`
	FastResponse []string `toml:"fast_response,omitempty"`
	CostSaving   []string `toml:"cost_saving,omitempty"`
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported engine config schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func fromSchema(file fileSchema, defaultMetricsPath string) (Settings, error) {
	settings := Settings{
		RateCeiling: file.Limits.Ceiling,
		MaxCohort:   file.Dispatch.MaxCohort,
		MetricsPath: file.Metrics.Path,
		Priorities:  domain.DefaultPriorities(),
	}

	if settings.RateCeiling <= 0 {
		settings.RateCeiling = defaultRateCeiling
	}
	if settings.MaxCohort <= 0 {
		settings.MaxCohort = defaultMaxCohort
	}
	if settings.MetricsPath == "" {
		settings.MetricsPath = defaultMetricsPath
	}

	var err error
	if settings.RateWindow, err = parseDurationOrDefault(file.Limits.Window, defaultRateWindow); err != nil {
		return Settings{}, fmt.Errorf("parse limits window: %w", err)
	}
	if settings.Deadline, err = parseDurationOrDefault(file.Dispatch.Deadline, defaultDeadline); err != nil {
		return Settings{}, fmt.Errorf("parse dispatch deadline: %w", err)
	}

	if settings.Prices, err = pricesFromSchema(file); err != nil {
		return Settings{}, err
	}

	if len(file.Models) == 0 {
		settings.Catalog = defaultCatalog()
	} else {
		if settings.Catalog, err = catalogFromSchema(file.Models); err != nil {
			return Settings{}, err
		}
	}

	if err = applyRoutingOverrides(settings.Priorities, file.Routing); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

func parseDurationOrDefault(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", raw)
	}

	return parsed, nil
}

func pricesFromSchema(file fileSchema) (domain.PriceTable, error) {
	prices := domain.PriceTable{
		Rates:       make(map[domain.ModelID]decimal.Decimal, len(file.Models)),
		DefaultRate: defaultPriceRate(),
	}

	if file.Pricing.DefaultRate != "" {
		rate, err := decimal.NewFromString(file.Pricing.DefaultRate)
		if err != nil {
			return domain.PriceTable{}, fmt.Errorf("parse default pricing rate: %w", err)
		}
		prices.DefaultRate = rate
	}

	for _, model := range file.Models {
		if model.Rate == "" {
			continue
		}
		rate, err := decimal.NewFromString(model.Rate)
		if err != nil {
			return domain.PriceTable{}, fmt.Errorf("parse pricing rate for model %q: %w", model.ID, err)
		}
		prices.Rates[domain.ModelID(model.ID)] = rate
	}

	return prices, nil
}

func catalogFromSchema(models []modelSchema) ([]domain.ModelSpec, error) {
	catalog := make([]domain.ModelSpec, 0, len(models))
	for _, model := range models {
		tags := make([]domain.Capability, 0, len(model.Tags))
		for _, raw := range model.Tags {
			tag, ok := domain.ParseCapability(raw)
			if !ok {
				return nil, fmt.Errorf("model %q: unknown capability tag %q", model.ID, raw)
			}
			tags = append(tags, tag)
		}

		catalog = append(catalog, domain.ModelSpec{
			ID:        domain.ModelID(model.ID),
			Tags:      tags,
			BaseURL:   model.BaseURL,
			APIKeyEnv: model.APIKeyEnv,
		})
	}

	return domain.NormalizeCatalog(catalog), nil
}

func applyRoutingOverrides(priorities map[domain.Objective][]domain.Capability, routing routingSchema) error {
	overrides := map[domain.Objective][]string{
		domain.ObjectiveGeneral:      routing.General,
		domain.ObjectiveCoding:       routing.Coding,
		domain.ObjectiveFastResponse: routing.FastResponse,
		domain.ObjectiveCostSaving:   routing.CostSaving,
	}

	for objective, raws := range overrides {
		if len(raws) == 0 {
			continue
		}

		tiers := make([]domain.Capability, 0, len(raws))
		for _, raw := range raws {
			tag, ok := domain.ParseCapability(raw)
			if !ok {
				return fmt.Errorf("routing %s: unknown capability tag %q", objective, raw)
			}
			tiers = append(tiers, tag)
		}
		priorities[objective] = tiers
	}

	return nil
}

func toSchema(settings Settings) fileSchema {
	models := make([]modelSchema, 0, len(settings.Catalog))
	for _, spec := range settings.Catalog {
		tags := make([]string, 0, len(spec.Tags))
		for _, tag := range spec.Tags {
			tags = append(tags, string(tag))
		}

		entry := modelSchema{
			ID:        string(spec.ID),
			Tags:      tags,
			BaseURL:   spec.BaseURL,
			APIKeyEnv: spec.APIKeyEnv,
		}
		if rate, ok := settings.Prices.Rates[spec.ID]; ok {
			entry.Rate = rate.String()
		}
		models = append(models, entry)
	}

	return fileSchema{
		Version: currentSchemaVersion,
		Limits: limitsSchema{
			Ceiling: settings.RateCeiling,
			Window:  settings.RateWindow.String(),
		},
		Dispatch: dispatchSchema{
			Deadline:  settings.Deadline.String(),
			MaxCohort: settings.MaxCohort,
		},
		Metrics: metricsSchema{Path: settings.MetricsPath},
		Pricing: pricingSchema{DefaultRate: settings.Prices.DefaultRate.String()},
		Models:  models,
		Routing: routingSchema{
			General:      capabilityStrings(settings.Priorities[domain.ObjectiveGeneral]),
			Coding:       capabilityStrings(settings.Priorities[domain.ObjectiveCoding]),
			FastResponse: capabilityStrings(settings.Priorities[domain.ObjectiveFastResponse]),
			CostSaving:   capabilityStrings(settings.Priorities[domain.ObjectiveCostSaving]),
		},
	}
}

func capabilityStrings(tags []domain.Capability) []string {
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		result = append(result, string(tag))
	}
	return result
}
