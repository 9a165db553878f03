package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	openaiclient "github.com/llmnexus/nexus/internal/adapters/backend/openai"
	tomlconfig "github.com/llmnexus/nexus/internal/adapters/config/toml"
	csvmetrics "github.com/llmnexus/nexus/internal/adapters/metrics/csv"
	reportrender "github.com/llmnexus/nexus/internal/adapters/render/report"
	"github.com/llmnexus/nexus/internal/application"
	"github.com/llmnexus/nexus/internal/domain"
	"github.com/llmnexus/nexus/internal/logger"
	"github.com/llmnexus/nexus/internal/ports"
)

type app struct {
	orchestrator   *application.Orchestrator
	configRepo     *tomlconfig.Repository
	settings       tomlconfig.Settings
	resultRenderer func(application.ExecuteResult) (string, error)
	reportRenderer func([]application.ModelReport) (string, error)
	catalogRender  func([]domain.ModelSpec) (string, error)
}

func wireApp() (*app, error) {
	log := logger.New(envOrDefault("NEXUS_LOG_LEVEL", "warn"))

	repo, err := tomlconfig.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire config repository: %w", err)
	}

	settings, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load engine settings: %w", err)
	}

	store, err := csvmetrics.NewStore(settings.MetricsPath)
	if err != nil {
		return nil, fmt.Errorf("wire metrics store: %w", err)
	}

	clock := ports.SystemClock{}
	client := openaiclient.NewClient(settings.Catalog, log)

	orchestrator := application.NewOrchestrator(
		application.NewRateLimiter(settings.RateCeiling, settings.RateWindow, clock),
		application.NewRouter(settings.Catalog, settings.Priorities, settings.MaxCohort),
		application.NewDispatcher(client, clock, log),
		application.NewRecorder(store, settings.Prices, clock),
		store,
		settings.Deadline,
		clock,
		log,
	)

	return &app{
		orchestrator:   orchestrator,
		configRepo:     repo,
		settings:       settings,
		resultRenderer: reportrender.RenderResult,
		reportRenderer: reportrender.RenderReports,
		catalogRender:  reportrender.RenderCatalog,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
