package toml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/llmnexus/nexus/internal/domain"
)

const (
	configName     = "config"
	configType     = "toml"
	enginePathKey  = "engine.path"
	engineFileMode = 0o600
	engineDirMode  = 0o700
	configDirName  = ".nexus"
	engineFileName = "nexus.toml"
	tempFilePattern = ".nexus-*.toml.tmp"

	defaultRateCeiling = 5
	defaultRateWindow  = time.Minute
	defaultMaxCohort   = 3
	defaultDeadline    = 2 * time.Second
)

// Repository reads and writes the engine configuration file. Reads go
// through viper for discovery; the data file itself is schema-versioned
// TOML written atomically via temp-file rename.
type Repository struct {
	enginePath string
	mu         *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, configDirName, engineFileName)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDirName))
	cfg.SetDefault(enginePathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	enginePath := cfg.GetString(enginePathKey)
	if enginePath == "" {
		return nil, errors.New("engine config path is empty")
	}
	enginePath, err = normalizePath(enginePath)
	if err != nil {
		return nil, err
	}

	return &Repository{enginePath: enginePath, mu: lockForPath(enginePath)}, nil
}

// Load reads the engine settings. A missing file yields the defaults.
func (r *Repository) Load() (Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return Settings{}, err
	}
	file.applyDefaults()

	return fromSchema(file, r.defaultMetricsPath())
}

// Save writes the settings atomically: encode to a temp file in the
// target directory, then rename over the destination.
func (r *Repository) Save(settings Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.writeSchema(toSchema(settings))
}

// Path returns the engine config file location.
func (r *Repository) Path() string {
	return r.enginePath
}

// Exists reports whether the engine config file is already on disk.
func (r *Repository) Exists() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, err := os.Stat(r.enginePath)
	return err == nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.enginePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read engine config file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode engine config file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	if err := os.MkdirAll(filepath.Dir(r.enginePath), engineDirMode); err != nil {
		return fmt.Errorf("create engine config directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode engine config file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.enginePath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp engine config file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp engine config file: %w", err)
	}

	if err := tempFile.Chmod(engineFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp engine config file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp engine config file: %w", err)
	}

	if err := os.Rename(tempName, r.enginePath); err != nil {
		return fmt.Errorf("replace engine config file: %w", err)
	}

	cleanup = false

	return nil
}

func (r *Repository) defaultMetricsPath() string {
	return filepath.Join(filepath.Dir(r.enginePath), "metrics", "metrics.csv")
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve engine config path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

// DefaultSettings is what a fresh install runs with: the dashboard's
// three online models, 5 requests per minute, a 2s dispatch deadline.
func DefaultSettings(metricsPath string) Settings {
	return Settings{
		Catalog:     defaultCatalog(),
		Priorities:  domain.DefaultPriorities(),
		RateCeiling: defaultRateCeiling,
		RateWindow:  defaultRateWindow,
		MaxCohort:   defaultMaxCohort,
		Deadline:    defaultDeadline,
		Prices:      defaultPrices(),
		MetricsPath: metricsPath,
	}
}

func defaultCatalog() []domain.ModelSpec {
	return []domain.ModelSpec{
		{
			ID:        "gpt-4o",
			Tags:      []domain.Capability{domain.CapabilityGeneral, domain.CapabilityCode},
			APIKeyEnv: "OPENAI_API_KEY",
		},
		{
			ID:        "gpt-4o-mini",
			Tags:      []domain.Capability{domain.CapabilityFast, domain.CapabilityCheap, domain.CapabilityGeneral},
			APIKeyEnv: "OPENAI_API_KEY",
		},
		{
			ID:        "o3-mini",
			Tags:      []domain.Capability{domain.CapabilityCode, domain.CapabilityFast},
			APIKeyEnv: "OPENAI_API_KEY",
		},
	}
}

func defaultPrices() domain.PriceTable {
	return domain.PriceTable{
		Rates: map[domain.ModelID]decimal.Decimal{
			"gpt-4o":      decimal.RequireFromString("0.0050"),
			"gpt-4o-mini": decimal.RequireFromString("0.0006"),
			"o3-mini":     decimal.RequireFromString("0.0044"),
		},
		DefaultRate: defaultPriceRate(),
	}
}

func defaultPriceRate() decimal.Decimal {
	return decimal.RequireFromString("0.0040")
}
