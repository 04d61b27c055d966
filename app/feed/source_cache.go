package feed

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type SourceCache struct {
	sourcesDir string
	cache      map[string]*Config
	mu         sync.RWMutex
}

func NewSourceCache(sourcesDir string) *SourceCache {
	return &SourceCache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Config),
	}
}

func (sc *SourceCache) Run() error {
	if _, err := os.Stat(sc.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(sc.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		sourceName := strings.TrimSuffix(filepath.Base(file), ".yml")

		config, err := sc.LoadConfig(sourceName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source configuration loaded", "source", sourceName, "format", config.Format, "enabled", config.Settings.Enabled)
	}

	return nil
}

func (sc *SourceCache) LoadConfig(sourceName string) (*Config, error) {
	configFile := filepath.Join(sc.sourcesDir, sourceName+".yml")

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config.Name = sourceName
	sc.setDefaults(&config)

	if err := sc.validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache[config.Name] = &config

	return &config, nil
}

func (sc *SourceCache) GetConfig(sourceName string) (*Config, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	config, ok := sc.cache[sourceName]
	if !ok {
		return nil, fmt.Errorf("source config with name '%s' not found", sourceName)
	}
	return config, nil
}

func (sc *SourceCache) GetConfigs() map[string]*Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	configsCopy := make(map[string]*Config, len(sc.cache))
	for k, v := range sc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

func (sc *SourceCache) GetEnabledConfigs() map[string]*Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	enabledConfigs := make(map[string]*Config)
	for k, v := range sc.cache {
		if v.Settings.Enabled {
			enabledConfigs[k] = v
		}
	}
	return enabledConfigs
}

func (sc *SourceCache) GetConfigCount() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.cache)
}

func (sc *SourceCache) setDefaults(config *Config) {
	if config.Format == "" {
		config.Format = FormatRSS
	}
	if config.Settings.Timeout == 0 {
		config.Settings.Timeout = 30 // seconds
	}
	if config.Settings.MaxItems == 0 {
		config.Settings.MaxItems = 100
	}
}

func (sc *SourceCache) validateConfig(config *Config) error {
	if config.URL == "" {
		return fmt.Errorf("source URL is required")
	}

	switch config.Format {
	case FormatRSS, FormatFMP, FormatFMPPress:
	default:
		return fmt.Errorf("unsupported source format: %s", config.Format)
	}

	if config.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if config.Settings.MaxItems < 0 {
		return fmt.Errorf("max items must be non-negative")
	}

	validFields := map[string]bool{
		"title":   true,
		"summary": true,
		"link":    true,
	}

	for i, filter := range config.Filters {
		if !validFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}
