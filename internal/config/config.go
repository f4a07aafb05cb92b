package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the jobreach call layer.
type Config struct {
	AI        AIConfig
	Cache     CacheConfig
	Providers ProvidersConfig
	Search    SearchConfig
}

// AIConfig controls the Groq completion provider and the invoker wrapped
// around it.
type AIConfig struct {
	Enabled        bool
	BaseURL        string        // defaults to the Groq OpenAI-compatible endpoint
	Model          string        // completion model identifier
	APIKey         string        // expanded from env var by Load
	Budget         time.Duration // overall wall-clock budget per invocation
	AttemptTimeout time.Duration // per-attempt timeout
	MaxAttempts    int           // total attempts, minimum 2
	BaseDelay      time.Duration // backoff base delay
}

// CacheConfig selects the cache backend and the TTL per operation class.
type CacheConfig struct {
	Backend   string // "memory" (default) or "redis"
	RedisURL  string // required when backend is "redis"
	SearchTTL time.Duration
	AITTL     time.Duration
}

// ProvidersConfig holds per-provider credentials. A provider with no
// credentials is disabled, never an error.
type ProvidersConfig struct {
	JSearch  JSearchConfig
	Adzuna   AdzunaConfig
	Timeout  time.Duration // per-provider request timeout
	Priority []string      // provider order for ranking and conflict resolution
}

// JSearchConfig configures the JSearch (RapidAPI) provider.
type JSearchConfig struct {
	APIKey string `yaml:"api_key"`
}

// AdzunaConfig configures the Adzuna provider.
type AdzunaConfig struct {
	AppID  string `yaml:"app_id"`
	AppKey string `yaml:"app_key"`
}

// SearchConfig bounds the aggregated search.
type SearchConfig struct {
	Budget time.Duration
}

// Enabled reports whether the JSearch provider has credentials.
func (c JSearchConfig) Enabled() bool { return c.APIKey != "" }

// Enabled reports whether the Adzuna provider has credentials.
func (c AdzunaConfig) Enabled() bool { return c.AppID != "" && c.AppKey != "" }

const (
	defaultSearchTTL       = 5 * time.Minute
	defaultAITTL           = time.Hour
	defaultProviderTimeout = 10 * time.Second
	defaultSearchBudget    = 25 * time.Second
	defaultAIBudget        = 60 * time.Second
	defaultAttemptTimeout  = 30 * time.Second
	defaultMaxAttempts     = 3
	defaultBaseDelay       = 2 * time.Second
)

var defaultPriority = []string{"jsearch", "adzuna"}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as
// strings).
type rawConfig struct {
	AI        rawAIConfig        `yaml:"ai"`
	Cache     rawCacheConfig     `yaml:"cache"`
	Providers rawProvidersConfig `yaml:"providers"`
	Search    rawSearchConfig    `yaml:"search"`
}

type rawAIConfig struct {
	Enabled        bool   `yaml:"enabled"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	Budget         string `yaml:"budget"`
	AttemptTimeout string `yaml:"attempt_timeout"`
	MaxAttempts    int    `yaml:"max_attempts"`
	BaseDelay      string `yaml:"base_delay"`
}

type rawCacheConfig struct {
	Backend   string `yaml:"backend"`
	RedisURL  string `yaml:"redis_url"`
	SearchTTL string `yaml:"search_ttl"`
	AITTL     string `yaml:"ai_ttl"`
}

type rawProvidersConfig struct {
	JSearch  JSearchConfig `yaml:"jsearch"`
	Adzuna   AdzunaConfig  `yaml:"adzuna"`
	Timeout  string        `yaml:"timeout"`
	Priority []string      `yaml:"priority"`
}

type rawSearchConfig struct {
	Budget string `yaml:"budget"`
}

// Load reads and parses the YAML config file at path, expands environment
// variables, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := &Config{
		AI: AIConfig{
			Enabled:     raw.AI.Enabled,
			BaseURL:     raw.AI.BaseURL,
			Model:       raw.AI.Model,
			APIKey:      raw.AI.APIKey,
			MaxAttempts: raw.AI.MaxAttempts,
		},
		Cache: CacheConfig{
			Backend:  raw.Cache.Backend,
			RedisURL: raw.Cache.RedisURL,
		},
		Providers: ProvidersConfig{
			JSearch:  raw.Providers.JSearch,
			Adzuna:   raw.Providers.Adzuna,
			Priority: raw.Providers.Priority,
		},
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.AI.MaxAttempts == 0 {
		cfg.AI.MaxAttempts = defaultMaxAttempts
	}
	if len(cfg.Providers.Priority) == 0 {
		cfg.Providers.Priority = defaultPriority
	}

	durations := []struct {
		raw      string
		fallback time.Duration
		dst      *time.Duration
		field    string
	}{
		{raw.AI.Budget, defaultAIBudget, &cfg.AI.Budget, "ai.budget"},
		{raw.AI.AttemptTimeout, defaultAttemptTimeout, &cfg.AI.AttemptTimeout, "ai.attempt_timeout"},
		{raw.AI.BaseDelay, defaultBaseDelay, &cfg.AI.BaseDelay, "ai.base_delay"},
		{raw.Cache.SearchTTL, defaultSearchTTL, &cfg.Cache.SearchTTL, "cache.search_ttl"},
		{raw.Cache.AITTL, defaultAITTL, &cfg.Cache.AITTL, "cache.ai_ttl"},
		{raw.Providers.Timeout, defaultProviderTimeout, &cfg.Providers.Timeout, "providers.timeout"},
		{raw.Search.Budget, defaultSearchBudget, &cfg.Search.Budget, "search.budget"},
	}
	for _, d := range durations {
		*d.dst = d.fallback
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s %q: %w", d.field, d.raw, err)
		}
		*d.dst = parsed
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Cache.Backend {
	case "memory":
	case "redis":
		if cfg.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required when backend is \"redis\"")
		}
	default:
		return fmt.Errorf("cache.backend must be \"memory\" or \"redis\", got %q", cfg.Cache.Backend)
	}

	if cfg.Cache.SearchTTL <= 0 || cfg.Cache.AITTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	if cfg.AI.Enabled {
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("ai.api_key is required when ai.enabled is true")
		}
		if cfg.AI.MaxAttempts < 2 {
			return fmt.Errorf("ai.max_attempts must be at least 2, got %d", cfg.AI.MaxAttempts)
		}
		if cfg.AI.Budget <= 0 {
			return fmt.Errorf("ai.budget must be positive, got %v", cfg.AI.Budget)
		}
		if cfg.AI.AttemptTimeout > cfg.AI.Budget {
			return fmt.Errorf("ai.attempt_timeout %v exceeds ai.budget %v", cfg.AI.AttemptTimeout, cfg.AI.Budget)
		}
	}

	for _, name := range cfg.Providers.Priority {
		switch name {
		case "jsearch", "adzuna":
		default:
			return fmt.Errorf("unknown provider %q in providers.priority", name)
		}
	}

	if cfg.Providers.Timeout >= cfg.Search.Budget {
		return fmt.Errorf("providers.timeout %v must be shorter than search.budget %v",
			cfg.Providers.Timeout, cfg.Search.Budget)
	}

	return nil
}
