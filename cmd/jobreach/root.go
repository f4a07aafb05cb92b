package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobreach/internal/adapter"
	"github.com/amishk599/jobreach/internal/aggregate"
	"github.com/amishk599/jobreach/internal/ai"
	"github.com/amishk599/jobreach/internal/cache"
	"github.com/amishk599/jobreach/internal/config"
	"github.com/amishk599/jobreach/internal/invoke"
	"github.com/amishk599/jobreach/internal/service"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobreach",
	Short: "Resume analysis and job search from the terminal",
	Long:  "JobReach analyzes resumes, drafts cover letters, and searches job boards through a cached, retry-hardened call layer.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBREACH_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBREACH_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBREACH_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func setupCache(cfg *config.Config, logger *slog.Logger) (*cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		store, err := cache.NewRedisStore(cfg.Cache.RedisURL, "jobreach")
		if err != nil {
			return nil, fmt.Errorf("cache backend: %w", err)
		}
		logger.Info("using redis cache", "url", cfg.Cache.RedisURL)
		return cache.New(store, logger), nil
	default:
		return cache.New(cache.NewMemoryStore(), logger), nil
	}
}

func buildProviders(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []adapter.Provider {
	var providers []adapter.Provider
	for _, name := range cfg.Providers.Priority {
		switch name {
		case "jsearch":
			if !cfg.Providers.JSearch.Enabled() {
				logger.Info("jsearch disabled: no api key")
				continue
			}
			providers = append(providers, adapter.NewJSearchAdapter(cfg.Providers.JSearch.APIKey, cfg.Providers.Timeout, httpClient))
		case "adzuna":
			if !cfg.Providers.Adzuna.Enabled() {
				logger.Info("adzuna disabled: no credentials")
				continue
			}
			providers = append(providers, adapter.NewAdzunaAdapter(cfg.Providers.Adzuna.AppID, cfg.Providers.Adzuna.AppKey, cfg.Providers.Timeout, httpClient))
		}
	}
	return providers
}

// buildService wires the full call layer: cache, invoker, completion
// provider, search aggregator, facade.
func buildService(cfg *config.Config, logger *slog.Logger) (*service.Service, func(), error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	c, err := setupCache(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	inv := invoke.New(invoke.Options{
		Budget:         cfg.AI.Budget,
		AttemptTimeout: cfg.AI.AttemptTimeout,
		MaxAttempts:    cfg.AI.MaxAttempts,
		BaseDelay:      cfg.AI.BaseDelay,
	}, logger)

	var completer ai.Completer
	if cfg.AI.Enabled {
		completer = ai.NewGroqProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, httpClient)
	}

	providers := buildProviders(cfg, httpClient, logger)
	for _, p := range providers {
		logger.Info("registered provider", "name", p.Name())
	}
	agg := aggregate.New(providers, cfg.Search.Budget, logger)

	svc := service.New(c, inv, completer, agg, cfg.Cache.SearchTTL, cfg.Cache.AITTL, logger)
	cleanup := func() {
		if err := c.Close(); err != nil {
			logger.Warn("closing cache", "error", err)
		}
	}
	return svc, cleanup, nil
}

// setup is the shared preamble for every subcommand.
func setup() (*service.Service, func(), *slog.Logger, error) {
	logger := setupLogger(debug)
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}
	svc, cleanup, err := buildService(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return svc, cleanup, logger, nil
}

// readFileArg loads a file argument such as a resume or job description.
func readFileArg(path, what string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", what, err)
	}
	return string(data), nil
}
