package factory

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ForgeClient/internal/app"
	"github.com/ForgeClient/internal/domain"
	"github.com/ForgeClient/internal/infra/fetcher"
	"github.com/ForgeClient/pkg/config"
)

// NewFetcher creates the forge HTTP fetcher, wrapped in a circuit breaker when enabled.
func NewFetcher(cfg *config.Config) (domain.Fetcher, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("forge base URL not configured")
	}

	var f domain.Fetcher = fetcher.NewHTTPFetcher(fetcher.Options{
		BaseURL:      cfg.BaseURL,
		Timeout:      cfg.HTTPTimeout,
		UserAgent:    cfg.UserAgent,
		StrictAccept: cfg.StrictAccept,
	})
	if cfg.BreakerEnabled {
		if cfg.BreakerFailures <= 0 {
			return nil, fmt.Errorf("invalid circuit breaker failures: %d", cfg.BreakerFailures)
		}
		f = fetcher.NewBreakerFetcher("forge-api", f, uint32(cfg.BreakerFailures))
		slog.Info("Circuit breaker enabled", "failures", cfg.BreakerFailures)
	}
	return f, nil
}

// NewClient creates the resource accessor client.
func NewClient(f domain.Fetcher) *app.Client {
	return app.NewClient(f)
}

// NewTargets parses the configured export targets.
func NewTargets(cfg *config.Config) ([]app.Target, error) {
	if len(cfg.Targets) == 0 {
		return nil, errors.New("no export targets configured")
	}
	targets, err := app.ParseTargets(cfg.Targets)
	if err != nil {
		return nil, err
	}
	for _, t := range targets {
		slog.Info("Registered target", "target", t.String())
	}
	return targets, nil
}
