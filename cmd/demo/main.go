package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ForgeClient/internal/app"
	"github.com/ForgeClient/internal/infra/fetcher"
	"github.com/ForgeClient/pkg/config"
	"github.com/ForgeClient/pkg/logging"
	"github.com/spf13/pflag"
)

func main() {
	// stdout carries the demo output.
	slog.SetDefault(logging.NewWithWriter(os.Stderr, os.Getenv("LOG_FORMAT"), os.Getenv("LOG_LEVEL")))
	cfg := config.LoadForge()

	opts := options{}
	baseURL := pflag.String("base-url", cfg.BaseURL, "forge API base URL")
	pflag.StringVar(&opts.User, "user", "mccalltd", "user whose profile and repositories are shown")
	pflag.StringVar(&opts.Owner, "owner", "rails", "owner of the repository whose pull requests are shown")
	pflag.StringVar(&opts.Repo, "repo", "rails", "repository whose pull requests are shown")
	pflag.BoolVar(&opts.PullsOnly, "pulls-only", false, "only list the open pull requests")
	pflag.Parse()

	client := app.NewClient(fetcher.NewHTTPFetcher(fetcher.Options{
		BaseURL:      *baseURL,
		Timeout:      cfg.HTTPTimeout,
		UserAgent:    cfg.UserAgent,
		StrictAccept: cfg.StrictAccept,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, client, opts); err != nil {
		slog.Error("Demo failed", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
