package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ForgeClient/cmd/server/factory"
	"github.com/ForgeClient/internal/app"
	"github.com/ForgeClient/internal/infra/tracing"
	transport "github.com/ForgeClient/internal/transport/http"
	"github.com/ForgeClient/pkg/config"
	"github.com/ForgeClient/pkg/logging"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	logger := logging.New()
	slog.SetDefault(logger)

	fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger}
		}),
		fx.Provide(config.Load),
		forgeModule,
		storageModule,
		messagingModule,
		fx.Provide(
			factory.NewExportService,
			factory.NewArchiveService,
			transport.NewHTTPServer,
		),
		fx.Invoke(
			SetupTracer,
			WaitForReady,
			RunServices,
			ServeHTTP,
		),
	).Run()
}

var forgeModule = fx.Module("forge",
	fx.Provide(
		factory.NewFetcher,
		factory.NewClient,
		factory.NewTargets,
	),
)

var storageModule = fx.Module("storage",
	fx.Provide(
		factory.NewMongoClient,
		factory.NewMongoRepository,
		factory.NewArchive,
	),
)

// Exported records and dead letters go through separate producers.
var messagingModule = fx.Module("messaging",
	fx.Provide(
		fx.Annotate(factory.NewMainKafkaProducer, fx.ResultTags(`name:"records"`)),
		fx.Annotate(factory.NewDLQProducer, fx.ResultTags(`name:"dead_letters"`)),
		fx.Annotate(factory.NewEventProducer, fx.ParamTags(`name:"records"`)),
		fx.Annotate(factory.NewKafkaConsumer, fx.ParamTags(``, `name:"dead_letters"`, ``)),
	),
)

// RunServices starts the export loop and the archive consumer; both stop with the app.
func RunServices(lc fx.Lifecycle, export *app.ExportService, archive *app.ArchiveService) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				export.Start(ctx)
			}()
			archive.Start(ctx)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func SetupTracer(lc fx.Lifecycle, cfg *config.Config) error {
	if !cfg.OTelEnabled {
		slog.Info("Tracing disabled")
		return nil
	}

	shutdown, err := tracing.InitTracer(context.Background(), "forge-client")
	if err != nil {
		return err
	}
	lc.Append(fx.StopHook(func(ctx context.Context) error {
		slog.Info("Shutting down tracer provider")
		return shutdown(ctx)
	}))
	return nil
}

// WaitForReady blocks startup until MongoDB answers and the records topic exists.
func WaitForReady(cfg *config.Config, mongoClient *mongo.Client) error {
	return app.NewReadinessWaiter(0,
		app.MongoCheck(mongoClient),
		app.KafkaCheck(cfg.KafkaBrokers, cfg.KafkaTopic),
	).WaitForDependencies(context.Background())
}

func ServeHTTP(lc fx.Lifecycle, server *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				slog.Info("Starting HTTP server", "address", server.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("HTTP server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: server.Shutdown,
	})
}
