package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/ajinkyagorad/fb-events-map/internal/ai"
	"github.com/ajinkyagorad/fb-events-map/internal/config"
	"github.com/ajinkyagorad/fb-events-map/internal/extract"
	"github.com/ajinkyagorad/fb-events-map/internal/geo"
	"github.com/ajinkyagorad/fb-events-map/internal/graceful"
	"github.com/ajinkyagorad/fb-events-map/internal/orchestrator"
	"github.com/ajinkyagorad/fb-events-map/internal/scraper/sources"
	"github.com/ajinkyagorad/fb-events-map/internal/storage"
	"github.com/ajinkyagorad/fb-events-map/internal/telegram"
	"github.com/ajinkyagorad/fb-events-map/internal/transport/httpServer"
	"github.com/ajinkyagorad/fb-events-map/internal/transport/httpServer/handlers"
	"github.com/ajinkyagorad/fb-events-map/internal/transport/httpServer/routers"
	"github.com/ajinkyagorad/fb-events-map/internal/utils/logger/handlers/slogpretty"
	"github.com/ajinkyagorad/fb-events-map/internal/utils/logger/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)
	logger.Info("starting events map service", slog.String("env", cfg.Env))

	store := storage.New(logger, cfg.Storage.Path)

	separator := extract.NewSeparator(cfg.Extractor.Profile)
	builder := extract.NewBuilder(separator, cfg.Extractor.BaseURL, cfg.Extractor.DescriptionLimit)
	textSource := extract.FlattenedText
	if cfg.Extractor.TextSource == "leaf" {
		textSource = extract.LeafText
	}
	pipeline := extract.NewPipeline(logger, builder, textSource)

	profile := separator.Profile()
	geocoder := geo.NewNominatimClient(
		logger,
		cfg.Geocoder.Endpoint,
		cfg.Geocoder.RelayURL,
		profile.CountryCode,
		cfg.Geocoder.UserAgent,
		cfg.Geocoder.Timeout,
	)
	placer := geo.NewPlacer(logger, geocoder, cfg.Geocoder.Placement, rand.Float64)

	var notifier orchestrator.Notifier
	if cfg.Bot.Token != "" {
		n, err := telegram.NewNotifier(logger, cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			logger.Warn("telegram notifier disabled", sl.Err(err))
		} else {
			notifier = n
		}
	}

	orch := orchestrator.New(logger, pipeline, store, notifier)

	var assistant handlers.Assistant
	if cfg.AI.Token != "" {
		assistant = ai.NewAssistant(logger, cfg.AI.Token, cfg.AI.Model)
	} else {
		logger.Warn("no model token configured, chat endpoint disabled")
	}

	factory := sources.NewFactory(logger, cfg.Source.UserAgent)
	handler := handlers.NewEventHandler(
		logger, orch, store, placer, assistant, factory, cfg.Site, cfg.Source,
	)
	router := routers.NewRouter(logger, handler, cfg.HttpServer.Secret)
	server := httpServer.NewHttpServer(logger, router, cfg.HttpServer)

	go func() {
		if err := server.Listen(); err != nil {
			logger.Error("http server stopped", sl.Err(err))
			os.Exit(1)
		}
	}()

	wait := graceful.GracefulShutdown(
		context.Background(),
		cfg.HttpServer.ShutdownTimeout,
		map[string]graceful.Operation{
			"HTTP server": func(ctx context.Context) error {
				return server.Shutdown(ctx)
			},
			"Storage": func(_ context.Context) error {
				return store.Close()
			},
		},
		logger,
	)
	<-wait
	logger.Info("service stopped")
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return setupPrettySlog()
	case envDev:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		fallthrough
	default: // an invalid env gets prod settings
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	return slog.New(opts.NewPrettyHandler(os.Stdout))
}
