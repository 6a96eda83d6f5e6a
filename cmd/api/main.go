package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"supportraise/internal/adapter"
	"supportraise/internal/editor"
	"supportraise/internal/http/handlers"
	httpapi "supportraise/internal/http/httpapi"
	"supportraise/internal/infra"
	"supportraise/internal/infra/geoip"
	"supportraise/internal/middleware"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := adapter.OpenStore(ctx, cfg, logger, adapter.OpenOptions{Migrate: true})
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to open store")
	}
	defer closeStore()

	app := handlers.NewApp(store, logger)
	app.Sessions = editor.NewSessions(cfg.EditorSessionTTL)
	app.Location = cfg.Location()
	app.LetterMessage = cfg.LetterMessage

	if cfg.RedisURL != "" {
		client, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer client.Close()
		app.Guard = editor.NewRedisGuard(client, 0)
		logger.Info().Msg("save guard backed by redis")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:       cfg.JWTSecret,
		JWTIssuer:       cfg.JWTIssuer,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Locales:         middleware.NewLocaleResolver(cfg.Locale(), resolver.Lookup()),
		Logger:          logger,
	})

	server := infra.NewHTTPServer(cfg, router, logger)
	if err := server.Run(ctx, cfg.HTTPShutdownTimeout); err != nil {
		logger.Error().Err(err).Msg("http server failed")
	}
	logger.Info().Msg("server stopped")
}
