package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/portfolio-assistant/server/internal/assistant/generation"
	"github.com/portfolio-assistant/server/internal/assistant/graph"
	"github.com/portfolio-assistant/server/internal/assistant/knowledge"
	"github.com/portfolio-assistant/server/internal/assistant/model"
	"github.com/portfolio-assistant/server/internal/assistant/ratelimit"
	"github.com/portfolio-assistant/server/internal/assistant/session"
	"github.com/portfolio-assistant/server/internal/core"
	"github.com/portfolio-assistant/server/internal/server"
	logx "github.com/portfolio-assistant/server/pkg/logger"
	pkgredis "github.com/portfolio-assistant/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the assistant server,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Assistant configs
	Generation model.GenerationConfig
	RateLimit  model.RateLimitConfig
	Session    model.SessionConfig
	Server     model.ServerConfig
}

func main() {
	// Load .env file
	envErr := godotenv.Load(".env")

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("Failed to process environment config")
	}

	env := core.ParseEnvironment(cfg.Environment)
	logx.Init(logx.LoggerOpts{Environment: env, Level: cfg.LogLevel})
	if envErr != nil {
		logx.Debug().Err(envErr).Msg("No .env file loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiters := ratelimit.MemoryFactory(cfg.RateLimit)
	if cfg.Redis.Enabled() {
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
		}
		defer rdb.Close()
		limiters = ratelimit.RedisFactory(rdb, cfg.RateLimit)
		logx.Info().Msg("Rate-limit windows stored in Redis")
	}

	kb := knowledge.Default()

	gen, err := generation.NewGeminiClient(ctx, generation.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Generation: cfg.Generation,
		Knowledge:  kb,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create generation client")
	}

	runner, err := graph.BuildResponseGraph(ctx, graph.Config{
		Knowledge: kb,
		Generator: gen,
		ModelName: gen.Model(),
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build response graph")
	}

	sessions := session.NewManager(runner, limiters, kb, cfg.Session)
	go sessions.Run(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.NewRouter(server.NewHandler(sessions, kb), cfg.Server.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Generation.Timeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info().Str("addr", srv.Addr).Str("model", gen.Model()).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()
	logx.Info().Msg("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("Server forced to shutdown")
		return
	}
	logx.Info().Msg("Server stopped successfully")
}
