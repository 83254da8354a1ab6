package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kessoku-hq/bocchi-life/internal/bot"
	"github.com/kessoku-hq/bocchi-life/internal/cache"
	"github.com/kessoku-hq/bocchi-life/internal/config"
	"github.com/kessoku-hq/bocchi-life/internal/game"
	"github.com/kessoku-hq/bocchi-life/internal/logger"
	"github.com/kessoku-hq/bocchi-life/internal/services"
	"github.com/kessoku-hq/bocchi-life/internal/store"
	"github.com/kessoku-hq/bocchi-life/pkg/worldclock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Bocchi Life bot",
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"cache_backend", cfg.CacheBackend,
		"db_path", cfg.DBPath)

	playerStore, err := store.NewSQLiteStore(cfg.DBPath, log)
	if err != nil {
		log.Error("Failed to open player store", "error", err)
		os.Exit(1)
	}

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), time.Minute)
	defer migrateCancel()
	if err := playerStore.Migrate(migrateCtx); err != nil {
		log.Error("Failed to migrate player store", "error", err)
		os.Exit(1)
	}
	log.Info("Player store ready")

	var llmService services.LLMService
	switch strings.ToLower(cfg.LLMProvider) {
	case "gemini":
		svc, err := services.NewGeminiService(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			log.Error("Failed to create Gemini client", "error", err)
			os.Exit(1)
		}
		llmService = svc
		log.Info("Using Gemini LLM provider")
	case "mock":
		llmService = services.NewMockLLM()
		log.Warn("Using mock LLM provider, narration is canned")
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "supported", []string{"gemini", "mock"})
		os.Exit(1)
	}

	modelName := cfg.GeminiModel
	if modelName == "" {
		modelName = services.DefaultGeminiModel
	}
	initCtx, initCancel := context.WithTimeout(context.Background(), time.Minute)
	defer initCancel()
	if err := llmService.InitModel(initCtx, modelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", modelName)
		os.Exit(1)
	}

	var choiceCache cache.ChoiceCache
	switch cfg.CacheBackend {
	case "redis":
		rc := cache.NewRedisCache(cfg.RedisURL, cache.DefaultTTL)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			pingCancel()
			log.Error("Failed to connect to redis", "error", err, "addr", cfg.RedisURL)
			os.Exit(1)
		}
		pingCancel()
		choiceCache = rc
		log.Info("Using redis choice cache", "addr", cfg.RedisURL)
	default:
		choiceCache = cache.NewMemoryCache(cache.DefaultTTL)
		log.Info("Using in-memory choice cache")
	}

	engine := game.NewEngine(playerStore, llmService, choiceCache, worldclock.NewJSTClock(), log)

	b, err := bot.New(cfg, engine, playerStore, log)
	if err != nil {
		log.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}
	if err := b.Start(); err != nil {
		log.Error("Failed to start bot", "error", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Bot is shutting down...")

	b.Stop()
	if err := choiceCache.Close(); err != nil {
		log.Error("Error closing choice cache", "error", err)
	}
	if err := llmService.Close(); err != nil {
		log.Error("Error closing LLM service", "error", err)
	}
	if err := playerStore.Close(); err != nil {
		log.Error("Error closing player store", "error", err)
	}

	log.Info("Bot exited")
}
