package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// DiscordToken is the bot token. Required.
	DiscordToken string

	// ClientID is the application id used to register slash commands.
	// When empty, registration is skipped and existing commands are used.
	ClientID string

	// GuildID scopes command registration to one guild for fast
	// iteration. Empty means global registration.
	GuildID string

	// LLMProvider selects the narration backend: "gemini" or "mock".
	LLMProvider string

	// GeminiAPIKey authenticates the gemini provider.
	GeminiAPIKey string

	// GeminiModel overrides the default model name.
	GeminiModel string

	// DBPath is the SQLite database file.
	DBPath string

	// CacheBackend selects the choice cache: "memory" or "redis".
	CacheBackend string

	// RedisURL is the redis address for the redis cache backend.
	RedisURL string

	Environment string
	LogLevel    slog.Level
}

// Load reads configuration from the environment, after loading a .env
// file if one is present next to the binary.
func Load() (*Config, error) {
	// Missing .env is the normal case in production.
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		ClientID:     os.Getenv("CLIENT_ID"),
		GuildID:      os.Getenv("GUILD_ID"),
		LLMProvider:  getEnv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", ""),
		DBPath:       getEnv("DB_PATH", "bocchi_game.db"),
		CacheBackend: getEnv("CACHE_BACKEND", "memory"),
		RedisURL:     getEnv("REDIS_URL", "localhost:6379"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}

	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case "mock":
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
	switch cfg.CacheBackend {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND %q", cfg.CacheBackend)
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
