package config

import (
	"log/slog"
	"testing"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Error("expected an error when DISCORD_TOKEN is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("LLM_PROVIDER", "mock")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "bocchi_game.db" {
		t.Errorf("DBPath = %q, want bocchi_game.db", cfg.DBPath)
	}
	if cfg.CacheBackend != "memory" {
		t.Errorf("CacheBackend = %q, want memory", cfg.CacheBackend)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestGeminiProviderNeedsKey(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Error("expected an error for gemini without an API key")
	}
}

func TestUnknownProviderRejected(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("LLM_PROVIDER", "claude")
	if _, err := Load(); err == nil {
		t.Error("expected an error for an unknown provider")
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
