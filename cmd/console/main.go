// The console is a local client for playing without Discord: same
// engine, same store, with a terminal UI in place of slash commands.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kessoku-hq/bocchi-life/internal/cache"
	"github.com/kessoku-hq/bocchi-life/internal/game"
	"github.com/kessoku-hq/bocchi-life/internal/services"
	"github.com/kessoku-hq/bocchi-life/internal/store"
	"github.com/kessoku-hq/bocchi-life/pkg/worldclock"
)

// consolePlayerID keys the local save. One life per database file.
const consolePlayerID = "console"

func main() {
	// The TUI owns the terminal, so logs go nowhere unless asked for.
	logOut := io.Writer(io.Discard)
	if os.Getenv("CONSOLE_DEBUG") != "" {
		f, err := os.OpenFile("console_debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			defer f.Close()
			logOut = f
		}
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))

	dbPath := getEnv("DB_PATH", "console_game.db")
	playerStore, err := store.NewSQLiteStore(dbPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open player store: %v\n", err)
		os.Exit(1)
	}
	defer playerStore.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := playerStore.Migrate(migrateCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to migrate player store: %v\n", err)
		os.Exit(1)
	}

	var llmService services.LLMService
	switch strings.ToLower(getEnv("LLM_PROVIDER", "mock")) {
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintf(os.Stderr, "GEMINI_API_KEY is required for the gemini provider\n")
			os.Exit(1)
		}
		svc, err := services.NewGeminiService(context.Background(), apiKey, os.Getenv("GEMINI_MODEL"), logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create Gemini client: %v\n", err)
			os.Exit(1)
		}
		defer svc.Close()
		llmService = svc
	default:
		llmService = services.NewMockLLM()
	}

	initCtx, initCancel := context.WithTimeout(context.Background(), time.Minute)
	defer initCancel()
	if err := llmService.InitModel(initCtx, os.Getenv("GEMINI_MODEL")); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize LLM model: %v\n", err)
		os.Exit(1)
	}

	engine := game.NewEngine(playerStore, llmService,
		cache.NewMemoryCache(cache.DefaultTTL), worldclock.NewJSTClock(), logger)

	p := tea.NewProgram(NewConsoleUI(engine),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
