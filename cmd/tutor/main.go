// Tutor backend server - SM-2 scheduling, streaming AI tutor, and offline
// text-to-speech over a local PostgreSQL + Ollama + piper stack.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/api"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/database"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/llm"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/services"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/speech"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/store"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/tutor"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, continuing with existing environment")
	}

	setupLogging(getEnv("LOG_LEVEL", "info"))
	slog.Info("Starting tutor backend", "version", version.Full())

	ctx := context.Background()

	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load database config", "error", err)
		os.Exit(1)
	}

	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			slog.Error("Error closing database client", "error", err)
		}
	}()
	slog.Info("Database connected, schema up to date")

	st := store.New(dbClient.DB())

	// Apply the env-supplied intake default only when the key has never
	// been seeded. Migration 0001 seeds the key, so on a migrated database
	// this leaves the stored value unchanged.
	if v := os.Getenv("NEW_CARDS_PER_DAY"); v != "" {
		if err := st.SetMetaIfAbsent(ctx, models.MetaKeyNewCardsPerDay, v); err != nil {
			slog.Error("Failed to seed new_cards_per_day", "error", err)
			os.Exit(1)
		}
	}

	reviewService := services.NewReviewService(st)
	sessionService := services.NewSessionService(st)
	progressService := services.NewProgressService(st)
	settingsService := services.NewSettingsService(st)
	itemService := services.NewItemService(st)

	// Close out any sessions abandoned by a previous run.
	if err := sessionService.SweepStale(ctx); err != nil {
		slog.Warn("Stale session sweep failed", "error", err)
	}

	llmClient := llm.NewClient(
		getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		getEnv("OLLAMA_MODEL", "llama3.1:70b"),
	)
	tutorGateway := tutor.NewGateway(st, llmClient)

	speechGateway := speech.NewGateway(speech.Config{
		BinaryPath: os.Getenv("PIPER_BINARY_PATH"),
		ModelPath:  os.Getenv("PIPER_MODEL_PATH"),
		ConfigPath: getEnv("PIPER_CONFIG_PATH", os.Getenv("PIPER_MODEL_PATH")+".json"),
	})

	server := api.NewServer(dbClient, reviewService, sessionService,
		progressService, settingsService, itemService,
		tutorGateway, speechGateway, llmClient)

	addr := getEnv("APP_HOST", "0.0.0.0") + ":" + getEnv("APP_PORT", "8000")
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: stop accepting requests, then close any study
	// session still open.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}
	if err := sessionService.CloseAllOpen(shutdownCtx); err != nil {
		slog.Error("Closing open sessions failed", "error", err)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})))
}
