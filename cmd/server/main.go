package main

import (
	"log/slog"
	"net/http"
	"os"

	"promomailer/internal/ai"
	"promomailer/internal/api"
	"promomailer/internal/config"
	"promomailer/internal/core"
	"promomailer/internal/httpx"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	fetcher := httpx.NewCollyFetcher(cfg.Fetch.UserAgent, cfg.Fetch.Timeout)

	aiClient, provider := ai.NewClient(ai.Options{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		BaseURL:  cfg.AI.BaseURL,
		Model:    cfg.AI.Model,
	})
	slog.Info("completion client ready", "provider", provider)

	emails := core.NewEmailService(fetcher, aiClient, core.Config{
		MinBusinessTextChars: cfg.Generate.MinBusinessTextChars,
		// The real provider needs a key on every call; the mock does not.
		RequireAPIKey: provider == ai.ProviderOpenAI,
		DefaultAPIKey: cfg.AI.APIKey,
	})

	srv := api.NewServer(emails)

	slog.Info("starting server", "addr", cfg.Server.Addr())
	if err := http.ListenAndServe(cfg.Server.Addr(), srv.Router()); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
