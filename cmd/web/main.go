package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"medpulse/internal/app"
)

func main() {
	// Missing .env is fine; configuration falls back to defaults
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded environment from .env file")
	}

	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
