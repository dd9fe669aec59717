package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	formadapter "github.com/vpetrenko/glr-docfill/internal/adapters/form"
	"github.com/vpetrenko/glr-docfill/internal/bootstrap"
	"github.com/vpetrenko/glr-docfill/internal/config"
	"github.com/vpetrenko/glr-docfill/internal/infrastructure/storage/localfs"
	"github.com/vpetrenko/glr-docfill/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logs go to stderr so stdout stays clean for the prompts.
	logger := logging.NewJSONLoggerTo(os.Stderr, "form", cfg.LogLevel)
	app := bootstrap.New(cfg, logger, "form")

	files, err := localfs.New(cfg.OutputDir)
	if err != nil {
		log.Fatalf("init output storage: %v", err)
	}

	form := formadapter.New(
		formadapter.NewSurveyPrompter(),
		app.Filler,
		files,
		logger,
		os.Stdout,
		cfg.DefaultAPIKey,
	)
	if err := form.Run(ctx); err != nil {
		os.Exit(1)
	}
}
