package bootstrap

import (
	"log/slog"
	"time"

	"github.com/vpetrenko/glr-docfill/internal/config"
	"github.com/vpetrenko/glr-docfill/internal/core/ports"
	"github.com/vpetrenko/glr-docfill/internal/core/usecase"
	"github.com/vpetrenko/glr-docfill/internal/infrastructure/extractor/pdftext"
	"github.com/vpetrenko/glr-docfill/internal/infrastructure/llm/openrouter"
	"github.com/vpetrenko/glr-docfill/internal/infrastructure/template/docxtpl"
	"github.com/vpetrenko/glr-docfill/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.ServerMetrics
	Filler  ports.DocumentFiller
}

func New(cfg config.Config, logger *slog.Logger, service string) *App {
	serverMetrics := metrics.NewServerMetrics(service)

	extractor := pdftext.New(logger)
	engine := docxtpl.New()
	llmClient := openrouter.New(
		cfg.LLMBaseURL,
		cfg.LLMModel,
		cfg.LLMMaxTokens,
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second,
		cfg.LLMReferer,
		cfg.LLMTitle,
	)

	filler := usecase.NewFillPipeline(
		extractor,
		engine,
		llmClient,
		engine,
		logger,
		serverMetrics,
		cfg.OutputPrefix,
	)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: serverMetrics,
		Filler:  filler,
	}
}
