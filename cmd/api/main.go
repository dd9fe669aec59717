package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/vpetrenko/glr-docfill/internal/adapters/http"
	"github.com/vpetrenko/glr-docfill/internal/bootstrap"
	"github.com/vpetrenko/glr-docfill/internal/config"
	"github.com/vpetrenko/glr-docfill/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewJSONLogger("api", cfg.LogLevel)
	app := bootstrap.New(cfg, logger, "api")

	router := httpadapter.NewRouter(app.Config, app.Filler, app.Metrics, logger).Handler()
	server := &http.Server{
		Addr:        ":" + cfg.APIPort,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// The LLM round-trip dominates request time; leave headroom past
		// its client timeout.
		WriteTimeout: time.Duration(cfg.LLMTimeoutSeconds+30) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("api listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown error: %v", err)
	}
}
