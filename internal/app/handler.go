package app

import (
	"log/slog"
	"net/http"

	"github.com/onepager/onepager/internal/observability"
	"github.com/onepager/onepager/internal/onepager"
	onepagerhttp "github.com/onepager/onepager/internal/onepager/http"
	"github.com/onepager/onepager/report"
)

// NewHandler wires the generator, its HTTP handlers and the metrics into the
// service router. The PDF preview and report routes are mounted only when a
// Gotenberg URL is configured.
func NewHandler(cfg *Config, logger *slog.Logger) http.Handler {
	metrics := observability.NewMetrics()
	generator := onepager.NewGenerator(logger,
		onepager.WithObserver(metrics),
		onepager.WithRAGStrategy(onepager.RAGStrategy(cfg.RAGStrategy)),
		onepager.WithConcurrency(cfg.MaxConcurrentGenerations),
	)

	var converter onepagerhttp.Converter
	var reportHandler *report.Handler
	if cfg.GotenbergURL != "" {
		client := report.NewClient(cfg.GotenbergURL)
		converter = client
		reportHandler = report.NewHandler(client, logger)
	}

	return NewRouter(RouterParams{
		Logger:          logger,
		Config:          cfg,
		OnePagerHandler: onepagerhttp.NewHandler(logger, generator, converter, cfg.MaxBodyBytes),
		ReportHandler:   reportHandler,
		Metrics:         metrics,
	})
}
