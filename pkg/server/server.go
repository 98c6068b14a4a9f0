package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	batchhandler "github.com/de-tools/business-pulse/pkg/handlers/batch"
	reporthandler "github.com/de-tools/business-pulse/pkg/handlers/report"
	pulsemiddleware "github.com/de-tools/business-pulse/pkg/server/middleware"
	"github.com/de-tools/business-pulse/pkg/services/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Reports    reporthandler.ReportService
	Briefs     reporthandler.BriefComposer
	Businesses reporthandler.BusinessLookup
	// Batches is optional; batch routes are not mounted without it.
	Batches workflow.Controller
	// Metrics is optional; /metrics is not mounted without it.
	Metrics prometheus.Gatherer
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(logger, config.Dependencies)

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WebAPI{
		router:          router,
		logger:          &logger,
		shutdownTimeout: timeout,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func ConfigureRouter(logger zerolog.Logger, deps Dependencies) *chi.Mux {
	reports := reporthandler.NewHandler(deps.Reports, deps.Briefs, deps.Businesses)

	router := chi.NewRouter()
	router.Use(pulsemiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/businesses/{business}", reports.Routes)
		if deps.Batches != nil {
			r.Route("/batches", batchhandler.NewHandler(deps.Batches).Routes)
		}
	})

	if deps.Metrics != nil {
		router.Handle("/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	return router
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
