package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cri-tools/study-atlas/pkg/handlers/dashboard"

	studyatlasmiddleware "github.com/cri-tools/study-atlas/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router  *chi.Mux
	logger  *zerolog.Logger
	server  *http.Server
	timeout time.Duration
}

type Dependencies struct {
	Snapshots dashboard.SnapshotSource
	Logger    zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	// ArtifactPath, when set, is served verbatim as /dashboard_data.json.
	ArtifactPath string
	// StaticDir, when set, is mounted at / for the dashboard assets.
	StaticDir    string
	Dependencies Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	dashHandler := dashboard.NewHandler(config.Dependencies.Snapshots, config.ArtifactPath)

	router := chi.NewRouter()

	logger := config.Dependencies.Logger
	router.Use(studyatlasmiddleware.Logger(&logger))
	router.Use(studyatlasmiddleware.CORS())
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/snapshot", dashHandler.GetSnapshot)
		r.Get("/timepoints", dashHandler.ListTimepoints)
		r.Get("/outcomes/{timepoint}", dashHandler.GetOutcomes)
	})

	router.Get("/dashboard_data.json", dashHandler.GetArtifact)
	router.Get("/healthz", dashHandler.Healthz)

	if config.StaticDir != "" {
		router.Handle("/*", http.FileServer(http.Dir(config.StaticDir)))
	}

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	logger := config.Dependencies.Logger
	return &WebAPI{
		router:  router,
		logger:  &logger,
		timeout: timeout,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
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

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
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
