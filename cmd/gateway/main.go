package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"

	api "github.com/mind-engage/mindengage-merit/internal/api/http"
	"github.com/mind-engage/mindengage-merit/internal/calculator"
	"github.com/mind-engage/mindengage-merit/internal/config"
	"github.com/mind-engage/mindengage-merit/internal/formats"
	"github.com/mind-engage/mindengage-merit/internal/formats/nu"
	"github.com/mind-engage/mindengage-merit/internal/logging"
	"github.com/mind-engage/mindengage-merit/internal/refdata"
	storage "github.com/mind-engage/mindengage-merit/internal/storage"
)

func main() {
	cfg := config.FromEnv()
	log := logging.New(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	// --- Reference data ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bs, err := storage.NewFSStore(cfg.DataBasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("blob store")
	}
	ds, dbh, err := loadDataset(ctx, cfg, bs, log)
	if err != nil {
		log.Fatal().Err(err).Str("source", string(cfg.DataSource)).Msg("load reference data")
	}
	if dbh != nil {
		defer dbh.Close()
	}
	warnings, err := refdata.Validate(ds)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid reference data")
	}
	for _, w := range warnings {
		log.Warn().Str("check", w).Msg("reference data")
	}

	catalog := refdata.NewCatalog(ds)
	svc := calculator.New(catalog, calculator.WithLogger(log.With().Str("component", "calculator").Logger()))
	nuScorer, ok := formats.Lookup(nu.Profile)
	if !ok {
		log.Fatal().Str("profile", nu.Profile).Msg("scorer not registered")
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(hlog.NewHandler(log))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("req_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	}))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/universities", api.ListUniversitiesHandler(catalog))
		ar.Get("/universities/{universityID}", api.GetUniversityHandler(catalog))
		ar.Get("/merit", api.MeritTablesHandler(catalog))
		ar.Get("/test-patterns", api.TestPatternsHandler(catalog))

		ar.Post("/aggregate", api.CalculateHandler(svc))
		ar.Post("/eligibility", api.EligibilityHandler(svc))

		ar.Get("/nu-test", api.NUTestPolicyHandler(nuScorer))
		ar.Post("/nu-test/score", api.NUTestScoreHandler(svc))
	})

	// Dataset staging has no auth; only expose it on a local install.
	if cfg.Mode == config.ModeOffline {
		r.Route("/datasets", func(dr chi.Router) {
			api.MountDatasets(dr, bs)
		})
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if dbh != nil {
			if err := dbh.PingContext(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(200)
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()
	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("mode", string(cfg.Mode)).
		Str("source", string(cfg.DataSource)).
		Str("dataset", catalog.Version()).
		Msg("listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("server stopped")
}
