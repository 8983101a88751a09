package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hybridmarket/engine"
	adminhandlers "hybridmarket/handlers/admin"
	"hybridmarket/handlers/analytics"
	"hybridmarket/handlers/markets"
	"hybridmarket/handlers/orders"
	"hybridmarket/handlers/quotes"
	"hybridmarket/handlers/trade"
	"hybridmarket/handlers/traders"
	"hybridmarket/jobs"
	"hybridmarket/middleware"
	"hybridmarket/migration"
	_ "hybridmarket/migration/migrations"
	"hybridmarket/persist"
	"hybridmarket/seed"
	"hybridmarket/setup"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	seedDemo := flag.Bool("seed", false, "seed demo traders and markets, then continue serving")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := setup.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := persist.OpenDB(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := migration.RunAll(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	reserve := engine.NewReserve(cfg.InitialReserve())
	recorder := persist.NewRecorder(db, log)
	defer recorder.Close()
	reg := engine.NewRegistry(cfg.EngineConfig(), reserve, recorder)

	if *seedDemo {
		if err := seed.Demo(db, reg); err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo data")
		}
		log.Info().Msg("seeded demo data")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := jobs.NewAnalyticsSweeper(reg, db, log, time.Duration(cfg.Analytics.SweepSeconds)*time.Second)
	go sweeper.Run(ctx)

	jwtSecret := []byte(cfg.JWTSecret)

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	v0 := r.PathPrefix("/v0").Subrouter()
	v0.HandleFunc("/traders/register", traders.RegisterHandler(db)).Methods(http.MethodPost)
	v0.HandleFunc("/markets", markets.CreateMarketHandler(reg, db)).Methods(http.MethodPost)
	v0.HandleFunc("/markets", markets.ListMarketsHandler(reg)).Methods(http.MethodGet)
	v0.HandleFunc("/markets/{marketId}", markets.GetMarketHandler(reg)).Methods(http.MethodGet)
	v0.HandleFunc("/markets/{marketId}/buy", trade.BuyHandler(reg, db)).Methods(http.MethodPost)
	v0.HandleFunc("/markets/{marketId}/orders", orders.PlaceOrderHandler(reg, db)).Methods(http.MethodPost)
	v0.HandleFunc("/markets/{marketId}/quote", quotes.QuoteHandler(reg)).Methods(http.MethodGet)
	v0.HandleFunc("/analytics/markets", analytics.SummaryHandler(reg)).Methods(http.MethodGet)
	v0.HandleFunc("/analytics/markets/{marketId}", analytics.HistoryHandler(db)).Methods(http.MethodGet)
	v0.HandleFunc("/admin/login", adminhandlers.LoginHandler(cfg.AdminPasswordHash, jwtSecret)).Methods(http.MethodPost)
	v0.HandleFunc("/admin/markets/{marketId}/data", adminhandlers.PurgeMarketDataHandler(db, jwtSecret)).Methods(http.MethodDelete)
	v0.HandleFunc("/admin/reset-analytics", adminhandlers.ResetAnalyticsHandler(db, jwtSecret)).Methods(http.MethodPost)
	v0.HandleFunc("/admin/traders/{name}/deactivate", adminhandlers.DeactivateTraderHandler(db, jwtSecret)).Methods(http.MethodPost)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key"},
	}).Handler(limiter.Middleware(r))

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("hybridmarket listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
