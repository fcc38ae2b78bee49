package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rirobledo1/POSAI-sub001/internal/config"
	"github.com/rirobledo1/POSAI-sub001/internal/infra"
	"github.com/rirobledo1/POSAI-sub001/internal/repository"
	"github.com/rirobledo1/POSAI-sub001/internal/router"
	"github.com/rirobledo1/POSAI-sub001/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Background workers — subscription billing runs through the Redis job
	// queue; the renewal cron generates charges and retries failed ones
	// behind a circuit breaker so a downed gateway cannot melt the loop.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pasarela := infra.NewPasarelaClient(cfg.PasarelaURL, cfg.PasarelaAPIKey)
	pasarelaCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	dispatcher := worker.NewDispatcher(rdb)
	suscripcionRepo := repository.NewSuscripcionRepository(db)
	cotizacionRepo := repository.NewCotizacionRepository(db)

	handlers := map[string]worker.Handler{
		worker.JobTypeCobro: worker.NewCobroWorker(pasarela, suscripcionRepo),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)
	worker.StartRenovacionCron(ctx, worker.RenovacionCronConfig{
		SuscripcionRepo: suscripcionRepo,
		Pasarela:        pasarela,
		CB:              pasarelaCB,
		RDB:             rdb,
		Dispatcher:      dispatcher,
	})
	worker.StartVencimientoCron(ctx, cotizacionRepo)

	r := router.New(cfg, db, rdb, pasarela, pasarelaCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("POSAI backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
