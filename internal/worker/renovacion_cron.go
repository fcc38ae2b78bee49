package worker

// renovacion_cron.go
// Background goroutine that drives recurring billing. Every tick it:
//   - creates the pending cargo for each subscription whose proximo_cobro
//     passed (idempotent per periodo) and enqueues the charge job
//   - re-attempts cargos stuck with a next_retry_at in the past, through
//     the circuit breaker so a downed gateway is not hammered
//   - flags subscriptions morosa once a cargo burns its retry budget

import (
	"context"
	"fmt"
	"time"

	"github.com/rirobledo1/POSAI-sub001/internal/infra"
	"github.com/rirobledo1/POSAI-sub001/internal/model"
	"github.com/rirobledo1/POSAI-sub001/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	renovacionTickInterval = 30 * time.Second
	renovacionBatchSize    = 10
)

// RenovacionCronConfig holds all dependencies for the billing goroutine.
type RenovacionCronConfig struct {
	SuscripcionRepo repository.SuscripcionRepository
	Pasarela        *infra.PasarelaClient
	CB              *infra.CircuitBreaker
	RDB             *redis.Client
	Dispatcher      *Dispatcher
}

// StartRenovacionCron launches the billing goroutine. It respects the
// context for graceful shutdown.
func StartRenovacionCron(ctx context.Context, cfg RenovacionCronConfig) {
	go func() {
		ticker := time.NewTicker(renovacionTickInterval)
		defer ticker.Stop()

		log.Info().Msg("renovacion_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("renovacion_cron: shutting down")
				return
			case <-ticker.C:
				generarCargos(ctx, cfg)
				processRetries(ctx, cfg)
			}
		}
	}()
}

// generarCargos creates the pending cargo for each due subscription and
// enqueues its charge job. FindCargoPorPeriodo makes the tick idempotent: a
// crash between create and enqueue only delays the job one tick.
func generarCargos(ctx context.Context, cfg RenovacionCronConfig) {
	now := time.Now()
	vencidas, err := cfg.SuscripcionRepo.ListPorCobrar(ctx, now, renovacionBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("renovacion_cron: failed to query due subscriptions")
		return
	}

	for i := range vencidas {
		sus := &vencidas[i]
		periodo := sus.ProximoCobro.Format("2006-01")

		cargo, err := cfg.SuscripcionRepo.FindCargoPorPeriodo(ctx, sus.ID, periodo)
		if err != nil {
			cargo = &model.CargoSuscripcion{
				SuscripcionID: sus.ID,
				Monto:         sus.Plan.Precio,
				Periodo:       periodo,
				Estado:        "pendiente",
			}
			if err := cfg.SuscripcionRepo.CreateCargo(ctx, cargo); err != nil {
				log.Error().Err(err).Str("suscripcion_id", sus.ID.String()).Msg("renovacion_cron: failed to create cargo")
				continue
			}
		}
		if cargo.Estado != "pendiente" || cargo.NextRetryAt != nil {
			continue // already settled or owned by the retry path
		}

		if err := cfg.Dispatcher.EnqueueCobro(ctx, CobroJobPayload{CargoID: cargo.ID.String()}); err != nil {
			log.Error().Err(err).Str("cargo_id", cargo.ID.String()).Msg("renovacion_cron: failed to enqueue cobro")
			continue
		}
		log.Info().
			Str("suscripcion_id", sus.ID.String()).
			Str("cargo_id", cargo.ID.String()).
			Str("periodo", periodo).
			Msg("renovacion_cron: cargo enqueued")
	}
}

func processRetries(ctx context.Context, cfg RenovacionCronConfig) {
	// If CB is open, skip entirely — don't hammer a downed gateway
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("renovacion_cron: circuit breaker is open, skipping tick")
		return
	}

	now := time.Now()
	cargos, err := cfg.SuscripcionRepo.ListPendingRetries(ctx, now, renovacionBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("renovacion_cron: failed to query pending retries")
		return
	}

	if len(cargos) == 0 {
		return
	}

	log.Info().Int("count", len(cargos)).Msg("renovacion_cron: processing pending cargos")

	for i := range cargos {
		cargo := &cargos[i]

		// Check CB state before each call — it may have tripped mid-batch
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("renovacion_cron: circuit breaker opened mid-batch, stopping")
			return
		}

		sus, err := cfg.SuscripcionRepo.FindSuscripcionByID(ctx, cargo.SuscripcionID)
		if err != nil {
			log.Error().Err(err).Str("cargo_id", cargo.ID.String()).Msg("renovacion_cron: suscripcion not found")
			continue
		}

		var gwResp *infra.CargoResponse
		clienteID := sus.ClienteID.String()
		cbErr := cfg.CB.Execute(func() error {
			resp, err := cfg.Pasarela.Cobrar(ctx, infra.CargoPayload{
				Monto:       cargo.Monto.InexactFloat64(),
				Moneda:      "MXN",
				Referencia:  cargo.ID.String(),
				Descripcion: fmt.Sprintf("Suscripción %s — periodo %s", sus.PlanID, cargo.Periodo),
				ClienteID:   &clienteID,
			})
			if err != nil {
				return err
			}
			gwResp = resp
			return nil
		})

		if cbErr != nil {
			// Failure — increment retry count, schedule next attempt
			cargo.RetryCount++
			errMsg := cbErr.Error()
			cargo.LastError = &errMsg
			nextRetry := time.Now().Add(computeRetryBackoff(cargo.RetryCount))
			cargo.NextRetryAt = &nextRetry

			if cargo.RetryCount >= MaxCargoRetries {
				cargo.Estado = "error"
				cargo.NextRetryAt = nil
				log.Error().
					Str("cargo_id", cargo.ID.String()).
					Str("suscripcion_id", cargo.SuscripcionID.String()).
					Int("retries", cargo.RetryCount).
					Msg("renovacion_cron: max retries exceeded, moving to error/DLQ")

				sus.Estado = "morosa"
				_ = cfg.SuscripcionRepo.UpdateSuscripcion(ctx, sus)

				// Send to DLQ for manual inspection
				payload := fmt.Sprintf(`{"cargo_id":"%s","suscripcion_id":"%s"}`, cargo.ID, cargo.SuscripcionID)
				SendToDLQ(ctx, cfg.RDB, QueueCobros, "cobro", []byte(payload),
					fmt.Sprintf("max retries (%d) exceeded: %s", MaxCargoRetries, errMsg),
					cargo.RetryCount)
			} else {
				log.Warn().
					Str("cargo_id", cargo.ID.String()).
					Int("retry_count", cargo.RetryCount).
					Time("next_retry_at", *cargo.NextRetryAt).
					Msg("renovacion_cron: gateway retry failed, scheduled next attempt")
			}

			_ = cfg.SuscripcionRepo.UpdateCargo(ctx, cargo)
			continue
		}

		// Success path
		if gwResp != nil && gwResp.Resultado == "aprobado" {
			cargo.Estado = "pagado"
			ref := gwResp.CargoID
			cargo.ReferenciaPago = &ref
			cargo.NextRetryAt = nil
			cargo.LastError = nil
			_ = cfg.SuscripcionRepo.UpdateCargo(ctx, cargo)

			sus.ProximoCobro = AvanzarPeriodo(sus.ProximoCobro, sus.Plan.Periodicidad)
			sus.Estado = "activa"
			_ = cfg.SuscripcionRepo.UpdateSuscripcion(ctx, sus)

			log.Info().
				Str("cargo_id", cargo.ID.String()).
				Str("referencia", ref).
				Int("total_retries", cargo.RetryCount).
				Msg("renovacion_cron: cargo aprobado after retry")
		} else if gwResp != nil {
			cargo.Estado = "rechazado"
			msg := gwResp.Mensaje
			cargo.LastError = &msg
			cargo.NextRetryAt = nil
			_ = cfg.SuscripcionRepo.UpdateCargo(ctx, cargo)

			sus.Estado = "morosa"
			_ = cfg.SuscripcionRepo.UpdateSuscripcion(ctx, sus)
			log.Warn().
				Str("cargo_id", cargo.ID.String()).
				Str("mensaje", msg).
				Msg("renovacion_cron: cargo rechazado on retry, suscripción morosa")
		}
	}
}
