package worker

// cobro_worker.go
// Processes subscription charge jobs from QueueCobros.
// Submits the charge to the payment gateway and records the outcome on the
// CargoSuscripcion row. Transient gateway errors get exponential backoff
// before the charge is handed back to the billing cron.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rirobledo1/POSAI-sub001/internal/infra"
	"github.com/rirobledo1/POSAI-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxCargoRetries is the total attempt budget per charge. Once exhausted the
// subscription is flagged morosa and the charge lands in the DLQ.
const MaxCargoRetries = 5

// CobroJobPayload is the job envelope sent to QueueCobros.
type CobroJobPayload struct {
	CargoID string `json:"cargo_id"`
}

// CobroWorker charges a pending CargoSuscripcion against the gateway.
type CobroWorker struct {
	pasarela *infra.PasarelaClient
	repo     repository.SuscripcionRepository
}

func NewCobroWorker(pasarela *infra.PasarelaClient, repo repository.SuscripcionRepository) *CobroWorker {
	return &CobroWorker{pasarela: pasarela, repo: repo}
}

// Process handles a single charge job:
//  1. Parse CobroJobPayload, fetch the cargo and its subscription
//  2. Submit the charge with exponential backoff (3 in-process attempts)
//  3. On approval: mark cargo pagado, advance ProximoCobro, clear morosa
//  4. On rejection: mark cargo rechazado (no retry, the card was declined)
//  5. On gateway error: bump RetryCount and schedule NextRetryAt for the cron
func (w *CobroWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload CobroJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("cobro_worker: invalid payload")
		return
	}

	cargoID, err := uuid.Parse(payload.CargoID)
	if err != nil {
		log.Error().Str("cargo_id", payload.CargoID).Msg("cobro_worker: invalid cargo_id")
		return
	}

	cargo, err := w.repo.FindCargoByID(ctx, cargoID)
	if err != nil {
		log.Error().Err(err).Str("cargo_id", payload.CargoID).Msg("cobro_worker: cargo not found")
		return
	}
	if cargo.Estado != "pendiente" {
		log.Debug().Str("cargo_id", payload.CargoID).Str("estado", cargo.Estado).Msg("cobro_worker: cargo already settled, skipping")
		return
	}

	sus, err := w.repo.FindSuscripcionByID(ctx, cargo.SuscripcionID)
	if err != nil {
		log.Error().Err(err).Str("cargo_id", payload.CargoID).Msg("cobro_worker: suscripcion not found")
		return
	}

	var gwResp *infra.CargoResponse
	clienteID := sus.ClienteID.String()
	gwErr := withRetry(ctx, 3, func(attempt int) error {
		resp, err := w.pasarela.Cobrar(ctx, infra.CargoPayload{
			Monto:       cargo.Monto.InexactFloat64(),
			Moneda:      "MXN",
			Referencia:  cargo.ID.String(),
			Descripcion: fmt.Sprintf("Suscripción %s — periodo %s", sus.PlanID, cargo.Periodo),
			ClienteID:   &clienteID,
		})
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("cargo_id", payload.CargoID).
				Msg("cobro_worker: gateway attempt failed, retrying")
			return err
		}
		gwResp = resp
		return nil
	})

	switch {
	case gwErr != nil:
		// Gateway unreachable — hand the cargo to the billing cron
		cargo.RetryCount++
		errMsg := gwErr.Error()
		cargo.LastError = &errMsg
		next := time.Now().Add(computeRetryBackoff(cargo.RetryCount))
		cargo.NextRetryAt = &next
		_ = w.repo.UpdateCargo(ctx, cargo)
		log.Warn().
			Str("cargo_id", payload.CargoID).
			Int("retry_count", cargo.RetryCount).
			Time("next_retry_at", next).
			Msg("cobro_worker: gateway unreachable, scheduled retry")

	case gwResp.Resultado == "aprobado":
		cargo.Estado = "pagado"
		ref := gwResp.CargoID
		cargo.ReferenciaPago = &ref
		cargo.NextRetryAt = nil
		cargo.LastError = nil
		_ = w.repo.UpdateCargo(ctx, cargo)

		sus.ProximoCobro = AvanzarPeriodo(sus.ProximoCobro, sus.Plan.Periodicidad)
		sus.Estado = "activa"
		_ = w.repo.UpdateSuscripcion(ctx, sus)
		log.Info().
			Str("cargo_id", payload.CargoID).
			Str("referencia", ref).
			Time("proximo_cobro", sus.ProximoCobro).
			Msg("cobro_worker: cargo aprobado")

	default:
		// The gateway answered but declined: the stored payment method is
		// bad, retrying the same card won't help.
		cargo.Estado = "rechazado"
		msg := gwResp.Mensaje
		cargo.LastError = &msg
		cargo.NextRetryAt = nil
		_ = w.repo.UpdateCargo(ctx, cargo)

		sus.Estado = "morosa"
		_ = w.repo.UpdateSuscripcion(ctx, sus)
		log.Warn().
			Str("cargo_id", payload.CargoID).
			Str("mensaje", msg).
			Msg("cobro_worker: cargo rechazado, suscripción morosa")
	}
}

// computeRetryBackoff grows the wait between cron re-attempts: 1m, 2m, 4m…
// capped at 30 minutes.
func computeRetryBackoff(retryCount int) time.Duration {
	d := time.Duration(1<<uint(retryCount-1)) * time.Minute
	if d > 30*time.Minute {
		return 30 * time.Minute
	}
	return d
}

// AvanzarPeriodo returns the next billing date for a plan periodicity.
func AvanzarPeriodo(desde time.Time, periodicidad string) time.Time {
	if periodicidad == "anual" {
		return desde.AddDate(1, 0, 0)
	}
	return desde.AddDate(0, 1, 0)
}
