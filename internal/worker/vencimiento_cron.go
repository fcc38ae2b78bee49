package worker

import (
	"context"
	"time"

	"github.com/rirobledo1/POSAI-sub001/internal/repository"

	"github.com/rs/zerolog/log"
)

const vencimientoTickInterval = time.Hour

// StartVencimientoCron expires overdue quotations in the background.
// Reads also expire lazily, so this is a sweep, not a correctness requirement.
func StartVencimientoCron(ctx context.Context, repo repository.CotizacionRepository) {
	go func() {
		ticker := time.NewTicker(vencimientoTickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("vencimiento_cron: shutting down")
				return
			case <-ticker.C:
				n, err := repo.MarcarVencidas(ctx, time.Now())
				if err != nil {
					log.Error().Err(err).Msg("vencimiento_cron: sweep failed")
					continue
				}
				if n > 0 {
					log.Info().Int64("vencidas", n).Msg("vencimiento_cron: cotizaciones expiradas")
				}
			}
		}
	}()
}
