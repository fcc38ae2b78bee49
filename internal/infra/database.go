package infra

import (
	"fmt"

	"github.com/rirobledo1/POSAI-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches GORM
// cannot express (folio sequences, partial index for the billing retry cron).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration tests
// against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Categoria{},
		&model.Cliente{},
		&model.Producto{},
		&model.Turno{},
		&model.Venta{},
		&model.VentaItem{},
		&model.Pedido{},
		&model.PedidoItem{},
		&model.Cotizacion{},
		&model.CotizacionItem{},
		&model.PlanSuscripcion{},
		&model.Suscripcion{},
		&model.CargoSuscripcion{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot produce.
// Safe to re-run on an already-patched schema.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Folio sequences — folios are assigned by the persistence layer,
		// one sequence per document type.
		`CREATE SEQUENCE IF NOT EXISTS turnos_folio_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS ventas_folio_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS pedidos_folio_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS cotizaciones_folio_seq START 1`,

		// Partial unique index: at most one open turno per sucursal.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_turnos_abierto_sucursal') THEN
		    CREATE UNIQUE INDEX idx_turnos_abierto_sucursal
		        ON turnos (sucursal)
		        WHERE estado = 'abierto';
		  END IF;
		END $$`,

		// Partial index for the billing retry cron query.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cargos_pending_retry') THEN
		    CREATE INDEX idx_cargos_pending_retry
		        ON cargos_suscripcion (next_retry_at)
		        WHERE estado = 'pendiente' AND next_retry_at IS NOT NULL;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
