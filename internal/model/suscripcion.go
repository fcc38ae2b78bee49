package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanSuscripcion is a recurring-billing plan.
// Periodicidad: "mensual" | "anual"
type PlanSuscripcion struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string          `gorm:"uniqueIndex;not null"`
	Descripcion  *string
	Precio       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Periodicidad string          `gorm:"type:varchar(20);not null;default:'mensual'"`
	Activo       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (PlanSuscripcion) TableName() string { return "planes_suscripcion" }

// Suscripcion links a Cliente to a plan. ProximoCobro drives the billing
// cron; a subscription with failed charges beyond the retry budget becomes
// "morosa" until a charge succeeds or it is cancelled.
// Estado: "activa" | "morosa" | "cancelada"
type Suscripcion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID    uuid.UUID `gorm:"type:uuid;index;not null"`
	PlanID       uuid.UUID `gorm:"type:uuid;not null"`
	Estado       string    `gorm:"type:varchar(20);not null;default:'activa'"`
	ProximoCobro time.Time `gorm:"index;not null"`
	CanceladaAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Cliente *Cliente         `gorm:"foreignKey:ClienteID"`
	Plan    *PlanSuscripcion `gorm:"foreignKey:PlanID"`
}

func (Suscripcion) TableName() string { return "suscripciones" }

// CargoSuscripcion records one billing attempt against the payment gateway.
// Estado: "pendiente" | "pagado" | "rechazado" | "error"
type CargoSuscripcion struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SuscripcionID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Monto         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Periodo       string          `gorm:"type:varchar(10);not null"` // YYYY-MM
	Estado        string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	// ReferenciaPago is the charge id returned by the gateway on success.
	ReferenciaPago *string `gorm:"type:varchar(64)"`
	// Retry fields — used by the billing cron to re-attempt failed charges.
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Suscripcion *Suscripcion `gorm:"foreignKey:SuscripcionID"`
}

func (CargoSuscripcion) TableName() string { return "cargos_suscripcion" }
