package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Turno is one cash-register shift (corte de caja), from open to close.
// Estado: "abierto" | "cerrado" — terminal, a closed turno is never reopened.
type Turno struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio        int       `gorm:"uniqueIndex;not null"`
	Sucursal     string    `gorm:"not null;index"`
	UsuarioID    uuid.UUID `gorm:"type:uuid;not null"`
	TurnoLaboral string    `gorm:"type:varchar(20);not null"` // matutino | vespertino | nocturno
	// FondoInicial is set at open and immutable thereafter.
	FondoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Closing figures — all nil while the turno is open.
	EfectivoContado  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	EfectivoEsperado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Diferencia       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Clasificacion: "cuadrado" | "sobrante" | "faltante"
	Clasificacion *string `gorm:"type:varchar(20)"`
	Estado        string  `gorm:"type:varchar(20);not null;default:'abierto'"`
	Observaciones *string
	OpenedAt      time.Time
	ClosedAt      *time.Time
}

func (Turno) TableName() string { return "turnos" }
