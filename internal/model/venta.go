package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is a POS sale registered against an open Turno.
// Estado: "completada" | "cancelada"
// MetodoPago: "efectivo" | "tarjeta" | "transferencia" | "credito"
type Venta struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio     int        `gorm:"uniqueIndex;not null"`
	TurnoID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	UsuarioID uuid.UUID  `gorm:"type:uuid;not null"`
	ClienteID *uuid.UUID `gorm:"type:uuid;index"`

	// Totals breakdown as produced by the totals engine.
	ImporteArticulos decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoPct     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DescuentoMonto   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IVA              decimal.Decimal `gorm:"type:decimal(12,2);not null;column:iva"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	MetodoPago string `gorm:"type:varchar(20);not null"`
	Estado     string `gorm:"type:varchar(20);not null;default:'completada'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Items   []VentaItem `gorm:"foreignKey:VentaID"`
	Cliente *Cliente    `gorm:"foreignKey:ClienteID"`
}

func (Venta) TableName() string { return "ventas" }

// VentaItem is one line of a sale. PrecioUnitario is captured at sale time
// (IVA-inclusive) so later price changes don't rewrite history.
type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (VentaItem) TableName() string { return "venta_items" }
