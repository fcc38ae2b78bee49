package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pedido is an online-store order created at checkout.
// Estado: "pendiente" | "pagado" | "enviado" | "entregado" | "cancelado"
type Pedido struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio     int       `gorm:"uniqueIndex;not null"`
	ClienteID uuid.UUID `gorm:"type:uuid;index;not null"`

	ImporteArticulos decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoPct     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DescuentoMonto   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IVA              decimal.Decimal `gorm:"type:decimal(12,2);not null;column:iva"`
	EnvioCosto       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// Total = totals-engine total + EnvioCosto (shipping is not discounted).
	Total decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	DireccionEnvio string `gorm:"not null"`
	Estado         string `gorm:"type:varchar(20);not null;default:'pendiente'"`
	// ReferenciaPago is the charge id returned by the payment gateway.
	ReferenciaPago *string `gorm:"type:varchar(64)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items   []PedidoItem `gorm:"foreignKey:PedidoID"`
	Cliente *Cliente     `gorm:"foreignKey:ClienteID"`
}

func (Pedido) TableName() string { return "pedidos" }

type PedidoItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (PedidoItem) TableName() string { return "pedido_items" }
