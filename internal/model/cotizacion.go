package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cotizacion is a quotation sent to a customer. It carries a frozen totals
// breakdown and a validity window; once vencida it can no longer be accepted.
// Estado: "vigente" | "aceptada" | "vencida"
type Cotizacion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio     int       `gorm:"uniqueIndex;not null"`
	ClienteID uuid.UUID `gorm:"type:uuid;index;not null"`
	UsuarioID uuid.UUID `gorm:"type:uuid;not null"`

	ImporteArticulos decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoPct     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DescuentoMonto   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IVA              decimal.Decimal `gorm:"type:decimal(12,2);not null;column:iva"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	VigenciaDias int       `gorm:"not null;default:15"`
	ExpiraAt     time.Time `gorm:"not null"`
	Estado       string    `gorm:"type:varchar(20);not null;default:'vigente'"`
	Notas        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items   []CotizacionItem `gorm:"foreignKey:CotizacionID"`
	Cliente *Cliente         `gorm:"foreignKey:ClienteID"`
}

func (Cotizacion) TableName() string { return "cotizaciones" }

type CotizacionItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CotizacionID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (CotizacionItem) TableName() string { return "cotizacion_items" }
