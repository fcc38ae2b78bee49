package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a sellable item. Precio is the listed price and already
// includes IVA (tax-inclusive pricing); the totals engine desglosa the tax
// at calculation time, never the other way around.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string    `gorm:"uniqueIndex;not null"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	CategoriaID *uuid.UUID      `gorm:"type:uuid;index"`
	Precio      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Costo       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	// Publicado controls visibility in the online storefront; the POS can
	// still sell unpublished products.
	Publicado bool `gorm:"not null;default:false"`
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

func (Producto) TableName() string { return "productos" }
