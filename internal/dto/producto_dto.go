package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Filter ────────────────────────────────────────────────────────────────────

type ProductoFilter struct {
	Buscar    string `form:"buscar"`    // matches codigo or nombre
	Categoria string `form:"categoria"` // categoria id
	Publicado *bool  `form:"publicado"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo      string          `json:"codigo"       validate:"required,min=3,max=40"`
	Nombre      string          `json:"nombre"       validate:"required,min=2,max=150"`
	Descripcion *string         `json:"descripcion"`
	CategoriaID *string         `json:"categoria_id" validate:"omitempty,uuid"`
	Precio      decimal.Decimal `json:"precio"       validate:"min=0"`
	Costo       decimal.Decimal `json:"costo"        validate:"min=0"`
	Stock       int             `json:"stock"        validate:"min=0"`
	Publicado   bool            `json:"publicado"`
}

type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"       validate:"omitempty,min=2,max=150"`
	Descripcion *string          `json:"descripcion"`
	CategoriaID *string          `json:"categoria_id" validate:"omitempty,uuid"`
	Precio      *decimal.Decimal `json:"precio"       validate:"omitempty,min=0"`
	Costo       *decimal.Decimal `json:"costo"        validate:"omitempty,min=0"`
	Stock       *int             `json:"stock"        validate:"omitempty,min=0"`
	Publicado   *bool            `json:"publicado"`
	Activo      *bool            `json:"activo"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          uuid.UUID       `json:"id"`
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion,omitempty"`
	Categoria   *string         `json:"categoria,omitempty"`
	Precio      decimal.Decimal `json:"precio"`
	Costo       decimal.Decimal `json:"costo"`
	Stock       int             `json:"stock"`
	Publicado   bool            `json:"publicado"`
	Activo      bool            `json:"activo"`
}

// ConsultaPrecioResponse is the public price-check answer, cached in Redis.
type ConsultaPrecioResponse struct {
	Nombre          string          `json:"nombre"`
	Precio          decimal.Decimal `json:"precio"`
	StockDisponible int             `json:"stock_disponible"`
	Categoria       *string         `json:"categoria,omitempty"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
