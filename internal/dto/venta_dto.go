package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha  string `form:"fecha"`                      // YYYY-MM-DD; empty = today
	Estado string `form:"estado,default=completada"`  // completada | cancelada | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   int             `json:"cantidad"    validate:"required,min=1"`
	Descuento  decimal.Decimal `json:"descuento"   validate:"min=0"`
}

type RegistrarVentaRequest struct {
	TurnoID      string             `json:"turno_id"      validate:"required,uuid"`
	ClienteID    *string            `json:"cliente_id"    validate:"omitempty,uuid"`
	Items        []ItemVentaRequest `json:"items"         validate:"required,min=1,dive"`
	DescuentoPct decimal.Decimal    `json:"descuento_pct" validate:"min=0,max=100"`
	MetodoPago   string             `json:"metodo_pago"   validate:"required,oneof=efectivo tarjeta transferencia credito"`
}

type CancelarVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID               string              `json:"id"`
	Folio            int                 `json:"folio"`
	TurnoID          string              `json:"turno_id"`
	Items            []ItemVentaResponse `json:"items"`
	ImporteArticulos decimal.Decimal     `json:"importe_articulos"`
	DescuentoPct     decimal.Decimal     `json:"descuento_pct"`
	DescuentoMonto   decimal.Decimal     `json:"descuento_monto"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	IVA              decimal.Decimal     `json:"iva"`
	Total            decimal.Decimal     `json:"total"`
	MetodoPago       string              `json:"metodo_pago"`
	Estado           string              `json:"estado"`
	CreatedAt        string              `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
