package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemCotizacionRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   int             `json:"cantidad"    validate:"required,min=1"`
	Descuento  decimal.Decimal `json:"descuento"   validate:"min=0"`
}

type CrearCotizacionRequest struct {
	ClienteID    string                  `json:"cliente_id"    validate:"required,uuid"`
	Items        []ItemCotizacionRequest `json:"items"         validate:"required,min=1,dive"`
	DescuentoPct decimal.Decimal         `json:"descuento_pct" validate:"min=0,max=100"`
	VigenciaDias int                     `json:"vigencia_dias" validate:"omitempty,min=1,max=90"`
	Notas        *string                 `json:"notas"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemCotizacionResponse struct {
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type CotizacionResponse struct {
	ID               string                   `json:"id"`
	Folio            int                      `json:"folio"`
	Cliente          string                   `json:"cliente"`
	Items            []ItemCotizacionResponse `json:"items"`
	ImporteArticulos decimal.Decimal          `json:"importe_articulos"`
	DescuentoPct     decimal.Decimal          `json:"descuento_pct"`
	DescuentoMonto   decimal.Decimal          `json:"descuento_monto"`
	Subtotal         decimal.Decimal          `json:"subtotal"`
	IVA              decimal.Decimal          `json:"iva"`
	Total            decimal.Decimal          `json:"total"`
	VigenciaDias     int                      `json:"vigencia_dias"`
	ExpiraAt         string                   `json:"expira_at"`
	Estado           string                   `json:"estado"`
	Notas            *string                  `json:"notas,omitempty"`
	CreatedAt        string                   `json:"created_at"`
}
