package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemPedidoRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   int             `json:"cantidad"    validate:"required,min=1"`
	Descuento  decimal.Decimal `json:"descuento"   validate:"min=0"`
}

// CheckoutRequest is submitted by the storefront at checkout. TokenPago is
// the one-time payment token produced by the gateway's client-side widget.
type CheckoutRequest struct {
	ClienteID      string              `json:"cliente_id"      validate:"required,uuid"`
	Items          []ItemPedidoRequest `json:"items"           validate:"required,min=1,dive"`
	DescuentoPct   decimal.Decimal     `json:"descuento_pct"   validate:"min=0,max=100"`
	DireccionEnvio string              `json:"direccion_envio" validate:"required,min=10"`
	TokenPago      string              `json:"token_pago"      validate:"required"`
}

type ActualizarEstadoPedidoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=enviado entregado cancelado"`
}

// PedidoFilter is bound from the query string of GET /v1/pedidos.
type PedidoFilter struct {
	Estado string `form:"estado"` // empty = all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemPedidoResponse struct {
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PedidoResponse struct {
	ID               string               `json:"id"`
	Folio            int                  `json:"folio"`
	Cliente          string               `json:"cliente"`
	Items            []ItemPedidoResponse `json:"items"`
	ImporteArticulos decimal.Decimal      `json:"importe_articulos"`
	DescuentoPct     decimal.Decimal      `json:"descuento_pct"`
	DescuentoMonto   decimal.Decimal      `json:"descuento_monto"`
	Subtotal         decimal.Decimal      `json:"subtotal"`
	IVA              decimal.Decimal      `json:"iva"`
	EnvioCosto       decimal.Decimal      `json:"envio_costo"`
	Total            decimal.Decimal      `json:"total"`
	DireccionEnvio   string               `json:"direccion_envio"`
	Estado           string               `json:"estado"`
	ReferenciaPago   *string              `json:"referencia_pago,omitempty"`
	CreatedAt        string               `json:"created_at"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
