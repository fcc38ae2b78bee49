package dto

import "github.com/shopspring/decimal"

// ResumenDiarioResponse feeds the dashboard for a single calendar date.
// Gross/discount/net figures are split by channel (POS vs tienda en línea).
type ResumenDiarioResponse struct {
	Fecha string `json:"fecha"` // YYYY-MM-DD

	VentasCantidad  int             `json:"ventas_cantidad"`
	VentasBruto     decimal.Decimal `json:"ventas_bruto"`
	VentasDescuento decimal.Decimal `json:"ventas_descuento"`
	VentasNeto      decimal.Decimal `json:"ventas_neto"`

	PedidosCantidad  int             `json:"pedidos_cantidad"`
	PedidosBruto     decimal.Decimal `json:"pedidos_bruto"`
	PedidosDescuento decimal.Decimal `json:"pedidos_descuento"`
	PedidosNeto      decimal.Decimal `json:"pedidos_neto"`

	TotalTransacciones int             `json:"total_transacciones"`
	TotalNeto          decimal.Decimal `json:"total_neto"`
}
