// Package totales implements the order totals engine shared by the POS,
// quotations and the storefront checkout.
//
// Prices are IVA-inclusive: the tax is desglosado (divided out) from the
// discounted total, never added on top. All arithmetic runs at full decimal
// precision; rounding to 2 decimals happens once, on the returned breakdown.
package totales

import "github.com/shopspring/decimal"

// Linea is one cart/quotation line. Descuento is an absolute per-line amount,
// independent of the order-level percentage discount.
type Linea struct {
	Cantidad       int
	PrecioUnitario decimal.Decimal
	Descuento      decimal.Decimal
}

// Totales is the breakdown of an order, rounded to 2 decimals.
// Subtotal + IVA == Total holds exactly: IVA is derived from the rounded pair.
type Totales struct {
	ImporteArticulos  decimal.Decimal `json:"importe_articulos"`
	DescuentoMonto    decimal.Decimal `json:"descuento_monto"`
	TotalConDescuento decimal.Decimal `json:"total_con_descuento"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	IVA               decimal.Decimal `json:"iva"`
	Total             decimal.Decimal `json:"total"`
}

var (
	uno  = decimal.NewFromInt(1)
	cien = decimal.NewFromInt(100)
)

// SubtotalLinea returns Cantidad × PrecioUnitario − Descuento, unrounded.
func SubtotalLinea(l Linea) decimal.Decimal {
	return l.PrecioUnitario.Mul(decimal.NewFromInt(int64(l.Cantidad))).Sub(l.Descuento)
}

// Calcular converts cart lines plus an order-level discount percentage and a
// tax rate (both in percent, e.g. 16 for IVA) into a consistent breakdown.
//
// Line discounts reduce ImporteArticulos and the percentage discount then
// applies on that already-reduced figure; both discounts stack. Callers are
// responsible for keeping descuentoPct within [0,100] — no clamping happens
// here. An empty line list yields an all-zero breakdown.
func Calcular(lineas []Linea, descuentoPct, tasaIVA decimal.Decimal) Totales {
	importe := decimal.Zero
	for _, l := range lineas {
		importe = importe.Add(SubtotalLinea(l))
	}

	descuento := importe.Mul(descuentoPct).Div(cien)
	conDescuento := importe.Sub(descuento)

	// Desglose de IVA: the discounted total already contains the tax.
	subtotal := conDescuento.Div(uno.Add(tasaIVA.Div(cien)))

	total := conDescuento.Round(2)
	subRedondeado := subtotal.Round(2)

	return Totales{
		ImporteArticulos:  importe.Round(2),
		DescuentoMonto:    descuento.Round(2),
		TotalConDescuento: total,
		Subtotal:          subRedondeado,
		IVA:               total.Sub(subRedondeado),
		Total:             total,
	}
}
