package totales

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalcularDesgloseIVA(t *testing.T) {
	lineas := []Linea{
		{Cantidad: 2, PrecioUnitario: dec("100"), Descuento: decimal.Zero},
		{Cantidad: 1, PrecioUnitario: dec("50"), Descuento: dec("5")},
	}

	tot := Calcular(lineas, dec("10"), dec("16"))

	assert.Equal(t, "245", tot.ImporteArticulos.String())
	assert.Equal(t, "24.5", tot.DescuentoMonto.String())
	assert.Equal(t, "220.5", tot.TotalConDescuento.String())
	assert.Equal(t, "190.09", tot.Subtotal.String())
	assert.Equal(t, "30.41", tot.IVA.String())
	assert.Equal(t, "220.5", tot.Total.String())
}

func TestCalcularListaVacia(t *testing.T) {
	tot := Calcular(nil, dec("10"), dec("16"))

	assert.True(t, tot.ImporteArticulos.IsZero())
	assert.True(t, tot.DescuentoMonto.IsZero())
	assert.True(t, tot.Subtotal.IsZero())
	assert.True(t, tot.IVA.IsZero())
	assert.True(t, tot.Total.IsZero())
}

func TestCalcularSinDescuento(t *testing.T) {
	lineas := []Linea{{Cantidad: 3, PrecioUnitario: dec("116"), Descuento: decimal.Zero}}

	tot := Calcular(lineas, decimal.Zero, dec("16"))

	assert.True(t, tot.DescuentoMonto.IsZero())
	assert.Equal(t, "348", tot.Total.String())
	assert.Equal(t, "300", tot.Subtotal.String())
	assert.Equal(t, "48", tot.IVA.String())
}

func TestCalcularIVACero(t *testing.T) {
	lineas := []Linea{{Cantidad: 1, PrecioUnitario: dec("99.99"), Descuento: decimal.Zero}}

	tot := Calcular(lineas, decimal.Zero, decimal.Zero)

	assert.True(t, tot.IVA.IsZero())
	assert.Equal(t, tot.Total.String(), tot.Subtotal.String())
}

func TestSubtotalMasIVAIgualTotal(t *testing.T) {
	// The identity must hold exactly on the rounded breakdown, for prices
	// chosen to force awkward division remainders.
	casos := [][]Linea{
		{{Cantidad: 1, PrecioUnitario: dec("0.01"), Descuento: decimal.Zero}},
		{{Cantidad: 3, PrecioUnitario: dec("33.33"), Descuento: dec("0.07")}},
		{{Cantidad: 7, PrecioUnitario: dec("19.99"), Descuento: decimal.Zero}},
		{{Cantidad: 13, PrecioUnitario: dec("7.77"), Descuento: dec("1.11")}},
	}
	for _, lineas := range casos {
		tot := Calcular(lineas, dec("12.5"), dec("16"))
		require.True(t, tot.Subtotal.Add(tot.IVA).Equal(tot.Total),
			"subtotal %s + iva %s != total %s", tot.Subtotal, tot.IVA, tot.Total)
	}
}

func TestDescuentoNuncaExcedeImporte(t *testing.T) {
	lineas := []Linea{{Cantidad: 4, PrecioUnitario: dec("25.50"), Descuento: dec("2")}}

	for _, pct := range []string{"0", "1", "33.33", "50", "99.99", "100"} {
		tot := Calcular(lineas, dec(pct), dec("16"))
		assert.True(t, tot.DescuentoMonto.LessThanOrEqual(tot.ImporteArticulos),
			"pct=%s: descuento %s > importe %s", pct, tot.DescuentoMonto, tot.ImporteArticulos)
	}
}

func TestDescuentoCienPorCiento(t *testing.T) {
	lineas := []Linea{{Cantidad: 2, PrecioUnitario: dec("150"), Descuento: decimal.Zero}}

	tot := Calcular(lineas, dec("100"), dec("16"))

	assert.Equal(t, "300", tot.ImporteArticulos.String())
	assert.Equal(t, "300", tot.DescuentoMonto.String())
	assert.True(t, tot.Total.IsZero())
	assert.True(t, tot.IVA.IsZero())
}

func TestSubtotalLinea(t *testing.T) {
	l := Linea{Cantidad: 5, PrecioUnitario: dec("12.40"), Descuento: dec("3.50")}
	assert.Equal(t, "58.5", SubtotalLinea(l).String())
}
