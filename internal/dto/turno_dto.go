package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirTurnoRequest struct {
	Sucursal     string          `json:"sucursal"      validate:"required,min=2"`
	TurnoLaboral string          `json:"turno_laboral" validate:"required,oneof=matutino vespertino nocturno"`
	FondoInicial decimal.Decimal `json:"fondo_inicial" validate:"min=0"`
}

type CerrarTurnoRequest struct {
	TurnoID         string          `json:"turno_id"         validate:"required,uuid"`
	EfectivoContado decimal.Decimal `json:"efectivo_contado" validate:"min=0"`
	Observaciones   *string         `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// MetodoResumen aggregates the turno's sales for one payment method.
type MetodoResumen struct {
	Cantidad int             `json:"cantidad"`
	Importe  decimal.Decimal `json:"importe"`
}

// ResumenTurno is the per-method sales breakdown of a turno.
// Invariant: TotalImporte equals the sum of the four method amounts.
type ResumenTurno struct {
	Efectivo      MetodoResumen   `json:"efectivo"`
	Tarjeta       MetodoResumen   `json:"tarjeta"`
	Transferencia MetodoResumen   `json:"transferencia"`
	Credito       MetodoResumen   `json:"credito"`
	TotalVentas   int             `json:"total_ventas"`
	TotalImporte  decimal.Decimal `json:"total_importe"`
}

type CorteResponse struct {
	TurnoID          string          `json:"turno_id"`
	Folio            int             `json:"folio"`
	EfectivoEsperado decimal.Decimal `json:"efectivo_esperado"`
	EfectivoContado  decimal.Decimal `json:"efectivo_contado"`
	Diferencia       decimal.Decimal `json:"diferencia"`
	Clasificacion    string          `json:"clasificacion"` // cuadrado | sobrante | faltante
	Resumen          ResumenTurno    `json:"resumen"`
	Estado           string          `json:"estado"`
}

type TurnoResponse struct {
	TurnoID          string           `json:"turno_id"`
	Folio            int              `json:"folio"`
	Sucursal         string           `json:"sucursal"`
	TurnoLaboral     string           `json:"turno_laboral"`
	FondoInicial     decimal.Decimal  `json:"fondo_inicial"`
	Resumen          ResumenTurno     `json:"resumen"`
	EfectivoEsperado *decimal.Decimal `json:"efectivo_esperado,omitempty"`
	EfectivoContado  *decimal.Decimal `json:"efectivo_contado,omitempty"`
	Diferencia       *decimal.Decimal `json:"diferencia,omitempty"`
	Clasificacion    *string          `json:"clasificacion,omitempty"`
	Estado           string           `json:"estado"`
	Observaciones    *string          `json:"observaciones,omitempty"`
	OpenedAt         string           `json:"opened_at"`
	ClosedAt         *string          `json:"closed_at,omitempty"`
}
