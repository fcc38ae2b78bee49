package dto

import "github.com/shopspring/decimal"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearPlanRequest struct {
	Nombre       string          `json:"nombre"       validate:"required,min=2,max=100"`
	Descripcion  *string         `json:"descripcion"`
	Precio       decimal.Decimal `json:"precio"       validate:"required,gt=0"`
	Periodicidad string          `json:"periodicidad" validate:"required,oneof=mensual anual"`
}

type AltaSuscripcionRequest struct {
	ClienteID string `json:"cliente_id" validate:"required,uuid"`
	PlanID    string `json:"plan_id"    validate:"required,uuid"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type PlanResponse struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	Descripcion  *string         `json:"descripcion,omitempty"`
	Precio       decimal.Decimal `json:"precio"`
	Periodicidad string          `json:"periodicidad"`
	Activo       bool            `json:"activo"`
}

type SuscripcionResponse struct {
	ID           string `json:"id"`
	Cliente      string `json:"cliente"`
	Plan         string `json:"plan"`
	Estado       string `json:"estado"`
	ProximoCobro string `json:"proximo_cobro"`
	CreatedAt    string `json:"created_at"`
}

type CargoResponse struct {
	ID             string          `json:"id"`
	SuscripcionID  string          `json:"suscripcion_id"`
	Monto          decimal.Decimal `json:"monto"`
	Periodo        string          `json:"periodo"`
	Estado         string          `json:"estado"`
	ReferenciaPago *string         `json:"referencia_pago,omitempty"`
	RetryCount     int             `json:"retry_count"`
	LastError      *string         `json:"last_error,omitempty"`
	CreatedAt      string          `json:"created_at"`
}
