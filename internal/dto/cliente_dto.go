package dto

import "github.com/google/uuid"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=2,max=120"`
	RFC       *string `json:"rfc"       validate:"omitempty,min=12,max=13"`
	Telefono  *string `json:"telefono"  validate:"omitempty,min=7,max=20"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Direccion *string `json:"direccion"`
}

type ActualizarClienteRequest struct {
	Nombre    *string `json:"nombre"    validate:"omitempty,min=2,max=120"`
	RFC       *string `json:"rfc"       validate:"omitempty,min=12,max=13"`
	Telefono  *string `json:"telefono"  validate:"omitempty,min=7,max=20"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Direccion *string `json:"direccion"`
	Activo    *bool   `json:"activo"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID        uuid.UUID `json:"id"`
	Nombre    string    `json:"nombre"`
	RFC       *string   `json:"rfc,omitempty"`
	Telefono  *string   `json:"telefono,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Direccion *string   `json:"direccion,omitempty"`
	Activo    bool      `json:"activo"`
}
