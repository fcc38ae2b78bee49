package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a customer record shared by the POS, quotations and the
// online store. RFC is optional — mostly walk-in customers don't provide it.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	RFC       *string   `gorm:"type:varchar(13);column:rfc"`
	Telefono  *string
	Email     *string `gorm:"index"`
	Direccion *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }
