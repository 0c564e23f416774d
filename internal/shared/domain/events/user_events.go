package events

import (
	"time"

	"github.com/google/uuid"
)

// Estos son contratos de integración, NO entidades del dominio.
// Se definen planos para intercambio entre contextos.
type UserCreated struct {
	EventID   uuid.UUID `json:"event_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	BirthDate time.Time `json:"birth_date"`
}

type UserUpdated struct {
	EventID   uuid.UUID `json:"event_id"`
	OldEmail  string    `json:"old_email"` // clave anterior si hubo re-key
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	BirthDate time.Time `json:"birth_date"`
}

type UserReplaced struct {
	EventID   uuid.UUID `json:"event_id"`
	OldEmail  string    `json:"old_email"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	BirthDate time.Time `json:"birth_date"`
}

type UserDeleted struct {
	EventID uuid.UUID `json:"event_id"`
	Email   string    `json:"email"`
}
