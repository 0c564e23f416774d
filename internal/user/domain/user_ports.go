package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ---------- Errores de dominio ----------

// Los mensajes son parte del contrato HTTP, no los cambies a la ligera.
var ErrUserNotFound = errors.New("User not found")

// DuplicateEmailError indica que la clave email ya está ocupada por otro registro.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("User with email %s already exists.", e.Email)
}

// ValidationError indica entrada malformada o una política incumplida.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ---------- Interfaces (Ports) ----------

// UserStore define el contrato de almacenamiento: una tabla email → User,
// volátil y sin orden de iteración garantizado.
type UserStore interface {
	// Get devuelve (user, true, nil) si la clave existe; (nil, false, nil) si no.
	Get(ctx context.Context, email string) (*User, bool, error)

	// Put inserta o sobrescribe el registro bajo la clave dada.
	Put(ctx context.Context, email string, u *User) error

	// Remove elimina la clave; es un no-op si no existe.
	Remove(ctx context.Context, email string) error

	// Contains indica si la clave está ocupada.
	Contains(ctx context.Context, email string) (bool, error)

	// Values devuelve todos los registros, en orden no especificado.
	Values(ctx context.Context) ([]*User, error)
}

// ---------- Eventos del ciclo de vida ----------

const (
	UserCreated  = "user.created"
	UserUpdated  = "user.updated"
	UserReplaced = "user.replaced"
	UserDeleted  = "user.deleted"
)

const UserTopic = "user"

// UserAuditEntry es la fila que los sinks de auditoría registran por evento.
type UserAuditEntry struct {
	EventID    uuid.UUID
	EventType  string
	Email      string
	OccurredAt time.Time
}

// ---------- Helpers comunes (cache keys, etc.) ----------

// CacheKeyByEmail forma una key consistente para cache usando el email.
func CacheKeyByEmail(email string) string {
	return fmt.Sprintf("user:email:%s", email)
}
