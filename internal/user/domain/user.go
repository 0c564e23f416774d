package domain

import (
	"regexp"
	"strings"
	"time"

	sharedBus "github.com/davicafu/usermgmt/internal/shared/infra/platform/bus"
)

// User representa una persona registrada en el sistema.
// El email es a la vez atributo y clave de almacenamiento: nunca puede
// haber dos registros con el mismo email.
type User struct {
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	BirthDate   time.Time `json:"birth_date"` // solo fecha, normalizada a medianoche UTC
	Address     string    `json:"address,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
}

func (u *User) PartitionKey() string {
	return u.Email
}

// Age calcula la edad del usuario a partir de su fecha de nacimiento.
func (u *User) Age() int {
	return AgeAt(u.BirthDate, time.Now().UTC())
}

// AgeAt devuelve los años cumplidos entre birth y now, consciente del
// calendario: el día del cumpleaños ya cuenta como año cumplido.
func AgeAt(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsValidEmail comprueba la sintaxis básica de un email.
func IsValidEmail(email string) bool {
	return emailRx.MatchString(email)
}

// Validate comprueba las reglas estructurales de la entidad.
// Las reglas de negocio (edad mínima, unicidad) viven en el servicio.
func (u *User) Validate(now time.Time) error {
	if strings.TrimSpace(u.Email) == "" {
		return NewValidationError("Email is required")
	}
	if !IsValidEmail(u.Email) {
		return NewValidationError("Email should be valid")
	}
	if strings.TrimSpace(u.FirstName) == "" {
		return NewValidationError("First name is required")
	}
	if strings.TrimSpace(u.LastName) == "" {
		return NewValidationError("Last name is required")
	}
	if !u.BirthDate.Before(now) {
		return NewValidationError("Birth date must be in the past")
	}
	return nil
}

// UserPatch describe una actualización parcial: un campo nil significa
// "no tocar"; un puntero presente sobrescribe, incluso con cadena vacía.
type UserPatch struct {
	Email       *string
	FirstName   *string
	LastName    *string
	BirthDate   *time.Time
	Address     *string
	PhoneNumber *string
}

// ApplyTo sobrescribe en u exactamente los campos presentes en el patch.
func (p UserPatch) ApplyTo(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.BirthDate != nil {
		u.BirthDate = *p.BirthDate
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
}

// Verificación estática para asegurar que User implementa la interfaz
var _ sharedBus.Keyer = (*User)(nil)
