package domain

import "time"

// AgeValidator aplica la política de edad mínima del sistema.
// minAge se fija al arrancar y no cambia en caliente.
type AgeValidator struct {
	minAge int
}

func NewAgeValidator(minAge int) *AgeValidator {
	return &AgeValidator{minAge: minAge}
}

func (v *AgeValidator) MinAge() int {
	return v.minAge
}

// CheckForAge falla con ValidationError si los años cumplidos a día de hoy
// no llegan al mínimo configurado. Sin efectos secundarios.
func (v *AgeValidator) CheckForAge(birthDate time.Time) error {
	if AgeAt(birthDate, time.Now().UTC()) < v.minAge {
		return NewValidationError("User must be at least %d years old", v.minAge)
	}
	return nil
}
