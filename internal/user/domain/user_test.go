package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgeAt(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		birth    time.Time
		expected int
	}{
		{
			name:     "cumpleaños ya pasado este año",
			birth:    time.Date(1994, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 30,
		},
		{
			name:     "cumpleaños aún no ha pasado este año",
			birth:    time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC),
			expected: 24,
		},
		{
			name:     "cumpleaños hoy",
			birth:    time.Date(2005, 6, 15, 0, 0, 0, 0, time.UTC),
			expected: 19,
		},
		{
			name:     "un día antes del cumpleaños",
			birth:    time.Date(2005, 6, 16, 0, 0, 0, 0, time.UTC),
			expected: 18,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AgeAt(tt.birth, now))
		})
	}
}

func TestUserPatch_ApplyTo(t *testing.T) {
	original := User{
		Email:       "john@example.com",
		FirstName:   "John",
		LastName:    "Doe",
		BirthDate:   time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		Address:     "123 Street",
		PhoneNumber: "1234567890",
	}

	t.Run("campos nil no se tocan", func(t *testing.T) {
		u := original
		first := "Jane"
		UserPatch{FirstName: &first}.ApplyTo(&u)

		assert.Equal(t, "Jane", u.FirstName)
		assert.Equal(t, original.Email, u.Email)
		assert.Equal(t, original.LastName, u.LastName)
		assert.Equal(t, original.BirthDate, u.BirthDate)
		assert.Equal(t, original.Address, u.Address)
		assert.Equal(t, original.PhoneNumber, u.PhoneNumber)
	})

	t.Run("cadena vacía presente sí sobrescribe", func(t *testing.T) {
		u := original
		empty := ""
		UserPatch{Address: &empty}.ApplyTo(&u)

		assert.Equal(t, "", u.Address)
		assert.Equal(t, original.PhoneNumber, u.PhoneNumber)
	})

	t.Run("patch completo sobrescribe todo", func(t *testing.T) {
		u := original
		email := "jane@example.com"
		first, last := "Jane", "Smith"
		bd := time.Date(1995, 5, 5, 0, 0, 0, 0, time.UTC)
		addr, phone := "456 Lane", "9876543210"
		UserPatch{
			Email:       &email,
			FirstName:   &first,
			LastName:    &last,
			BirthDate:   &bd,
			Address:     &addr,
			PhoneNumber: &phone,
		}.ApplyTo(&u)

		assert.Equal(t, User{
			Email:       "jane@example.com",
			FirstName:   "Jane",
			LastName:    "Smith",
			BirthDate:   bd,
			Address:     "456 Lane",
			PhoneNumber: "9876543210",
		}, u)
	})
}

func TestUser_Validate(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	valid := User{
		Email:     "john@example.com",
		FirstName: "John",
		LastName:  "Doe",
		BirthDate: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("usuario válido", func(t *testing.T) {
		u := valid
		assert.NoError(t, u.Validate(now))
	})

	tests := []struct {
		name   string
		mutate func(*User)
		msg    string
	}{
		{"email vacío", func(u *User) { u.Email = "  " }, "Email is required"},
		{"email malformado", func(u *User) { u.Email = "not-an-email" }, "Email should be valid"},
		{"nombre vacío", func(u *User) { u.FirstName = "" }, "First name is required"},
		{"apellido vacío", func(u *User) { u.LastName = "" }, "Last name is required"},
		{"fecha de nacimiento futura", func(u *User) { u.BirthDate = now.AddDate(1, 0, 0) }, "Birth date must be in the past"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid
			tt.mutate(&u)
			err := u.Validate(now)

			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}
