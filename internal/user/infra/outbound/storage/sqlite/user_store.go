package sqlite

import (
	"context"
	"database/sql"
	"time"

	// _ "github.com/mattn/go-sqlite3" // better performance but requires gcc
	_ "modernc.org/sqlite"

	"github.com/davicafu/usermgmt/internal/user/domain"
)

const dateLayout = "2006-01-02"

// UserStoreSQLite implementa el contrato de almacenamiento sobre una base
// SQLite. Pensado para abrirse con ":memory:", de modo que la tabla sigue
// siendo volátil: vive y muere con el proceso.
type UserStoreSQLite struct {
	db *sql.DB
}

// Verificación estática
var _ domain.UserStore = (*UserStoreSQLite)(nil)

func NewUserStoreSQLite(db *sql.DB) *UserStoreSQLite {
	return &UserStoreSQLite{db: db}
}

// InitSQLite crea el esquema si no existe.
func InitSQLite(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			email TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			birth_date TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			phone_number TEXT NOT NULL DEFAULT ''
		)
	`)
	return err
}

func (s *UserStoreSQLite) Get(ctx context.Context, email string) (*domain.User, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT email, first_name, last_name, birth_date, address, phone_number
		 FROM users WHERE email = ?`, email)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// Put inserta o sobrescribe (upsert sobre la clave primaria).
func (s *UserStoreSQLite) Put(ctx context.Context, email string, u *domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, first_name, last_name, birth_date, address, phone_number)
		 VALUES (?,?,?,?,?,?)
		 ON CONFLICT(email) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			birth_date = excluded.birth_date,
			address = excluded.address,
			phone_number = excluded.phone_number`,
		email, u.FirstName, u.LastName, u.BirthDate.Format(dateLayout), u.Address, u.PhoneNumber,
	)
	return err
}

func (s *UserStoreSQLite) Remove(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE email = ?`, email)
	return err
}

func (s *UserStoreSQLite) Contains(ctx context.Context, email string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email = ?`, email).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserStoreSQLite) Values(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT email, first_name, last_name, birth_date, address, phone_number FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	var birthDate string
	if err := row.Scan(&u.Email, &u.FirstName, &u.LastName, &birthDate, &u.Address, &u.PhoneNumber); err != nil {
		return nil, err
	}

	bd, err := time.ParseInLocation(dateLayout, birthDate, time.UTC)
	if err != nil {
		return nil, err
	}
	u.BirthDate = bd
	return &u, nil
}
