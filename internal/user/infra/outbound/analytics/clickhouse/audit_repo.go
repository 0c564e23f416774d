package clickhouse

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/davicafu/usermgmt/internal/user/domain"
)

// UserAuditRepo registra los eventos del ciclo de vida de los usuarios en
// ClickHouse. Es un sink de observabilidad: no es el almacén de registros.
type UserAuditRepo struct {
	db *sql.DB
}

// NewUserAuditRepo abre la conexión y comprueba que el servidor responde.
func NewUserAuditRepo(addr string, dbName string) (*UserAuditRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &UserAuditRepo{db: conn}, nil
}

// LogEvent inserta una sola entrada de auditoría.
func (r *UserAuditRepo) LogEvent(ctx context.Context, entry domain.UserAuditEntry) error {
	return r.LogBatch(ctx, []domain.UserAuditEntry{entry})
}

// LogBatch inserta un lote de entradas. ClickHouse rinde mejor con lotes.
func (r *UserAuditRepo) LogBatch(ctx context.Context, entries []domain.UserAuditEntry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO user_events_log (event_id, event_type, email, occurred_at)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			e.EventID.String(),
			e.EventType,
			e.Email,
			e.OccurredAt,
		); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}
