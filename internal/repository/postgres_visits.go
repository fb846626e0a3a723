package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/UMEZAWADAN/SD-5/internal/domain"
)

const visitsSchema = `
CREATE TABLE IF NOT EXISTS visits (
	seq        BIGSERIAL PRIMARY KEY,
	visit_id   UUID NOT NULL UNIQUE,
	person_id  UUID NOT NULL,
	visit_date VARCHAR(10) NOT NULL,
	staff      TEXT NOT NULL DEFAULT '',
	visit_type TEXT NOT NULL DEFAULT '',
	note       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_visits_person_seq ON visits (person_id, seq DESC);
`

// PostgresVisitsRepository 访问记录 Repository（PostgreSQL）
// seq 为插入顺序，倒序即"最新在前"
type PostgresVisitsRepository struct {
	db *sql.DB
}

func NewPostgresVisitsRepository(db *sql.DB) *PostgresVisitsRepository {
	return &PostgresVisitsRepository{db: db}
}

var _ VisitsRepository = (*PostgresVisitsRepository)(nil)

// EnsureSchema 建表（幂等）
func (r *PostgresVisitsRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, visitsSchema); err != nil {
		return fmt.Errorf("failed to ensure visits schema: %w", err)
	}
	return nil
}

func (r *PostgresVisitsRepository) PrependVisit(ctx context.Context, visit *domain.VisitEntry) error {
	query := `
		INSERT INTO visits (visit_id, person_id, visit_date, staff, visit_type, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		visit.VisitID,
		visit.PersonID,
		visit.Date,
		visit.Staff,
		visit.Type,
		visit.Note,
	).Scan(&visit.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert visit: %w", err)
	}
	return nil
}

func (r *PostgresVisitsRepository) ListVisits(ctx context.Context, personID string) ([]domain.VisitEntry, error) {
	query := `
		SELECT
			visit_id::text,
			person_id::text,
			visit_date,
			staff,
			visit_type,
			note,
			created_at
		FROM visits
		WHERE person_id = $1
		ORDER BY seq DESC
	`
	rows, err := r.db.QueryContext(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	defer rows.Close()

	visits := []domain.VisitEntry{}
	for rows.Next() {
		var v domain.VisitEntry
		if err := rows.Scan(&v.VisitID, &v.PersonID, &v.Date, &v.Staff, &v.Type, &v.Note, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate visits: %w", err)
	}
	return visits, nil
}
