package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lexatlas/lexatlas/internal/domain/attorney"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/postgres"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

const attorneyColumns = `id, name, email, seniority, years_of_experience, practice_areas, created_at, updated_at`

type postgresAttorneyRepo struct {
	baseRepo
}

// NewPostgresAttorneyRepo returns an attorney.Repository backed by PostgreSQL.
// Practice areas are stored as a JSONB array on the attorneys row; they are
// read and written as one unit with the profile.
func NewPostgresAttorneyRepo(conn *postgres.Connection, log logging.Logger) attorney.Repository {
	return &postgresAttorneyRepo{
		baseRepo: baseRepo{conn: conn, log: log},
	}
}

func (r *postgresAttorneyRepo) Create(ctx context.Context, a *attorney.Attorney) error {
	query := `
		INSERT INTO attorneys (` + attorneyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	areasJSON, err := json.Marshal(a.PracticeAreas)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode practice areas")
	}

	_, err = r.executor().ExecContext(ctx, query,
		a.ID, a.Name, a.Email, a.Seniority, a.Years, areasJSON, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert attorney")
	}
	return nil
}

func (r *postgresAttorneyRepo) GetByID(ctx context.Context, id string) (*attorney.Attorney, error) {
	query := `SELECT ` + attorneyColumns + ` FROM attorneys WHERE id = $1`
	return scanAttorney(r.executor().QueryRowContext(ctx, query, id))
}

func (r *postgresAttorneyRepo) GetByEmail(ctx context.Context, email string) (*attorney.Attorney, error) {
	query := `SELECT ` + attorneyColumns + ` FROM attorneys WHERE email = $1`
	return scanAttorney(r.executor().QueryRowContext(ctx, query, email))
}

func (r *postgresAttorneyRepo) Update(ctx context.Context, a *attorney.Attorney) error {
	query := `
		UPDATE attorneys
		SET name = $2, email = $3, seniority = $4, years_of_experience = $5,
		    practice_areas = $6, updated_at = $7
		WHERE id = $1
	`
	areasJSON, err := json.Marshal(a.PracticeAreas)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode practice areas")
	}

	res, err := r.executor().ExecContext(ctx, query,
		a.ID, a.Name, a.Email, a.Seniority, a.Years, areasJSON, a.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update attorney")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Newf(errors.ErrCodeAttorneyNotFound, "attorney %s not found", a.ID)
	}
	return nil
}

func (r *postgresAttorneyRepo) Delete(ctx context.Context, id string) error {
	res, err := r.executor().ExecContext(ctx, `DELETE FROM attorneys WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete attorney")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Newf(errors.ErrCodeAttorneyNotFound, "attorney %s not found", id)
	}
	return nil
}

func (r *postgresAttorneyRepo) List(ctx context.Context, filter attorney.ListFilter) ([]*attorney.Attorney, int64, error) {
	where, args := buildAttorneyWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM attorneys` + where
	if err := r.executor().QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count attorneys")
	}

	query := fmt.Sprintf(`SELECT `+attorneyColumns+` FROM attorneys%s ORDER BY created_at ASC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.executor().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query attorneys")
	}
	defer rows.Close()

	var out []*attorney.Attorney
	for rows.Next() {
		a, err := scanAttorney(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "attorney row iteration failed")
	}
	return out, total, nil
}

func buildAttorneyWhere(filter attorney.ListFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if filter.PracticeArea != "" {
		args = append(args, filter.PracticeArea)
		clauses = append(clauses, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM jsonb_array_elements(practice_areas) e WHERE lower(e->>'area') = lower($%d))`,
			len(args)))
	}
	if filter.Seniority != "" {
		args = append(args, filter.Seniority)
		clauses = append(clauses, fmt.Sprintf(`seniority = $%d`, len(args)))
	}
	if filter.MinExperience > 0 {
		args = append(args, filter.MinExperience)
		clauses = append(clauses, fmt.Sprintf(`years_of_experience >= $%d`, len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanAttorney(s scanner) (*attorney.Attorney, error) {
	var a attorney.Attorney
	var areasJSON []byte

	err := s.Scan(&a.ID, &a.Name, &a.Email, &a.Seniority, &a.Years, &areasJSON, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeAttorneyNotFound, "attorney not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan attorney row")
	}

	if len(areasJSON) > 0 {
		if err := json.Unmarshal(areasJSON, &a.PracticeAreas); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode practice areas")
		}
	}
	if a.PracticeAreas == nil {
		a.PracticeAreas = []legal.PracticeAreaEntry{}
	}
	return &a, nil
}
