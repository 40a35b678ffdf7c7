package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lexatlas/lexatlas/internal/domain/source"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/postgres"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

const sourceColumns = `id, title, url, risk_area, summary, jurisdiction, impact_level, enrichment_status, created_at, updated_at`

type postgresSourceRepo struct {
	baseRepo
}

// NewPostgresSourceRepo returns a source.Repository backed by PostgreSQL.
func NewPostgresSourceRepo(conn *postgres.Connection, log logging.Logger) source.Repository {
	return &postgresSourceRepo{
		baseRepo: baseRepo{conn: conn, log: log},
	}
}

func (r *postgresSourceRepo) Create(ctx context.Context, p *source.PublicSource) error {
	query := `
		INSERT INTO public_sources (` + sourceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.executor().ExecContext(ctx, query,
		p.ID, p.Title, p.URL, p.RiskArea, p.Summary, p.Jurisdiction,
		p.Impact, p.EnrichmentStatus, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert public source")
	}
	return nil
}

func (r *postgresSourceRepo) GetByID(ctx context.Context, id string) (*source.PublicSource, error) {
	query := `SELECT ` + sourceColumns + ` FROM public_sources WHERE id = $1`
	return scanSource(r.executor().QueryRowContext(ctx, query, id))
}

func (r *postgresSourceRepo) Update(ctx context.Context, p *source.PublicSource) error {
	query := `
		UPDATE public_sources
		SET title = $2, url = $3, risk_area = $4, summary = $5, jurisdiction = $6,
		    impact_level = $7, enrichment_status = $8, updated_at = $9
		WHERE id = $1
	`
	res, err := r.executor().ExecContext(ctx, query,
		p.ID, p.Title, p.URL, p.RiskArea, p.Summary, p.Jurisdiction,
		p.Impact, p.EnrichmentStatus, p.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update public source")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Newf(errors.ErrCodeSourceNotFound, "public source %s not found", p.ID)
	}
	return nil
}

func (r *postgresSourceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.executor().ExecContext(ctx, `DELETE FROM public_sources WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete public source")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Newf(errors.ErrCodeSourceNotFound, "public source %s not found", id)
	}
	return nil
}

func (r *postgresSourceRepo) List(ctx context.Context, filter source.ListFilter) ([]*source.PublicSource, int64, error) {
	where, args := buildSourceWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM public_sources` + where
	if err := r.executor().QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count public sources")
	}

	query := fmt.Sprintf(`SELECT `+sourceColumns+` FROM public_sources%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.executor().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query public sources")
	}
	defer rows.Close()

	var out []*source.PublicSource
	for rows.Next() {
		p, err := scanSource(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "public source row iteration failed")
	}
	return out, total, nil
}

func buildSourceWhere(filter source.ListFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if filter.RiskArea != "" {
		args = append(args, filter.RiskArea)
		clauses = append(clauses, fmt.Sprintf(`risk_area = $%d`, len(args)))
	}
	if filter.Jurisdiction != "" {
		args = append(args, filter.Jurisdiction)
		clauses = append(clauses, fmt.Sprintf(`jurisdiction = $%d`, len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf(`enrichment_status = $%d`, len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanSource(s scanner) (*source.PublicSource, error) {
	var p source.PublicSource

	err := s.Scan(&p.ID, &p.Title, &p.URL, &p.RiskArea, &p.Summary, &p.Jurisdiction,
		&p.Impact, &p.EnrichmentStatus, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeSourceNotFound, "public source not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan public source row")
	}
	return &p, nil
}
