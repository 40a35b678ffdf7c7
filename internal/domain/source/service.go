// Package source provides the domain service layer for public legal sources.
package source

import (
	"context"
	"time"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

// Service coordinates public-source business logic and repository operations.
type Service struct {
	repo   Repository
	logger logging.Logger
}

// NewService constructs a new public-source domain service.
func NewService(repo Repository, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and persists a new raw source record.  New records start
// in the pending enrichment state unless a status was supplied explicitly.
func (s *Service) Create(ctx context.Context, p *PublicSource) (*PublicSource, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if p.ID == "" {
		p.ID = NewID()
	}
	if p.EnrichmentStatus == "" {
		p.EnrichmentStatus = legal.EnrichmentPending
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to save public source")
	}

	s.logger.Info("created public source",
		logging.String("id", p.ID),
		logging.String("status", string(p.EnrichmentStatus)))
	return p, nil
}

// Get retrieves a source record by identifier.
func (s *Service) Get(ctx context.Context, id string) (*PublicSource, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Newf(errors.ErrCodeSourceNotFound, "public source %s not found", id)
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load public source")
	}
	return p, nil
}

// Update validates and persists changes to an existing record.
func (s *Service) Update(ctx context.Context, p *PublicSource) (*PublicSource, error) {
	current, err := s.Get(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update public source")
	}
	return p, nil
}

// Delete removes a source record.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete public source")
	}
	s.logger.Info("deleted public source", logging.String("id", id))
	return nil
}

// List returns source records matching the filter plus the total count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*PublicSource, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	sources, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list public sources")
	}
	return sources, total, nil
}

// ListCompleted returns up to limit enriched records for a risk area, the
// form consumed by the analysis pipeline.
func (s *Service) ListCompleted(ctx context.Context, riskArea string, limit int) ([]*PublicSource, error) {
	sources, _, err := s.List(ctx, ListFilter{
		RiskArea: riskArea,
		Status:   legal.EnrichmentCompleted,
		Limit:    limit,
	})
	return sources, err
}

// MarkEnrichment advances a record's enrichment state and, when the target
// state is completed, records the enrichment payload.
func (s *Service) MarkEnrichment(ctx context.Context, id string, to legal.EnrichmentStatus, enriched *PublicSource) (*PublicSource, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := current.AdvanceEnrichment(to); err != nil {
		return nil, err
	}
	if to == legal.EnrichmentCompleted && enriched != nil {
		current.RiskArea = enriched.RiskArea
		current.Summary = enriched.Summary
		current.Jurisdiction = enriched.Jurisdiction
		current.Impact = enriched.Impact
	}
	current.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update enrichment state")
	}

	s.logger.Info("advanced enrichment",
		logging.String("id", id),
		logging.String("to", string(to)))
	return current, nil
}
