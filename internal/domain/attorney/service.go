// Package attorney provides the domain service layer for attorney profiles.
package attorney

import (
	"context"
	"time"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

// Service coordinates attorney business logic and repository operations.
type Service struct {
	repo   Repository
	logger logging.Logger
}

// NewService constructs a new attorney domain service.
func NewService(repo Repository, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and persists a new attorney profile.  A fresh identifier
// is assigned when none is supplied; duplicate emails are rejected.
func (s *Service) Create(ctx context.Context, a *Attorney) (*Attorney, error) {
	a.Normalize()
	if err := a.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, a.Email)
	if err != nil && !errors.IsNotFound(err) {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to check for existing attorney")
	}
	if existing != nil {
		return nil, errors.Newf(errors.ErrCodeAttorneyEmailExists, "attorney with email %q already exists", a.Email)
	}

	if a.ID == "" {
		a.ID = NewID()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to save attorney")
	}

	s.logger.Info("created attorney",
		logging.String("id", a.ID),
		logging.String("seniority", string(a.Seniority)),
		logging.Int("practice_areas", len(a.PracticeAreas)))

	return a, nil
}

// Get retrieves an attorney by identifier.
func (s *Service) Get(ctx context.Context, id string) (*Attorney, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Newf(errors.ErrCodeAttorneyNotFound, "attorney %s not found", id)
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load attorney")
	}
	return a, nil
}

// Update validates and persists changes to an existing profile.  The email
// may change only to one not held by another attorney.
func (s *Service) Update(ctx context.Context, a *Attorney) (*Attorney, error) {
	current, err := s.Get(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	a.Normalize()
	if err := a.Validate(); err != nil {
		return nil, err
	}

	if a.Email != current.Email {
		other, err := s.repo.GetByEmail(ctx, a.Email)
		if err != nil && !errors.IsNotFound(err) {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to check for existing attorney")
		}
		if other != nil && other.ID != a.ID {
			return nil, errors.Newf(errors.ErrCodeAttorneyEmailExists, "attorney with email %q already exists", a.Email)
		}
	}

	a.CreatedAt = current.CreatedAt
	a.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update attorney")
	}
	return a, nil
}

// Delete removes an attorney from the pool.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete attorney")
	}
	s.logger.Info("deleted attorney", logging.String("id", id))
	return nil
}

// List returns attorneys matching the filter plus the unfiltered total count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Attorney, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	attorneys, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list attorneys")
	}
	return attorneys, total, nil
}

// BulkOutcome reports what happened to one row of a bulk create.
type BulkOutcome struct {
	Row    int    `json:"row"`
	ID     string `json:"id,omitempty"`
	Status string `json:"status"` // "created" | "skipped"
	Reason string `json:"reason,omitempty"`
}

// BulkCreate persists a batch of profiles, skipping invalid rows and
// duplicate emails rather than aborting.  Row numbers in the outcome are
// zero-based offsets into the input slice.
func (s *Service) BulkCreate(ctx context.Context, batch []*Attorney) ([]BulkOutcome, error) {
	if len(batch) == 0 {
		return nil, errors.New(errors.ErrCodeIngestNoRows, "no attorney rows supplied")
	}

	outcomes := make([]BulkOutcome, 0, len(batch))
	for i, a := range batch {
		created, err := s.Create(ctx, a)
		if err != nil {
			if errors.IsCode(err, errors.ErrCodeAttorneyInvalid) || errors.IsCode(err, errors.ErrCodeAttorneyEmailExists) {
				outcomes = append(outcomes, BulkOutcome{Row: i, Status: "skipped", Reason: err.Error()})
				continue
			}
			// Infrastructure failure: abort, partial work stays persisted.
			return outcomes, err
		}
		outcomes = append(outcomes, BulkOutcome{Row: i, ID: created.ID, Status: "created"})
	}

	s.logger.Info("bulk attorney create finished",
		logging.Int("total", len(batch)),
		logging.Int("outcomes", len(outcomes)))
	return outcomes, nil
}
