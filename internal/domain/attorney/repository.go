package attorney

import "context"

// Repository defines the persistence contract for the attorney domain.
type Repository interface {
	Create(ctx context.Context, a *Attorney) error
	GetByID(ctx context.Context, id string) (*Attorney, error)
	GetByEmail(ctx context.Context, email string) (*Attorney, error)
	Update(ctx context.Context, a *Attorney) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*Attorney, int64, error)
}
