package source

import "context"

// Repository defines the persistence contract for the public-source domain.
type Repository interface {
	Create(ctx context.Context, p *PublicSource) error
	GetByID(ctx context.Context, id string) (*PublicSource, error)
	Update(ctx context.Context, p *PublicSource) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*PublicSource, int64, error)
}
