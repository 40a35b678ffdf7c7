package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

type fakeRepo struct {
	byID map[string]*PublicSource
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*PublicSource{}}
}

func (r *fakeRepo) Create(_ context.Context, p *PublicSource) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*PublicSource, error) {
	if p, ok := r.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, errors.Newf(errors.ErrCodeSourceNotFound, "public source %s not found", id)
}

func (r *fakeRepo) Update(_ context.Context, p *PublicSource) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeRepo) List(_ context.Context, filter ListFilter) ([]*PublicSource, int64, error) {
	out := []*PublicSource{}
	for _, p := range r.byID {
		if filter.RiskArea != "" && p.RiskArea != filter.RiskArea {
			continue
		}
		if filter.Status != "" && p.EnrichmentStatus != filter.Status {
			continue
		}
		cp := *p
		out = append(out, &cp)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, int64(len(out)), nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, logging.NewNopLogger()), repo
}

func TestCreateDefaultsToPending(t *testing.T) {
	svc, _ := newTestService()

	p := validSource()
	p.EnrichmentStatus = ""
	created, err := svc.Create(context.Background(), p)
	require.NoError(t, err)

	assert.Regexp(t, `^NEWS-[A-Z0-9]{8}$`, created.ID)
	assert.Equal(t, legal.EnrichmentPending, created.EnrichmentStatus)
}

func TestGetNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), "NEWS-00000000")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSourceNotFound, errors.GetCode(err))
}

func TestMarkEnrichmentCompletedStoresPayload(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p := validSource()
	p.EnrichmentStatus = legal.EnrichmentProcessing
	p.RiskArea, p.Summary, p.Jurisdiction, p.Impact = "", "", "", ""
	created, err := svc.Create(ctx, p)
	require.NoError(t, err)

	enriched := &PublicSource{
		RiskArea:     "Securities Law",
		Summary:      "Disclosure rules tightened.",
		Jurisdiction: "US",
		Impact:       legal.ImpactMedium,
	}
	updated, err := svc.MarkEnrichment(ctx, created.ID, legal.EnrichmentCompleted, enriched)
	require.NoError(t, err)

	assert.Equal(t, legal.EnrichmentCompleted, updated.EnrichmentStatus)
	assert.Equal(t, "Securities Law", updated.RiskArea)
	assert.Equal(t, legal.ImpactMedium, updated.Impact)
}

func TestMarkEnrichmentRejectsIllegalTransition(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p := validSource()
	p.EnrichmentStatus = legal.EnrichmentPending
	created, err := svc.Create(ctx, p)
	require.NoError(t, err)

	_, err = svc.MarkEnrichment(ctx, created.ID, legal.EnrichmentCompleted, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeEnrichmentStateError, errors.GetCode(err))
}

func TestListCompletedFilters(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	done := validSource()
	_, err := svc.Create(ctx, done)
	require.NoError(t, err)

	pending := validSource()
	pending.EnrichmentStatus = legal.EnrichmentPending
	_, err = svc.Create(ctx, pending)
	require.NoError(t, err)

	got, err := svc.ListCompleted(ctx, "Data Protection", 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Enriched())
}
