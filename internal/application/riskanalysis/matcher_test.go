package riskanalysis

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/internal/domain/source"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

type fakeSourceLister struct {
	byArea  map[string][]*source.PublicSource
	failFor map[string]bool
	calls   []string
}

func (f *fakeSourceLister) ListCompleted(_ context.Context, riskArea string, limit int) ([]*source.PublicSource, error) {
	f.calls = append(f.calls, riskArea)
	if f.failFor[riskArea] {
		return nil, errors.New(errors.ErrCodeDatabaseError, "query failed")
	}
	records := f.byArea[riskArea]
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func completedSources(area string, n int) []*source.PublicSource {
	out := make([]*source.PublicSource, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &source.PublicSource{
			ID:               source.NewID(),
			Title:            fmt.Sprintf("%s update %d", area, i+1),
			URL:              "https://news.example/item",
			RiskArea:         area,
			EnrichmentStatus: legal.EnrichmentCompleted,
		})
	}
	return out
}

func TestRiskAreasForMappedArea(t *testing.T) {
	assert.Equal(t, []string{"Data Protection", "Corporate Governance", "Securities Law"}, RiskAreasFor("Compliance"))
	assert.Equal(t, []string{"Corporate Governance", "Securities Law"}, RiskAreasFor("Corporate M&A"))
	assert.Equal(t, []string{"Tax"}, RiskAreasFor("Tax"))
}

func TestRiskAreasForUnmappedAreaIsLiteral(t *testing.T) {
	assert.Equal(t, []string{"Maritime"}, RiskAreasFor("Maritime"))
}

func TestMatchConcatenatesPerAreaCaps(t *testing.T) {
	lister := &fakeSourceLister{byArea: map[string][]*source.PublicSource{
		"Data Protection":      completedSources("Data Protection", 5),
		"Corporate Governance": completedSources("Corporate Governance", 2),
		"Securities Law":       completedSources("Securities Law", 1),
	}}
	matcher := NewSourceMatcher(lister, 3, logging.NewNopLogger())

	matched := matcher.Match(context.Background(), "Compliance")
	// 3 capped + 2 + 1, concatenated in mapping order.
	require.Len(t, matched, 6)
	assert.Equal(t, []string{"Data Protection", "Corporate Governance", "Securities Law"}, lister.calls)
	assert.Equal(t, "Data Protection", matched[0].RiskArea)
	assert.Equal(t, "Securities Law", matched[5].RiskArea)
}

func TestMatchSkipsFailedArea(t *testing.T) {
	lister := &fakeSourceLister{
		byArea: map[string][]*source.PublicSource{
			"Securities Law": completedSources("Securities Law", 2),
		},
		failFor: map[string]bool{"Corporate Governance": true},
	}
	matcher := NewSourceMatcher(lister, 3, logging.NewNopLogger())

	matched := matcher.Match(context.Background(), "Corporate M&A")
	require.Len(t, matched, 2)
	assert.Equal(t, "Securities Law", matched[0].RiskArea)
}

func TestMatchUnmappedAreaQueriesLiteral(t *testing.T) {
	lister := &fakeSourceLister{byArea: map[string][]*source.PublicSource{}}
	matcher := NewSourceMatcher(lister, 3, logging.NewNopLogger())

	matched := matcher.Match(context.Background(), "Aviation")
	assert.Empty(t, matched)
	assert.Equal(t, []string{"Aviation"}, lister.calls)
}
