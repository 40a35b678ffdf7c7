package riskanalysis

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

type fakeSearcher struct {
	mu      sync.Mutex
	byIndex map[string][]legal.RetrievedDocument
	failFor map[string]bool
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, index, query string, _ int) ([]legal.RetrievedDocument, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.failFor[index] {
		return nil, errors.New(errors.ErrCodeSearchQueryFailed, "index not found")
	}
	return f.byIndex[index], nil
}

func retrieverConfig() RetrieverConfig {
	return RetrieverConfig{
		InternalIndex:    "internal-legal-docs",
		HistoricalIndex:  "historical-engagements",
		TopPerCollection: 3,
	}
}

func TestSearchQuery(t *testing.T) {
	assert.Equal(t, "Tax legal compliance risks regulations", SearchQuery("Tax"))
}

func TestRetrieveBothCollections(t *testing.T) {
	searcher := &fakeSearcher{byIndex: map[string][]legal.RetrievedDocument{
		"internal-legal-docs":    {{Content: "policy handbook", Source: "handbook.pdf", Score: 4.2}},
		"historical-engagements": {{Content: "prior matter ATT-AB12CD34", Source: "matter.docx", Score: 3.1}},
	}}
	r := NewDocumentRetriever(searcher, retrieverConfig(), nil, logging.NewNopLogger())

	got := r.Retrieve(context.Background(), SearchQuery("Tax"))
	require.Len(t, got.Internal, 1)
	require.Len(t, got.Historical, 1)
	assert.Equal(t, "handbook.pdf", got.Internal[0].Source)
	assert.Equal(t, "matter.docx", got.Historical[0].Source)
}

func TestRetrieveDegradesFailedCollection(t *testing.T) {
	searcher := &fakeSearcher{
		byIndex: map[string][]legal.RetrievedDocument{
			"historical-engagements": {{Content: "prior matter", Source: "matter.docx"}},
		},
		failFor: map[string]bool{"internal-legal-docs": true},
	}
	r := NewDocumentRetriever(searcher, retrieverConfig(), nil, logging.NewNopLogger())

	got := r.Retrieve(context.Background(), "query")
	assert.Empty(t, got.Internal)
	require.Len(t, got.Historical, 1)
}

func TestRetrieveBothCollectionsFail(t *testing.T) {
	searcher := &fakeSearcher{failFor: map[string]bool{
		"internal-legal-docs":    true,
		"historical-engagements": true,
	}}
	r := NewDocumentRetriever(searcher, retrieverConfig(), nil, logging.NewNopLogger())

	got := r.Retrieve(context.Background(), "query")
	assert.Empty(t, got.Internal)
	assert.Empty(t, got.Historical)
}

func TestRetrieveQueriesBothIndexesWithSameQuery(t *testing.T) {
	searcher := &fakeSearcher{byIndex: map[string][]legal.RetrievedDocument{}}
	r := NewDocumentRetriever(searcher, retrieverConfig(), nil, logging.NewNopLogger())

	r.Retrieve(context.Background(), "Employment legal compliance risks regulations")
	require.Len(t, searcher.queries, 2)
	assert.Equal(t, searcher.queries[0], searcher.queries[1])
}
