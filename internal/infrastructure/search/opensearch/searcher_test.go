package opensearch

import (
	"io"
	"strings"
	"testing"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
)

func testSearcher() *Searcher {
	return NewSearcher(nil, SearcherConfig{}, logging.NewNopLogger())
}

func osResponse(body string) *opensearchapi.Response {
	return &opensearchapi.Response{
		StatusCode: 200,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseSearchResponse(t *testing.T) {
	body := `{
		"hits": {
			"total": {"value": 42},
			"hits": [
				{"_score": 7.5, "_source": {"content": "GDPR breach notification duties", "file_name": "gdpr-memo.md", "file_path": "/kb/gdpr-memo.md"}},
				{"_score": 3.1, "_source": {"content": "Securities disclosure checklist"}}
			]
		}
	}`

	docs, total, err := testSearcher().parseSearchResponse(osResponse(body))
	require.NoError(t, err)

	assert.Equal(t, int64(42), total)
	require.Len(t, docs, 2)
	assert.Equal(t, "GDPR breach notification duties", docs[0].Content)
	assert.Equal(t, "gdpr-memo.md", docs[0].Source)
	assert.Equal(t, "/kb/gdpr-memo.md", docs[0].Path)
	assert.Equal(t, 7.5, docs[0].Score)
	// Missing fields decode to empty strings, not errors.
	assert.Empty(t, docs[1].Source)
	assert.Empty(t, docs[1].Path)
}

func TestParseSearchResponseEmptyHits(t *testing.T) {
	docs, total, err := testSearcher().parseSearchResponse(osResponse(`{"hits":{"total":{"value":0},"hits":[]}}`))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, docs)
}

func TestParseSearchResponseMalformed(t *testing.T) {
	_, _, err := testSearcher().parseSearchResponse(osResponse(`not json`))
	require.Error(t, err)
}

func TestHandleErrorResponse(t *testing.T) {
	resp := osResponse(`{"error":{"type":"index_not_found_exception","reason":"no such index [missing]"}}`)
	err := testSearcher().handleErrorResponse(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index_not_found_exception")
	assert.Contains(t, err.Error(), "no such index")
}
