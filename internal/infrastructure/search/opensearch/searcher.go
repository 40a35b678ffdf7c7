package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

// SearcherConfig holds configuration for the collection searcher.  The field
// names map index document fields onto RetrievedDocument: ContentField feeds
// Content, NameField feeds Source, PathField feeds Path.
type SearcherConfig struct {
	ContentField  string
	NameField     string
	PathField     string
	SearchTimeout time.Duration
}

// Searcher runs relevance-ranked full-text queries against one index at a
// time and maps hits into domain retrieval snippets.
type Searcher struct {
	client *Client
	config SearcherConfig
	logger logging.Logger
}

// NewSearcher creates a new Searcher.
func NewSearcher(client *Client, cfg SearcherConfig, logger logging.Logger) *Searcher {
	if cfg.ContentField == "" {
		cfg.ContentField = "content"
	}
	if cfg.NameField == "" {
		cfg.NameField = "file_name"
	}
	if cfg.PathField == "" {
		cfg.PathField = "file_path"
	}
	if cfg.SearchTimeout == 0 {
		cfg.SearchTimeout = 10 * time.Second
	}
	return &Searcher{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// Search executes a match query against index and returns up to limit hits
// ordered by the engine's native relevance score, descending.
func (s *Searcher) Search(ctx context.Context, index, query string, limit int) ([]legal.RetrievedDocument, error) {
	if index == "" {
		return nil, errors.New(errors.ErrCodeValidation, "index name is required")
	}
	if limit <= 0 {
		limit = 10
	}

	dsl := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				s.config.ContentField: map[string]interface{}{
					"query": query,
				},
			},
		},
		"_source": []string{s.config.ContentField, s.config.NameField, s.config.PathField},
	}

	body, err := json.Marshal(dsl)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal query DSL")
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.SearchTimeout)
	defer cancel()

	osReq := opensearchapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(body),
	}

	start := time.Now()
	resp, err := osReq.Do(ctx, s.client.GetClient())
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Newf(errors.ErrCodeTimeout, "search against %s timed out", index)
		}
		return nil, errors.Wrap(err, errors.ErrCodeSearchQueryFailed, "search request failed")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, s.handleErrorResponse(resp)
	}

	docs, total, err := s.parseSearchResponse(resp)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search executed",
		logging.String("index", index),
		logging.Int64("took_ms", time.Since(start).Milliseconds()),
		logging.Int64("total", total),
		logging.Int("returned", len(docs)))

	return docs, nil
}

func (s *Searcher) parseSearchResponse(resp *opensearchapi.Response) ([]legal.RetrievedDocument, int64, error) {
	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Score  float64                    `json:"_score"`
				Source map[string]json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode search response")
	}

	docs := make([]legal.RetrievedDocument, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		docs = append(docs, legal.RetrievedDocument{
			Content: stringField(h.Source, s.config.ContentField),
			Source:  stringField(h.Source, s.config.NameField),
			Path:    stringField(h.Source, s.config.PathField),
			Score:   h.Score,
		})
	}
	return docs, parsed.Hits.Total.Value, nil
}

func stringField(src map[string]json.RawMessage, field string) string {
	raw, ok := src[field]
	if !ok {
		return ""
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return v
}

func (s *Searcher) handleErrorResponse(resp *opensearchapi.Response) error {
	var errResp struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Reason != "" {
		return errors.Newf(errors.ErrCodeSearchQueryFailed, "opensearch error: %s - %s",
			errResp.Error.Type, errResp.Error.Reason)
	}
	return errors.Newf(errors.ErrCodeSearchQueryFailed, "opensearch error status %d", resp.StatusCode)
}
