package ingest

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

func badReader() io.Reader {
	return strings.NewReader("this is not a zip archive")
}

func TestParseSourcesValidRows(t *testing.T) {
	r := workbook(t,
		[]interface{}{"title", "url", "risk_area", "summary", "jurisdiction", "impact_level"},
		[]interface{}{"New disclosure regime", "https://news.example/a", "Securities Law", "Stricter filings", "US", "high"},
		[]interface{}{"Bare minimum", "http://news.example/b", "", "", "", ""},
	)

	parse, err := ParseSources(r)
	require.NoError(t, err)
	require.Empty(t, parse.Errors)
	require.Len(t, parse.Sources, 2)

	first := parse.Sources[0]
	assert.Equal(t, "New disclosure regime", first.Title)
	assert.Equal(t, "Securities Law", first.RiskArea)
	// Lowercase impact cells canonicalize to the fixed set.
	assert.Equal(t, legal.ImpactHigh, first.Impact)

	second := parse.Sources[1]
	assert.Empty(t, second.RiskArea)
	assert.Empty(t, string(second.Impact))
}

func TestParseSourcesRowErrors(t *testing.T) {
	r := workbook(t,
		[]interface{}{"title", "url"},
		[]interface{}{"", "https://news.example/a"},
		[]interface{}{"No scheme", "news.example/b"},
		[]interface{}{"Fine", "https://news.example/c"},
	)

	parse, err := ParseSources(r)
	require.NoError(t, err)
	require.Len(t, parse.Sources, 1)
	require.Len(t, parse.Errors, 2)
	assert.Equal(t, 2, parse.Errors[0].Row)
	assert.Equal(t, "title and url are required", parse.Errors[0].Message)
	assert.Contains(t, parse.Errors[1].Message, "invalid url format")
}

func TestParseSourcesMissingRequiredColumns(t *testing.T) {
	r := workbook(t,
		[]interface{}{"headline", "link"},
		[]interface{}{"x", "y"},
	)

	_, err := ParseSources(r)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIngestParseFailed))
}

func TestParseSourcesUnknownImpactKeptVerbatim(t *testing.T) {
	r := workbook(t,
		[]interface{}{"title", "url", "impact_level"},
		[]interface{}{"Odd impact", "https://news.example/a", "Severe"},
	)

	parse, err := ParseSources(r)
	require.NoError(t, err)
	require.Len(t, parse.Sources, 1)
	assert.Equal(t, legal.ImpactLevel("Severe"), parse.Sources[0].Impact)
}
