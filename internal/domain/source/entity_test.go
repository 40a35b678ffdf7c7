package source

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

func validSource() *PublicSource {
	return &PublicSource{
		Title:            "New data-protection enforcement guidance published",
		URL:              "https://example.org/news/dp-guidance",
		RiskArea:         "Data Protection",
		Summary:          "Regulator clarifies breach-notification timelines.",
		Jurisdiction:     "EU",
		Impact:           legal.ImpactHigh,
		EnrichmentStatus: legal.EnrichmentCompleted,
	}
}

func TestNewIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^NEWS-[A-Z0-9]{8}$`)
	for i := 0; i < 20; i++ {
		assert.Regexp(t, pattern, NewID())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PublicSource)
		valid  bool
	}{
		{"valid", func(*PublicSource) {}, true},
		{"empty title", func(p *PublicSource) { p.Title = " " }, false},
		{"bad url", func(p *PublicSource) { p.URL = "not a url" }, false},
		{"empty url allowed", func(p *PublicSource) { p.URL = "" }, true},
		{"unknown status", func(p *PublicSource) { p.EnrichmentStatus = "done" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validSource()
			tt.mutate(p)
			err := p.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeSourceInvalid, errors.GetCode(err))
			}
		})
	}
}

func TestAdvanceEnrichment(t *testing.T) {
	tests := []struct {
		name string
		from legal.EnrichmentStatus
		to   legal.EnrichmentStatus
		ok   bool
	}{
		{"pending to processing", legal.EnrichmentPending, legal.EnrichmentProcessing, true},
		{"processing to completed", legal.EnrichmentProcessing, legal.EnrichmentCompleted, true},
		{"processing to failed", legal.EnrichmentProcessing, legal.EnrichmentFailed, true},
		{"failed retry", legal.EnrichmentFailed, legal.EnrichmentProcessing, true},
		{"pending straight to completed", legal.EnrichmentPending, legal.EnrichmentCompleted, false},
		{"completed is terminal", legal.EnrichmentCompleted, legal.EnrichmentProcessing, false},
		{"unknown target", legal.EnrichmentPending, "archived", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validSource()
			p.EnrichmentStatus = tt.from
			err := p.AdvanceEnrichment(tt.to)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.to, p.EnrichmentStatus)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.from, p.EnrichmentStatus)
			}
		})
	}
}

func TestEnriched(t *testing.T) {
	p := validSource()
	assert.True(t, p.Enriched())
	p.EnrichmentStatus = legal.EnrichmentPending
	assert.False(t, p.Enriched())
}
