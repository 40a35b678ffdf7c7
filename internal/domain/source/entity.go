package source

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

// IDPrefix is the prefix of every public-source identifier, e.g.
// "NEWS-11AA22BB".
const IDPrefix = "NEWS"

// PublicSource is one tracked public legal development (news item, ruling,
// regulatory notice).  Raw records carry only Title and URL; enrichment fills
// RiskArea, Summary, Jurisdiction, and Impact, advancing EnrichmentStatus to
// completed.  Only completed records feed the analysis pipeline.
type PublicSource struct {
	ID               string                 `json:"id"`
	Title            string                 `json:"title"`
	URL              string                 `json:"url"`
	RiskArea         string                 `json:"risk_area,omitempty"`
	Summary          string                 `json:"summary,omitempty"`
	Jurisdiction     string                 `json:"jurisdiction,omitempty"`
	Impact           legal.ImpactLevel      `json:"impact_level,omitempty"`
	EnrichmentStatus legal.EnrichmentStatus `json:"enrichment_status"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// NewID generates a fresh source identifier: "NEWS-" plus the first eight
// characters of a UUID, uppercased.
func NewID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return IDPrefix + "-" + strings.ToUpper(raw[:8])
}

// Validate checks the record's structural invariants.
func (p *PublicSource) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return errors.New(errors.ErrCodeSourceInvalid, "source title is required")
	}
	if p.URL != "" {
		u, err := url.Parse(p.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.Newf(errors.ErrCodeSourceInvalid, "invalid source url %q", p.URL)
		}
	}
	if p.EnrichmentStatus != "" && !p.EnrichmentStatus.Valid() {
		return errors.Newf(errors.ErrCodeSourceInvalid, "unknown enrichment status %q", p.EnrichmentStatus)
	}
	return nil
}

// Enriched reports whether the record has completed enrichment and is
// eligible for use by the analysis pipeline.
func (p *PublicSource) Enriched() bool {
	return p.EnrichmentStatus == legal.EnrichmentCompleted
}

// canAdvance defines the legal enrichment state machine:
// pending → processing → completed | failed, with failed → processing retry.
func canAdvance(from, to legal.EnrichmentStatus) bool {
	switch from {
	case legal.EnrichmentPending:
		return to == legal.EnrichmentProcessing
	case legal.EnrichmentProcessing:
		return to == legal.EnrichmentCompleted || to == legal.EnrichmentFailed
	case legal.EnrichmentFailed:
		return to == legal.EnrichmentProcessing
	}
	return false
}

// AdvanceEnrichment moves the record to the next enrichment state, rejecting
// transitions the state machine does not allow.
func (p *PublicSource) AdvanceEnrichment(to legal.EnrichmentStatus) error {
	if !to.Valid() {
		return errors.Newf(errors.ErrCodeSourceInvalid, "unknown enrichment status %q", to)
	}
	if !canAdvance(p.EnrichmentStatus, to) {
		return errors.Newf(errors.ErrCodeEnrichmentStateError,
			"cannot advance enrichment from %q to %q", p.EnrichmentStatus, to)
	}
	p.EnrichmentStatus = to
	return nil
}

// ListFilter defines filtering options for listing public sources.
type ListFilter struct {
	RiskArea     string
	Jurisdiction string
	Status       legal.EnrichmentStatus
	Offset       int
	Limit        int
}
