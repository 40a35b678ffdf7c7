package riskanalysis

import (
	"context"

	"github.com/lexatlas/lexatlas/internal/domain/source"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
)

// SourceLister is the public-source record contract the matcher consumes.
type SourceLister interface {
	ListCompleted(ctx context.Context, riskArea string, limit int) ([]*source.PublicSource, error)
}

// riskAreaMapping maps a practice area to the risk-area categories it draws
// public sources from. Practice areas not listed here fall back to using the
// literal practice-area string as the filter.
var riskAreaMapping = map[string][]string{
	"Corporate M&A":         {"Corporate Governance", "Securities Law"},
	"Data Privacy":          {"Data Protection"},
	"Intellectual Property": {"Intellectual Property"},
	"Tax":                   {"Tax"},
	"Employment":            {"Employment"},
	"Compliance":            {"Data Protection", "Corporate Governance", "Securities Law"},
	"Securities Law":        {"Securities Law"},
	"Banking":               {"Banking"},
	"Real Estate":           {"Real Estate"},
}

// RiskAreasFor resolves the risk-area categories for a practice area.
func RiskAreasFor(practiceArea string) []string {
	if areas, ok := riskAreaMapping[practiceArea]; ok {
		return areas
	}
	return []string{practiceArea}
}

// SourceMatcher pulls enriched public-source records for a practice area.
type SourceMatcher struct {
	sources        SourceLister
	recordsPerArea int
	logger         logging.Logger
}

// NewSourceMatcher creates a matcher taking at most recordsPerArea completed
// records per mapped risk area.
func NewSourceMatcher(sources SourceLister, recordsPerArea int, log logging.Logger) *SourceMatcher {
	if recordsPerArea <= 0 {
		recordsPerArea = 3
	}
	return &SourceMatcher{
		sources:        sources,
		recordsPerArea: recordsPerArea,
		logger:         log,
	}
}

// Match concatenates completed records across the mapped risk areas, in
// mapping order. Records appearing under more than one category are kept as
// is; this is best-effort recall, not set semantics. A fetch failure for one
// category is logged and skipped.
func (m *SourceMatcher) Match(ctx context.Context, practiceArea string) []*source.PublicSource {
	riskAreas := RiskAreasFor(practiceArea)
	m.logger.Debug("mapped practice area to risk areas",
		logging.String("practice_area", practiceArea),
		logging.Any("risk_areas", riskAreas))

	var matched []*source.PublicSource
	for _, area := range riskAreas {
		records, err := m.sources.ListCompleted(ctx, area, m.recordsPerArea)
		if err != nil {
			m.logger.Warn("public source fetch failed, skipping risk area",
				logging.String("risk_area", area),
				logging.Error(err))
			continue
		}
		matched = append(matched, records...)
	}

	m.logger.Debug("matched public sources",
		logging.String("practice_area", practiceArea),
		logging.Int("count", len(matched)))
	return matched
}
