package ingest

import (
	"io"
	"regexp"
	"strings"

	"github.com/lexatlas/lexatlas/internal/domain/source"
	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

var urlPattern = regexp.MustCompile(`^https?://.+`)

var impactByLower = map[string]legal.ImpactLevel{
	"low":      legal.ImpactLow,
	"medium":   legal.ImpactMedium,
	"high":     legal.ImpactHigh,
	"critical": legal.ImpactCritical,
}

// SourceParse is the outcome of parsing one public-source workbook. Rows
// listed in Errors are not present in Sources.
type SourceParse struct {
	Sources []*source.PublicSource
	Errors  []RowError
}

// ParseSources parses a public-source seeding workbook. Required columns:
// title, url. risk_area, summary, jurisdiction, and impact_level are
// optional; enrichment status is left for the record store to default.
func ParseSources(r io.Reader) (*SourceParse, error) {
	rows, err := sheetRows(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeIngestNoRows, "workbook is empty")
	}

	idx := headerIndex(rows[0])
	if missing := missingColumns(idx, "title", "url"); len(missing) > 0 {
		return nil, errors.Newf(errors.ErrCodeIngestParseFailed,
			"missing required columns: %s", strings.Join(missing, ", "))
	}

	parse := &SourceParse{}
	for i, row := range rows[1:] {
		rowNum := i + 2

		title := cellAt(row, idx, "title")
		url := cellAt(row, idx, "url")
		if title == "" || url == "" {
			parse.Errors = append(parse.Errors, RowError{Row: rowNum, Message: "title and url are required"})
			continue
		}
		if !urlPattern.MatchString(url) {
			parse.Errors = append(parse.Errors, RowError{Row: rowNum, Message: "invalid url format (must start with http:// or https://)"})
			continue
		}

		record := &source.PublicSource{
			Title:        title,
			URL:          url,
			RiskArea:     cellAt(row, idx, "risk_area"),
			Summary:      cellAt(row, idx, "summary"),
			Jurisdiction: cellAt(row, idx, "jurisdiction"),
		}
		if impact := cellAt(row, idx, "impact_level"); impact != "" {
			if level, ok := impactByLower[strings.ToLower(impact)]; ok {
				record.Impact = level
			} else {
				record.Impact = legal.ImpactLevel(impact)
			}
		}
		parse.Sources = append(parse.Sources, record)
	}
	return parse, nil
}
