package ingest

import (
	"context"
	"io"

	"github.com/lexatlas/lexatlas/internal/domain/attorney"
	"github.com/lexatlas/lexatlas/internal/domain/source"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
)

// AttorneyBulkCreator persists parsed attorney batches.
type AttorneyBulkCreator interface {
	BulkCreate(ctx context.Context, batch []*attorney.Attorney) ([]attorney.BulkOutcome, error)
}

// SourceCreator persists parsed public-source records.
type SourceCreator interface {
	Create(ctx context.Context, p *source.PublicSource) (*source.PublicSource, error)
}

// Report summarizes one import. When RowErrors is non-empty the workbook was
// rejected as a whole and nothing was persisted.
type Report struct {
	Created    int        `json:"created"`
	Skipped    int        `json:"skipped"`
	CreatedIDs []string   `json:"created_ids,omitempty"`
	RowErrors  []RowError `json:"row_errors,omitempty"`
}

// Service runs spreadsheet imports against the record stores.
type Service struct {
	attorneys AttorneyBulkCreator
	sources   SourceCreator
	metrics   *prometheus.AppMetrics
	logger    logging.Logger
}

// NewService creates an import service. metrics may be nil.
func NewService(attorneys AttorneyBulkCreator, sources SourceCreator, metrics *prometheus.AppMetrics, log logging.Logger) *Service {
	return &Service{
		attorneys: attorneys,
		sources:   sources,
		metrics:   metrics,
		logger:    log,
	}
}

// ImportAttorneys parses and persists an attorney workbook. A workbook with
// any invalid row is rejected without persisting; duplicate emails within a
// valid workbook are skipped, not fatal.
func (s *Service) ImportAttorneys(ctx context.Context, r io.Reader) (*Report, error) {
	parse, err := ParseAttorneys(r)
	if err != nil {
		return nil, err
	}
	if len(parse.Errors) > 0 {
		s.logger.Warn("attorney workbook rejected",
			logging.Int("row_errors", len(parse.Errors)))
		return &Report{RowErrors: parse.Errors}, nil
	}

	outcomes, err := s.attorneys.BulkCreate(ctx, parse.Attorneys)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, outcome := range outcomes {
		if outcome.Status == "created" {
			report.Created++
			report.CreatedIDs = append(report.CreatedIDs, outcome.ID)
		} else {
			report.Skipped++
		}
		s.countRow("attorney", outcome.Status)
	}

	s.logger.Info("attorney import finished",
		logging.Int("created", report.Created),
		logging.Int("skipped", report.Skipped))
	return report, nil
}

// ImportSources parses and persists a public-source workbook. Rows that fail
// to persist are skipped.
func (s *Service) ImportSources(ctx context.Context, r io.Reader) (*Report, error) {
	parse, err := ParseSources(r)
	if err != nil {
		return nil, err
	}
	if len(parse.Errors) > 0 {
		s.logger.Warn("public source workbook rejected",
			logging.Int("row_errors", len(parse.Errors)))
		return &Report{RowErrors: parse.Errors}, nil
	}

	report := &Report{}
	for _, record := range parse.Sources {
		created, err := s.sources.Create(ctx, record)
		if err != nil {
			s.logger.Warn("public source row skipped", logging.Error(err))
			report.Skipped++
			s.countRow("source", "skipped")
			continue
		}
		report.Created++
		report.CreatedIDs = append(report.CreatedIDs, created.ID)
		s.countRow("source", "created")
	}

	s.logger.Info("public source import finished",
		logging.Int("created", report.Created),
		logging.Int("skipped", report.Skipped))
	return report, nil
}

func (s *Service) countRow(entity, result string) {
	if s.metrics != nil {
		s.metrics.IngestRowsTotal.WithLabelValues(entity, result).Inc()
	}
}
