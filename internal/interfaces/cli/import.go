package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexatlas/lexatlas/internal/application/ingest"
	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/domain/attorney"
	"github.com/lexatlas/lexatlas/internal/domain/source"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/postgres"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/postgres/repositories"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
)

// newImportCmd creates the import command group.
func newImportCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import records from XLSX workbooks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "attorneys <file.xlsx>",
		Short: "Bulk-import attorney profiles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, args[0], func(svc *ingest.Service, r io.Reader) (*ingest.Report, error) {
				return svc.ImportAttorneys(cmd.Context(), r)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sources <file.xlsx>",
		Short: "Bulk-import public legal sources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, args[0], func(svc *ingest.Service, r io.Reader) (*ingest.Report, error) {
				return svc.ImportSources(cmd.Context(), r)
			})
		},
	})

	return cmd
}

// runImport wires the database-backed ingestion service and feeds it the
// workbook at path.
func runImport(cmd *cobra.Command, opts *RootOptions, path string, do func(*ingest.Service, io.Reader) (*ingest.Report, error)) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	svc, closeDB, err := buildIngestService(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	report, err := do(svc, f)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)
	if len(report.RowErrors) > 0 {
		return fmt.Errorf("workbook rejected: %d row error(s)", len(report.RowErrors))
	}
	return nil
}

// buildIngestService connects to the database and assembles the ingestion
// service on top of the domain services.
func buildIngestService(cfg *config.Config, log logging.Logger) (*ingest.Service, func(), error) {
	db, err := postgres.NewConnection(postgres.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Database:        cfg.Database.DBName,
		Username:        cfg.Database.User,
		Password:        cfg.Database.Password,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	attorneys := attorney.NewService(repositories.NewPostgresAttorneyRepo(db, log), log)
	sources := source.NewService(repositories.NewPostgresSourceRepo(db, log), log)
	svc := ingest.NewService(attorneys, sources, nil, log)

	return svc, func() { _ = db.Close() }, nil
}

// printReport renders an import report for terminal use.
func printReport(w io.Writer, report *ingest.Report) {
	fmt.Fprintf(w, "created: %d\n", report.Created)
	fmt.Fprintf(w, "skipped: %d\n", report.Skipped)
	for _, re := range report.RowErrors {
		fmt.Fprintf(w, "row %d: %s\n", re.Row, re.Message)
	}
}
