package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ilmpact/steam-export-api/internal/catalog"
	"github.com/ilmpact/steam-export-api/internal/models"
	"github.com/ilmpact/steam-export-api/pkg/config"
	appErrors "github.com/ilmpact/steam-export-api/pkg/errors"
	"github.com/ilmpact/steam-export-api/pkg/export"
)

// Export file formats.
const (
	FormatCSV = "csv"
	FormatDAT = "dat"
)

// Fixed output filenames, matching the downstream ingestion contract.
const (
	FileNameCSV = "SchoolData.csv"
	FileNameDAT = "SchoolData.dat"
)

type aggregator interface {
	Aggregate(ctx context.Context, from, to *time.Time) ([]models.SchoolSummary, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Path(filename string) string
}

type exportObserver interface {
	ObserveExport(format string, rows int, duration time.Duration)
}

// ExportParams select the window and output encoding of one export request.
type ExportParams struct {
	From   *time.Time
	To     *time.Time
	Format string
	Totals bool
}

// ExportResult is one rendered export.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

// ExportService sequences fetch -> aggregate -> derive -> serialize.
type ExportService struct {
	agg        aggregator
	delimited  *export.DelimitedEncoder
	positional *export.PositionalEncoder
	storage    fileStorage
	metrics    exportObserver
	cfg        config.ExportConfig
	logger     *zap.Logger
}

// NewExportService constructs the orchestrator.
func NewExportService(agg aggregator, storage fileStorage, metrics exportObserver, cfg config.ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		agg:        agg,
		delimited:  export.NewDelimitedEncoder(),
		positional: export.NewPositionalEncoder(),
		storage:    storage,
		metrics:    metrics,
		cfg:        cfg,
		logger:     logger,
	}
}

// Generate runs the pipeline once and renders the requested format.
func (s *ExportService) Generate(ctx context.Context, params ExportParams) (*ExportResult, error) {
	start := time.Now()

	summaries, err := s.agg.Aggregate(ctx, params.From, params.To)
	if err != nil {
		return nil, err
	}

	result, err := s.render(summaries, params)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	if s.metrics != nil {
		s.metrics.ObserveExport(params.Format, result.Rows, time.Since(start))
	}
	s.logger.Info("export generated",
		zap.String("format", params.Format),
		zap.Int("rows", result.Rows),
		zap.Int("bytes", len(result.Data)),
	)

	return result, nil
}

// SaveLocal writes a rendered export under the configured output directory
// and returns its absolute path.
func (s *ExportService) SaveLocal(result *ExportResult) (string, error) {
	if _, err := s.storage.Save(result.Filename, result.Data); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export file")
	}
	return s.storage.Path(result.Filename), nil
}

func (s *ExportService) render(summaries []models.SchoolSummary, params ExportParams) (*ExportResult, error) {
	switch params.Format {
	case FormatDAT:
		specs := catalog.Fields(s.cfg.IncludeContact)
		fields := catalog.ExportFields(specs)
		rows := catalog.BuildRows(specs, summaries, s.cfg.Cutoff, catalog.TargetPositional)

		var data []byte
		var err error
		if params.Totals || s.cfg.TotalsRecord {
			totals := catalog.BuildTotalsRow(specs, summaries, s.cfg.Cutoff)
			data, err = s.positional.RenderWithTotals(fields, rows, totals)
		} else {
			data, err = s.positional.Render(fields, rows)
		}
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			Filename:    FileNameDAT,
			ContentType: "application/octet-stream",
			Data:        data,
			Rows:        len(rows),
		}, nil

	default:
		specs := catalog.Fields(true)
		fields := catalog.ExportFields(specs)
		rows := catalog.BuildRows(specs, summaries, s.cfg.Cutoff, catalog.TargetDelimited)

		data, err := s.delimited.Render(fields, rows)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			Filename:    FileNameCSV,
			ContentType: "text/csv; charset=utf-8",
			Data:        data,
			Rows:        len(rows),
		}, nil
	}
}
