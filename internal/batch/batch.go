// Package batch resolves a CSV file of locations row by row.
package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/compass/internal/geocoding"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/schollz/progressbar/v3"
)

// DefaultColumn is the header of the location column when none is given.
const DefaultColumn = "location"

// Input errors.
var (
	ErrNoHeader       = errors.New("input has no header row")
	ErrColumnNotFound = errors.New("location column not found")
)

var (
	resultColumns    = []string{"latitude", "longitude", "normalized_name", "provider_id", "geocoding_error"}
	errBlankLocation = fmt.Errorf("%w: blank cell", geocoding.ErrEmptyQuery)
)

// Resolver resolves a free-text location through the provider chain.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*models.GeoResult, error)
}

// Options configures a batch run.
type Options struct {
	Column   string    // Header of the location column, case-insensitive; DefaultColumn when empty
	Progress io.Writer // Progress bar output; no bar when nil
}

// Summary counts the outcome of a batch run.
type Summary struct {
	Total    int `json:"total"`
	Resolved int `json:"resolved"`
	Failed   int `json:"failed"`
}

// Processor resolves CSV rows sequentially.
type Processor struct {
	log      *slog.Logger
	resolver Resolver
	opts     Options
}

// NewProcessor creates a batch processor.
func NewProcessor(log *slog.Logger, resolver Resolver, opts Options) *Processor {
	if opts.Column == "" {
		opts.Column = DefaultColumn
	}

	return &Processor{log: log, resolver: resolver, opts: opts}
}

// Process reads CSV rows from in and writes them to out with the resolution columns appended.
// Blank location cells are recorded as failures without calling the resolver.
// A cancelled context stops the run after the current row; rows already written are flushed.
func (p *Processor) Process(ctx context.Context, in io.Reader, out io.Writer) (Summary, error) {
	var summary Summary

	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return summary, fmt.Errorf("failed to read CSV input: %w", err)
	}
	if len(records) == 0 {
		return summary, ErrNoHeader
	}

	header := records[0]
	column := findColumn(header, p.opts.Column)
	if column < 0 {
		return summary, fmt.Errorf("%w: %q", ErrColumnNotFound, p.opts.Column)
	}

	writer := csv.NewWriter(out)
	defer writer.Flush()

	if err = writer.Write(append(header, resultColumns...)); err != nil {
		return summary, fmt.Errorf("failed to write CSV header: %w", err)
	}

	rows := records[1:]
	bar := p.newProgressBar(len(rows))

	for _, row := range rows {
		if err = ctx.Err(); err != nil {
			return summary, fmt.Errorf("batch interrupted after %d rows: %w", summary.Total, err)
		}

		row = pad(row, len(header))
		summary.Total++

		result, resolveErr := p.resolveCell(ctx, row[column])
		if resolveErr != nil {
			summary.Failed++
			p.log.DebugContext(ctx, "Failed to resolve row", "row", summary.Total, "error", resolveErr)
		} else {
			summary.Resolved++
		}

		if err = writer.Write(append(row, resultCells(result, resolveErr)...)); err != nil {
			return summary, fmt.Errorf("failed to write CSV row %d: %w", summary.Total, err)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	writer.Flush()
	if err = writer.Error(); err != nil {
		return summary, fmt.Errorf("failed to flush CSV output: %w", err)
	}

	p.log.InfoContext(ctx, "Batch finished",
		"total", summary.Total,
		"resolved", summary.Resolved,
		"failed", summary.Failed)

	return summary, nil
}

func (p *Processor) resolveCell(ctx context.Context, cell string) (*models.GeoResult, error) {
	if strings.TrimSpace(cell) == "" {
		return nil, errBlankLocation
	}

	return p.resolver.Resolve(ctx, cell)
}

func (p *Processor) newProgressBar(rows int) *progressbar.ProgressBar {
	if p.opts.Progress == nil {
		return nil
	}

	return progressbar.NewOptions(rows,
		progressbar.OptionSetDescription("Resolving locations"),
		progressbar.OptionSetWriter(p.opts.Progress),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func findColumn(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}

	return -1
}

// pad extends short rows so every output row has as many cells as the header.
func pad(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}

	return row
}

func resultCells(result *models.GeoResult, err error) []string {
	if err != nil {
		return []string{"", "", "", "", err.Error()}
	}

	return []string{
		strconv.FormatFloat(result.Latitude, 'f', -1, 64),
		strconv.FormatFloat(result.Longitude, 'f', -1, 64),
		result.NormalizedName,
		result.ProviderID,
		"",
	}
}
