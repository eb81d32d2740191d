// =============================================================================
// Ledger Extractor - Batch Processing and Aggregation
// =============================================================================
//
// A batch extracts many files and concatenates their records into one
// dataset per record kind.
//
// ORDERING:
//   Files may be extracted concurrently, but results are stored by input
//   position, so datasets always follow the order the caller supplied.
//   The header rule is applied after ordering is fixed.
//
// PARTIAL FAILURE:
//   A file that fails is reported in its Result and skipped; the rest of the
//   batch continues.
//
// =============================================================================

package converter

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/ledgerx/internal/types"
)

// =============================================================================
// BATCH
// =============================================================================

// Batch extracts a list of files with bounded concurrency.
type Batch struct {
	converter      *Converter
	maxConcurrency int
	logger         *slog.Logger
}

// NewBatch creates a Batch. maxConcurrency < 1 means sequential.
func NewBatch(converter *Converter, maxConcurrency int, logger *slog.Logger) *Batch {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Batch{
		converter:      converter,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// Run extracts every path and returns one Result per path, in input order.
// Cancelling ctx marks the files not yet started as failed.
func (b *Batch) Run(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.maxConcurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{FilePath: path, Error: err}
				return nil
			}
			results[i] = b.converter.Run(path)
			return nil
		})
	}

	// Per-file failures live in the results; the group itself never fails.
	_ = g.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	b.logger.Info("batch complete",
		slog.Int("files", len(paths)),
		slog.Int("succeeded", succeeded),
		slog.Int("failed", len(paths)-succeeded))

	return results
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Dataset is an ordered sequence of records of one kind, as rows of field
// values, optionally prefixed by a header row.
type Dataset struct {
	// Kind is the record kind of every row.
	Kind types.RecordKind

	// Rows holds the header (if any) followed by the record values.
	Rows [][]string

	// HasHeader reports whether Rows[0] is the header row.
	HasHeader bool

	// Files is the number of files that contributed records.
	Files int
}

// Records returns the number of record rows, excluding the header.
func (d *Dataset) Records() int {
	if d.HasHeader {
		return len(d.Rows) - 1
	}
	return len(d.Rows)
}

// Table renders the records of one file. withHeader prefixes the header of
// kind; a batch passes true for the first contributing file only.
func Table(kind types.RecordKind, records []types.Record, withHeader bool) [][]string {
	rows := make([][]string, 0, len(records)+1)
	if withHeader {
		rows = append(rows, kind.Header())
	}
	for _, r := range records {
		rows = append(rows, r.Values())
	}
	return rows
}

// Aggregate concatenates the records of every successful result of the
// given kind, in result order. With includeHeader the header is emitted
// exactly once, even when no file contributed.
func Aggregate(kind types.RecordKind, results []Result, includeHeader bool) *Dataset {
	ds := &Dataset{Kind: kind}

	headerPending := includeHeader
	for _, r := range results {
		if !r.Success || r.Kind != kind {
			continue
		}
		ds.Rows = append(ds.Rows, Table(kind, r.Records, headerPending)...)
		if headerPending {
			ds.HasHeader = true
			headerPending = false
		}
		ds.Files++
	}

	if headerPending {
		ds.Rows = append([][]string{kind.Header()}, ds.Rows...)
		ds.HasHeader = true
	}

	return ds
}

// AggregateAll builds one dataset per record kind that at least one file
// contributed to, in types.AllKinds order.
func AggregateAll(results []Result, includeHeader bool) []*Dataset {
	var datasets []*Dataset
	for _, kind := range types.AllKinds {
		ds := Aggregate(kind, results, includeHeader)
		if ds.Files > 0 {
			datasets = append(datasets, ds)
		}
	}
	return datasets
}
