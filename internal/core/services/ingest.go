package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/jsonl"
	"github.com/custodia-labs/folio/internal/logger"
	"github.com/custodia-labs/folio/internal/marc"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the batch pipeline stages.
type IngestService struct {
	parser     *marc.Parser
	normaliser Normaliser
	store      driven.IndexStore
}

// Normaliser turns one canonical record into its normalized form. The
// transformation is pure, so records can normalise in parallel.
type Normaliser interface {
	Normalise(rec domain.CanonicalRecord) domain.NormalizedRecord
}

// NewIngestService creates the ingest service. The store may be nil if
// only Parse and Normalise will be called.
func NewIngestService(normaliser Normaliser, store driven.IndexStore) *IngestService {
	return &IngestService{
		parser:     marc.NewParser(),
		normaliser: normaliser,
		store:      store,
	}
}

// Parse reads MARCXML from input (a file or a directory of .xml files)
// and writes canonical records to output as line-delimited JSON. A
// malformed record is counted and skipped; the batch continues.
func (s *IngestService) Parse(ctx context.Context, input, output string) (driving.IngestStats, error) {
	logger.Section("Parse")

	files, err := collectInputFiles(input)
	if err != nil {
		return driving.IngestStats{}, err
	}
	logger.Debug("Parsing %d file(s)", len(files))

	var stats driving.IngestStats
	var all []domain.CanonicalRecord

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		f, err := os.Open(path)
		if err != nil {
			return stats, fmt.Errorf("opening %s: %w", path, err)
		}

		records, recordErrs, err := s.parser.ParseCollection(f)
		f.Close()
		if err != nil {
			return stats, fmt.Errorf("parsing %s: %w", path, err)
		}

		for _, recErr := range recordErrs {
			logger.Warn("Skipping record in %s: %v", filepath.Base(path), recErr)
		}
		stats.Errors += len(recordErrs)
		stats.Records += len(records)
		all = append(all, records...)
	}

	if err := writeJSONLFile(output, all); err != nil {
		return stats, err
	}

	logger.Info("Parsed %d records, %d skipped", stats.Records, stats.Errors)
	return stats, nil
}

// Normalise reads canonical records from input and writes normalized
// records to output. Records normalise concurrently but output order
// matches input order.
func (s *IngestService) Normalise(ctx context.Context, input, output string) (driving.IngestStats, error) {
	logger.Section("Normalise")

	canonical, err := readJSONLFile[domain.CanonicalRecord](input)
	if err != nil {
		return driving.IngestStats{}, err
	}
	logger.Debug("Normalising %d records", len(canonical))

	normalized := make([]domain.NormalizedRecord, len(canonical))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range canonical {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			normalized[i] = s.normaliser.Normalise(canonical[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return driving.IngestStats{}, err
	}

	if err := writeJSONLFile(output, normalized); err != nil {
		return driving.IngestStats{}, err
	}

	logger.Info("Normalised %d records", len(normalized))
	return driving.IngestStats{Records: len(normalized)}, nil
}

// Index loads normalized records from input into the store in one
// transaction.
func (s *IngestService) Index(ctx context.Context, input string) (int, error) {
	logger.Section("Index")

	if s.store == nil {
		return 0, fmt.Errorf("%w: no index store configured", domain.ErrStoreUnavailable)
	}

	records, err := readJSONLFile[domain.NormalizedRecord](input)
	if err != nil {
		return 0, err
	}
	logger.Debug("Indexing %d records", len(records))

	if err := s.store.SaveRecords(ctx, records); err != nil {
		return 0, fmt.Errorf("loading index: %w", err)
	}

	logger.Info("Indexed %d records", len(records))
	return len(records), nil
}

// collectInputFiles resolves input to the list of files to parse. A
// directory contributes its .xml files in name order, so batch output
// is stable across runs.
func collectInputFiles(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if !info.IsDir() {
		return []string{input}, nil
	}

	var files []string
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".xml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", input, err)
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no .xml files under %s", domain.ErrInvalidInput, input)
	}
	return files, nil
}

func readJSONLFile[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	items, err := jsonl.ReadAll[T](f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return items, nil
}

func writeJSONLFile[T any](path string, items []T) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := jsonl.WriteAll(f, items); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
