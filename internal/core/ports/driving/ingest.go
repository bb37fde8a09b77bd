package driving

import "context"

// IngestStats summarises one batch stage run. Record-level failures
// never abort a batch, so both counts can be nonzero.
type IngestStats struct {
	// Records is the number of records processed successfully.
	Records int

	// Errors is the number of records that failed in isolation.
	Errors int
}

// IngestService runs the batch pipeline stages: raw catalog records to
// canonical records, canonical records to normalized records, and
// normalized records into the index store.
type IngestService interface {
	// Parse reads raw catalog records from input (a file or directory)
	// and writes canonical records to output as line-delimited JSON.
	// A malformed record is logged and skipped; the batch continues.
	Parse(ctx context.Context, input, output string) (IngestStats, error)

	// Normalise reads canonical records from input and writes
	// normalized records to output as line-delimited JSON. Output order
	// matches input order.
	Normalise(ctx context.Context, input, output string) (IngestStats, error)

	// Index loads normalized records from input into the index store
	// atomically and returns the number of records loaded.
	Index(ctx context.Context, input string) (int, error)
}
