package store

import (
	"context"

	"vet-dictation-go/internal/types"
)

// Table every record lands in, whichever path writes it.
const Table = "veterinary_records"

// RecordStore persists one assembled record per call. Inserts are
// best-effort from the pipeline's point of view: a failure is reported
// for the file but never aborts the run.
type RecordStore interface {
	InsertRecord(ctx context.Context, rec types.Record) error
}
