// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"vet-dictation-go/internal/assembler"
	"vet-dictation-go/internal/logger"
	"vet-dictation-go/internal/store"
	"vet-dictation-go/internal/types"
)

// Extractor runs one extraction attempt for one file.
type Extractor interface {
	Extract(ctx context.Context, path string, onStage func(types.Status)) (types.Extraction, error)
}

// FileResult is the per-file outcome of one run.
type FileResult struct {
	Filename string        `json:"filename"`
	Status   types.Status  `json:"status"`
	Attempts int           `json:"attempts"`
	Record   *types.Record `json:"record,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// Pipeline processes files strictly one at a time: extract with bounded
// retries, assemble, persist best-effort, accumulate for export.
type Pipeline struct {
	extractor Extractor
	store     store.RecordStore
	attempts  int
	delay     time.Duration
	log       *logrus.Entry
}

func New(ex Extractor, st store.RecordStore, maxAttempts int, retryDelay time.Duration) *Pipeline {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Pipeline{
		extractor: ex,
		store:     st,
		attempts:  maxAttempts,
		delay:     retryDelay,
		log:       logger.Component("pipeline"),
	}
}

// ProcessFile runs the retry loop for one file. Every failure kind is
// retried after a fixed delay until the attempt cap; after that the file
// is reported as skipped and contributes no record.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) FileResult {
	name := filepath.Base(path)
	log := p.log.WithField("file", name)
	res := FileResult{Filename: name, Status: types.StatusPending}

	var record types.Record
	op := func() error {
		res.Attempts++
		if res.Attempts > 1 {
			log.WithField("attempt", res.Attempts).Info("retrying file")
		}
		ex, err := p.extractor.Extract(ctx, path, func(s types.Status) { res.Status = s })
		if err != nil {
			return err
		}
		rec, err := assembler.Assemble(ex, time.Now())
		if err != nil {
			return err
		}
		record = rec
		res.Status = types.StatusAssembled
		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.delay), uint64(p.attempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, bo); err != nil {
		log.WithError(err).WithField("attempts", res.Attempts).Error("could not process this file")
		res.Status = types.StatusFailed
		res.Error = err.Error()
		return res
	}

	res.Record = &record
	if p.store != nil {
		if err := p.store.InsertRecord(ctx, record); err != nil {
			// Insert failure is per-file; the record stays in the export set.
			log.WithError(err).Error("insert failed")
			res.Status = types.StatusPersistFailed
			res.Error = err.Error()
		} else {
			log.Info("record inserted")
			res.Status = types.StatusPersisted
		}
	}
	return res
}

// ProcessAll walks the files in listing order; the next upload starts
// only after the previous file's retry loop has terminated. The returned
// records are the run's export set, in processing order.
func (p *Pipeline) ProcessAll(ctx context.Context, paths []string) ([]types.Record, []FileResult) {
	var records []types.Record
	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		res := p.ProcessFile(ctx, path)
		if res.Record != nil {
			records = append(records, *res.Record)
		}
		results = append(results, res)
	}
	return records, results
}
