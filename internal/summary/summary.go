package summary

import (
	"vet-dictation-go/internal/pipeline"
	"vet-dictation-go/internal/types"
)

// RunSummary counts the terminal outcomes of one processing run.
type RunSummary struct {
	Total         int `json:"total"`
	Persisted     int `json:"persisted"`
	PersistFailed int `json:"persist_failed"`
	Failed        int `json:"failed"`
}

// Exported returns how many files contributed a record to the export.
func (s RunSummary) Exported() int {
	return s.Total - s.Failed
}

func Summarize(results []pipeline.FileResult) RunSummary {
	s := RunSummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case types.StatusPersisted:
			s.Persisted++
		case types.StatusPersistFailed:
			s.PersistFailed++
		case types.StatusFailed:
			s.Failed++
		}
	}
	return s
}
