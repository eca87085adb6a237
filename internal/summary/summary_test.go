package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vet-dictation-go/internal/pipeline"
	"vet-dictation-go/internal/types"
)

func TestSummarize(t *testing.T) {
	results := []pipeline.FileResult{
		{Filename: "a.mp3", Status: types.StatusPersisted},
		{Filename: "b.mp3", Status: types.StatusPersisted},
		{Filename: "c.mp3", Status: types.StatusPersistFailed},
		{Filename: "d.mp3", Status: types.StatusFailed},
	}

	s := Summarize(results)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Persisted)
	assert.Equal(t, 1, s.PersistFailed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 3, s.Exported(), "persist failure still counts toward the export")
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, RunSummary{}, s)
	assert.Equal(t, 0, s.Exported())
}
