package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vet-dictation-go/internal/types"
)

type scriptedExtractor struct {
	calls    int
	failures int // fail this many leading attempts
	result   types.Extraction
}

func (s *scriptedExtractor) Extract(ctx context.Context, path string, onStage func(types.Status)) (types.Extraction, error) {
	s.calls++
	if onStage != nil {
		onStage(types.StatusUploading)
	}
	if s.calls <= s.failures {
		return types.Extraction{}, fmt.Errorf("%w: attempt %d", types.ErrRemoteProcessing, s.calls)
	}
	if onStage != nil {
		onStage(types.StatusParsing)
	}
	return s.result, nil
}

type memStore struct {
	inserted []types.Record
	err      error
}

func (m *memStore) InsertRecord(ctx context.Context, rec types.Record) error {
	if m.err != nil {
		return m.err
	}
	m.inserted = append(m.inserted, rec)
	return nil
}

func TestProcessFileRetryExhaustion(t *testing.T) {
	ex := &scriptedExtractor{failures: 10}
	st := &memStore{}
	pipe := New(ex, st, 3, time.Millisecond)

	res := pipe.ProcessFile(context.Background(), "barks.mp3")

	assert.Equal(t, 3, ex.calls, "extractor must be called exactly the attempt cap")
	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Nil(t, res.Record)
	assert.Equal(t, 3, res.Attempts)
	assert.Empty(t, st.inserted)
}

func TestProcessFileRecoversOnSecondAttempt(t *testing.T) {
	ex := &scriptedExtractor{
		failures: 1,
		result:   types.Extraction{PatientID: "12", PatientName: "Bruno", PatientDose: "Augmentin 2cc"},
	}
	st := &memStore{}
	pipe := New(ex, st, 3, time.Millisecond)

	res := pipe.ProcessFile(context.Background(), "bruno.wav")

	require.NotNil(t, res.Record)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, types.StatusPersisted, res.Status)
	assert.Equal(t, 12, res.Record.PatientID)
	assert.Equal(t, "N/A", res.Record.NotesForDoctor)
	require.Len(t, st.inserted, 1, "exactly one record despite the retry")
}

func TestProcessFileInsertFailureKeepsRecord(t *testing.T) {
	ex := &scriptedExtractor{result: types.Extraction{PatientID: "5"}}
	st := &memStore{err: errors.New("connection refused")}
	pipe := New(ex, st, 3, time.Millisecond)

	res := pipe.ProcessFile(context.Background(), "misha.ogg")

	assert.Equal(t, types.StatusPersistFailed, res.Status)
	require.NotNil(t, res.Record, "record stays in the export set on insert failure")
	assert.Equal(t, 5, res.Record.PatientID)
}

func TestProcessFileInvalidPatientIDRetried(t *testing.T) {
	ex := &scriptedExtractor{result: types.Extraction{PatientID: "twelve"}}
	pipe := New(ex, nil, 3, time.Millisecond)

	res := pipe.ProcessFile(context.Background(), "rex.flac")

	assert.Equal(t, 3, ex.calls)
	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Contains(t, res.Error, "not numeric")
}

func TestProcessAllOrderAndAccumulation(t *testing.T) {
	// sequential extractor that names patients after call order
	calls := 0
	ex := extractorFunc(func(ctx context.Context, path string, onStage func(types.Status)) (types.Extraction, error) {
		calls++
		if path == "bad.mp3" {
			return types.Extraction{}, types.ErrRemoteProcessing
		}
		return types.Extraction{PatientID: fmt.Sprint(calls), PatientName: path}, nil
	})
	st := &memStore{}
	pipe := New(ex, st, 1, time.Millisecond)

	records, results := pipe.ProcessAll(context.Background(), []string{"a.mp3", "bad.mp3", "b.mp3"})

	require.Len(t, results, 3)
	require.Len(t, records, 2, "failed file contributes no record")
	assert.Equal(t, "a.mp3", records[0].PatientName)
	assert.Equal(t, "b.mp3", records[1].PatientName)
	assert.Equal(t, types.StatusFailed, results[1].Status)
	assert.Len(t, st.inserted, 2)
}

type extractorFunc func(ctx context.Context, path string, onStage func(types.Status)) (types.Extraction, error)

func (f extractorFunc) Extract(ctx context.Context, path string, onStage func(types.Status)) (types.Extraction, error) {
	return f(ctx, path, onStage)
}
