package assembler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vet-dictation-go/internal/types"
)

// Assemble normalizes one extraction into the persisted record shape.
// patient_id defaults to 0 when the audio carried none; every other
// field falls back to the "N/A" sentinel. The record date is the
// assembly date, not a dictation date: the audio has no reliable timestamp.
func Assemble(ex types.Extraction, now time.Time) (types.Record, error) {
	id, err := patientID(ex.PatientID)
	if err != nil {
		return types.Record{}, err
	}
	return types.Record{
		PatientID:      id,
		PatientName:    orSentinel(ex.PatientName),
		PatientDose:    orSentinel(ex.PatientDose),
		NotesForDoctor: orSentinel(ex.NotesForDoctor),
		RecordDate:     types.Date(now),
	}, nil
}

func patientID(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, types.NotAvailable) {
		return 0, nil
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not numeric", types.ErrInvalidPatientID, raw)
	}
	return id, nil
}

func orSentinel(s string) string {
	if strings.TrimSpace(s) == "" {
		return types.NotAvailable
	}
	return s
}
