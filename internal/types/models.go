package types

import (
	"encoding/json"
	"time"
)

// Extraction is the structured payload parsed from one dictation.
// Values are kept as strings; absent keys stay empty and are filled
// with defaults by the assembler.
type Extraction struct {
	PatientID      string `json:"patient_id"`
	PatientName    string `json:"patient_name"`
	PatientDose    string `json:"patient_dose"`
	NotesForDoctor string `json:"notes_for_doctor"`
}

// Sentinel used for any field the dictation did not mention.
const NotAvailable = "N/A"

// Date marshals as YYYY-MM-DD, the format the records table and the
// spreadsheet both expect.
type Date time.Time

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}

func (d Date) String() string {
	return time.Time(d).Format("2006-01-02")
}

// Record is the persisted unit: one row in veterinary_records and one
// row in the export sheet. Never mutated after assembly.
type Record struct {
	PatientID      int    `json:"patient_id"`
	PatientName    string `json:"patient_name"`
	PatientDose    string `json:"patient_dose"`
	NotesForDoctor string `json:"notes_for_doctor"`
	RecordDate     Date   `json:"record_date"`
}

// Status tracks where a file is in its processing lifecycle.
type Status string

const (
	StatusPending       Status = "PENDING"
	StatusUploading     Status = "UPLOADING"
	StatusWaitingRemote Status = "WAITING_REMOTE"
	StatusParsing       Status = "PARSING"
	StatusAssembled     Status = "ASSEMBLED"
	StatusPersisted     Status = "PERSISTED"
	StatusPersistFailed Status = "PERSIST_FAILED"
	StatusFailed        Status = "FAILED"
)
