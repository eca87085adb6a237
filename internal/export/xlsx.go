package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"vet-dictation-go/internal/types"
)

const sheet = "Records"

// Display labels, in the order the spreadsheet must carry them.
var headers = []string{"Patient ID", "Patient Name", "Patient Dose", "Notes for Doctor", "Date"}

// Workbook builds one sheet with a header row and one row per record,
// in processing order.
func Workbook(records []types.Record) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for r, rec := range records {
		row := r + 2
		values := []any{
			rec.PatientID,
			rec.PatientName,
			rec.PatientDose,
			rec.NotesForDoctor,
			rec.RecordDate.String(),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "C", 24)
	_ = f.SetColWidth(sheet, "D", "D", 48)
	_ = f.SetColWidth(sheet, "E", "E", 14)

	return f, nil
}

// Bytes serializes the workbook for a download response.
func Bytes(records []types.Record) ([]byte, error) {
	f, err := Workbook(records)
	if err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile saves the workbook to disk for the batch surface.
func WriteFile(path string, records []types.Record) error {
	f, err := Workbook(records)
	if err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
