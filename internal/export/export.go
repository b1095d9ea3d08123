// Package export writes the stored snapshot to CSV and XLSX files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"callwatch/internal/call"
)

// Columns is the exported column set, shared by both formats.
var Columns = []string{
	"source", "title", "url", "snippet",
	"detected_deadline", "detected_language", "detected_status",
	"fetched_at", "first_seen_at",
}

func row(st call.Stored) []string {
	return []string{
		st.Source,
		st.Title,
		st.URL,
		st.Snippet,
		st.DetectedDeadline,
		st.DetectedLanguage,
		st.DetectedStatus,
		st.FetchedAt.UTC().Format(time.RFC3339),
		st.FirstSeenAt.UTC().Format(time.RFC3339),
	}
}

// WriteCSV writes the snapshot to path, header row first, preserving
// the snapshot order.
func WriteCSV(path string, snapshot []call.Stored) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, st := range snapshot {
		if err := w.Write(row(st)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}

// WriteXLSX writes the snapshot to path as a single-sheet workbook
// named "Calls".
func WriteXLSX(path string, snapshot []call.Stored) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Calls"
	f.SetSheetName("Sheet1", sheet)

	if err := setRow(f, sheet, 1, Columns); err != nil {
		return err
	}
	for i, st := range snapshot {
		if err := setRow(f, sheet, i+2, row(st)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", n, err)
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", n, err)
	}
	return nil
}
