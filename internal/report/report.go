// Package report renders class-wide grade reports.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/godilite/ta-grader/internal/service"
)

const (
	Title          = "Grade Confidence Report"
	PDFFileName    = "grade_confidence_report.pdf"
	CSVFileName    = "grade_confidence_report.csv"
	PDFContentType = "application/pdf"
	CSVContentType = "text/csv; charset=utf-8"
)

// Header is the fixed column header of every report.
var Header = []string{"Student", "Category", "Grade", "Confidence label", "Confident?"}

func cells(r service.ReportRow) []string {
	return []string{r.Student, r.Category, r.Grade, r.ConfidenceLabel, r.ConfidenceFlag.String()}
}

// WriteCSV writes the header and one record per row.
func WriteCSV(w io.Writer, rows []service.ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, r := range rows {
		if err := cw.Write(cells(r)); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
