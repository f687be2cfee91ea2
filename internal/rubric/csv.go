package rubric

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrEmptyRubric = errors.New("rubric csv is empty")

// Sheet is an uploaded rubric CSV: one column per rubric category.
type Sheet struct {
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

// ParseCSV reads a rubric CSV. The first record holds the category headers;
// every following record becomes a row keyed by header. Short records are
// padded with empty values.
func ParseCSV(r io.Reader) (*Sheet, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	hdr, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyRubric
	}
	if err != nil {
		return nil, fmt.Errorf("read rubric header: %w", err)
	}

	headers := make([]string, len(hdr))
	for i, h := range hdr {
		headers[i] = strings.TrimSpace(h)
	}
	if len(headers) == 1 && headers[0] == "" {
		return nil, ErrEmptyRubric
	}

	sheet := &Sheet{Headers: headers, Rows: []map[string]string{}}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rubric row %d: %w", len(sheet.Rows)+1, err)
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// Categories returns the rubric category names in column order.
func (s *Sheet) Categories() []string {
	out := make([]string, len(s.Headers))
	copy(out, s.Headers)
	return out
}

// PromptText renders the sheet as one line per category:
//
//	Header: first: rest; rest
//
// where "first" is the first non-empty cell of the column and the rest are
// the remaining non-empty cells.
func (s *Sheet) PromptText() string {
	lines := make([]string, 0, len(s.Headers))
	for _, h := range s.Headers {
		var values []string
		for _, row := range s.Rows {
			if v := row[h]; v != "" {
				values = append(values, v)
			}
		}

		switch {
		case len(values) == 0:
			lines = append(lines, h+":")
		case len(values) == 1:
			lines = append(lines, fmt.Sprintf("%s: %s:", h, values[0]))
		default:
			lines = append(lines, fmt.Sprintf("%s: %s: %s", h, values[0], strings.Join(values[1:], "; ")))
		}
	}
	return strings.Join(lines, "\n")
}
