package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/godilite/ta-grader/internal/service"
)

const (
	pageMargin   = 14.0
	titleY       = 20.0
	tableStartY  = 26.0
	bottomMargin = 15.0
	lineHeight   = 5.0
	cellPadding  = 2.0
	bodyFontSize = 10.0

	fontFamily = "Go"
	// UTF-8 fonts carry glyph widths for the Basic Multilingual Plane only.
	maxRune    = 0xFFFF
)

// Column widths in mm; they sum to the printable width of A4 portrait.
var columnWidths = []float64{40, 36, 40, 36, 30}

var (
	headerFill = [3]int{3, 102, 214}
	headerText = [3]int{255, 255, 255}
)

type tableDoc struct {
	pdf *fpdf.Fpdf
}

func newTableDoc() *tableDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, bottomMargin)
	pdf.SetTitle(Title, true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
	return &tableDoc{pdf: pdf}
}

// printable replaces runes outside the font's width table so that line
// splitting never indexes past it.
func printable(text string) string {
	return strings.Map(func(r rune) rune {
		if r > maxRune {
			return utf8.RuneError
		}
		return r
	}, text)
}

func (d *tableDoc) lines(text string, width float64) []string {
	out := d.pdf.SplitText(printable(text), width-2*cellPadding)
	if len(out) == 0 {
		return []string{""}
	}
	return out
}

// row draws one table row at the current Y, starting a new page first when
// the row would cross the bottom margin.
func (d *tableDoc) row(values []string, fill bool) {
	wrapped := make([][]string, len(values))
	maxLines := 1
	for i, v := range values {
		wrapped[i] = d.lines(v, columnWidths[i])
		if n := len(wrapped[i]); n > maxLines {
			maxLines = n
		}
	}
	height := float64(maxLines)*lineHeight + 2*cellPadding

	_, pageH := d.pdf.GetPageSize()
	if d.pdf.GetY()+height > pageH-bottomMargin {
		d.newPage(false)
	}

	x, y := pageMargin, d.pdf.GetY()
	for i, lines := range wrapped {
		w := columnWidths[i]
		style := "D"
		if fill {
			style = "FD"
		}
		d.pdf.Rect(x, y, w, height, style)

		textH := float64(len(lines)) * lineHeight
		d.pdf.SetXY(x+cellPadding, y+(height-textH)/2)
		for _, line := range lines {
			d.pdf.CellFormat(w-2*cellPadding, lineHeight, line, "", 2, "C", false, 0, "")
		}
		x += w
	}
	d.pdf.SetXY(pageMargin, y+height)
}

func (d *tableDoc) header() {
	d.pdf.SetFont(fontFamily, "B", bodyFontSize)
	d.pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
	d.pdf.SetTextColor(headerText[0], headerText[1], headerText[2])
	d.row(Header, true)

	d.pdf.SetFont(fontFamily, "", bodyFontSize)
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *tableDoc) newPage(first bool) {
	d.pdf.AddPage()
	y := pageMargin
	if first {
		d.pdf.SetFont(fontFamily, "", 14)
		d.pdf.Text(pageMargin, titleY, Title)
		y = tableStartY
	}
	d.pdf.SetXY(pageMargin, y)
	d.header()
}

func renderPDF(rows []service.ReportRow) *fpdf.Fpdf {
	d := newTableDoc()
	d.newPage(true)
	for _, r := range rows {
		d.row(cells(r), false)
	}
	return d.pdf
}

// WritePDF renders rows as a titled table with a repeated header on every
// page. Callers are expected to check for empty data beforehand.
func WritePDF(w io.Writer, rows []service.ReportRow) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render pdf: %v", r)
		}
	}()

	pdf := renderPDF(rows)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
