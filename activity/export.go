package activity

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(raw string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatPDF:
		return FormatPDF, true
	case FormatXLSX:
		return FormatXLSX, true
	}
	return "", false
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// FileName is activity-log-<unix millis>.<ext>.
func FileName(f Format, now time.Time) string {
	return fmt.Sprintf("activity-log-%d.%s", now.UnixMilli(), f)
}

const timeLayout = "2006-01-02 15:04:05"

var exportHeader = []string{"Time", "Action", "Category", "Details", "User"}

func exportRow(a models.Activity, loc *time.Location) []string {
	k := a.Kind()
	return []string{
		a.CreatedAt.In(loc).Format(timeLayout),
		k.Display(),
		k.Entity.String(),
		a.Description,
		a.UserEmail,
	}
}

// WritePDF renders the rows as a landscape A4 table, repeating the column
// header on every page.
func WritePDF(w io.Writer, rows []models.Activity, loc *time.Location, title string) error {
	if loc == nil {
		loc = time.Local
	}
	const (
		margin = 28.0
		rowH   = 18.0
	)
	widths := []float64{120, 110, 70, 360, 126}

	pdf := fpdf.New("L", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin+rowH)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 24, tr(title), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(241, 245, 249)
		for i, h := range exportHeader {
			pdf.CellFormat(widths[i], rowH, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 9)
	if len(rows) == 0 {
		pdf.CellFormat(0, rowH, "No activity found.", "1", 1, "C", false, 0, "")
	}
	for _, a := range rows {
		for i, cell := range exportRow(a, loc) {
			pdf.CellFormat(widths[i], rowH, fit(pdf, tr(cell), widths[i]-6), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}

// fit shortens s with a trailing "..." until it fits in width.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// WriteXLSX writes the rows to a single sheet with a frozen, filterable header.
func WriteXLSX(w io.Writer, rows []models.Activity, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	const sheet = "Activity"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, a := range rows {
		cells := exportRow(a, loc)
		row := make([]interface{}, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, ref, &row); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F1F5F9"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", bold); err != nil {
		return err
	}
	for col, width := range map[string]float64{"A": 20, "B": 18, "C": 12, "D": 60, "E": 30} {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	last := len(rows) + 1
	if err := f.AutoFilter(sheet, fmt.Sprintf("A1:E%d", last), nil); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
