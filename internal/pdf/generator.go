package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/wasteops-admin/internal/model"
)

// Generator renders collector route sheets with the built-in Helvetica font;
// text is transliterated to cp1252 by the PDF writer.
type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

func (g *Generator) Generate(sheet model.RouteSheet) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Collection route sheet", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Collector: %s", safeValue(sheet.CollectorName))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s", formatDate(sheet.Date)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Stops: %d", len(sheet.Schedules)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	headers := []string{"#", "Time", "Bin", "Location", "Route", "Status", "Done"}
	colWidths := []float64{10, 20, 30, 85, 70, 30, 22}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for i, schedule := range sheet.Schedules {
		row := []string{
			fmt.Sprintf("%d", i+1),
			formatClock(schedule.ScheduledTime),
			tr(schedule.BinID),
			tr(truncate(derefString(schedule.BinLocation), 48)),
			tr(truncate(derefString(schedule.Route), 40)),
			string(schedule.Status),
			checkbox(schedule.Status),
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}

	if len(sheet.Schedules) == 0 {
		pdf.Ln(2)
		pdf.SetFont(g.fontName, "", 11)
		pdf.MultiCell(0, 6, "No collections scheduled for this day.", "", "L", false)
	}

	pdf.Ln(6)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, "Collector signature: ______________________", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i == 0 || i == len(cols)-1 {
			align = "C"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func checkbox(status model.ScheduleStatus) string {
	switch status {
	case model.ScheduleStatusCompleted:
		return "[x]"
	case model.ScheduleStatusCancelled:
		return "-"
	default:
		return "[ ]"
	}
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-3]) + "..."
}

func formatClock(clock string) string {
	if len(clock) >= 5 {
		return clock[:5]
	}
	return clock
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}
