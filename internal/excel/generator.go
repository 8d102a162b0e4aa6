package excel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/wasteops-admin/internal/model"
)

const summarySheet = "Summary"

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate writes a summary sheet followed by one detail sheet per report
// status.
func (g *Generator) Generate(export model.ReportExport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	groups := groupByStatus(export.Reports)
	if err := g.writeSummary(file, export, groups); err != nil {
		return nil, err
	}

	usedNames := map[string]struct{}{summarySheet: {}}
	for _, group := range groups {
		sheetName := buildSheetName(string(group.status), usedNames)
		usedNames[sheetName] = struct{}{}

		if _, err := file.NewSheet(sheetName); err != nil {
			return nil, err
		}
		if err := g.writeDetail(file, sheetName, group); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type statusGroup struct {
	status  model.ReportStatus
	reports []model.Report
}

var statusOrder = []model.ReportStatus{
	model.ReportStatusPending,
	model.ReportStatusInProgress,
	model.ReportStatusResolved,
	model.ReportStatusRejected,
}

func groupByStatus(reports []model.Report) []statusGroup {
	byStatus := make(map[model.ReportStatus][]model.Report)
	for _, report := range reports {
		byStatus[report.Status] = append(byStatus[report.Status], report)
	}
	groups := make([]statusGroup, 0, len(byStatus))
	for _, status := range statusOrder {
		if items, ok := byStatus[status]; ok {
			groups = append(groups, statusGroup{status: status, reports: items})
			delete(byStatus, status)
		}
	}
	rest := make([]string, 0, len(byStatus))
	for status := range byStatus {
		rest = append(rest, string(status))
	}
	sort.Strings(rest)
	for _, status := range rest {
		key := model.ReportStatus(status)
		groups = append(groups, statusGroup{status: key, reports: byStatus[key]})
	}
	return groups
}

func (g *Generator) writeSummary(file *excelize.File, export model.ReportExport, groups []statusGroup) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", "Generated at")
	set("B1", formatDateTime(export.GeneratedAt))
	set("A2", "Status filter")
	set("B2", filterValue(export.Filter.Status))
	set("A3", "Issue type filter")
	set("B3", filterValue(export.Filter.IssueType))
	set("A4", "Priority filter")
	set("B4", filterValue(export.Filter.Priority))
	set("A5", "Total reports")
	set("B5", len(export.Reports))

	tableRow := 7
	set(fmt.Sprintf("A%d", tableRow), "Status")
	set(fmt.Sprintf("B%d", tableRow), "Reports")
	set(fmt.Sprintf("C%d", tableRow), "Critical")
	for i, group := range groups {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), string(group.status))
		set(fmt.Sprintf("B%d", row), len(group.reports))
		set(fmt.Sprintf("C%d", row), countPriority(group.reports, model.PriorityCritical))
	}

	_ = file.SetColWidth(summarySheet, "A", "A", 24)
	_ = file.SetColWidth(summarySheet, "B", "C", 16)
	return nil
}

var detailHeaders = []string{
	"Created",
	"Report ID",
	"Bin",
	"Location",
	"Reporter",
	"Issue",
	"Priority",
	"Description",
	"Resolution notes",
	"Resolved",
}

func (g *Generator) writeDetail(file *excelize.File, sheet string, group statusGroup) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	for i, header := range detailHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		set(cell, header)
	}

	for i, report := range group.reports {
		row := 2 + i
		set(fmt.Sprintf("A%d", row), formatDateTime(report.CreatedAt))
		set(fmt.Sprintf("B%d", row), report.ID.String())
		set(fmt.Sprintf("C%d", row), report.BinID)
		set(fmt.Sprintf("D%d", row), formatString(report.BinLocation))
		set(fmt.Sprintf("E%d", row), formatString(report.ReporterName))
		set(fmt.Sprintf("F%d", row), string(report.IssueType))
		set(fmt.Sprintf("G%d", row), string(report.Priority))
		set(fmt.Sprintf("H%d", row), report.Description)
		set(fmt.Sprintf("I%d", row), formatString(report.ResolutionNotes))
		set(fmt.Sprintf("J%d", row), formatTimePtr(report.ResolvedAt))
	}

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "B", 38)
	_ = file.SetColWidth(sheet, "C", "C", 14)
	_ = file.SetColWidth(sheet, "D", "E", 28)
	_ = file.SetColWidth(sheet, "F", "G", 12)
	_ = file.SetColWidth(sheet, "H", "I", 48)
	_ = file.SetColWidth(sheet, "J", "J", 20)
	return nil
}

func countPriority(reports []model.Report, priority model.Priority) int {
	count := 0
	for _, report := range reports {
		if report.Priority == priority {
			count++
		}
	}
	return count
}

func buildSheetName(name string, used map[string]struct{}) string {
	base := sanitizeSheetName(name)
	if len(base) > 31 {
		base = base[:31]
	}

	nameCandidate := base
	counter := 2
	for {
		if _, exists := used[nameCandidate]; !exists {
			return nameCandidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		trimmed := base
		if len(trimmed)+len(suffix) > 31 {
			trimmed = trimmed[:31-len(suffix)]
		}
		nameCandidate = trimmed + suffix
		counter++
	}
}

func sanitizeSheetName(value string) string {
	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = strings.TrimSpace(replacer.Replace(value))
	if value == "" {
		return "Sheet"
	}
	return value
}

func filterValue[T ~string](value *T) string {
	if value == nil {
		return "all"
	}
	return string(*value)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDateTime(*t)
}

func formatString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
