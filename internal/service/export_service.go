package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/wasteops-admin/internal/model"
)

type ExcelGenerator interface {
	Generate(export model.ReportExport) ([]byte, error)
}

type PDFGenerator interface {
	Generate(sheet model.RouteSheet) ([]byte, error)
}

type ExportService struct {
	reports   ReportStore
	schedules ScheduleStore
	excel     ExcelGenerator
	pdf       PDFGenerator
	now       func() time.Time
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func NewExportService(reports ReportStore, schedules ScheduleStore, excel ExcelGenerator, pdf PDFGenerator) *ExportService {
	return &ExportService{
		reports:   reports,
		schedules: schedules,
		excel:     excel,
		pdf:       pdf,
		now:       time.Now,
	}
}

// ExportReports renders the filtered report list as a workbook. Admin only.
func (s *ExportService) ExportReports(ctx context.Context, principal model.Principal, filter model.ReportFilter) (*ExportResult, error) {
	if err := requireRole(principal, model.RoleAdmin); err != nil {
		return nil, err
	}
	reports, err := s.reports.ListReports(ctx, filter)
	if err != nil {
		return nil, translateStoreError(err)
	}

	generatedAt := s.now().UTC()
	content, err := s.excel.Generate(model.ReportExport{
		GeneratedAt: generatedAt,
		Filter:      filter,
		Reports:     reports,
	})
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("reports-%s.xlsx", generatedAt.Format("20060102-150405")),
		Content:  content,
	}, nil
}

// RouteSheet renders a collector's schedules for one day. Collectors may only
// print their own sheet.
func (s *ExportService) RouteSheet(ctx context.Context, principal model.Principal, collectorID uuid.UUID, date time.Time) (*ExportResult, error) {
	if err := requireRole(principal, model.RoleCollector, model.RoleAdmin); err != nil {
		return nil, err
	}
	if principal.IsCollector() {
		collectorID = principal.UserID
	}
	if collectorID == uuid.Nil {
		return nil, fmt.Errorf("%w: collector_id is required", ErrInvalidInput)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	day := dateOnly(date)

	schedules, err := s.schedules.ListSchedules(ctx, model.ScheduleFilter{
		Date:        &day,
		CollectorID: &collectorID,
	})
	if err != nil {
		return nil, translateStoreError(err)
	}

	sheet := model.RouteSheet{
		CollectorID: collectorID,
		Date:        day,
		Schedules:   sortByClock(schedules),
	}
	for _, schedule := range schedules {
		if schedule.CollectorName != nil && *schedule.CollectorName != "" {
			sheet.CollectorName = *schedule.CollectorName
			break
		}
	}

	content, err := s.pdf.Generate(sheet)
	if err != nil {
		return nil, err
	}
	name := sanitizeFileName(sheet.CollectorName)
	if name == "" {
		name = collectorID.String()
	}
	return &ExportResult{
		FileName: fmt.Sprintf("route-%s-%s.pdf", name, day.Format("20060102")),
		Content:  content,
	}, nil
}

// Schedules arrive date desc, time asc; within one day only the clock matters.
func sortByClock(schedules []model.Schedule) []model.Schedule {
	sorted := make([]model.Schedule, len(schedules))
	copy(sorted, schedules)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].ScheduledTime < sorted[j-1].ScheduledTime; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
