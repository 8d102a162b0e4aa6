package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/wasteops-admin/internal/model"
)

const reportSelect = `
	SELECT
		r.id,
		r.user_id,
		r.bin_id,
		r.issue_type,
		r.description,
		r.priority,
		r.status,
		r.resolution_notes,
		r.created_at,
		r.updated_at,
		r.resolved_at,
		b.location AS bin_location,
		u.name AS reporter_name
	FROM reports r
	LEFT JOIN bins b ON b.id = r.bin_id
	LEFT JOIN users u ON u.id = r.user_id
`

var reportUpdatable = columnSet(
	"bin_id",
	"issue_type",
	"description",
	"priority",
	"status",
	"resolution_notes",
	"resolved_at",
	"updated_at",
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) GetReport(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	if err := r.db.WithContext(ctx).Raw(reportSelect+`
		WHERE r.id = ?
		LIMIT 1
	`, id).Scan(&report).Error; err != nil {
		return nil, err
	}
	if report.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &report, nil
}

func (r *ReportRepository) ListReports(ctx context.Context, filter model.ReportFilter) ([]model.Report, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Status != nil {
		conditions = append(conditions, "r.status = ?")
		args = append(args, *filter.Status)
	}
	if filter.IssueType != nil {
		conditions = append(conditions, "r.issue_type = ?")
		args = append(args, *filter.IssueType)
	}
	if filter.Priority != nil {
		conditions = append(conditions, "r.priority = ?")
		args = append(args, *filter.Priority)
	}
	if filter.UserID != nil {
		conditions = append(conditions, "r.user_id = ?")
		args = append(args, *filter.UserID)
	}

	query := reportSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY r.created_at DESC"

	var reports []model.Report
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepository) CreateReport(ctx context.Context, report model.Report) (*model.Report, error) {
	var saved model.Report
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO reports (
			user_id,
			bin_id,
			issue_type,
			description,
			priority,
			status
		) VALUES (?, ?, ?, ?, ?, ?)
		RETURNING
			id,
			user_id,
			bin_id,
			issue_type,
			description,
			priority,
			status,
			resolution_notes,
			created_at,
			updated_at,
			resolved_at
	`,
		report.UserID,
		report.BinID,
		report.IssueType,
		report.Description,
		report.Priority,
		report.Status,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ReportRepository) UpdateReport(ctx context.Context, id uuid.UUID, columns map[string]interface{}) error {
	return updateColumns(ctx, r.db, "reports", reportUpdatable, id, columns)
}

func (r *ReportRepository) DeleteReport(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM reports WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
