package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/wasteops-admin/internal/model"
)

const scheduleSelect = `
	SELECT
		s.id,
		s.bin_id,
		s.collector_id,
		s.scheduled_date,
		to_char(s.scheduled_time, 'HH24:MI:SS') AS scheduled_time,
		s.route,
		s.status,
		s.completed_at,
		s.created_at,
		s.updated_at,
		b.location AS bin_location,
		u.name AS collector_name
	FROM schedules s
	LEFT JOIN bins b ON b.id = s.bin_id
	LEFT JOIN users u ON u.id = s.collector_id
`

var scheduleUpdatable = columnSet(
	"bin_id",
	"collector_id",
	"scheduled_date",
	"scheduled_time",
	"route",
	"status",
	"completed_at",
	"updated_at",
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) GetSchedule(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	var schedule model.Schedule
	if err := r.db.WithContext(ctx).Raw(scheduleSelect+`
		WHERE s.id = ?
		LIMIT 1
	`, id).Scan(&schedule).Error; err != nil {
		return nil, err
	}
	if schedule.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &schedule, nil
}

func (r *ScheduleRepository) ListSchedules(ctx context.Context, filter model.ScheduleFilter) ([]model.Schedule, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Status != nil {
		conditions = append(conditions, "s.status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Date != nil {
		conditions = append(conditions, "s.scheduled_date = ?")
		args = append(args, filter.Date.Format("2006-01-02"))
	}
	if filter.CollectorID != nil {
		conditions = append(conditions, "s.collector_id = ?")
		args = append(args, *filter.CollectorID)
	}

	query := scheduleSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY s.scheduled_date DESC, s.scheduled_time ASC"

	var schedules []model.Schedule
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *ScheduleRepository) CreateSchedule(ctx context.Context, schedule model.Schedule) (*model.Schedule, error) {
	var saved model.Schedule
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO schedules (
			bin_id,
			collector_id,
			scheduled_date,
			scheduled_time,
			route,
			status,
			completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING
			id,
			bin_id,
			collector_id,
			scheduled_date,
			to_char(scheduled_time, 'HH24:MI:SS') AS scheduled_time,
			route,
			status,
			completed_at,
			created_at,
			updated_at
	`,
		schedule.BinID,
		schedule.CollectorID,
		schedule.ScheduledDate.Format("2006-01-02"),
		schedule.ScheduledTime,
		schedule.Route,
		schedule.Status,
		schedule.CompletedAt,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ScheduleRepository) UpdateSchedule(ctx context.Context, id uuid.UUID, columns map[string]interface{}) error {
	return updateColumns(ctx, r.db, "schedules", scheduleUpdatable, id, columns)
}

func (r *ScheduleRepository) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM schedules WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
