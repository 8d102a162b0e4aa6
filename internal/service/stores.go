package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nurpe/wasteops-admin/internal/model"
)

// Repositories return gorm.ErrRecordNotFound for unknown ids and apply partial
// updates keyed by column name.

type ReportStore interface {
	GetReport(ctx context.Context, id uuid.UUID) (*model.Report, error)
	ListReports(ctx context.Context, filter model.ReportFilter) ([]model.Report, error)
	CreateReport(ctx context.Context, report model.Report) (*model.Report, error)
	UpdateReport(ctx context.Context, id uuid.UUID, columns map[string]interface{}) error
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

type ScheduleStore interface {
	GetSchedule(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
	ListSchedules(ctx context.Context, filter model.ScheduleFilter) ([]model.Schedule, error)
	CreateSchedule(ctx context.Context, schedule model.Schedule) (*model.Schedule, error)
	UpdateSchedule(ctx context.Context, id uuid.UUID, columns map[string]interface{}) error
	DeleteSchedule(ctx context.Context, id uuid.UUID) error
}

type BinStore interface {
	GetBin(ctx context.Context, id string) (*model.Bin, error)
	ListBins(ctx context.Context, filter model.BinFilter) ([]model.Bin, error)
	CreateBin(ctx context.Context, bin model.Bin) (*model.Bin, error)
	UpdateBin(ctx context.Context, id string, columns map[string]interface{}) error
	DeleteBin(ctx context.Context, id string) error
	BinStats(ctx context.Context) (*model.BinStats, error)
}

type UserDirectory interface {
	ListUserIDsByRole(ctx context.Context, role model.Role) ([]uuid.UUID, error)
}

type NotificationStore interface {
	NotificationWriter
	ListNotifications(ctx context.Context, filter model.NotificationFilter) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteNotification(ctx context.Context, id, userID uuid.UUID) error
}

type BinStatsCache interface {
	GetBinStats(ctx context.Context) (*model.BinStats, error)
	SetBinStats(ctx context.Context, stats model.BinStats) error
	InvalidateBinStats(ctx context.Context) error
}
