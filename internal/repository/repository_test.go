package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nurpe/wasteops-admin/internal/model"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestCheckColumns(t *testing.T) {
	assert.NoError(t, checkColumns("reports", reportUpdatable, map[string]interface{}{"status": "resolved"}))
	assert.Error(t, checkColumns("reports", reportUpdatable, map[string]interface{}{"user_id": 1}))
	assert.Error(t, checkColumns("reports", reportUpdatable, nil))
}

func TestReportRepository_UpdateRejectsUnknownColumn(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)

	err := repo.UpdateReport(context.Background(), uuid.New(), map[string]interface{}{"user_id": uuid.New()})
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_GetReport(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)

	id := uuid.New()
	userID := uuid.New()
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "bin_id", "issue_type", "description", "priority", "status",
		"resolution_notes", "created_at", "updated_at", "resolved_at", "bin_location", "reporter_name",
	}).AddRow(id.String(), userID.String(), "BIN-1", "overflow", "full to the brim", "high", "pending",
		nil, now, now, nil, "Abay ave", "Aruzhan")

	mock.ExpectQuery(regexp.QuoteMeta("FROM reports r")).
		WithArgs(id).
		WillReturnRows(rows)

	report, err := repo.GetReport(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, report.ID)
	assert.Equal(t, userID, report.UserID)
	assert.Equal(t, model.PriorityHigh, report.Priority)
	require.NotNil(t, report.BinLocation)
	assert.Equal(t, "Abay ave", *report.BinLocation)
	assert.Nil(t, report.ResolvedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_GetReportMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM reports r")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetReport(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReportRepository_ListAppliesFilters(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)

	status := model.ReportStatusPending
	userID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.status = $1 AND r.user_id = $2 ORDER BY r.created_at DESC")).
		WithArgs(status, userID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	reports, err := repo.ListReports(context.Background(), model.ReportFilter{Status: &status, UserID: &userID})
	require.NoError(t, err)
	assert.Empty(t, reports)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_UpdateReport(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)

	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "reports" SET "resolved_at"=$1,"status"=$2,"updated_at"=$3 WHERE id = $4`)).
		WithArgs(now, model.ReportStatusResolved, now, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateReport(context.Background(), id, map[string]interface{}{
		"status":      model.ReportStatusResolved,
		"resolved_at": now,
		"updated_at":  now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_UpdateMissingRow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "reports" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateReport(context.Background(), uuid.New(), map[string]interface{}{"status": "resolved"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestScheduleRepository_UpdateSchedule(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewScheduleRepository(db)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "schedules" SET "status"=$1 WHERE id = $2`)).
		WithArgs(model.ScheduleStatusInProgress, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateSchedule(context.Background(), id, map[string]interface{}{"status": model.ScheduleStatusInProgress}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBinRepository_BinStats(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBinRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE status = 'full') AS full_bins")).
		WillReturnRows(sqlmock.NewRows([]string{
			"total_bins", "full_bins", "high_bins", "medium_bins", "low_bins", "empty_bins", "avg_fill_level",
		}).AddRow(5, 2, 1, 1, 0, 1, 61.4))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY type")).
		WillReturnRows(sqlmock.NewRows([]string{"type", "count"}).
			AddRow("general", 3).
			AddRow("organic", 2))

	stats, err := repo.BinStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.TotalBins)
	assert.Equal(t, int64(2), stats.FullBins)
	assert.InDelta(t, 61.4, stats.AvgFillLevel, 0.001)
	assert.Equal(t, []model.BinTypeCount{
		{Type: model.BinTypeGeneral, Count: 3},
		{Type: model.BinTypeOrganic, Count: 2},
	}, stats.ByType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBinRepository_ListUsesLimit(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBinRepository(db)

	binType := model.BinTypeHazardous
	mock.ExpectQuery(regexp.QuoteMeta("WHERE type = $1 ORDER BY fill_level DESC LIMIT $2")).
		WithArgs(binType, 25).
		WillReturnRows(sqlmock.NewRows([]string{"id", "location", "fill_level", "status", "type"}).
			AddRow("BIN-1", "Depot", 80, "high", "hazardous"))

	bins, err := repo.ListBins(context.Background(), model.BinFilter{Type: &binType, Limit: 25})
	require.NoError(t, err)
	require.Len(t, bins, 1)
	assert.Equal(t, model.BinStatusHigh, bins[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListUserIDsByRole(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	first, second := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs(model.RoleAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(first.String()).AddRow(second.String()))

	ids, err := repo.ListUserIDsByRole(context.Background(), model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, ids)
}

func TestUserRepository_GetFCMToken(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT fcm_token")).
		WillReturnRows(sqlmock.NewRows([]string{"fcm_token"}).AddRow("device-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT fcm_token")).
		WillReturnRows(sqlmock.NewRows([]string{"fcm_token"}).AddRow(nil))

	token, err := repo.GetFCMToken(context.Background(), uuid.New())
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "device-1", *token)

	token, err = repo.GetFCMToken(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	id, userID := uuid.New(), uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2")).
		WithArgs(id, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2")).
		WithArgs(id, userID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.MarkNotificationRead(context.Background(), id, userID))
	assert.ErrorIs(t, repo.MarkNotificationRead(context.Background(), id, userID), gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_ListUnread(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	userID := uuid.New()
	unread := false
	mock.ExpectQuery(regexp.QuoteMeta("AND is_read = $2 ORDER BY created_at DESC LIMIT $3")).
		WithArgs(userID, false, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "message", "type", "is_read", "created_at"}).
			AddRow(uuid.NewString(), userID.String(), "New Report Submitted", "A new odor report has been submitted", "alert", false, time.Now()))

	items, err := repo.ListNotifications(context.Background(), model.NotificationFilter{UserID: userID, IsRead: &unread, Limit: 50})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.NotificationAlert, items[0].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBinRepository_UpdateBin(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBinRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bins" SET "fill_level"=$1,"status"=$2 WHERE id = $3`)).
		WithArgs(95, model.BinStatusFull, "BIN-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateBin(context.Background(), "BIN-1", map[string]interface{}{
		"fill_level": 95,
		"status":     model.BinStatusFull,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListUsersByRole(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	role := model.RoleCollector
	mock.ExpectQuery(regexp.QuoteMeta("WHERE role = $1 ORDER BY created_at DESC")).
		WithArgs(role).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "address", "role", "created_at"}).
			AddRow(uuid.NewString(), "Dana", "dana@example.com", nil, nil, "collector", time.Now()))

	users, err := repo.ListUsers(context.Background(), model.UserFilter{Role: &role})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Dana", users[0].Name)
	assert.Nil(t, users[0].Phone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetUserMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
