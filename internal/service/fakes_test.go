package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/wasteops-admin/internal/model"
)

type memReports struct {
	items   map[uuid.UUID]model.Report
	updates []map[string]interface{}
	deleted []uuid.UUID
	filters []model.ReportFilter
}

func newMemReports(reports ...model.Report) *memReports {
	m := &memReports{items: make(map[uuid.UUID]model.Report)}
	for _, r := range reports {
		m.items[r.ID] = r
	}
	return m
}

func (m *memReports) GetReport(_ context.Context, id uuid.UUID) (*model.Report, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (m *memReports) ListReports(_ context.Context, filter model.ReportFilter) ([]model.Report, error) {
	m.filters = append(m.filters, filter)
	var out []model.Report
	for _, r := range m.items {
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memReports) CreateReport(_ context.Context, report model.Report) (*model.Report, error) {
	report.ID = uuid.New()
	m.items[report.ID] = report
	return &report, nil
}

func (m *memReports) UpdateReport(_ context.Context, id uuid.UUID, columns map[string]interface{}) error {
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.updates = append(m.updates, columns)
	return nil
}

func (m *memReports) DeleteReport(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type memSchedules struct {
	items   map[uuid.UUID]model.Schedule
	updates []map[string]interface{}
	deleted []uuid.UUID
	filters []model.ScheduleFilter
}

func newMemSchedules(schedules ...model.Schedule) *memSchedules {
	m := &memSchedules{items: make(map[uuid.UUID]model.Schedule)}
	for _, s := range schedules {
		m.items[s.ID] = s
	}
	return m
}

func (m *memSchedules) GetSchedule(_ context.Context, id uuid.UUID) (*model.Schedule, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (m *memSchedules) ListSchedules(_ context.Context, filter model.ScheduleFilter) ([]model.Schedule, error) {
	m.filters = append(m.filters, filter)
	var out []model.Schedule
	for _, s := range m.items {
		if filter.CollectorID != nil && (s.CollectorID == nil || *s.CollectorID != *filter.CollectorID) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memSchedules) CreateSchedule(_ context.Context, schedule model.Schedule) (*model.Schedule, error) {
	schedule.ID = uuid.New()
	m.items[schedule.ID] = schedule
	return &schedule, nil
}

func (m *memSchedules) UpdateSchedule(_ context.Context, id uuid.UUID, columns map[string]interface{}) error {
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.updates = append(m.updates, columns)
	return nil
}

func (m *memSchedules) DeleteSchedule(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type memBins struct {
	items      map[string]model.Bin
	updates    []map[string]interface{}
	deleted    []string
	statsCalls int
	stats      model.BinStats
	createErr  error
}

func newMemBins(bins ...model.Bin) *memBins {
	m := &memBins{items: make(map[string]model.Bin)}
	for _, b := range bins {
		m.items[b.ID] = b
	}
	return m
}

func (m *memBins) GetBin(_ context.Context, id string) (*model.Bin, error) {
	b, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (m *memBins) ListBins(_ context.Context, filter model.BinFilter) ([]model.Bin, error) {
	var out []model.Bin
	for _, b := range m.items {
		out = append(out, b)
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memBins) CreateBin(_ context.Context, bin model.Bin) (*model.Bin, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.items[bin.ID] = bin
	return &bin, nil
}

func (m *memBins) UpdateBin(_ context.Context, id string, columns map[string]interface{}) error {
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.updates = append(m.updates, columns)
	return nil
}

func (m *memBins) DeleteBin(_ context.Context, id string) error {
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memBins) BinStats(_ context.Context) (*model.BinStats, error) {
	m.statsCalls++
	stats := m.stats
	return &stats, nil
}

type memStatsCache struct {
	stats       *model.BinStats
	invalidated int
}

func (c *memStatsCache) GetBinStats(_ context.Context) (*model.BinStats, error) {
	return c.stats, nil
}

func (c *memStatsCache) SetBinStats(_ context.Context, stats model.BinStats) error {
	c.stats = &stats
	return nil
}

func (c *memStatsCache) InvalidateBinStats(_ context.Context) error {
	c.stats = nil
	c.invalidated++
	return nil
}

type staticUsers struct {
	ids []uuid.UUID
	err error
}

func (u staticUsers) ListUserIDsByRole(_ context.Context, _ model.Role) ([]uuid.UUID, error) {
	return u.ids, u.err
}

type recordingNotifier struct {
	mu      sync.Mutex
	intents []model.NotificationIntent
}

func (n *recordingNotifier) Dispatch(intents ...model.NotificationIntent) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.intents = append(n.intents, intents...)
	return len(intents)
}

type memNotifications struct {
	mu      sync.Mutex
	items   []model.Notification
	fail    error
	filters []model.NotificationFilter
	readIDs []uuid.UUID
	owner   map[uuid.UUID]uuid.UUID
}

func (m *memNotifications) CreateNotification(_ context.Context, n model.Notification) (*model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	n.ID = uuid.New()
	m.items = append(m.items, n)
	return &n, nil
}

func (m *memNotifications) ListNotifications(_ context.Context, filter model.NotificationFilter) ([]model.Notification, error) {
	m.filters = append(m.filters, filter)
	return m.items, nil
}

func (m *memNotifications) MarkNotificationRead(_ context.Context, id, userID uuid.UUID) error {
	if owner, ok := m.owner[id]; !ok || owner != userID {
		return gorm.ErrRecordNotFound
	}
	m.readIDs = append(m.readIDs, id)
	return nil
}

func (m *memNotifications) MarkAllNotificationsRead(_ context.Context, _ uuid.UUID) (int64, error) {
	return int64(len(m.items)), nil
}

func (m *memNotifications) DeleteNotification(_ context.Context, id, userID uuid.UUID) error {
	if owner, ok := m.owner[id]; !ok || owner != userID {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (m *memNotifications) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func admin() model.Principal {
	return model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
}

func collector() model.Principal {
	return model.Principal{UserID: uuid.New(), Role: model.RoleCollector}
}

func citizen() model.Principal {
	return model.Principal{UserID: uuid.New(), Role: model.RoleCitizen}
}
