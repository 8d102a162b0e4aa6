package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/wasteops-admin/internal/model"
)

type ScheduleService struct {
	repo ScheduleStore
	log  zerolog.Logger
	now  func() time.Time
}

func NewScheduleService(repo ScheduleStore, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		repo: repo,
		log:  log.With().Str("component", "schedule_service").Logger(),
		now:  time.Now,
	}
}

func (s *ScheduleService) List(ctx context.Context, principal model.Principal, filter model.ScheduleFilter) ([]model.Schedule, error) {
	if err := requireRole(principal, model.RoleCitizen, model.RoleCollector, model.RoleAdmin); err != nil {
		return nil, err
	}
	if principal.IsCollector() {
		own := principal.UserID
		filter.CollectorID = &own
	}
	schedules, err := s.repo.ListSchedules(ctx, filter)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return schedules, nil
}

func (s *ScheduleService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Schedule, error) {
	if err := requireRole(principal, model.RoleCitizen, model.RoleCollector, model.RoleAdmin); err != nil {
		return nil, err
	}
	schedule, err := s.repo.GetSchedule(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return schedule, nil
}

func (s *ScheduleService) Create(ctx context.Context, principal model.Principal, raw map[string]interface{}) (*CreateResult, error) {
	if err := requireRole(principal, model.RoleAdmin); err != nil {
		return nil, err
	}
	fields, err := ParseFields(model.EntitySchedule, raw)
	if err != nil {
		return nil, err
	}
	for _, required := range []Field{FieldBinID, FieldScheduledDate} {
		if !fields.Has(required) {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, required)
		}
	}

	schedule := model.Schedule{
		BinID:         fields[FieldBinID].(string),
		ScheduledDate: fields[FieldScheduledDate].(time.Time),
		ScheduledTime: model.DefaultScheduledTime,
		Status:        model.ScheduleStatusPending,
	}
	if collectorID, ok := fields[FieldCollectorID].(uuid.UUID); ok {
		schedule.CollectorID = &collectorID
	}
	if clock, ok := fields[FieldScheduledTime].(string); ok {
		schedule.ScheduledTime = clock
	}
	if route, ok := fields[FieldRoute].(string); ok {
		schedule.Route = &route
	}
	if status, ok := fields[FieldStatus].(model.ScheduleStatus); ok {
		schedule.Status = status
		if status == model.ScheduleStatusCompleted {
			completedAt := s.now().UTC()
			schedule.CompletedAt = &completedAt
		}
	}

	saved, err := s.repo.CreateSchedule(ctx, schedule)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return &CreateResult{Data: saved}, nil
}

// Update applies the admitted subset of raw to the schedule. Collectors only
// reach the status of schedules assigned to them.
func (s *ScheduleService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, raw map[string]interface{}) (*UpdateResult, error) {
	if err := requireRole(principal, model.RoleCollector, model.RoleAdmin); err != nil {
		return nil, err
	}
	schedule, err := s.repo.GetSchedule(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	admitted, denied, err := AdmitRaw(AccessCheck{
		Principal:     principal,
		Kind:          model.EntitySchedule,
		OwnerID:       schedule.CollectorID,
		CurrentStatus: string(schedule.Status),
	}, raw)
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{Kind: model.EntitySchedule, Data: schedule, Denied: denied}
	if len(admitted) == 0 {
		result.NoOp = true
		if len(denied) > 0 {
			s.log.Debug().
				Str("schedule_id", id.String()).
				Str("role", string(principal.Role)).
				Interface("denied", denied).
				Msg("schedule update admitted no fields")
		}
		return result, nil
	}

	now := s.now().UTC()
	columns := admitted.Columns()
	columns["updated_at"] = now
	if status, ok := admitted[FieldStatus].(model.ScheduleStatus); ok && status == model.ScheduleStatusCompleted {
		columns["completed_at"] = now
	}

	if err := s.repo.UpdateSchedule(ctx, id, columns); err != nil {
		return nil, translateStoreError(err)
	}

	applyScheduleFields(schedule, admitted, now)
	result.Mutated = admitted.Fields()
	return result, nil
}

func (s *ScheduleService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if err := requireRole(principal, model.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.repo.GetSchedule(ctx, id); err != nil {
		return translateStoreError(err)
	}
	return translateStoreError(s.repo.DeleteSchedule(ctx, id))
}

func applyScheduleFields(schedule *model.Schedule, fields FieldSet, now time.Time) {
	for field, value := range fields {
		switch field {
		case FieldBinID:
			if binID := value.(string); binID != schedule.BinID {
				schedule.BinID = binID
				schedule.BinLocation = nil
			}
		case FieldCollectorID:
			collectorID := value.(uuid.UUID)
			if schedule.CollectorID == nil || *schedule.CollectorID != collectorID {
				schedule.CollectorName = nil
			}
			schedule.CollectorID = &collectorID
		case FieldScheduledDate:
			schedule.ScheduledDate = value.(time.Time)
		case FieldScheduledTime:
			schedule.ScheduledTime = value.(string)
		case FieldRoute:
			route := value.(string)
			schedule.Route = &route
		case FieldStatus:
			schedule.Status = value.(model.ScheduleStatus)
			if schedule.Status == model.ScheduleStatusCompleted {
				completedAt := now
				schedule.CompletedAt = &completedAt
			}
		}
	}
	schedule.UpdatedAt = now
}
