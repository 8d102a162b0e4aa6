package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nurpe/wasteops-admin/internal/model"
)

// UpdateRequest is a field-level partial update addressed to one entity.
type UpdateRequest struct {
	Kind      model.EntityKind
	Principal model.Principal
	EntityID  string
	Fields    map[string]interface{}
}

// Engine routes partial updates to the service owning the entity kind.
type Engine struct {
	reports   *ReportService
	schedules *ScheduleService
	bins      *BinService
}

func NewEngine(reports *ReportService, schedules *ScheduleService, bins *BinService) *Engine {
	return &Engine{reports: reports, schedules: schedules, bins: bins}
}

func (e *Engine) Apply(ctx context.Context, req UpdateRequest) (*UpdateResult, error) {
	switch req.Kind {
	case model.EntityReport:
		id, err := parseEntityUUID(req.EntityID)
		if err != nil {
			return nil, err
		}
		return e.reports.Update(ctx, req.Principal, id, req.Fields)
	case model.EntitySchedule:
		id, err := parseEntityUUID(req.EntityID)
		if err != nil {
			return nil, err
		}
		return e.schedules.Update(ctx, req.Principal, id, req.Fields)
	case model.EntityBin:
		if req.EntityID == "" {
			return nil, fmt.Errorf("%w: bin id is required", ErrInvalidInput)
		}
		return e.bins.Update(ctx, req.Principal, req.EntityID, req.Fields)
	}
	return nil, fmt.Errorf("%w: unknown entity kind %q", ErrInvalidInput, req.Kind)
}

func parseEntityUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		// A malformed id can never resolve to a stored entity.
		return uuid.Nil, ErrNotFound
	}
	return id, nil
}
