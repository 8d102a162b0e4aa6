package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/wasteops-admin/internal/model"
)

const defaultBinListLimit = 100

type BinService struct {
	repo  BinStore
	cache BinStatsCache
	log   zerolog.Logger
	now   func() time.Time
}

// NewBinService wires the bin store; cache may be nil.
func NewBinService(repo BinStore, cache BinStatsCache, log zerolog.Logger) *BinService {
	return &BinService{
		repo:  repo,
		cache: cache,
		log:   log.With().Str("component", "bin_service").Logger(),
		now:   time.Now,
	}
}

func (s *BinService) List(ctx context.Context, principal model.Principal, filter model.BinFilter) ([]model.Bin, error) {
	if err := requireRole(principal, model.RoleCitizen, model.RoleCollector, model.RoleAdmin); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultBinListLimit
	}
	bins, err := s.repo.ListBins(ctx, filter)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return bins, nil
}

func (s *BinService) Get(ctx context.Context, principal model.Principal, id string) (*model.Bin, error) {
	if err := requireRole(principal, model.RoleCitizen, model.RoleCollector, model.RoleAdmin); err != nil {
		return nil, err
	}
	bin, err := s.repo.GetBin(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return bin, nil
}

func (s *BinService) Create(ctx context.Context, principal model.Principal, raw map[string]interface{}) (*CreateResult, error) {
	if err := requireRole(principal, model.RoleAdmin); err != nil {
		return nil, err
	}
	var id string
	if rawID, ok := raw["id"]; ok && rawID != nil {
		parsed, err := asIdentifier("id", rawID)
		if err != nil {
			return nil, err
		}
		id = parsed
	}
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	fields, err := ParseFields(model.EntityBin, raw)
	if err != nil {
		return nil, err
	}
	if !fields.Has(FieldLocation) {
		return nil, fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	if err := deriveStatusField(fields); err != nil {
		return nil, err
	}

	bin := model.Bin{
		ID:       id,
		Capacity: model.DefaultBinCapacity,
		Status:   model.BinStatusEmpty,
		Type:     model.BinTypeGeneral,
	}
	applyBinFields(&bin, fields)

	saved, err := s.repo.CreateBin(ctx, bin)
	if err != nil {
		return nil, translateStoreError(err)
	}
	s.invalidateStats(ctx)
	return &CreateResult{Data: saved}, nil
}

// Update applies raw to the bin. When fill_level is supplied without an
// explicit status, the status is derived from the new level.
func (s *BinService) Update(ctx context.Context, principal model.Principal, id string, raw map[string]interface{}) (*UpdateResult, error) {
	if err := requireRole(principal, model.RoleCollector, model.RoleAdmin); err != nil {
		return nil, err
	}
	bin, err := s.repo.GetBin(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	admitted, denied, err := AdmitRaw(AccessCheck{
		Principal:     principal,
		Kind:          model.EntityBin,
		CurrentStatus: string(bin.Status),
	}, raw)
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{Kind: model.EntityBin, Data: bin, Denied: denied}
	if len(admitted) == 0 {
		result.NoOp = true
		return result, nil
	}
	if err := s.write(ctx, bin, admitted); err != nil {
		return nil, err
	}
	result.Mutated = admitted.Fields()
	return result, nil
}

// ApplyReading records a fill-level reading from the sensor feed.
func (s *BinService) ApplyReading(ctx context.Context, id string, level int) (*model.Bin, error) {
	if _, err := DeriveBinStatus(level); err != nil {
		return nil, err
	}
	bin, err := s.repo.GetBin(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	if err := s.write(ctx, bin, FieldSet{FieldFillLevel: level}); err != nil {
		return nil, err
	}
	return bin, nil
}

func (s *BinService) Delete(ctx context.Context, principal model.Principal, id string) error {
	if err := requireRole(principal, model.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.repo.GetBin(ctx, id); err != nil {
		return translateStoreError(err)
	}
	if err := s.repo.DeleteBin(ctx, id); err != nil {
		return translateStoreError(err)
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *BinService) Stats(ctx context.Context, principal model.Principal) (*model.BinStats, error) {
	if err := requireRole(principal, model.RoleCitizen, model.RoleCollector, model.RoleAdmin); err != nil {
		return nil, err
	}
	if s.cache != nil {
		cached, err := s.cache.GetBinStats(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("bin stats cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}
	stats, err := s.repo.BinStats(ctx)
	if err != nil {
		return nil, translateStoreError(err)
	}
	if s.cache != nil {
		if err := s.cache.SetBinStats(ctx, *stats); err != nil {
			s.log.Warn().Err(err).Msg("bin stats cache write failed")
		}
	}
	return stats, nil
}

func (s *BinService) write(ctx context.Context, bin *model.Bin, fields FieldSet) error {
	if err := deriveStatusField(fields); err != nil {
		return err
	}
	now := s.now().UTC()
	columns := fields.Columns()
	columns["updated_at"] = now
	if err := s.repo.UpdateBin(ctx, bin.ID, columns); err != nil {
		return translateStoreError(err)
	}
	applyBinFields(bin, fields)
	bin.UpdatedAt = now
	s.invalidateStats(ctx)
	return nil
}

func (s *BinService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateBinStats(ctx); err != nil {
		s.log.Warn().Err(err).Msg("bin stats cache invalidation failed")
	}
}

// deriveStatusField adds a derived status to fields when fill_level is present
// and status is not. An explicit status always wins.
func deriveStatusField(fields FieldSet) error {
	level, ok := fields[FieldFillLevel].(int)
	if !ok || fields.Has(FieldStatus) {
		return nil
	}
	status, err := DeriveBinStatus(level)
	if err != nil {
		return err
	}
	fields[FieldStatus] = status
	return nil
}

func applyBinFields(bin *model.Bin, fields FieldSet) {
	for field, value := range fields {
		switch field {
		case FieldLocation:
			bin.Location = value.(string)
		case FieldLatitude:
			lat := value.(float64)
			bin.Latitude = &lat
		case FieldLongitude:
			lng := value.(float64)
			bin.Longitude = &lng
		case FieldCapacity:
			bin.Capacity = value.(int)
		case FieldFillLevel:
			bin.FillLevel = value.(int)
		case FieldStatus:
			bin.Status = value.(model.BinStatus)
		case FieldType:
			bin.Type = value.(model.BinType)
		}
	}
}
