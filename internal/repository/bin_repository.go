package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/nurpe/wasteops-admin/internal/model"
)

const binSelect = `
	SELECT
		id,
		location,
		latitude,
		longitude,
		capacity,
		fill_level,
		status,
		type,
		created_at,
		updated_at
	FROM bins
`

var binUpdatable = columnSet(
	"location",
	"latitude",
	"longitude",
	"capacity",
	"fill_level",
	"status",
	"type",
	"updated_at",
)

type BinRepository struct {
	db *gorm.DB
}

func NewBinRepository(db *gorm.DB) *BinRepository {
	return &BinRepository{db: db}
}

func (r *BinRepository) GetBin(ctx context.Context, id string) (*model.Bin, error) {
	var bin model.Bin
	if err := r.db.WithContext(ctx).Raw(binSelect+`
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&bin).Error; err != nil {
		return nil, err
	}
	if bin.ID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return &bin, nil
}

func (r *BinRepository) ListBins(ctx context.Context, filter model.BinFilter) ([]model.Bin, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Type != nil {
		conditions = append(conditions, "type = ?")
		args = append(args, *filter.Type)
	}

	query := binSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY fill_level DESC LIMIT ?"
	args = append(args, filter.Limit)

	var bins []model.Bin
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&bins).Error; err != nil {
		return nil, err
	}
	return bins, nil
}

func (r *BinRepository) CreateBin(ctx context.Context, bin model.Bin) (*model.Bin, error) {
	var saved model.Bin
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO bins (
			id,
			location,
			latitude,
			longitude,
			capacity,
			fill_level,
			status,
			type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING
			id,
			location,
			latitude,
			longitude,
			capacity,
			fill_level,
			status,
			type,
			created_at,
			updated_at
	`,
		bin.ID,
		bin.Location,
		bin.Latitude,
		bin.Longitude,
		bin.Capacity,
		bin.FillLevel,
		bin.Status,
		bin.Type,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *BinRepository) UpdateBin(ctx context.Context, id string, columns map[string]interface{}) error {
	return updateColumns(ctx, r.db, "bins", binUpdatable, id, columns)
}

func (r *BinRepository) DeleteBin(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM bins WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type binOverview struct {
	TotalBins    int64
	FullBins     int64
	HighBins     int64
	MediumBins   int64
	LowBins      int64
	EmptyBins    int64
	AvgFillLevel float64
}

func (r *BinRepository) BinStats(ctx context.Context) (*model.BinStats, error) {
	var overview binOverview
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_bins,
			COUNT(*) FILTER (WHERE status = 'full') AS full_bins,
			COUNT(*) FILTER (WHERE status = 'high') AS high_bins,
			COUNT(*) FILTER (WHERE status = 'medium') AS medium_bins,
			COUNT(*) FILTER (WHERE status = 'low') AS low_bins,
			COUNT(*) FILTER (WHERE status = 'empty') AS empty_bins,
			COALESCE(AVG(fill_level), 0) AS avg_fill_level
		FROM bins
	`).Scan(&overview).Error; err != nil {
		return nil, err
	}

	var byType []model.BinTypeCount
	if err := r.db.WithContext(ctx).Raw(`
		SELECT type, COUNT(*) AS count
		FROM bins
		GROUP BY type
		ORDER BY type ASC
	`).Scan(&byType).Error; err != nil {
		return nil, err
	}

	return &model.BinStats{
		TotalBins:    overview.TotalBins,
		FullBins:     overview.FullBins,
		HighBins:     overview.HighBins,
		MediumBins:   overview.MediumBins,
		LowBins:      overview.LowBins,
		EmptyBins:    overview.EmptyBins,
		AvgFillLevel: overview.AvgFillLevel,
		ByType:       byType,
	}, nil
}
