package service

import (
	"fmt"

	"github.com/nurpe/wasteops-admin/internal/model"
)

type fillThreshold struct {
	min    int
	status model.BinStatus
}

// Ordered from the highest threshold down; the first match wins.
var fillThresholds = []fillThreshold{
	{min: 90, status: model.BinStatusFull},
	{min: 70, status: model.BinStatusHigh},
	{min: 40, status: model.BinStatusMedium},
	{min: 20, status: model.BinStatusLow},
	{min: 0, status: model.BinStatusEmpty},
}

// DeriveBinStatus maps a fill level percentage to its categorical status.
func DeriveBinStatus(level int) (model.BinStatus, error) {
	if level < 0 || level > 100 {
		return "", fmt.Errorf("%w: fill_level must be between 0 and 100", ErrInvalidInput)
	}
	for _, threshold := range fillThresholds {
		if level >= threshold.min {
			return threshold.status, nil
		}
	}
	return model.BinStatusEmpty, nil
}
