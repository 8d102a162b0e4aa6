package model

import "time"

type BinStatus string

const (
	BinStatusEmpty  BinStatus = "empty"
	BinStatusLow    BinStatus = "low"
	BinStatusMedium BinStatus = "medium"
	BinStatusHigh   BinStatus = "high"
	BinStatusFull   BinStatus = "full"
)

func (s BinStatus) Valid() bool {
	switch s {
	case BinStatusEmpty, BinStatusLow, BinStatusMedium, BinStatusHigh, BinStatusFull:
		return true
	}
	return false
}

type BinType string

const (
	BinTypeGeneral    BinType = "general"
	BinTypeRecyclable BinType = "recyclable"
	BinTypeOrganic    BinType = "organic"
	BinTypeHazardous  BinType = "hazardous"
)

func (t BinType) Valid() bool {
	switch t {
	case BinTypeGeneral, BinTypeRecyclable, BinTypeOrganic, BinTypeHazardous:
		return true
	}
	return false
}

const DefaultBinCapacity = 100

type Bin struct {
	ID        string    `json:"id"`
	Location  string    `json:"location"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Capacity  int       `json:"capacity"`
	FillLevel int       `json:"fill_level"`
	Status    BinStatus `json:"status"`
	Type      BinType   `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BinFilter struct {
	Status *BinStatus
	Type   *BinType
	Limit  int
}

type BinTypeCount struct {
	Type  BinType `json:"type"`
	Count int64   `json:"count"`
}

type BinStats struct {
	TotalBins    int64          `json:"total_bins"`
	FullBins     int64          `json:"full_bins"`
	HighBins     int64          `json:"high_bins"`
	MediumBins   int64          `json:"medium_bins"`
	LowBins      int64          `json:"low_bins"`
	EmptyBins    int64          `json:"empty_bins"`
	AvgFillLevel float64        `json:"avg_fill_level"`
	ByType       []BinTypeCount `json:"by_type"`
}
