package model

import (
	"time"

	"github.com/google/uuid"
)

type ReportExport struct {
	GeneratedAt time.Time
	Filter      ReportFilter
	Reports     []Report
}

type RouteSheet struct {
	CollectorID   uuid.UUID
	CollectorName string
	Date          time.Time
	Schedules     []Schedule
}
