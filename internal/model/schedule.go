package model

import (
	"time"

	"github.com/google/uuid"
)

type ScheduleStatus string

const (
	ScheduleStatusPending    ScheduleStatus = "pending"
	ScheduleStatusInProgress ScheduleStatus = "in_progress"
	ScheduleStatusCompleted  ScheduleStatus = "completed"
	ScheduleStatusCancelled  ScheduleStatus = "cancelled"
)

func (s ScheduleStatus) Valid() bool {
	switch s {
	case ScheduleStatusPending, ScheduleStatusInProgress, ScheduleStatusCompleted, ScheduleStatusCancelled:
		return true
	}
	return false
}

const DefaultScheduledTime = "09:00:00"

type Schedule struct {
	ID            uuid.UUID      `json:"id"`
	BinID         string         `json:"bin_id"`
	CollectorID   *uuid.UUID     `json:"collector_id,omitempty"`
	ScheduledDate time.Time      `json:"scheduled_date"`
	ScheduledTime string         `json:"scheduled_time"`
	Route         *string        `json:"route,omitempty"`
	Status        ScheduleStatus `json:"status"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	BinLocation   *string        `json:"bin_location,omitempty" gorm:"->"`
	CollectorName *string        `json:"collector_name,omitempty" gorm:"->"`
}

type ScheduleFilter struct {
	Status      *ScheduleStatus
	Date        *time.Time
	CollectorID *uuid.UUID
}
