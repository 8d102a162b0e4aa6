package model

import (
	"time"

	"github.com/google/uuid"
)

type IssueType string

const (
	IssueOverflow IssueType = "overflow"
	IssueDamage   IssueType = "damage"
	IssueMissing  IssueType = "missing"
	IssueOdor     IssueType = "odor"
	IssueOther    IssueType = "other"
)

func (t IssueType) Valid() bool {
	switch t {
	case IssueOverflow, IssueDamage, IssueMissing, IssueOdor, IssueOther:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusInProgress ReportStatus = "in_progress"
	ReportStatusResolved   ReportStatus = "resolved"
	ReportStatusRejected   ReportStatus = "rejected"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusInProgress, ReportStatusResolved, ReportStatusRejected:
		return true
	}
	return false
}

// Terminal reports no longer accept edits from their reporter.
func (s ReportStatus) Terminal() bool {
	return s == ReportStatusResolved || s == ReportStatusRejected
}

type Report struct {
	ID              uuid.UUID    `json:"id"`
	UserID          uuid.UUID    `json:"user_id"`
	BinID           string       `json:"bin_id"`
	IssueType       IssueType    `json:"issue_type"`
	Description     string       `json:"description"`
	Priority        Priority     `json:"priority"`
	Status          ReportStatus `json:"status"`
	ResolutionNotes *string      `json:"resolution_notes,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	ResolvedAt      *time.Time   `json:"resolved_at,omitempty"`
	BinLocation     *string      `json:"bin_location,omitempty" gorm:"->"`
	ReporterName    *string      `json:"reporter_name,omitempty" gorm:"->"`
}

type ReportFilter struct {
	Status    *ReportStatus
	IssueType *IssueType
	Priority  *Priority
	UserID    *uuid.UUID
}
