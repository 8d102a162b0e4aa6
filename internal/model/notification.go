package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationAlert   NotificationType = "alert"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationSuccess NotificationType = "success"
)

type Notification struct {
	ID                uuid.UUID        `json:"id"`
	UserID            uuid.UUID        `json:"user_id"`
	Title             string           `json:"title"`
	Message           string           `json:"message"`
	Type              NotificationType `json:"type"`
	RelatedEntityType *string          `json:"related_entity_type,omitempty"`
	RelatedEntityID   *string          `json:"related_entity_id,omitempty"`
	IsRead            bool             `json:"is_read"`
	CreatedAt         time.Time        `json:"created_at"`
}

// NotificationIntent describes a notification to be recorded. It is produced by
// a transition and written later by the dispatcher.
type NotificationIntent struct {
	UserID            uuid.UUID
	Title             string
	Message           string
	Type              NotificationType
	RelatedEntityType EntityKind
	RelatedEntityID   string
}

type NotificationFilter struct {
	UserID uuid.UUID
	IsRead *bool
	Limit  int
}
