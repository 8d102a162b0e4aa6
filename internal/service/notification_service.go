package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nurpe/wasteops-admin/internal/model"
)

const defaultNotificationLimit = 50

// NotificationService exposes a user's own notifications. Records are only
// ever created by the Dispatcher.
type NotificationService struct {
	repo NotificationStore
}

func NewNotificationService(repo NotificationStore) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) List(ctx context.Context, principal model.Principal, isRead *bool, limit int) ([]model.Notification, error) {
	if err := requireRole(principal, model.RoleCitizen, model.RoleCollector, model.RoleAdmin); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	items, err := s.repo.ListNotifications(ctx, model.NotificationFilter{
		UserID: principal.UserID,
		IsRead: isRead,
		Limit:  limit,
	})
	if err != nil {
		return nil, translateStoreError(err)
	}
	return items, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if err := requireRole(principal, model.RoleCitizen, model.RoleCollector, model.RoleAdmin); err != nil {
		return err
	}
	return translateStoreError(s.repo.MarkNotificationRead(ctx, id, principal.UserID))
}

func (s *NotificationService) MarkAllRead(ctx context.Context, principal model.Principal) (int64, error) {
	if err := requireRole(principal, model.RoleCitizen, model.RoleCollector, model.RoleAdmin); err != nil {
		return 0, err
	}
	updated, err := s.repo.MarkAllNotificationsRead(ctx, principal.UserID)
	if err != nil {
		return 0, translateStoreError(err)
	}
	return updated, nil
}

func (s *NotificationService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if err := requireRole(principal, model.RoleCitizen, model.RoleCollector, model.RoleAdmin); err != nil {
		return err
	}
	return translateStoreError(s.repo.DeleteNotification(ctx, id, principal.UserID))
}
