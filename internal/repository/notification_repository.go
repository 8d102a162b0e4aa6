package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/wasteops-admin/internal/model"
)

const notificationColumns = `
	id,
	user_id,
	title,
	message,
	type,
	related_entity_type,
	related_entity_id,
	is_read,
	created_at
`

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n model.Notification) (*model.Notification, error) {
	var saved model.Notification
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO notifications (
			user_id,
			title,
			message,
			type,
			related_entity_type,
			related_entity_id
		) VALUES (?, ?, ?, ?, ?, ?)
		RETURNING`+notificationColumns,
		n.UserID,
		n.Title,
		n.Message,
		n.Type,
		n.RelatedEntityType,
		n.RelatedEntityID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *NotificationRepository) ListNotifications(ctx context.Context, filter model.NotificationFilter) ([]model.Notification, error) {
	query := `SELECT` + notificationColumns + `FROM notifications WHERE user_id = ?`
	args := []interface{}{filter.UserID}
	if filter.IsRead != nil {
		query += " AND is_read = ?"
		args = append(args, *filter.IsRead)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, filter.Limit)

	var items []model.Notification
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *NotificationRepository) MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?
	`, id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE notifications SET is_read = TRUE WHERE user_id = ? AND is_read = FALSE
	`, userID)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) DeleteNotification(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM notifications WHERE id = ? AND user_id = ?
	`, id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
