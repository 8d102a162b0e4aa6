package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/wasteops-admin/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userSelect = `
	SELECT
		id,
		name,
		email,
		phone,
		address,
		role,
		created_at
	FROM users
`

func (r *UserRepository) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Raw(userSelect+`
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&user).Error; err != nil {
		return nil, err
	}
	if user.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *UserRepository) ListUsers(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	query := userSelect
	var args []interface{}
	if filter.Role != nil {
		query += " WHERE role = ?"
		args = append(args, *filter.Role)
	}
	query += " ORDER BY created_at DESC"

	var users []model.User
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

type userIDRow struct {
	ID uuid.UUID
}

func (r *UserRepository) ListUserIDsByRole(ctx context.Context, role model.Role) ([]uuid.UUID, error) {
	var rows []userIDRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id
		FROM users
		WHERE role = ?
		ORDER BY created_at ASC
	`, role).Scan(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

// GetFCMToken returns the user's device token, or nil when none is registered.
func (r *UserRepository) GetFCMToken(ctx context.Context, userID uuid.UUID) (*string, error) {
	var row struct {
		FCMToken sql.NullString `gorm:"column:fcm_token"`
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT fcm_token
		FROM users
		WHERE id = ?
		LIMIT 1
	`, userID).Scan(&row).Error; err != nil {
		return nil, err
	}
	if !row.FCMToken.Valid || row.FCMToken.String == "" {
		return nil, nil
	}
	return &row.FCMToken.String, nil
}
