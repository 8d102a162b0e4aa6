package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Role      Role      `json:"role"`
	FCMToken  *string   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type UserFilter struct {
	Role *Role
}
