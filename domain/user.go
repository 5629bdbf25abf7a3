package domain

import (
	"context"
	"time"
)

// User is a member of the directory. Profile fields come from the first
// provider login; repeat logins do not refresh them.
type User struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name"           json:"name"`
	DisplayName string    `bson:"display_name"   json:"display_name"`
	AvatarURL   string    `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	CreatedAt   time.Time `bson:"created_at"     json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"     json:"updated_at"`
}

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
}
