package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User covers buyers, sellers and moderators; the role field decides what the
// account may do. Soft-deleted rows keep their deleted_at timestamp and every
// query filters it explicitly.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string     `gorm:"not null;size:255;index" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Role      string     `gorm:"size:20;not null;default:'user';index" json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`
}
