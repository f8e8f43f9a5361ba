package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	NotificationAppealReassignment = "appeal_pending_reassignment"
	NotificationAppealDecided      = "appeal_decided"
)

// Notification is an outbox row. The engine only enqueues; rendering and
// delivery belong to the mailer that drains this table.
type Notification struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientEmail string            `gorm:"not null;size:255;index" json:"recipient_email"`
	Kind           string            `gorm:"not null;size:50;index" json:"kind"`
	Variables      datatypes.JSONMap `json:"variables"`
	SentAt         *time.Time        `gorm:"index" json:"sent_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}
