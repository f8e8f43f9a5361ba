package services

import (
	"log/slog"

	"github.com/feriahub/feria-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService enqueues outbox rows for the external mailer.
// Fire-and-forget: failures are logged and never propagate into the
// workflow that triggered them.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) Notify(recipientEmail, kind string, variables map[string]interface{}) {
	if recipientEmail == "" {
		slog.Warn("notification skipped, no recipient", "kind", kind)
		return
	}

	n := models.Notification{
		ID:             uuid.New(),
		RecipientEmail: recipientEmail,
		Kind:           kind,
		Variables:      datatypes.JSONMap(variables),
	}
	if err := s.db.Create(&n).Error; err != nil {
		slog.Error("failed to queue notification", "kind", kind, "error", err)
		return
	}
	slog.Info("notification queued", "kind", kind)
}
