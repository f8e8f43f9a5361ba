package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/feriahub/feria-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReleaseSummary reports how much work a departing moderator left behind.
type ReleaseSummary struct {
	ReleasedIncidences int64 `json:"released_incidences"`
	ReleasedAppeals    int64 `json:"released_appeals"`
}

// ReleaseService returns a departing moderator's claimed incidences and
// assigned appeals to the unassigned pool. The two halves are independent:
// a failure in one never blocks the other.
type ReleaseService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewReleaseService(db *gorm.DB, notifications *NotificationService) *ReleaseService {
	return &ReleaseService{db: db, notifications: notifications}
}

func (s *ReleaseService) Release(moderatorID uuid.UUID) (*ReleaseSummary, error) {
	summary := &ReleaseSummary{}

	incErr := s.releaseIncidences(moderatorID, summary)
	appErr := s.releaseAppeals(moderatorID, summary)

	if incErr != nil || appErr != nil {
		return summary, errors.Join(incErr, appErr)
	}

	slog.Info("moderator released",
		"moderator_id", moderatorID,
		"incidences", summary.ReleasedIncidences,
		"appeals", summary.ReleasedAppeals)
	return summary, nil
}

// releaseIncidences puts the moderator's in-review cases back into the
// unclaimed pool as PENDING_REVIEW with comment and decision wiped.
func (s *ReleaseService) releaseIncidences(moderatorID uuid.UUID, summary *ReleaseSummary) error {
	result := s.db.Model(&models.Incidence{}).
		Where("moderator_id = ? AND status = ?", moderatorID, models.IncidenceUnderReview).
		Updates(map[string]interface{}{
			"moderator_id":      nil,
			"moderator_comment": "",
			"decision":          models.DecisionPending,
			"status":            models.IncidencePendingReview,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to release incidences: %w", result.Error)
	}
	summary.ReleasedIncidences = result.RowsAffected
	return nil
}

type releasedAppeal struct {
	AppealID        uuid.UUID
	SellerEmail     string
	PublicationName string
}

// releaseAppeals parks the moderator's assigned appeals as FAILED_NO_MOD for
// the reassignment sweep and tells each seller their appeal is waiting again.
// Listing and releasing run in one transaction so the notified set is exactly
// the released set even while appeals are being decided or assigned.
func (s *ReleaseService) releaseAppeals(moderatorID uuid.UUID, summary *ReleaseSummary) error {
	var affected []releasedAppeal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Table("appeals").
			Select("appeals.id AS appeal_id, users.email AS seller_email, publications.name AS publication_name").
			Joins("JOIN users ON users.id = appeals.seller_id").
			Joins("JOIN incidences ON incidences.id = appeals.incidence_id").
			Joins("JOIN publications ON publications.id = incidences.publication_id").
			Where("appeals.new_moderator_id = ? AND appeals.status = ?", moderatorID, models.AppealAssigned).
			Scan(&affected).Error
		if err != nil {
			return fmt.Errorf("failed to list assigned appeals: %w", err)
		}

		result := tx.Model(&models.Appeal{}).
			Where("new_moderator_id = ? AND status = ?", moderatorID, models.AppealAssigned).
			Updates(map[string]interface{}{
				"new_moderator_id": nil,
				"status":           models.AppealFailedNoMod,
				"final_decision":   models.AppealDecisionPending,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to release appeals: %w", result.Error)
		}
		summary.ReleasedAppeals = result.RowsAffected
		return nil
	})
	if err != nil {
		return err
	}

	for _, a := range affected {
		s.notifications.Notify(a.SellerEmail, models.NotificationAppealReassignment, map[string]interface{}{
			"publication_name": a.PublicationName,
		})
	}
	return nil
}
