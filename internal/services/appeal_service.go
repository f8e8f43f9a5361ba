package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/feriahub/feria-backend/internal/config"
	"github.com/feriahub/feria-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrIncidenceNotResolved  = errors.New("only resolved incidences can be appealed")
	ErrAppealAlreadyExists   = errors.New("incidence already has an appeal")
	ErrAppealNotFound        = errors.New("appeal not found")
	ErrAppealNotAssigned     = errors.New("appeal is not assigned to a moderator")
	ErrNotAppealModerator    = errors.New("only the assigned moderator can decide this appeal")
	ErrNotPublicationOwner   = errors.New("only the publication owner can appeal")
	ErrInvalidAppealDecision = errors.New("final decision must be UPHOLD or OVERTURN")
	ErrAppealReasonLength    = errors.New("appeal reason length out of bounds")
)

// AppealService runs the appeal lifecycle: PENDING -> ASSIGNED -> DECIDED,
// with FAILED_NO_MOD parked until the periodic sweep finds a candidate. The
// newly assigned moderator is always different from the one who made the
// original decision.
type AppealService struct {
	db            *gorm.DB
	cfg           *config.Config
	notifications *NotificationService
}

func NewAppealService(db *gorm.DB, cfg *config.Config, notifications *NotificationService) *AppealService {
	return &AppealService{db: db, cfg: cfg, notifications: notifications}
}

// File creates the appeal for a resolved incidence and tries to assign a
// moderator right away. When no candidate exists the appeal is parked as
// FAILED_NO_MOD for AutoAssignPending to pick up.
func (s *AppealService) File(incidencePublicID string, sellerID uuid.UUID, reason string) (*models.Appeal, error) {
	if len(reason) < s.cfg.AppealReasonMin || len(reason) > s.cfg.AppealReasonMax {
		return nil, fmt.Errorf("%w: must be between %d and %d characters", ErrAppealReasonLength, s.cfg.AppealReasonMin, s.cfg.AppealReasonMax)
	}

	var appeal models.Appeal

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var inc models.Incidence
		if err := tx.Where("public_id = ?", incidencePublicID).First(&inc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIncidenceNotFound
			}
			return err
		}

		if inc.Status == models.IncidenceAppealed {
			return ErrAppealAlreadyExists
		}
		if inc.Status != models.IncidenceResolved {
			return ErrIncidenceNotResolved
		}

		var pub models.Publication
		if err := tx.Where("id = ?", inc.PublicationID).First(&pub).Error; err != nil {
			return err
		}
		if pub.VendorID != sellerID {
			return ErrNotPublicationOwner
		}

		var existing int64
		if err := tx.Model(&models.Appeal{}).Where("incidence_id = ?", inc.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAppealAlreadyExists
		}

		appeal = models.Appeal{
			ID:            uuid.New(),
			IncidenceID:   inc.ID,
			SellerID:      sellerID,
			Reason:        reason,
			Status:        models.AppealFailedNoMod,
			FinalDecision: models.AppealDecisionPending,
		}

		candidate, err := leastBusyModerator(tx, inc.ModeratorID)
		if err != nil {
			return err
		}
		if candidate != nil {
			appeal.NewModeratorID = candidate
			appeal.Status = models.AppealAssigned
		}

		if err := tx.Create(&appeal).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAppealAlreadyExists
			}
			return fmt.Errorf("failed to create appeal: %w", err)
		}

		return tx.Model(&inc).Update("status", models.IncidenceAppealed).Error
	})
	if err != nil {
		return nil, err
	}
	return &appeal, nil
}

// AutoAssignPending retries assignment for every FAILED_NO_MOD appeal. One
// appeal's failure never aborts the rest of the sweep; appeals with no
// candidate stay parked for the next run. Returns the number assigned.
func (s *AppealService) AutoAssignPending() (int, error) {
	var appealIDs []uuid.UUID
	err := s.db.Model(&models.Appeal{}).
		Where("status = ? AND new_moderator_id IS NULL", models.AppealFailedNoMod).
		Order("created_at ASC").
		Pluck("id", &appealIDs).Error
	if err != nil {
		return 0, err
	}

	assigned := 0
	for _, id := range appealIDs {
		ok, err := s.assignOne(id)
		if err != nil {
			slog.Error("appeal auto-assignment failed", "appeal_id", id, "error", err)
			continue
		}
		if ok {
			assigned++
		}
	}
	return assigned, nil
}

func (s *AppealService) assignOne(appealID uuid.UUID) (bool, error) {
	var ok bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var appeal models.Appeal
		if err := tx.Where("id = ?", appealID).First(&appeal).Error; err != nil {
			return err
		}
		if appeal.Status != models.AppealFailedNoMod || appeal.NewModeratorID != nil {
			return nil
		}

		var inc models.Incidence
		if err := tx.Where("id = ?", appeal.IncidenceID).First(&inc).Error; err != nil {
			return err
		}

		candidate, err := leastBusyModerator(tx, inc.ModeratorID)
		if err != nil {
			return err
		}
		if candidate == nil {
			return nil
		}

		result := tx.Model(&models.Appeal{}).
			Where("id = ? AND status = ? AND new_moderator_id IS NULL", appealID, models.AppealFailedNoMod).
			Updates(map[string]interface{}{
				"new_moderator_id": *candidate,
				"status":           models.AppealAssigned,
			})
		if result.Error != nil {
			return result.Error
		}
		ok = result.RowsAffected > 0
		return nil
	})
	return ok, err
}

// Decide records the appeal verdict and cascades it back onto the incidence
// and the publication. The seller is notified after the transaction commits.
func (s *AppealService) Decide(appealID, moderatorID uuid.UUID, finalDecision models.AppealDecision) error {
	if finalDecision != models.AppealDecisionUphold && finalDecision != models.AppealDecisionOverturn {
		return ErrInvalidAppealDecision
	}

	var sellerEmail, publicationName string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var appeal models.Appeal
		if err := tx.Where("id = ?", appealID).First(&appeal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAppealNotFound
			}
			return err
		}

		if appeal.Status != models.AppealAssigned {
			return ErrAppealNotAssigned
		}
		if appeal.NewModeratorID == nil || *appeal.NewModeratorID != moderatorID {
			return ErrNotAppealModerator
		}

		now := time.Now().UTC()
		if err := tx.Model(&appeal).Updates(map[string]interface{}{
			"final_decision": finalDecision,
			"decided_at":     now,
			"status":         models.AppealDecided,
		}).Error; err != nil {
			return err
		}

		var inc models.Incidence
		if err := tx.Where("id = ?", appeal.IncidenceID).First(&inc).Error; err != nil {
			return err
		}

		// OVERTURN replaces the decision of record with a dismissal; UPHOLD
		// re-applies the original outcome.
		decision := inc.Decision
		if finalDecision == models.AppealDecisionOverturn {
			decision = models.DecisionDismiss
		}
		if err := tx.Model(&inc).Updates(map[string]interface{}{
			"status":   models.IncidenceResolved,
			"decision": decision,
		}).Error; err != nil {
			return err
		}

		if decision == models.DecisionBlock {
			if err := SetPublicationBlocked(tx, inc.PublicationID); err != nil {
				return err
			}
		} else {
			if err := SetPublicationVisible(tx, inc.PublicationID); err != nil {
				return err
			}
		}

		var seller models.User
		if err := tx.Where("id = ?", appeal.SellerID).First(&seller).Error; err == nil {
			sellerEmail = seller.Email
		}
		var pub models.Publication
		if err := tx.Where("id = ?", inc.PublicationID).First(&pub).Error; err == nil {
			publicationName = pub.Name
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifications.Notify(sellerEmail, models.NotificationAppealDecided, map[string]interface{}{
		"publication_name": publicationName,
		"final_decision":   string(finalDecision),
	})
	return nil
}

// Get returns one appeal by id.
func (s *AppealService) Get(id uuid.UUID) (*models.Appeal, error) {
	var appeal models.Appeal
	err := s.db.Where("id = ?", id).First(&appeal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAppealNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appeal, nil
}

// List returns appeals for the moderator panel, optionally filtered by status.
func (s *AppealService) List(status string, limit, offset int) ([]models.Appeal, int64, error) {
	var appeals []models.Appeal
	var total int64

	query := s.db.Model(&models.Appeal{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	if err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&appeals).Error; err != nil {
		return nil, 0, err
	}
	return appeals, total, nil
}
