package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/feriahub/feria-backend/internal/config"
	"github.com/feriahub/feria-backend/internal/dto"
	"github.com/feriahub/feria-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPublicationUnderReview  = errors.New("publication is already under review")
	ErrIncidenceAppealed       = errors.New("cannot add a report to an appealed incidence")
	ErrIncidenceNotFound       = errors.New("incidence not found")
	ErrIncidenceAlreadyClaimed = errors.New("incidence is already claimed")
	ErrIncidenceAlreadyDecided = errors.New("incidence is already decided")
	ErrIncidenceNotUnderReview = errors.New("incidence is not under review")
	ErrNotAssignedModerator    = errors.New("only the assigned moderator can decide this incidence")
	ErrConcurrentReport        = errors.New("another report just opened a case for this publication, retry")
	ErrInvalidDecision         = errors.New("decision must be BLOCK or DISMISS")
	ErrReportInvalid           = errors.New("reason is required and bounded to 100 characters, comment to 500")
	ErrCommentTooLong          = errors.New("moderator comment too long")
)

// claimableStatuses are the states a moderator may take ownership from.
var claimableStatuses = []models.IncidenceStatus{
	models.IncidenceOpen,
	models.IncidenceUnderReview,
	models.IncidencePendingReview,
}

type IncidenceService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewIncidenceService(db *gorm.DB, cfg *config.Config) *IncidenceService {
	return &IncidenceService{db: db, cfg: cfg}
}

// ReportPublication appends a report to the publication's active incidence,
// opening one if none exists. Report append, threshold escalation and the
// publication status flip all run in a single transaction.
func (s *IncidenceService) ReportPublication(publicationID, reporterID uuid.UUID, reason, comment string) (*dto.ReportOutcome, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" || len(reason) > 100 || len(comment) > 500 {
		return nil, ErrReportInvalid
	}

	var outcome dto.ReportOutcome

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var pub models.Publication
		if err := tx.Where("id = ? AND deleted_at IS NULL", publicationID).First(&pub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPublicationNotFound
			}
			return err
		}

		now := time.Now().UTC()

		var inc models.Incidence
		err := tx.Where("publication_id = ? AND status <> ?", publicationID, models.IncidenceResolved).
			First(&inc).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			inc = models.Incidence{
				ID:            uuid.New(),
				PublicID:      newIncidencePublicID(),
				PublicationID: publicationID,
				Status:        models.IncidenceOpen,
				Decision:      models.DecisionPending,
				LastReportAt:  now,
			}
			if err := tx.Create(&inc).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrConcurrentReport
				}
				return fmt.Errorf("failed to create incidence: %w", err)
			}
		case err != nil:
			return err
		default:
			switch inc.Status {
			case models.IncidenceUnderReview, models.IncidencePendingReview:
				return ErrPublicationUnderReview
			case models.IncidenceAppealed:
				return ErrIncidenceAppealed
			case models.IncidenceOpen:
				// fall through to the append below
			default:
				return fmt.Errorf("incidence %s in unexpected status %s", inc.PublicID, inc.Status)
			}
			// Keyed on OPEN: a concurrent report may have escalated the case
			// between the read above and here, and late reports must not land
			// on an under-review incidence.
			result := tx.Model(&models.Incidence{}).
				Where("id = ? AND status = ?", inc.ID, models.IncidenceOpen).
				Update("last_report_at", now)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrPublicationUnderReview
			}
		}

		report := models.Report{
			ID:          uuid.New(),
			IncidenceID: inc.ID,
			ReporterID:  reporterID,
			Reason:      reason,
			Comment:     comment,
		}
		if err := tx.Create(&report).Error; err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}

		var reportCount int64
		if err := tx.Model(&models.Report{}).Where("incidence_id = ?", inc.ID).Count(&reportCount).Error; err != nil {
			return err
		}

		message := "report registered"
		if inc.Status == models.IncidenceOpen && reportCount >= int64(s.cfg.ReportThreshold) {
			if err := tx.Model(&inc).Update("status", models.IncidenceUnderReview).Error; err != nil {
				return err
			}
			if err := SetPublicationUnderReview(tx, publicationID); err != nil {
				return err
			}
			message = "report registered, publication moved under review"
		}

		outcome = dto.ReportOutcome{
			IncidenceID: inc.PublicID,
			Message:     message,
			CreatedAt:   report.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}

// Claim takes ownership of an unclaimed incidence. It is a single conditional
// UPDATE keyed on "moderator_id IS NULL", so two concurrent claims can never
// both succeed.
func (s *IncidenceService) Claim(publicID string, moderatorID uuid.UUID) error {
	result := s.db.Model(&models.Incidence{}).
		Where("public_id = ? AND moderator_id IS NULL AND status IN ?", publicID, claimableStatuses).
		Updates(map[string]interface{}{
			"moderator_id": moderatorID,
			"status":       models.IncidenceUnderReview,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var inc models.Incidence
		if err := s.db.Where("public_id = ?", publicID).First(&inc).Error; err != nil {
			return ErrIncidenceNotFound
		}
		return ErrIncidenceAlreadyClaimed
	}
	return nil
}

// Decide records the claiming moderator's verdict, resolves the incidence and
// flips the publication to the matching state.
func (s *IncidenceService) Decide(publicID string, moderatorID uuid.UUID, comment string, decision models.IncidenceDecision) error {
	if decision != models.DecisionBlock && decision != models.DecisionDismiss {
		return ErrInvalidDecision
	}
	if len(comment) > s.cfg.ModeratorCommentMax {
		return fmt.Errorf("%w: limit is %d characters", ErrCommentTooLong, s.cfg.ModeratorCommentMax)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var inc models.Incidence
		if err := tx.Where("public_id = ?", publicID).First(&inc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIncidenceNotFound
			}
			return err
		}

		if inc.ModeratorID == nil || *inc.ModeratorID != moderatorID {
			return ErrNotAssignedModerator
		}
		if inc.Decision != models.DecisionPending {
			return ErrIncidenceAlreadyDecided
		}
		if inc.Status != models.IncidenceUnderReview {
			return ErrIncidenceNotUnderReview
		}

		if err := tx.Model(&inc).Updates(map[string]interface{}{
			"decision":          decision,
			"moderator_comment": comment,
			"status":            models.IncidenceResolved,
		}).Error; err != nil {
			return err
		}

		if decision == models.DecisionBlock {
			return SetPublicationBlocked(tx, inc.PublicationID)
		}
		return SetPublicationVisible(tx, inc.PublicationID)
	})
}

// Get returns an incidence with its reports, addressed by public id.
func (s *IncidenceService) Get(publicID string) (*models.Incidence, error) {
	var inc models.Incidence
	err := s.db.Preload("Reports").Where("public_id = ?", publicID).First(&inc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrIncidenceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inc, nil
}

// List returns incidences for the moderator panel, optionally filtered by status.
func (s *IncidenceService) List(status string, limit, offset int) ([]models.Incidence, int64, error) {
	var incidences []models.Incidence
	var total int64

	query := s.db.Model(&models.Incidence{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	if err := query.Order("last_report_at DESC").Limit(limit).Offset(offset).Find(&incidences).Error; err != nil {
		return nil, 0, err
	}
	return incidences, total, nil
}

func newIncidencePublicID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read never fails on supported platforms
		return uuid.New().String()[:12]
	}
	return "INC-" + hex.EncodeToString(buf)
}
