package services

import (
	"errors"
	"fmt"

	"github.com/feriahub/feria-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPublicationNotFound = errors.New("publication not found")

// PublicationService owns the listing rows. The moderation engine only uses
// the status gate methods; create/get/list exist so sellers have something to
// get reported for.
type PublicationService struct {
	db *gorm.DB
}

func NewPublicationService(db *gorm.DB) *PublicationService {
	return &PublicationService{db: db}
}

func (s *PublicationService) Create(vendorID uuid.UUID, name, description string, priceCents int64) (*models.Publication, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}

	pub := models.Publication{
		ID:          uuid.New(),
		VendorID:    vendorID,
		Name:        name,
		Description: description,
		PriceCents:  priceCents,
		Status:      models.PublicationVisible,
	}

	if err := s.db.Create(&pub).Error; err != nil {
		return nil, fmt.Errorf("failed to create publication: %w", err)
	}
	return &pub, nil
}

func (s *PublicationService) Get(id uuid.UUID) (*models.Publication, error) {
	var pub models.Publication
	err := s.db.Where("id = ? AND deleted_at IS NULL", id).First(&pub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPublicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pub, nil
}

func (s *PublicationService) ListByVendor(vendorID uuid.UUID, limit, offset int) ([]models.Publication, int64, error) {
	var pubs []models.Publication
	var total int64

	query := s.db.Model(&models.Publication{}).
		Where("vendor_id = ? AND deleted_at IS NULL", vendorID)
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&pubs).Error; err != nil {
		return nil, 0, err
	}
	return pubs, total, nil
}

// Status gate. Called only from workflow transitions, always inside the
// transaction that mutates the incidence.

func SetPublicationUnderReview(tx *gorm.DB, id uuid.UUID) error {
	return setPublicationStatus(tx, id, models.PublicationUnderReview)
}

func SetPublicationVisible(tx *gorm.DB, id uuid.UUID) error {
	return setPublicationStatus(tx, id, models.PublicationVisible)
}

func SetPublicationBlocked(tx *gorm.DB, id uuid.UUID) error {
	return setPublicationStatus(tx, id, models.PublicationBlocked)
}

func setPublicationStatus(tx *gorm.DB, id uuid.UUID, status models.PublicationStatus) error {
	result := tx.Model(&models.Publication{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPublicationNotFound
	}
	return nil
}
