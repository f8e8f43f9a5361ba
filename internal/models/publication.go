package models

import (
	"time"

	"github.com/google/uuid"
)

type PublicationStatus string

const (
	PublicationVisible     PublicationStatus = "VISIBLE"
	PublicationUnderReview PublicationStatus = "UNDER_REVIEW"
	PublicationBlocked     PublicationStatus = "BLOCKED"
)

// Publication is a marketplace listing. The moderation engine only ever touches
// status; everything else belongs to the listing endpoints.
type Publication struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Name        string            `gorm:"not null;size:150" json:"name"`
	Description string            `gorm:"size:2000" json:"description"`
	PriceCents  int64             `gorm:"not null;default:0" json:"price_cents"`
	Status      PublicationStatus `gorm:"size:20;not null;default:'VISIBLE';index" json:"status"`
	Suspended   bool              `gorm:"not null;default:false" json:"suspended"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   *time.Time        `gorm:"index" json:"-"`
	Vendor      User              `gorm:"foreignKey:VendorID" json:"-"`
}
