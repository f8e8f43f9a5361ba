package models

import (
	"time"

	"github.com/google/uuid"
)

type IncidenceStatus string

const (
	IncidenceOpen          IncidenceStatus = "OPEN"
	IncidenceUnderReview   IncidenceStatus = "UNDER_REVIEW"
	IncidencePendingReview IncidenceStatus = "PENDING_REVIEW"
	IncidenceAppealed      IncidenceStatus = "APPEALED"
	IncidenceResolved      IncidenceStatus = "RESOLVED"
)

type IncidenceDecision string

const (
	DecisionPending IncidenceDecision = "PENDING"
	DecisionBlock   IncidenceDecision = "BLOCK"
	DecisionDismiss IncidenceDecision = "DISMISS"
)

// Incidence is the moderation case for one publication. The partial unique
// index keeps at most one non-RESOLVED case per publication, so concurrent
// first reports cannot open two cases.
type Incidence struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey" json:"-"`
	PublicID         string            `gorm:"size:16;not null;uniqueIndex" json:"public_id"`
	PublicationID    uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:idx_incidences_active,where:status <> 'RESOLVED'" json:"publication_id"`
	Status           IncidenceStatus   `gorm:"size:20;not null;default:'OPEN';index" json:"status"`
	Decision         IncidenceDecision `gorm:"size:20;not null;default:'PENDING'" json:"decision"`
	ModeratorID      *uuid.UUID        `gorm:"type:uuid;index" json:"moderator_id,omitempty"`
	ModeratorComment string            `gorm:"size:1000" json:"moderator_comment,omitempty"`
	LastReportAt     time.Time         `gorm:"not null;index" json:"last_report_at"`
	AutoClosed       bool              `gorm:"not null;default:false" json:"auto_closed"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	Publication      Publication       `gorm:"foreignKey:PublicationID" json:"-"`
	Moderator        *User             `gorm:"foreignKey:ModeratorID" json:"-"`
	Reports          []Report          `gorm:"foreignKey:IncidenceID" json:"reports,omitempty"`
}

// Claimable reports whether a moderator may still take ownership of the case.
func (i *Incidence) Claimable() bool {
	switch i.Status {
	case IncidenceOpen, IncidenceUnderReview, IncidencePendingReview:
		return i.ModeratorID == nil
	default:
		return false
	}
}
