package models

import (
	"time"

	"github.com/google/uuid"
)

type AppealStatus string

const (
	AppealPending     AppealStatus = "PENDING"
	AppealFailedNoMod AppealStatus = "FAILED_NO_MOD"
	AppealAssigned    AppealStatus = "ASSIGNED"
	AppealDecided     AppealStatus = "DECIDED"
)

type AppealDecision string

const (
	AppealDecisionPending  AppealDecision = "PENDING"
	AppealDecisionUphold   AppealDecision = "UPHOLD"
	AppealDecisionOverturn AppealDecision = "OVERTURN"
)

// Appeal is a seller's contest of a decided incidence. One per incidence, and
// NewModeratorID must never equal the incidence's original moderator.
type Appeal struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	IncidenceID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"incidence_id"`
	SellerID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"seller_id"`
	Reason         string         `gorm:"not null;size:1000" json:"reason"`
	Status         AppealStatus   `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	NewModeratorID *uuid.UUID     `gorm:"type:uuid;index" json:"new_moderator_id,omitempty"`
	FinalDecision  AppealDecision `gorm:"size:20;not null;default:'PENDING'" json:"final_decision"`
	DecidedAt      *time.Time     `json:"decided_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Incidence      Incidence      `gorm:"foreignKey:IncidenceID" json:"-"`
	Seller         User           `gorm:"foreignKey:SellerID" json:"-"`
	NewModerator   *User          `gorm:"foreignKey:NewModeratorID" json:"-"`
}
