package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is a single user's complaint. Rows are append-only: once attached to
// an incidence they are never updated or re-parented.
type Report struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IncidenceID uuid.UUID `gorm:"type:uuid;not null;index" json:"incidence_id"`
	ReporterID  uuid.UUID `gorm:"type:uuid;not null;index" json:"reporter_id"`
	Reason      string    `gorm:"not null;size:100" json:"reason"`
	Comment     string    `gorm:"size:500" json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
	Reporter    User      `gorm:"foreignKey:ReporterID" json:"-"`
}
