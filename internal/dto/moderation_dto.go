package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateReportRequest struct {
	PublicationID uuid.UUID `json:"publication_id"`
	Reason        string    `json:"reason"`
	Comment       string    `json:"comment"`
}

// ReportOutcome is returned to the reporter: the incidence public id is the
// only handle they ever see.
type ReportOutcome struct {
	IncidenceID string    `json:"incidence_id"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

type DecideIncidenceRequest struct {
	Decision string `json:"decision"`
	Comment  string `json:"comment"`
}

type FileAppealRequest struct {
	Reason string `json:"reason"`
}

type DecideAppealRequest struct {
	FinalDecision string `json:"final_decision"`
}

type CreatePublicationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
}
