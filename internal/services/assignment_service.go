package services

import (
	"errors"

	"github.com/feriahub/feria-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	openIncidenceCount  = "(SELECT COUNT(*) FROM incidences WHERE incidences.moderator_id = users.id AND incidences.status = 'UNDER_REVIEW')"
	assignedAppealCount = "(SELECT COUNT(*) FROM appeals WHERE appeals.new_moderator_id = users.id AND appeals.status = 'ASSIGNED')"
	oldestOpenIncidence = "(SELECT MIN(incidences.created_at) FROM incidences WHERE incidences.moderator_id = users.id AND incidences.status = 'UNDER_REVIEW')"
)

// AssignmentService ranks moderators by workload. LeastBusy is a snapshot
// ranking, not a reservation: two concurrent assignments may pick the same
// moderator before either write lands, which is accepted eventual-balance
// behavior.
type AssignmentService struct {
	db *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{db: db}
}

// LeastBusy returns the eligible moderator with the fewest open incidences
// plus assigned appeals, or nil if none exists. Ties go to moderators with no
// open backlog, then to the one whose oldest open case is most recent.
func (s *AssignmentService) LeastBusy(exclude *uuid.UUID) (*uuid.UUID, error) {
	return leastBusyModerator(s.db, exclude)
}

func leastBusyModerator(db *gorm.DB, exclude *uuid.UUID) (*uuid.UUID, error) {
	query := db.Model(&models.User{}).
		Select("users.id").
		Where("users.role = ? AND users.deleted_at IS NULL", models.RoleModerator)
	if exclude != nil {
		query = query.Where("users.id <> ?", *exclude)
	}

	var candidate models.User
	err := query.
		Order(openIncidenceCount + " + " + assignedAppealCount + " ASC").
		Order("(" + oldestOpenIncidence + " IS NULL) DESC").
		Order(oldestOpenIncidence + " DESC").
		Take(&candidate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	id := candidate.ID
	return &id, nil
}

// ModeratorWorkload backs the admin workload panel.
type ModeratorWorkload struct {
	ModeratorID     uuid.UUID `json:"moderator_id"`
	Email           string    `json:"email"`
	OpenIncidences  int64     `json:"open_incidences"`
	AssignedAppeals int64     `json:"assigned_appeals"`
}

func (s *AssignmentService) Workloads() ([]ModeratorWorkload, error) {
	var workloads []ModeratorWorkload
	err := s.db.Model(&models.User{}).
		Select("users.id AS moderator_id, users.email AS email, " +
			openIncidenceCount + " AS open_incidences, " +
			assignedAppealCount + " AS assigned_appeals").
		Where("users.role = ? AND users.deleted_at IS NULL", models.RoleModerator).
		Order("open_incidences + assigned_appeals ASC").
		Scan(&workloads).Error
	if err != nil {
		return nil, err
	}
	return workloads, nil
}
