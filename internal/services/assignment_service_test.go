package services

import (
	"testing"
	"time"

	"github.com/feriahub/feria-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// claimedIncidence inserts an UNDER_REVIEW case already owned by a moderator.
func claimedIncidence(t *testing.T, db *gorm.DB, moderatorID uuid.UUID, createdAt time.Time) {
	t.Helper()
	seller := createSeller(t, db, uuid.New().String()+"@test.local")
	pub := createPublication(t, db, seller.ID)
	inc := models.Incidence{
		ID:            uuid.New(),
		PublicID:      newIncidencePublicID(),
		PublicationID: pub.ID,
		Status:        models.IncidenceUnderReview,
		Decision:      models.DecisionPending,
		ModeratorID:   &moderatorID,
		LastReportAt:  createdAt,
		CreatedAt:     createdAt,
	}
	if err := db.Create(&inc).Error; err != nil {
		t.Fatalf("failed to create claimed incidence: %v", err)
	}
}

func TestLeastBusyPicksLowestLoad(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)

	busy := createModerator(t, db, "busy@test.local")
	idle := createModerator(t, db, "idle@test.local")

	now := time.Now().UTC()
	claimedIncidence(t, db, busy.ID, now)
	claimedIncidence(t, db, busy.ID, now)

	got, err := svc.LeastBusy(nil)
	if err != nil {
		t.Fatalf("least busy failed: %v", err)
	}
	if got == nil || *got != idle.ID {
		t.Errorf("least busy = %v, want %s", got, idle.ID)
	}
}

func TestLeastBusyCountsAssignedAppeals(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)

	withAppeal := createModerator(t, db, "appeals@test.local")
	clear := createModerator(t, db, "clear@test.local")

	seller := createSeller(t, db, "seller@test.local")
	pub := createPublication(t, db, seller.ID)
	inc := models.Incidence{
		ID:            uuid.New(),
		PublicID:      newIncidencePublicID(),
		PublicationID: pub.ID,
		Status:        models.IncidenceResolved,
		Decision:      models.DecisionBlock,
		LastReportAt:  time.Now().UTC(),
	}
	if err := db.Create(&inc).Error; err != nil {
		t.Fatalf("failed to create incidence: %v", err)
	}
	appeal := models.Appeal{
		ID:             uuid.New(),
		IncidenceID:    inc.ID,
		SellerID:       seller.ID,
		Reason:         "reason",
		Status:         models.AppealAssigned,
		NewModeratorID: &withAppeal.ID,
		FinalDecision:  models.AppealDecisionPending,
	}
	if err := db.Create(&appeal).Error; err != nil {
		t.Fatalf("failed to create appeal: %v", err)
	}

	got, err := svc.LeastBusy(nil)
	if err != nil {
		t.Fatalf("least busy failed: %v", err)
	}
	if got == nil || *got != clear.ID {
		t.Errorf("least busy = %v, want %s (appeal counts as load)", got, clear.ID)
	}
}

func TestLeastBusyExcludes(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)

	only := createModerator(t, db, "only@test.local")
	other := createModerator(t, db, "other@test.local")
	claimedIncidence(t, db, other.ID, time.Now().UTC())

	got, err := svc.LeastBusy(&only.ID)
	if err != nil {
		t.Fatalf("least busy failed: %v", err)
	}
	if got == nil || *got != other.ID {
		t.Errorf("least busy = %v, want %s despite higher load", got, other.ID)
	}
}

func TestLeastBusyNoCandidates(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)

	only := createModerator(t, db, "only@test.local")
	createSeller(t, db, "user@test.local")

	got, err := svc.LeastBusy(&only.ID)
	if err != nil {
		t.Fatalf("least busy failed: %v", err)
	}
	if got != nil {
		t.Errorf("least busy = %s, want nil when nobody is eligible", *got)
	}
}

func TestLeastBusySkipsDeletedModerators(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)

	gone := createModerator(t, db, "gone@test.local")
	now := time.Now().UTC()
	db.Model(&models.User{}).Where("id = ?", gone.ID).Update("deleted_at", now)

	got, err := svc.LeastBusy(nil)
	if err != nil {
		t.Fatalf("least busy failed: %v", err)
	}
	if got != nil {
		t.Errorf("least busy = %s, want nil (only moderator is deleted)", *got)
	}
}

func TestLeastBusyTieBreakPrefersFreshestBacklog(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)

	longWait := createModerator(t, db, "long@test.local")
	shortWait := createModerator(t, db, "short@test.local")

	now := time.Now().UTC()
	claimedIncidence(t, db, longWait.ID, now.Add(-72*time.Hour))
	claimedIncidence(t, db, shortWait.ID, now.Add(-1*time.Hour))

	got, err := svc.LeastBusy(nil)
	if err != nil {
		t.Fatalf("least busy failed: %v", err)
	}
	if got == nil || *got != shortWait.ID {
		t.Errorf("least busy = %v, want %s (most recent oldest case wins the tie)", got, shortWait.ID)
	}
}

func TestWorkloads(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)

	busy := createModerator(t, db, "busy@test.local")
	createModerator(t, db, "idle@test.local")
	claimedIncidence(t, db, busy.ID, time.Now().UTC())

	workloads, err := svc.Workloads()
	if err != nil {
		t.Fatalf("workloads failed: %v", err)
	}
	if len(workloads) != 2 {
		t.Fatalf("workloads len = %d, want 2", len(workloads))
	}
	// Sorted idle first.
	if workloads[0].OpenIncidences != 0 || workloads[1].OpenIncidences != 1 {
		t.Errorf("workloads not ordered by load: %+v", workloads)
	}
	if workloads[1].ModeratorID != busy.ID {
		t.Errorf("busiest = %s, want %s", workloads[1].ModeratorID, busy.ID)
	}
}
