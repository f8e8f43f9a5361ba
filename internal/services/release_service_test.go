package services

import (
	"testing"

	"github.com/feriahub/feria-backend/internal/models"
)

func TestReleaseReturnsIncidencesToPool(t *testing.T) {
	db := newTestDB(t)
	incSvc := NewIncidenceService(db, testConfig())
	svc := NewReleaseService(db, NewNotificationService(db))

	seller := createSeller(t, db, "seller@test.local")
	leaving := createModerator(t, db, "leaving@test.local")

	pub := createPublication(t, db, seller.ID)
	inc := reportTimes(t, incSvc, db, pub.ID, 3)
	if err := incSvc.Claim(inc.PublicID, leaving.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	summary, err := svc.Release(leaving.ID)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if summary.ReleasedIncidences != 1 {
		t.Errorf("released incidences = %d, want 1", summary.ReleasedIncidences)
	}

	got, _ := incSvc.Get(inc.PublicID)
	if got.Status != models.IncidencePendingReview {
		t.Errorf("status = %s, want PENDING_REVIEW", got.Status)
	}
	if got.ModeratorID != nil {
		t.Errorf("moderator_id = %s, want nil", *got.ModeratorID)
	}
	if got.Decision != models.DecisionPending || got.ModeratorComment != "" {
		t.Errorf("decision/comment not wiped: %s %q", got.Decision, got.ModeratorComment)
	}
}

func TestReleasedIncidenceIsClaimable(t *testing.T) {
	db := newTestDB(t)
	incSvc := NewIncidenceService(db, testConfig())
	svc := NewReleaseService(db, NewNotificationService(db))

	seller := createSeller(t, db, "seller@test.local")
	leaving := createModerator(t, db, "leaving@test.local")
	next := createModerator(t, db, "next@test.local")

	pub := createPublication(t, db, seller.ID)
	inc := reportTimes(t, incSvc, db, pub.ID, 3)
	if err := incSvc.Claim(inc.PublicID, leaving.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if _, err := svc.Release(leaving.ID); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	if err := incSvc.Claim(inc.PublicID, next.ID); err != nil {
		t.Fatalf("reclaim failed: %v", err)
	}
	got, _ := incSvc.Get(inc.PublicID)
	if got.Status != models.IncidenceUnderReview {
		t.Errorf("status = %s, want UNDER_REVIEW after reclaim", got.Status)
	}
}

func TestReleaseParksAppealsAndNotifies(t *testing.T) {
	db := newTestDB(t)
	incSvc := NewIncidenceService(db, testConfig())
	appealSvc := newAppealService(db)
	svc := NewReleaseService(db, NewNotificationService(db))

	seller := createSeller(t, db, "seller@test.local")
	original := createModerator(t, db, "original@test.local")
	leaving := createModerator(t, db, "leaving@test.local")

	_, inc := blockedCase(t, db, incSvc, seller, original)
	appeal, err := appealSvc.File(inc.PublicID, seller.ID, appealReason)
	if err != nil {
		t.Fatalf("file failed: %v", err)
	}
	if appeal.NewModeratorID == nil || *appeal.NewModeratorID != leaving.ID {
		t.Fatalf("appeal assigned to %v, want %s", appeal.NewModeratorID, leaving.ID)
	}

	summary, err := svc.Release(leaving.ID)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if summary.ReleasedAppeals != 1 {
		t.Errorf("released appeals = %d, want 1", summary.ReleasedAppeals)
	}

	got, _ := appealSvc.Get(appeal.ID)
	if got.Status != models.AppealFailedNoMod {
		t.Errorf("status = %s, want FAILED_NO_MOD", got.Status)
	}
	if got.NewModeratorID != nil {
		t.Errorf("new moderator = %s, want nil", *got.NewModeratorID)
	}

	var notified int64
	db.Model(&models.Notification{}).
		Where("recipient_email = ? AND kind = ?", seller.Email, models.NotificationAppealReassignment).
		Count(&notified)
	if notified != 1 {
		t.Errorf("notification count = %d, want 1", notified)
	}
}

// A decided appeal is no longer the moderator's workload: release must not
// touch it and its seller must not be told it is waiting for reassignment.
func TestReleaseSkipsDecidedAppeals(t *testing.T) {
	db := newTestDB(t)
	incSvc := NewIncidenceService(db, testConfig())
	appealSvc := newAppealService(db)
	svc := NewReleaseService(db, NewNotificationService(db))

	seller := createSeller(t, db, "seller@test.local")
	original := createModerator(t, db, "original@test.local")
	leaving := createModerator(t, db, "leaving@test.local")

	_, inc := blockedCase(t, db, incSvc, seller, original)
	appeal, err := appealSvc.File(inc.PublicID, seller.ID, appealReason)
	if err != nil {
		t.Fatalf("file failed: %v", err)
	}
	if err := appealSvc.Decide(appeal.ID, leaving.ID, models.AppealDecisionUphold); err != nil {
		t.Fatalf("decide failed: %v", err)
	}

	summary, err := svc.Release(leaving.ID)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if summary.ReleasedAppeals != 0 {
		t.Errorf("released appeals = %d, want 0", summary.ReleasedAppeals)
	}

	got, _ := appealSvc.Get(appeal.ID)
	if got.Status != models.AppealDecided || got.FinalDecision != models.AppealDecisionUphold {
		t.Errorf("appeal = %s/%s, want DECIDED/UPHOLD untouched by release", got.Status, got.FinalDecision)
	}

	var reassignNotices int64
	db.Model(&models.Notification{}).
		Where("kind = ?", models.NotificationAppealReassignment).
		Count(&reassignNotices)
	if reassignNotices != 0 {
		t.Errorf("reassignment notifications = %d, want 0", reassignNotices)
	}
}

func TestReleaseWithNothingAssigned(t *testing.T) {
	db := newTestDB(t)
	svc := NewReleaseService(db, NewNotificationService(db))
	mod := createModerator(t, db, "idle@test.local")

	summary, err := svc.Release(mod.ID)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if summary.ReleasedIncidences != 0 || summary.ReleasedAppeals != 0 {
		t.Errorf("summary = %+v, want zeros", summary)
	}
}
