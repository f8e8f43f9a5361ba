package services

import (
	"testing"
	"time"

	"github.com/feriahub/feria-backend/internal/config"
	"github.com/feriahub/feria-backend/internal/database"
	"github.com/feriahub/feria-backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database with the full schema. Max open
// connections is pinned to 1 so the whole test sees a single memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(database.Models()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,

		ReportThreshold:     3,
		ModeratorCommentMax: 1000,
		AppealReasonMin:     100,
		AppealReasonMax:     1000,

		AutoCloseInterval:   24 * time.Hour,
		AutoCloseInactivity: 720 * time.Hour,
		AppealSweepInterval: 24 * time.Hour,
	}
}

func createUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "$2a$10$not.a.real.hash.for.tests",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func createModerator(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	return createUser(t, db, email, models.RoleModerator)
}

func createSeller(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	return createUser(t, db, email, models.RoleUser)
}

func createPublication(t *testing.T, db *gorm.DB, vendorID uuid.UUID) *models.Publication {
	t.Helper()
	pub := &models.Publication{
		ID:       uuid.New(),
		VendorID: vendorID,
		Name:     "Vintage road bike",
		Status:   models.PublicationVisible,
	}
	if err := db.Create(pub).Error; err != nil {
		t.Fatalf("failed to create publication: %v", err)
	}
	return pub
}

// reportTimes files n reports from n distinct reporters and returns the last
// outcome.
func reportTimes(t *testing.T, svc *IncidenceService, db *gorm.DB, pubID uuid.UUID, n int) *models.Incidence {
	t.Helper()
	var publicID string
	for i := 0; i < n; i++ {
		reporter := createSeller(t, db, uuid.New().String()+"@test.local")
		outcome, err := svc.ReportPublication(pubID, reporter.ID, "spam", "looks fake")
		if err != nil {
			t.Fatalf("report %d failed: %v", i+1, err)
		}
		publicID = outcome.IncidenceID
	}
	var inc models.Incidence
	if err := db.Where("public_id = ?", publicID).First(&inc).Error; err != nil {
		t.Fatalf("failed to load incidence %s: %v", publicID, err)
	}
	return &inc
}

func publicationStatus(t *testing.T, db *gorm.DB, id uuid.UUID) models.PublicationStatus {
	t.Helper()
	var pub models.Publication
	if err := db.Where("id = ?", id).First(&pub).Error; err != nil {
		t.Fatalf("failed to load publication: %v", err)
	}
	return pub.Status
}
