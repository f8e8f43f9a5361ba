package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/feriahub/feria-backend/internal/config"
	"github.com/feriahub/feria-backend/internal/database"
	"github.com/feriahub/feria-backend/internal/models"
	"github.com/feriahub/feria-backend/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newHandlerDB(t *testing.T) *gorm.DB {
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

func handlerConfig() *config.Config {
	return &config.Config{
		ReportThreshold:     3,
		ModeratorCommentMax: 1000,
		AppealReasonMin:     100,
		AppealReasonMax:     1000,
	}
}

// asUser injects the JWT claims the auth middleware would have parsed.
func asUser(id uuid.UUID, h fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": id.String(),
		}))
		return h(c)
	}
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func closeDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.Close()
}

// Validation problems are the client's fault; everything else is ours.

func TestCreateReportStatusCodes(t *testing.T) {
	db := newHandlerDB(t)
	h := NewModerationHandler(services.NewIncidenceService(db, handlerConfig()), nil, nil, nil)

	reporter := uuid.New()
	app := fiber.New()
	app.Post("/reports", asUser(reporter, h.CreateReport))

	resp := postJSON(t, app, "/reports", fiber.Map{
		"publication_id": uuid.New(), "reason": "",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("blank reason status = %d, want 400", resp.StatusCode)
	}

	closeDB(t, db)
	resp = postJSON(t, app, "/reports", fiber.Map{
		"publication_id": uuid.New(), "reason": "spam",
	})
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("db failure status = %d, want 500", resp.StatusCode)
	}
}

func TestDecideIncidenceStatusCodes(t *testing.T) {
	db := newHandlerDB(t)
	h := NewModerationHandler(services.NewIncidenceService(db, handlerConfig()), nil, nil, nil)

	moderator := models.User{ID: uuid.New(), Email: "mod@test.local", Password: "x", Role: models.RoleModerator}
	if err := db.Create(&moderator).Error; err != nil {
		t.Fatalf("failed to create moderator: %v", err)
	}
	pub := models.Publication{ID: uuid.New(), VendorID: uuid.New(), Name: "bike", Status: models.PublicationUnderReview}
	if err := db.Create(&pub).Error; err != nil {
		t.Fatalf("failed to create publication: %v", err)
	}
	inc := models.Incidence{
		ID:            uuid.New(),
		PublicID:      "INC-0011223344",
		PublicationID: pub.ID,
		Status:        models.IncidenceUnderReview,
		Decision:      models.DecisionPending,
		ModeratorID:   &moderator.ID,
		LastReportAt:  time.Now().UTC(),
	}
	if err := db.Create(&inc).Error; err != nil {
		t.Fatalf("failed to create incidence: %v", err)
	}

	app := fiber.New()
	app.Post("/incidences/:id/decision", asUser(moderator.ID, h.DecideIncidence))

	resp := postJSON(t, app, "/incidences/"+inc.PublicID+"/decision", fiber.Map{
		"decision": "MAYBE",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("invalid decision status = %d, want 400", resp.StatusCode)
	}

	closeDB(t, db)
	resp = postJSON(t, app, "/incidences/"+inc.PublicID+"/decision", fiber.Map{
		"decision": "BLOCK",
	})
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("db failure status = %d, want 500", resp.StatusCode)
	}
}

func TestFileAppealStatusCodes(t *testing.T) {
	db := newHandlerDB(t)
	h := NewAppealHandler(services.NewAppealService(db, handlerConfig(), services.NewNotificationService(db)))

	seller := uuid.New()
	app := fiber.New()
	app.Post("/incidences/:id/appeal", asUser(seller, h.FileAppeal))

	resp := postJSON(t, app, "/incidences/INC-0011223344/appeal", fiber.Map{
		"reason": "too short",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("short reason status = %d, want 400", resp.StatusCode)
	}

	closeDB(t, db)
	resp = postJSON(t, app, "/incidences/INC-0011223344/appeal", fiber.Map{
		"reason": strings.Repeat("x", 200),
	})
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("db failure status = %d, want 500", resp.StatusCode)
	}
}

func TestDecideAppealStatusCodes(t *testing.T) {
	db := newHandlerDB(t)
	h := NewAppealHandler(services.NewAppealService(db, handlerConfig(), services.NewNotificationService(db)))

	moderator := uuid.New()
	app := fiber.New()
	app.Put("/appeals/:id/decision", asUser(moderator, h.DecideAppeal))

	putJSON := func(path string, payload interface{}) *http.Response {
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(fiber.MethodPut, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return resp
	}

	resp := putJSON("/appeals/"+uuid.New().String()+"/decision", fiber.Map{
		"final_decision": "MAYBE",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("invalid decision status = %d, want 400", resp.StatusCode)
	}

	closeDB(t, db)
	resp = putJSON("/appeals/"+uuid.New().String()+"/decision", fiber.Map{
		"final_decision": "OVERTURN",
	})
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("db failure status = %d, want 500", resp.StatusCode)
	}
}
