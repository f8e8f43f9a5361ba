package handlers

import (
	"errors"
	"strconv"

	"github.com/feriahub/feria-backend/internal/dto"
	"github.com/feriahub/feria-backend/internal/middleware"
	"github.com/feriahub/feria-backend/internal/models"
	"github.com/feriahub/feria-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ModerationHandler struct {
	incidenceService  *services.IncidenceService
	assignmentService *services.AssignmentService
	releaseService    *services.ReleaseService
	authService       *services.AuthService
}

func NewModerationHandler(
	incidenceService *services.IncidenceService,
	assignmentService *services.AssignmentService,
	releaseService *services.ReleaseService,
	authService *services.AuthService,
) *ModerationHandler {
	return &ModerationHandler{
		incidenceService:  incidenceService,
		assignmentService: assignmentService,
		releaseService:    releaseService,
		authService:       authService,
	}
}

func (h *ModerationHandler) CreateReport(c *fiber.Ctx) error {
	reporterID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	outcome, err := h.incidenceService.ReportPublication(req.PublicationID, reporterID, req.Reason, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPublicationNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrConcurrentReport):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrPublicationUnderReview),
			errors.Is(err, services.ErrIncidenceAppealed),
			errors.Is(err, services.ErrReportInvalid):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create report",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(outcome)
}

func (h *ModerationHandler) ClaimIncidence(c *fiber.Ctx) error {
	moderatorID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	if err := h.incidenceService.Claim(c.Params("id"), moderatorID); err != nil {
		if errors.Is(err, services.ErrIncidenceNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrIncidenceAlreadyClaimed) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to claim incidence",
		})
	}

	return c.JSON(fiber.Map{"message": "Incidence claimed"})
}

func (h *ModerationHandler) DecideIncidence(c *fiber.Ctx) error {
	moderatorID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.DecideIncidenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	err = h.incidenceService.Decide(c.Params("id"), moderatorID, req.Comment, models.IncidenceDecision(req.Decision))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrIncidenceNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrNotAssignedModerator):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrIncidenceAlreadyDecided):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrIncidenceNotUnderReview),
			errors.Is(err, services.ErrInvalidDecision),
			errors.Is(err, services.ErrCommentTooLong):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to decide incidence",
		})
	}

	return c.JSON(fiber.Map{"message": "Incidence decided"})
}

func (h *ModerationHandler) GetIncidence(c *fiber.Ctx) error {
	inc, err := h.incidenceService.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrIncidenceNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch incidence",
		})
	}
	return c.JSON(inc)
}

func (h *ModerationHandler) ListIncidences(c *fiber.Ctx) error {
	status := c.Query("status", "")
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	if limit > 100 {
		limit = 100
	}

	incidences, total, err := h.incidenceService.List(status, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch incidences",
		})
	}

	return c.JSON(fiber.Map{
		"incidences": incidences,
		"total":      total,
		"limit":      limit,
		"offset":     offset,
	})
}

func (h *ModerationHandler) Workloads(c *fiber.Ctx) error {
	workloads, err := h.assignmentService.Workloads()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch workloads",
		})
	}
	return c.JSON(fiber.Map{"workloads": workloads})
}

// ReleaseModerator demotes the moderator and returns their claimed work to
// the unassigned pool.
func (h *ModerationHandler) ReleaseModerator(c *fiber.Ctx) error {
	moderatorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid moderator ID",
		})
	}

	if err := h.authService.Demote(moderatorID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to demote moderator",
		})
	}

	summary, err := h.releaseService.Release(moderatorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Moderator demoted, release incomplete: " + err.Error(),
		})
	}

	return c.JSON(summary)
}
