package handlers

import (
	"errors"
	"strconv"

	"github.com/feriahub/feria-backend/internal/dto"
	"github.com/feriahub/feria-backend/internal/middleware"
	"github.com/feriahub/feria-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PublicationHandler struct {
	publicationService *services.PublicationService
}

func NewPublicationHandler(publicationService *services.PublicationService) *PublicationHandler {
	return &PublicationHandler{publicationService: publicationService}
}

func (h *PublicationHandler) CreatePublication(c *fiber.Ctx) error {
	vendorID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreatePublicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	pub, err := h.publicationService.Create(vendorID, req.Name, req.Description, req.PriceCents)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(pub)
}

func (h *PublicationHandler) GetPublication(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid publication ID",
		})
	}

	pub, err := h.publicationService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrPublicationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch publication",
		})
	}
	return c.JSON(pub)
}

func (h *PublicationHandler) ListMyPublications(c *fiber.Ctx) error {
	vendorID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}

	pubs, total, err := h.publicationService.ListByVendor(vendorID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch publications",
		})
	}

	return c.JSON(fiber.Map{
		"publications": pubs,
		"total":        total,
		"limit":        limit,
		"offset":       offset,
	})
}
