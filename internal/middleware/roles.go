package middleware

import (
	"strings"

	"github.com/feriahub/feria-backend/internal/config"
	"github.com/feriahub/feria-backend/internal/dto"
	"github.com/feriahub/feria-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModeratorRequired admits moderators and admins. The role in the token is
// not trusted on its own: the DB row is checked so demotion and release take
// effect without waiting for token expiry.
func ModeratorRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return requireRole(db, cfg, models.RoleModerator, models.RoleAdmin)
}

// AdminRequired admits admins, plus config-based admin emails and the static
// admin token for ops tooling.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return requireRole(db, cfg, models.RoleAdmin)
}

func requireRole(db *gorm.DB, cfg *config.Config, roles ...string) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}

		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid claims",
			})
		}

		email, _ := claims["email"].(string)
		sub, _ := claims["sub"].(string)

		if contains(adminEmails, email) {
			return c.Next()
		}

		if sub != "" {
			userID, err := uuid.Parse(sub)
			if err == nil {
				var user models.User
				if err := db.Where("id = ? AND deleted_at IS NULL", userID).First(&user).Error; err == nil {
					if contains(roles, user.Role) {
						return c.Next()
					}
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Insufficient role",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
