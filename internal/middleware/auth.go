package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/bajraguru/internal/config"
	"github.com/example/bajraguru/internal/utils"
)

const roleContextKey = "currentRole"

// TokenCookieName is the httpOnly cookie carrying the admin JWT.
const TokenCookieName = "token"

// AuthMiddleware validates admin JWTs. The token is read from the httpOnly
// cookie first, falling back to an Authorization bearer header.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(TokenCookieName)
		if token == "" {
			authHeader := c.Get("Authorization")
			if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = parts[1]
			}
		}

		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Access denied. No token provided.")
		}

		role, err := utils.ParseToken(cfg.JWTSecret, token)
		if err != nil || role != utils.AdminRole {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token.")
		}

		c.Locals(roleContextKey, role)
		return c.Next()
	}
}

// GetCurrentRole extracts the authenticated role from context.
func GetCurrentRole(c *fiber.Ctx) (string, bool) {
	value := c.Locals(roleContextKey)
	if value == nil {
		return "", false
	}

	if role, ok := value.(string); ok {
		return role, true
	}

	return "", false
}
