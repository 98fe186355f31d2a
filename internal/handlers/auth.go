package handlers

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/bajraguru/internal/config"
	"github.com/example/bajraguru/internal/middleware"
	"github.com/example/bajraguru/internal/utils"
)

// AuthHandler implements the shared-secret admin gate. There is no user
// table: one password from the environment grants the admin role.
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login checks the admin password and issues a 24h JWT, set as an httpOnly
// cookie and returned in the body for bearer-style clients.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Password is required.")
	}

	if h.cfg.AdminPassword == "" || h.cfg.JWTSecret == "" {
		return fiber.NewError(fiber.StatusInternalServerError, "Server configuration error.")
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.AdminPassword)) != 1 {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid password.")
	}

	token, err := utils.GenerateAdminToken(h.cfg.JWTSecret, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	c.Cookie(h.tokenCookie(token, h.cfg.TokenExpires))

	return c.JSON(fiber.Map{
		"message": "Login successful.",
		"token":   token,
	})
}

// Logout clears the auth cookie. Bearer clients simply discard their token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(h.tokenCookie("", -time.Hour))
	return c.JSON(fiber.Map{"message": "Logged out."})
}

// Verify reports the validity of the presented token. Reaching this handler
// means the auth middleware already accepted it.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	role, _ := middleware.GetCurrentRole(c)
	return c.JSON(fiber.Map{
		"valid": true,
		"user":  fiber.Map{"role": role},
	})
}

func (h *AuthHandler) tokenCookie(value string, ttl time.Duration) *fiber.Cookie {
	sameSite := fiber.CookieSameSiteLaxMode
	if h.cfg.IsProduction() {
		sameSite = fiber.CookieSameSiteStrictMode
	}

	return &fiber.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: sameSite,
	}
}
