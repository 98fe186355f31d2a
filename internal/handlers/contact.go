package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bajraguru/internal/models"
)

// ContactHandler manages contact form submissions.
type ContactHandler struct {
	db *gorm.DB
}

// NewContactHandler constructs ContactHandler.
func NewContactHandler(db *gorm.DB) *ContactHandler {
	return &ContactHandler{db: db}
}

// ListMessages returns all contact messages, newest first (admin only).
func (h *ContactHandler) ListMessages(c *fiber.Ctx) error {
	var items []models.ContactMessage
	if err := h.db.Order("created_at desc").Find(&items).Error; err != nil {
		return err
	}
	if items == nil {
		items = []models.ContactMessage{}
	}
	return c.JSON(fiber.Map{"messages": items})
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// CreateMessage records a new contact message.
func (h *ContactHandler) CreateMessage(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	message := strings.TrimSpace(req.Message)

	switch {
	case name == "":
		return fiber.NewError(fiber.StatusBadRequest, "Name is required.")
	case email == "":
		return fiber.NewError(fiber.StatusBadRequest, "Email is required.")
	case message == "":
		return fiber.NewError(fiber.StatusBadRequest, "Message is required.")
	}

	item := models.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: strings.TrimSpace(req.Subject),
		Message: message,
	}

	if err := h.db.Create(&item).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": item})
}

// DeleteMessage removes a contact message (admin only).
func (h *ContactHandler) DeleteMessage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Message not found.")
	}

	var item models.ContactMessage
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Message not found.")
		}
		return err
	}

	if err := h.db.Delete(&item).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Message deleted successfully."})
}
