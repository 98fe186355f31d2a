package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bajraguru/internal/models"
)

// FeedbackHandler manages customer feedback submissions.
type FeedbackHandler struct {
	db *gorm.DB
}

// NewFeedbackHandler constructs FeedbackHandler.
func NewFeedbackHandler(db *gorm.DB) *FeedbackHandler {
	return &FeedbackHandler{db: db}
}

// ListFeedback returns all feedback, newest first.
func (h *FeedbackHandler) ListFeedback(c *fiber.Ctx) error {
	var items []models.Feedback
	if err := h.db.Order("created_at desc").Find(&items).Error; err != nil {
		return err
	}
	if items == nil {
		items = []models.Feedback{}
	}
	return c.JSON(fiber.Map{"feedback": items})
}

type feedbackRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Rating         *int   `json:"rating"`
	ExperienceType string `json:"experience_type"`
	Message        string `json:"message"`
}

// CreateFeedback records a new submission. Only the message is mandatory.
func (h *FeedbackHandler) CreateFeedback(c *fiber.Ctx) error {
	var req feedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Message is required.")
	}

	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return fiber.NewError(fiber.StatusBadRequest, "Rating must be between 1 and 5.")
	}

	item := models.Feedback{
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.TrimSpace(req.Email),
		Rating:         req.Rating,
		ExperienceType: strings.TrimSpace(req.ExperienceType),
		Message:        message,
	}

	if err := h.db.Create(&item).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"feedback": item})
}

// DeleteFeedback removes a submission (admin only).
func (h *FeedbackHandler) DeleteFeedback(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Feedback not found.")
	}

	var item models.Feedback
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Feedback not found.")
		}
		return err
	}

	if err := h.db.Delete(&item).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Feedback deleted successfully."})
}
