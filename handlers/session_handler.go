package handlers

import (
	"time"

	"github.com/proofcampus/backend/database"
	"github.com/proofcampus/backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StudySessionRequest struct {
	Topic         string  `json:"topic" validate:"required,min=2"`
	DurationHours float64 `json:"duration_hours" validate:"required,gt=0"`
	Date          string  `json:"date" validate:"required"`
}

func CreateStudySession(c *fiber.Ctx) error {
	userID, _ := callerIdentity(c)

	var req StudySessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Date must be in YYYY-MM-DD format"})
	}

	session := models.StudySession{
		UserID:        userID,
		Topic:         req.Topic,
		DurationHours: req.DurationHours,
		Date:          date,
	}
	if err := database.DB.Create(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create study session"})
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func ListStudySessions(c *fiber.Ctx) error {
	userID, _ := callerIdentity(c)

	var sessions []models.StudySession
	if err := database.DB.Where("user_id = ?", userID).Order("date desc").Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch study sessions"})
	}
	return c.JSON(sessions)
}

func loadOwnedStudySession(c *fiber.Ctx) (*models.StudySession, error) {
	userID, _ := callerIdentity(c)
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Study session not found"})
	}

	var session models.StudySession
	if err := database.DB.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Study session not found"})
	}
	return &session, nil
}

func UpdateStudySession(c *fiber.Ctx) error {
	session, err := loadOwnedStudySession(c)
	if session == nil {
		return err
	}

	var req StudySessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Date must be in YYYY-MM-DD format"})
	}

	session.Topic = req.Topic
	session.DurationHours = req.DurationHours
	session.Date = date
	if err := database.DB.Save(session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update study session"})
	}
	return c.JSON(session)
}

func DeleteStudySession(c *fiber.Ctx) error {
	session, err := loadOwnedStudySession(c)
	if session == nil {
		return err
	}
	if err := database.DB.Delete(session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete study session"})
	}
	return c.JSON(fiber.Map{"message": "Study session deleted"})
}
