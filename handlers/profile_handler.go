package handlers

import (
	"github.com/proofcampus/backend/database"
	"github.com/proofcampus/backend/models"
	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	FullName          *string `json:"full_name"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

func GetProfile(c *fiber.Ctx) error {
	userID, _ := callerIdentity(c)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(user)
}

func UpdateProfile(c *fiber.Ctx) error {
	userID, _ := callerIdentity(c)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.ProfilePictureURL != nil {
		user.ProfilePictureURL = req.ProfilePictureURL
	}

	database.DB.Save(&user)

	return c.JSON(user)
}

// GetMyProgress summarizes the caller's tracked study activity.
func GetMyProgress(c *fiber.Ctx) error {
	userID, _ := callerIdentity(c)

	var totalSessions int64
	database.DB.Model(&models.StudySession{}).
		Where("user_id = ?", userID).
		Count(&totalSessions)

	var totalHours float64
	database.DB.Model(&models.StudySession{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(duration_hours), 0)").
		Row().Scan(&totalHours)

	var totalCourses int64
	database.DB.Model(&models.Course{}).
		Where("user_id = ?", userID).
		Count(&totalCourses)

	return c.JSON(fiber.Map{
		"total_study_sessions": totalSessions,
		"total_hours_studied":  totalHours,
		"total_courses":        totalCourses,
	})
}
