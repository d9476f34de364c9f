package handlers

import (
	"github.com/proofcampus/backend/database"
	"github.com/proofcampus/backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CourseRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Semester string `json:"semester" validate:"required,oneof=Fall Spring Summer Winter"`
	Year     string `json:"year" validate:"required,len=4,numeric"`
}

func CreateCourse(c *fiber.Ctx) error {
	userID, _ := callerIdentity(c)

	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	course := models.Course{
		UserID:   userID,
		Name:     req.Name,
		Semester: req.Semester,
		Year:     req.Year,
	}
	if err := database.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create course"})
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

func ListCourses(c *fiber.Ctx) error {
	userID, _ := callerIdentity(c)

	var courses []models.Course
	if err := database.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch courses"})
	}
	return c.JSON(courses)
}

func loadOwnedCourse(c *fiber.Ctx) (*models.Course, error) {
	userID, _ := callerIdentity(c)
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	var course models.Course
	if err := database.DB.Where("id = ? AND user_id = ?", courseID, userID).First(&course).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	return &course, nil
}

func UpdateCourse(c *fiber.Ctx) error {
	course, err := loadOwnedCourse(c)
	if course == nil {
		return err
	}

	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	course.Name = req.Name
	course.Semester = req.Semester
	course.Year = req.Year
	if err := database.DB.Save(course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update course"})
	}
	return c.JSON(course)
}

func DeleteCourse(c *fiber.Ctx) error {
	course, err := loadOwnedCourse(c)
	if course == nil {
		return err
	}
	if err := database.DB.Delete(course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete course"})
	}
	return c.JSON(fiber.Map{"message": "Course deleted"})
}
