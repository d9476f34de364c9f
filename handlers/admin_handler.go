package handlers

import (
	"github.com/proofcampus/backend/database"
	"github.com/proofcampus/backend/models"
	"github.com/proofcampus/backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Order("created_at desc").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}
	return c.JSON(users)
}

func UpdateUserRole(c *fiber.Ctx) error {
	type Request struct {
		Role string `json:"role" validate:"required,oneof=student lecturer admin"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.Role = req.Role
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user role"})
	}
	return c.JSON(user)
}

func ToggleUserStatus(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.IsActive = !user.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user status"})
	}
	return c.JSON(user)
}

// CreateRoleCode generates a single-use invitation code granting the
// lecturer or admin role at registration.
func CreateRoleCode(c *fiber.Ctx) error {
	type Request struct {
		Role string `json:"role" validate:"required,oneof=lecturer admin"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	code, err := utils.GenerateUniqueRoleCode(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate role code"})
	}

	roleCode := models.RoleCode{Code: code, Role: req.Role}
	if err := database.DB.Create(&roleCode).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create role code"})
	}
	return c.Status(fiber.StatusCreated).JSON(roleCode)
}

func ListRoleCodes(c *fiber.Ctx) error {
	var codes []models.RoleCode
	if err := database.DB.Order("created_at desc").Find(&codes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch role codes"})
	}
	return c.JSON(codes)
}

func DeleteRoleCode(c *fiber.Ctx) error {
	codeID, err := uuid.Parse(c.Params("codeId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Role code not found"})
	}

	var roleCode models.RoleCode
	if err := database.DB.Where("id = ?", codeID).First(&roleCode).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Role code not found"})
	}
	if roleCode.Used {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Used role codes cannot be deleted"})
	}

	if err := database.DB.Delete(&roleCode).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete role code"})
	}
	return c.JSON(fiber.Map{"message": "Role code deleted"})
}
