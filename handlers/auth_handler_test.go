package handlers

import (
	"testing"

	"github.com/proofcampus/backend/database"
	"github.com/proofcampus/backend/models"
	"github.com/gofiber/fiber/v2"
)

func newAuthTestApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/v1/auth/register", RegisterUser)
	return app
}

func seedRoleCode(t *testing.T, code, role string) *models.RoleCode {
	t.Helper()
	rc := &models.RoleCode{Code: code, Role: role}
	if err := database.DB.Create(rc).Error; err != nil {
		t.Fatalf("failed to seed role code: %v", err)
	}
	return rc
}

func TestRegisterDefaultsToStudent(t *testing.T) {
	setupTestDB(t)
	app := newAuthTestApp()

	resp := jsonRequest(t, app, "POST", "/api/v1/auth/register", map[string]string{
		"full_name": "Sam Student",
		"email":     "sam@example.com",
		"password":  "secret123",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var body UserResponse
	decodeJSON(t, resp, &body)
	if body.Role != "student" {
		t.Errorf("role = %q, want student", body.Role)
	}
}

func TestRegisterWithRoleCodeGrantsRoleAndConsumesCode(t *testing.T) {
	setupTestDB(t)
	app := newAuthTestApp()
	seedRoleCode(t, "LECT1234", "lecturer")

	resp := jsonRequest(t, app, "POST", "/api/v1/auth/register", map[string]string{
		"full_name": "Lee Lecturer",
		"email":     "lee@example.com",
		"password":  "secret123",
		"role_code": "lect1234 ",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var body UserResponse
	decodeJSON(t, resp, &body)
	if body.Role != "lecturer" {
		t.Errorf("role = %q, want lecturer", body.Role)
	}

	var rc models.RoleCode
	if err := database.DB.Where("code = ?", "LECT1234").First(&rc).Error; err != nil {
		t.Fatalf("failed to reload role code: %v", err)
	}
	if !rc.Used || rc.UsedBy == nil {
		t.Error("role code must be marked used by the new account")
	}
}

func TestRegisterRejectsConsumedRoleCode(t *testing.T) {
	setupTestDB(t)
	app := newAuthTestApp()
	seedRoleCode(t, "LECT1234", "lecturer")

	resp := jsonRequest(t, app, "POST", "/api/v1/auth/register", map[string]string{
		"full_name": "First User",
		"email":     "first@example.com",
		"password":  "secret123",
		"role_code": "LECT1234",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("first registration status = %d, want 201", resp.StatusCode)
	}

	resp = jsonRequest(t, app, "POST", "/api/v1/auth/register", map[string]string{
		"full_name": "Second User",
		"email":     "second@example.com",
		"password":  "secret123",
		"role_code": "LECT1234",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("reused code status = %d, want 400", resp.StatusCode)
	}

	var count int64
	database.DB.Model(&models.User{}).Where("email = ?", "second@example.com").Count(&count)
	if count != 0 {
		t.Error("registration with a consumed code must not create the account")
	}
}
