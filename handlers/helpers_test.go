package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/proofcampus/backend/database"
	"github.com/proofcampus/backend/ledger"
	"github.com/proofcampus/backend/models"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.RoleCode{},
		&models.Course{},
		&models.StudySession{},
		&models.Certificate{},
		&models.CertificateAnchor{},
		&models.StudentRecord{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	database.DB = db
}

// asUser mimics the jwt middleware by planting a parsed token in locals.
func asUser(userID uuid.UUID, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{
			"user_id": userID.String(),
			"role":    role,
		}})
		return c.Next()
	}
}

type fakeUploader struct {
	calls    int
	lastTags []ledger.Tag
	lastData []byte
	lastMIME string
	nextID   int
	err      error
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte, contentType string, tags []ledger.Tag) (*ledger.UploadResult, error) {
	f.calls++
	f.lastData = data
	f.lastMIME = contentType
	f.lastTags = tags
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	txID := fmt.Sprintf("tx-%d", f.nextID)
	return &ledger.UploadResult{TransactionID: txID, URL: "https://devnet.irys.xyz/" + txID}, nil
}

func (f *fakeUploader) tagValue(name string) string {
	for _, tag := range f.lastTags {
		if tag.Name == name {
			return tag.Value
		}
	}
	return ""
}

func jsonRequest(t *testing.T, app *fiber.App, method, target string, payload any) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
