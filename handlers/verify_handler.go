package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/proofcampus/backend/database"
	"github.com/proofcampus/backend/models"
	"github.com/proofcampus/backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerifyHandler serves the public, unauthenticated verification pages.
// It proves that a record exists and shows its metadata; it does not
// re-check the anchored bytes against their content id.
type VerifyHandler struct {
	// Origin used when deriving verification URLs; falls back to the
	// request's own base URL when empty.
	Origin string
}

func (h *VerifyHandler) origin(c *fiber.Ctx) string {
	if h.Origin != "" {
		return h.Origin
	}
	return c.BaseURL()
}

func (h *VerifyHandler) VerifyCertificate(c *fiber.Ctx) error {
	id := c.Params("id")

	// A malformed id can never match a record; this is the not-found
	// outcome, not a lookup failure.
	certID, err := uuid.Parse(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("verify_not_found", fiber.Map{"ID": id})
	}

	var cert models.Certificate
	err = database.DB.Preload("Anchors").Where("id = ?", certID).First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).Render("verify_not_found", fiber.Map{"ID": id})
	}
	if err != nil {
		log.Printf("🔥 Certificate lookup failed for %s: %v", id, err)
		return c.Status(fiber.StatusServiceUnavailable).Render("verify_error", fiber.Map{"ID": id})
	}

	verificationURL := services.VerificationURL(h.origin(c), cert.ID.String())
	qr, err := services.VerificationQR(verificationURL)
	if err != nil {
		log.Printf("Failed to render QR code for %s: %v", id, err)
		qr = ""
	}

	return c.Render("verify", fiber.Map{
		"ID":              cert.ID.String(),
		"StudentName":     cert.StudentName,
		"CourseTitle":     cert.CourseTitle,
		"Issuer":          cert.Issuer,
		"CompletionDate":  cert.CompletionDate,
		"CreatedAt":       cert.CreatedAt.Format(time.RFC1123),
		"UpdatedAt":       cert.UpdatedAt.Format(time.RFC1123),
		"Anchors":         cert.Anchors,
		"VerificationURL": verificationURL,
		"QRCode":          qr,
	})
}
