package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	config "github.com/proofcampus/backend/configs"
	"github.com/proofcampus/backend/database"
	"github.com/proofcampus/backend/ledger"
	"github.com/proofcampus/backend/models"
	"github.com/proofcampus/backend/notifications"
	"github.com/proofcampus/backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArtifactUploader is the slice of the ledger client the certificate
// handlers need; tests substitute a fake.
type ArtifactUploader interface {
	Upload(ctx context.Context, data []byte, contentType string, tags []ledger.Tag) (*ledger.UploadResult, error)
}

type CertificateHandler struct {
	Renderer *services.CertificateRenderer
	Uploader ArtifactUploader
}

type CreateCertificateRequest struct {
	StudentName    string  `json:"student_name" validate:"required,min=2"`
	CourseTitle    string  `json:"course_title" validate:"required,min=2"`
	Issuer         string  `json:"issuer"`
	CompletionDate string  `json:"completion_date"`
	StudentEmail   *string `json:"student_email,omitempty" validate:"omitempty,email"`
}

type AnchorRequest struct {
	FileType string `json:"file_type" validate:"required"`
}

func callerIdentity(c *fiber.Ctx) (uuid.UUID, string) {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	role, _ := claims["role"].(string)
	return userID, role
}

func (h *CertificateHandler) CreateCertificate(c *fiber.Ctx) error {
	var req CreateCertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID, _ := callerIdentity(c)
	cert := models.Certificate{
		StudentName:    req.StudentName,
		CourseTitle:    req.CourseTitle,
		Issuer:         req.Issuer,
		CompletionDate: req.CompletionDate,
		StudentEmail:   req.StudentEmail,
		CreatedBy:      userID,
	}
	if err := database.DB.Create(&cert).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create certificate"})
	}

	go notifications.SendCertificateIssuedEmail(cert, config.ConfigDefault("PUBLIC_ORIGIN", "http://localhost:3000"))

	return c.Status(fiber.StatusCreated).JSON(cert)
}

func (h *CertificateHandler) ListCertificates(c *fiber.Ctx) error {
	userID, role := callerIdentity(c)

	var certs []models.Certificate
	query := database.DB.Preload("Anchors").Order("created_at desc")
	if role != "admin" {
		query = query.Where("created_by = ?", userID)
	}
	if err := query.Find(&certs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch certificates"})
	}
	return c.JSON(certs)
}

func (h *CertificateHandler) GetCertificate(c *fiber.Ctx) error {
	certID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Certificate not found"})
	}

	var cert models.Certificate
	if err := database.DB.Preload("Anchors").Where("id = ?", certID).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Certificate not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch certificate"})
	}
	return c.JSON(cert)
}

// loadOwnedCertificate fetches a certificate the caller may operate on:
// its issuer, or any admin.
func loadOwnedCertificate(c *fiber.Ctx) (*models.Certificate, error) {
	certID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Certificate not found"})
	}

	var cert models.Certificate
	if err := database.DB.Preload("Anchors").Where("id = ?", certID).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Certificate not found"})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch certificate"})
	}

	userID, role := callerIdentity(c)
	if role != "admin" && cert.CreatedBy != userID {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden: not the issuer of this certificate"})
	}
	return &cert, nil
}

func (h *CertificateHandler) UpdateCertificate(c *fiber.Ctx) error {
	cert, err := loadOwnedCertificate(c)
	if cert == nil {
		return err
	}
	if len(cert.Anchors) > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Certificate is anchored and can no longer be modified"})
	}

	var req CreateCertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	cert.StudentName = req.StudentName
	cert.CourseTitle = req.CourseTitle
	cert.Issuer = req.Issuer
	cert.CompletionDate = req.CompletionDate
	cert.StudentEmail = req.StudentEmail
	if err := database.DB.Save(cert).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update certificate"})
	}
	return c.JSON(cert)
}

func (h *CertificateHandler) DeleteCertificate(c *fiber.Ctx) error {
	cert, err := loadOwnedCertificate(c)
	if cert == nil {
		return err
	}
	if len(cert.Anchors) > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Certificate is anchored; anchored records cannot be deleted"})
	}

	if err := database.DB.Delete(cert).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete certificate"})
	}
	return c.JSON(fiber.Map{"message": "Certificate deleted"})
}

// RenderCertificate returns the rendered artifact without anchoring it,
// for preview and download.
func (h *CertificateHandler) RenderCertificate(c *fiber.Ctx) error {
	cert, err := loadOwnedCertificate(c)
	if cert == nil {
		return err
	}

	fileType := services.MIMEPNG
	if c.Query("format") == "pdf" {
		fileType = services.MIMEPDF
	}

	artifact, err := h.Renderer.Render(certificateFields(cert), fileType)
	if err != nil {
		log.Printf("🔥 Failed to render certificate %s: %v", cert.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to render certificate", "code": "render_failed"})
	}

	c.Set("Content-Type", fileType)
	return c.Send(artifact)
}

// AnchorCertificate renders the certificate and uploads the artifact to
// the content-addressed ledger, then appends the anchor record. The
// record is written only after the node confirms a transaction id, so a
// failed upload never leaves the certificate marked as anchored.
func (h *CertificateHandler) AnchorCertificate(c *fiber.Ctx) error {
	cert, err := loadOwnedCertificate(c)
	if cert == nil {
		return err
	}

	var req AnchorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if !services.SupportedFileType(req.FileType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file type. Only PNG and PDF are supported."})
	}

	artifact, err := h.Renderer.Render(certificateFields(cert), req.FileType)
	if err != nil {
		log.Printf("🔥 Failed to render certificate %s: %v", cert.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to render certificate", "code": "render_failed"})
	}

	tags := certificateTags(cert.StudentName, cert.CourseTitle, cert.CompletionDate)
	ctx, cancel := context.WithTimeout(c.UserContext(), 60*time.Second)
	defer cancel()

	result, err := h.Uploader.Upload(ctx, artifact, req.FileType, tags)
	if err != nil {
		return uploadErrorResponse(c, err)
	}

	anchor := models.CertificateAnchor{
		CertificateID: cert.ID,
		FileType:      req.FileType,
		TransactionID: result.TransactionID,
		URL:           result.URL,
		UploadedAt:    time.Now().UTC(),
	}
	if err := database.DB.Create(&anchor).Error; err != nil {
		// The upload itself is permanent; keep the id in the logs so an
		// operator can reconcile.
		log.Printf("🔥 Anchor persisted on ledger (tx %s) but record insert failed for certificate %s: %v", result.TransactionID, cert.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Upload confirmed but anchor record could not be saved", "code": "anchor_persist_failed", "transactionId": result.TransactionID})
	}

	log.Printf("✅ Anchored certificate %s as %s (tx %s)", cert.ID, req.FileType, result.TransactionID)
	return c.Status(fiber.StatusCreated).JSON(anchor)
}

func certificateFields(cert *models.Certificate) services.CertificateFields {
	return services.CertificateFields{
		StudentName:    cert.StudentName,
		CourseTitle:    cert.CourseTitle,
		Issuer:         cert.Issuer,
		CompletionDate: cert.CompletionDate,
		ID:             cert.ID.String(),
	}
}

func certificateTags(studentName, courseTitle, completionDate string) []ledger.Tag {
	if studentName == "" {
		studentName = "Unknown"
	}
	if courseTitle == "" {
		courseTitle = "Unknown"
	}
	if completionDate == "" {
		completionDate = time.Now().UTC().Format(time.RFC3339)
	}
	return []ledger.Tag{
		{Name: "Type", Value: "Certificate"},
		{Name: "Student", Value: studentName},
		{Name: "Course", Value: courseTitle},
		{Name: "CompletionDate", Value: completionDate},
		{Name: "UploadedAt", Value: time.Now().UTC().Format(time.RFC3339)},
	}
}

func uploadErrorResponse(c *fiber.Ctx, err error) error {
	if errors.Is(err, ledger.ErrInsufficientFunds) {
		log.Printf("🔥 Upload refused, wallet needs funding: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Upload wallet has insufficient funds; try again after the next funding pass",
			"code":  "insufficient_funds",
		})
	}

	var uploadErr *ledger.UploadError
	if errors.As(err, &uploadErr) && uploadErr.StatusUnknown {
		log.Printf("🔥 Upload status unknown: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "Failed to upload certificate",
			"details": "upload status unknown: the transaction may still land, re-check before retrying",
			"code":    "upload_status_unknown",
		})
	}

	log.Printf("🔥 Failed to upload certificate artifact: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Failed to upload certificate",
		"details": err.Error(),
		"code":    "upload_failed",
	})
}
