package handlers

import (
	"context"
	"encoding/base64"
	"regexp"
	"time"

	"github.com/proofcampus/backend/services"
	"github.com/gofiber/fiber/v2"
)

const DefaultMaxCertificatePayload = 10 * 1024 * 1024 // 10MB

var dataURLPrefix = regexp.MustCompile(`^data:[^;]+;base64,`)

// UploadCertificateHandler serves the raw anchoring endpoint: the caller
// supplies an already rendered artifact as base64 and gets back the
// permanent transaction id and gateway URL.
type UploadCertificateHandler struct {
	Uploader        ArtifactUploader
	MaxPayloadBytes int
}

type uploadCertificateRequest struct {
	CertificateData string `json:"certificateData"`
	FileType        string `json:"fileType"`
	StudentName     string `json:"studentName"`
	CourseTitle     string `json:"courseTitle"`
	CompletionDate  string `json:"completionDate"`
}

func (h *UploadCertificateHandler) maxPayload() int {
	if h.MaxPayloadBytes > 0 {
		return h.MaxPayloadBytes
	}
	return DefaultMaxCertificatePayload
}

func (h *UploadCertificateHandler) UploadCertificate(c *fiber.Ctx) error {
	var req uploadCertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.CertificateData == "" || req.FileType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields: certificateData and fileType"})
	}
	if !services.SupportedFileType(req.FileType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file type. Only PNG and PDF are supported."})
	}

	base64Data := dataURLPrefix.ReplaceAllString(req.CertificateData, "")
	if base64.StdEncoding.DecodedLen(len(base64Data)) > h.maxPayload() {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "Certificate payload exceeds the size limit"})
	}

	artifact, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid base64 data"})
	}
	if len(artifact) > h.maxPayload() {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "Certificate payload exceeds the size limit"})
	}

	tags := certificateTags(req.StudentName, req.CourseTitle, req.CompletionDate)
	ctx, cancel := context.WithTimeout(c.UserContext(), 60*time.Second)
	defer cancel()

	result, err := h.Uploader.Upload(ctx, artifact, req.FileType, tags)
	if err != nil {
		return uploadErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"transactionId": result.TransactionID,
		"url":           result.URL,
		"message":       "Certificate uploaded successfully",
	})
}
