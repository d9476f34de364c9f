package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	config "github.com/proofcampus/backend/configs"
	"github.com/proofcampus/backend/database"
	"github.com/proofcampus/backend/models"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const recordsFolder = "proofcampus_records"

// UploadStudentRecord stores a result or certificate document for the
// caller in Cloudinary and records its metadata. Unlike anchored
// certificate artifacts, these files live in mutable storage and can be
// deleted.
func UploadStudentRecord(c *fiber.Ctx) error {
	userID, _ := callerIdentity(c)

	recordType := c.FormValue("type")
	if recordType != "result" && recordType != "certificate" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Type must be 'result' or 'certificate'"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing file upload"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read uploaded file"})
	}
	defer file.Close()

	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to initialize file storage"})
	}

	publicID := fmt.Sprintf("%s/%s_%s", recordsFolder, userID, uuid.New().String())
	ctx, cancel := context.WithTimeout(c.UserContext(), 30*time.Second)
	defer cancel()

	uploadResult, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       recordsFolder,
		ResourceType: "raw",
	})
	if err != nil {
		log.Printf("🔥 Failed to upload student record for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload file"})
	}

	record := models.StudentRecord{
		UserID:   userID,
		Filename: fileHeader.Filename,
		FileURL:  uploadResult.SecureURL,
		PublicID: uploadResult.PublicID,
		Type:     recordType,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		// Roll the orphaned file back so storage and metadata stay in sync.
		if _, destroyErr := cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: uploadResult.PublicID, ResourceType: "raw"}); destroyErr != nil {
			log.Printf("🔥 Failed to clean up orphaned upload %s: %v", uploadResult.PublicID, destroyErr)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save file metadata"})
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func ListStudentRecords(c *fiber.Ctx) error {
	userID, _ := callerIdentity(c)

	var records []models.StudentRecord
	if err := database.DB.Where("user_id = ?", userID).Order("uploaded_at desc").Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch records"})
	}
	return c.JSON(records)
}

func DeleteStudentRecord(c *fiber.Ctx) error {
	userID, _ := callerIdentity(c)
	recordID, err := uuid.Parse(c.Params("recordId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Record not found"})
	}

	var record models.StudentRecord
	if err := database.DB.Where("id = ? AND user_id = ?", recordID, userID).First(&record).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Record not found"})
	}

	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to initialize file storage"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 30*time.Second)
	defer cancel()
	if _, err := cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: record.PublicID, ResourceType: "raw"}); err != nil {
		log.Printf("🔥 Failed to delete stored file %s: %v", record.PublicID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete stored file"})
	}

	if err := database.DB.Delete(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete record"})
	}
	return c.JSON(fiber.Map{"message": "Record deleted"})
}
