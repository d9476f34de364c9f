package routes

import (
	"github.com/proofcampus/backend/handlers"
	"github.com/proofcampus/backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func RecordRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	records := api.Group("/records")
	records.Post("", handlers.UploadStudentRecord)
	records.Get("", handlers.ListStudentRecords)
	records.Delete("/:recordId", handlers.DeleteStudentRecord)

	uploads := api.Group("/uploads")
	uploads.Get("/signature", handlers.GenerateUploadSignature)
}
