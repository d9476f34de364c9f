package routes

import (
	"github.com/proofcampus/backend/handlers"
	"github.com/proofcampus/backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func SessionRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	sessions := api.Group("/study-sessions")
	sessions.Post("", handlers.CreateStudySession)
	sessions.Get("", handlers.ListStudySessions)
	sessions.Put("/:sessionId", handlers.UpdateStudySession)
	sessions.Delete("/:sessionId", handlers.DeleteStudySession)
}
