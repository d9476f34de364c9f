package routes

import (
	"github.com/proofcampus/backend/handlers"
	"github.com/proofcampus/backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	profile := api.Group("/profile")
	profile.Get("", handlers.GetProfile)
	profile.Put("", handlers.UpdateProfile)
	profile.Get("/progress", handlers.GetMyProgress)
}
