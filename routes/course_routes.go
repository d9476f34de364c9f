package routes

import (
	"github.com/proofcampus/backend/handlers"
	"github.com/proofcampus/backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func CourseRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	courses := api.Group("/courses")
	courses.Post("", handlers.CreateCourse)
	courses.Get("", handlers.ListCourses)
	courses.Put("/:courseId", handlers.UpdateCourse)
	courses.Delete("/:courseId", handlers.DeleteCourse)
}
