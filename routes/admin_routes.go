package routes

import (
	"github.com/proofcampus/backend/handlers"
	"github.com/proofcampus/backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:userId/role", handlers.UpdateUserRole)
	users.Put("/:userId/status", handlers.ToggleUserStatus)

	roleCodes := admin.Group("/role-codes")
	roleCodes.Post("", handlers.CreateRoleCode)
	roleCodes.Get("", handlers.ListRoleCodes)
	roleCodes.Delete("/:codeId", handlers.DeleteRoleCode)
}
