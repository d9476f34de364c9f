package routes

import (
	"github.com/proofcampus/backend/handlers"
	"github.com/proofcampus/backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func CertificateRoutes(app *fiber.App, h *handlers.CertificateHandler) {
	api := app.Group("/api/v1")

	certs := api.Group("/certificates", middleware.Protected(), middleware.LecturerRequired())
	certs.Post("", h.CreateCertificate)
	certs.Get("", h.ListCertificates)
	certs.Get("/:id", h.GetCertificate)
	certs.Put("/:id", h.UpdateCertificate)
	certs.Delete("/:id", h.DeleteCertificate)
	certs.Get("/:id/render", h.RenderCertificate)
	certs.Post("/:id/anchor", h.AnchorCertificate)
}
