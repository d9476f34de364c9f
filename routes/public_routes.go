package routes

import (
	"github.com/proofcampus/backend/handlers"
	"github.com/gofiber/fiber/v2"
)

// PublicRoutes registers the unauthenticated surface: the verification
// page and the raw anchoring endpoint.
func PublicRoutes(app *fiber.App, verify *handlers.VerifyHandler, upload *handlers.UploadCertificateHandler) {
	app.Get("/verify/:id", verify.VerifyCertificate)
	app.Post("/api/uploadCertificate", upload.UploadCertificate)
}
