package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"bizdocs/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; all business logic lives in the injected services.
func RegisterRoutes(app *fiber.App, db *sql.DB, bizSvc service.BusinessService, docSvc service.DocumentService) {
	// Health endpoints
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Business registration and listing
	app.Post("/business/register", RegisterBusiness(bizSvc))
	app.Get("/businesses", ListBusinesses(bizSvc))

	// Document upload requires a valid api key; the account is derived from it
	app.Post("/document/upload", RequireAPIKey(bizSvc), UploadDocument(docSvc))

	// Document listing / single-document download per account
	app.Get("/document/:account_id", ListAccountDocuments(docSvc))
}
