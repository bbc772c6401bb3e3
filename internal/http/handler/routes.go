package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"docman/internal/http/middleware"
	"docman/internal/model"
	"docman/internal/service"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Documents       service.DocumentService
	LenderDocuments service.LenderDocumentService
	Lenders         service.LenderService
	Profiles        service.ProfileService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Everything except the health checks requires the gateway identity headers.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	auth := middleware.Actor(svc.Profiles)
	perm := middleware.RequirePermission
	superuser := middleware.RequireSuperuser()

	app.Get("/lenders", auth, superuser, ListLenders(svc.Lenders))
	app.Post("/lenders", auth, superuser, CreateLender(svc.Lenders))
	app.Get("/lenders/:id", auth, superuser, GetLender(svc.Lenders))

	app.Get("/lender-documents", auth, perm(model.PermReadDocument), ListLenderDocuments(svc.LenderDocuments))
	app.Post("/lender-documents", auth, perm(model.PermCreateLenderDocument), CreateLenderDocument(svc.LenderDocuments))
	app.Get("/lender-documents/:id", auth, perm(model.PermReadDocument), GetLenderDocument(svc.LenderDocuments))

	app.Get("/documents", auth, perm(model.PermReadDocument), ListDocuments(svc.Documents))
	app.Post("/documents", auth, perm(model.PermDraftDocument), CreateDraft(svc.Documents))
	app.Get("/documents/:id", auth, perm(model.PermReadDocument), GetDocument(svc.Documents))
	app.Post("/documents/:id/publish", auth, perm(model.PermPublishDocument), PublishDocument(svc.Documents))
	app.Post("/documents/:id/revert", auth, perm(model.PermDraftDocument), RevertDocument(svc.Documents))

	app.Post("/users/:id/profile", auth, superuser, CreateProfile(svc.Profiles))
	app.Put("/users/:id/profile", auth, superuser, AssignLender(svc.Profiles))
}
