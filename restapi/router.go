// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/chainguardia/chainguardia-backend/alerts"
	"github.com/chainguardia/chainguardia-backend/database"
	"github.com/chainguardia/chainguardia-backend/nvd"
	"github.com/chainguardia/chainguardia-backend/restapi/modules/alertcenter"
	"github.com/chainguardia/chainguardia-backend/restapi/modules/applications"
	"github.com/chainguardia/chainguardia-backend/restapi/modules/auth"
	"github.com/chainguardia/chainguardia-backend/restapi/modules/vulnerabilities"
)

// Resources are the collaborators the route handlers close over
type Resources struct {
	DB           database.DBConnection
	Applications applications.Inventory
	Alerts       alerts.Store
	Feed         nvd.Client
	Schema       graphql.Schema
}

// SetupRoutes configures all REST API routes and the GraphQL endpoint.
// CORS is handled globally in internal/api/fiber.go so every response
// path, error paths included, carries the cross-origin headers.
func SetupRoutes(app *fiber.App, res Resources) {

	// API Group /api/v1
	api := app.Group("/api/v1")

	// Auth Routes
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", auth.Signup(res.DB))
	authGroup.Post("/login", auth.Login(res.DB))
	authGroup.Post("/logout", auth.Logout())
	authGroup.Get("/me", auth.RequireAuth, auth.Me(res.DB))

	// Application Inventory
	api.Get("/applications", auth.RequireAuth, applications.List(res.Applications))
	api.Post("/applications", auth.RequireAuth, applications.Create(res.Applications))
	api.Delete("/applications", auth.RequireAuth, applications.Delete(res.Applications))

	// Vulnerability feed proxy (public data, cacheable)
	api.Get("/vulnerabilities", vulnerabilities.List(res.Feed))

	// Alert Center
	alertGroup := api.Group("/alerts", auth.RequireAuth)
	alertGroup.Get("/", alertcenter.List(res.Alerts))
	alertGroup.Get("/stats", alertcenter.Stats(res.Alerts))
	alertGroup.Post("/read", alertcenter.MarkRead(res.Alerts))
	alertGroup.Delete("/:id", alertcenter.Delete(res.Alerts))

	// GraphQL dashboard
	api.Post("/graphql", auth.RequireAuth, GraphQLHandler(res.Schema))

	database.Logger().Sugar().Infof("API routes initialized successfully")
}
