// Package api builds the configured Fiber application.
package api

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/chainguardia/chainguardia-backend/config"
	gqlschema "github.com/chainguardia/chainguardia-backend/graphql"
	"github.com/chainguardia/chainguardia-backend/graphql/modules/dashboard"
	"github.com/chainguardia/chainguardia-backend/restapi"
)

// NewFiberApp creates and configures a Fiber app with REST and GraphQL routes
func NewFiberApp(res restapi.Resources) *fiber.App {
	schema, err := gqlschema.CreateSchema(dashboard.Resources{
		Alerts:       res.Alerts,
		Applications: res.Applications,
	})
	if err != nil {
		log.Fatalf("Failed to create GraphQL schema: %v", err)
	}
	res.Schema = schema

	app := fiber.New(fiber.Config{
		AppName:     "chainguardia-backend API v1.0",
		ReadTimeout: 60 * time.Second,
	})

	// Middleware
	app.Use(fiberrecover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	// Consolidated CORS configuration; preflight OPTIONS returns 204 with
	// headers only.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnvDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173,https://chainguardia.vercel.app"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		AllowMethods:     "GET, POST, HEAD, PUT, DELETE, PATCH, OPTIONS",
	}))

	app.Use(logger.New())

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	// Setup REST and GraphQL routes
	restapi.SetupRoutes(app, res)

	return app
}
