package applications

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/chainguardia/chainguardia-backend/config"
	"github.com/chainguardia/chainguardia-backend/model"
	"github.com/chainguardia/chainguardia-backend/restapi/modules/auth"
	"github.com/chainguardia/chainguardia-backend/util"
)

// CreateRequest is the POST /applications payload; the user id is injected
// from the verified identity, never from the body.
type CreateRequest struct {
	Name     string `json:"name"`
	Vendor   string `json:"vendor"`
	Version  string `json:"version,omitempty"`
	Category string `json:"category,omitempty"`
}

// Validate rejects malformed payloads before any persistence runs
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.Vendor) == "" {
		return errors.New("vendor is required")
	}
	return nil
}

// List returns the caller's non-deleted applications
func List(inventory Inventory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apps, err := inventory.List(c.Context(), auth.UserID(c))
		if err != nil {
			return internalError(c, err)
		}
		return c.JSON(apps)
	}
}

// Create adds an application for the caller, restoring a soft-deleted
// record with the same identity tuple under its original id.
// 201 created, 200 restored, 409 active duplicate.
func Create(inventory Inventory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}
		if err := req.Validate(); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}

		app := model.NewApplication(auth.UserID(c), req.Name, req.Vendor, req.Version, req.Category)
		parsed := util.ParseSemanticVersion(app.Version)
		app.VersionMajor = parsed.Major
		app.VersionMinor = parsed.Minor
		app.VersionPatch = parsed.Patch

		result, err := inventory.CreateOrRestore(c.Context(), app)
		if errors.Is(err, ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Application already exists"})
		}
		if err != nil {
			return internalError(c, err)
		}

		status := fiber.StatusCreated
		if result.Restored {
			status = fiber.StatusOK
		}
		return c.Status(status).JSON(result.Application)
	}
}

// Delete soft-deletes the caller's application identified by ?id=.
// 400 missing id, 404 unknown or foreign-owned.
func Delete(inventory Inventory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Query("id")
		if id == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Application ID is required"})
		}

		err := inventory.SoftDelete(c.Context(), auth.UserID(c), id)
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Application not found or unauthorized"})
		}
		if err != nil {
			return internalError(c, err)
		}

		return c.JSON(fiber.Map{"message": "Application soft-deleted"})
	}
}

func internalError(c *fiber.Ctx, err error) error {
	body := fiber.Map{"message": "Internal server error"}
	if !config.IsProduction() {
		body["error"] = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(body)
}
