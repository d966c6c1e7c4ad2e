// Package alertcenter exposes the alert lifecycle over REST: filtered
// retrieval, read marking, deletion, and dashboard stats.
package alertcenter

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chainguardia/chainguardia-backend/alerts"
	"github.com/chainguardia/chainguardia-backend/config"
	"github.com/chainguardia/chainguardia-backend/model"
	"github.com/chainguardia/chainguardia-backend/restapi/modules/auth"
	"github.com/chainguardia/chainguardia-backend/util"
)

// MarkReadRequest is the POST /alerts/read payload
type MarkReadRequest struct {
	IDs []string `json:"ids"`
}

// List returns the caller's alerts, newest first, optionally narrowed by
// ?severity=, ?unreadOnly=true and ?limit=.
func List(store alerts.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts := alerts.FilterOptions{
			UnreadOnly: c.Query("unreadOnly") == "true",
			Limit:      c.QueryInt("limit"),
		}
		if severity := c.Query("severity"); severity != "" {
			opts.Severity = util.NormalizeSeverity(severity)
		}

		matched, err := store.Filter(c.Context(), auth.UserID(c), opts)
		if err != nil {
			return internalError(c, err)
		}
		if matched == nil {
			matched = []model.Alert{}
		}
		return c.JSON(matched)
	}
}

// MarkRead sets read=true on the listed alerts. Idempotent: re-marking a
// read alert leaves it unchanged, unknown ids are ignored.
func MarkRead(store alerts.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req MarkReadRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}
		if len(req.IDs) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Alert ids are required"})
		}

		if err := store.MarkAsRead(c.Context(), auth.UserID(c), req.IDs); err != nil {
			return internalError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Alerts marked as read"})
	}
}

// Delete permanently removes one alert. Deleting an id that does not
// exist is a no-op, not an error.
func Delete(store alerts.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Alert ID is required"})
		}

		if _, err := store.Delete(c.Context(), auth.UserID(c), id); err != nil {
			return internalError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Alert deleted"})
	}
}

// Stats summarizes the caller's alerts for the dashboard
func Stats(store alerts.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := store.Stats(c.Context(), auth.UserID(c))
		if err != nil {
			return internalError(c, err)
		}
		return c.JSON(stats)
	}
}

func internalError(c *fiber.Ctx, err error) error {
	body := fiber.Map{"message": "Internal server error"}
	if !config.IsProduction() {
		body["error"] = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(body)
}
