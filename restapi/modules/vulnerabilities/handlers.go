// Package vulnerabilities proxies the external vulnerability feed with
// server-enforced defaults, filtering, and response trimming.
package vulnerabilities

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/chainguardia/chainguardia-backend/config"
	"github.com/chainguardia/chainguardia-backend/model"
	"github.com/chainguardia/chainguardia-backend/nvd"
	"github.com/chainguardia/chainguardia-backend/util"
)

// Feed responses are public data; safe to cache at the edge.
const cacheControl = "s-maxage=300, stale-while-revalidate=86400"

// Response is the success body of the feed proxy
type Response struct {
	Total           int                   `json:"total"`
	DateFilter      nvd.Window            `json:"dateFilter"`
	SeverityMin     string                `json:"severityMin"`
	ExcludeRejected bool                  `json:"excludeRejected"`
	Items           []model.Vulnerability `json:"items"`
}

// List proxies GET /vulnerabilities to the upstream feed, filtering and
// projecting the records server-side.
func List(client nvd.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := nvd.Query{
			Keyword:        c.Query("keywordSearch"),
			SinceDays:      queryInt(c, "sinceDays", 180),
			DateField:      c.Query("dateField", nvd.DateFieldPublished),
			StartIndex:     queryInt(c, "startIndex", 0),
			ResultsPerPage: queryInt(c, "resultsPerPage", 20),
		}
		severityMin := util.NormalizeSeverity(c.Query("severityMin", util.SeverityLow))
		excludeRejected := c.Query("excludeRejected", "true") == "true"

		upstream, window, err := client.Fetch(c.Context(), query)
		if err != nil {
			var upstreamErr *nvd.UpstreamError
			if errors.As(err, &upstreamErr) {
				// Deliberate fail-fast passthrough: callers can tell a
				// provider outage apart from local logic.
				return c.Status(upstreamErr.Status).JSON(fiber.Map{
					"error":  "NVD upstream error",
					"status": upstreamErr.Status,
					"body":   upstreamErr.Body,
					"hint":   "Check NVD availability / parameters",
				})
			}
			if errors.Is(err, nvd.ErrUpstreamTimeout) {
				return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
					"error": "NVD upstream timed out",
				})
			}
			body := fiber.Map{"error": "Failed to query vulnerability feed"}
			if !config.IsProduction() {
				body["message"] = err.Error()
			}
			return c.Status(fiber.StatusInternalServerError).JSON(body)
		}

		items := nvd.FilterAndProject(upstream.Vulnerabilities, nvd.FilterOptions{
			MinSeverity:     severityMin,
			ExcludeRejected: excludeRejected,
		})

		c.Set(fiber.HeaderCacheControl, cacheControl)

		return c.JSON(Response{
			Total:           len(items),
			DateFilter:      window,
			SeverityMin:     severityMin,
			ExcludeRejected: excludeRejected,
			Items:           items,
		})
	}
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
