package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/database"
	"github.com/sahilchouksey/skills-lab/utils/response"
)

// HandleCheckHealth reports whether the API and its database are reachable
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if store != nil {
		if err := store.HealthCheck(); err != nil {
			return response.ServiceUnavailable(c, "Database unreachable")
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
