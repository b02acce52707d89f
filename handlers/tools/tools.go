package tools

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/services/tools"
	"github.com/sahilchouksey/skills-lab/utils/response"
)

type ToolsHandler struct {
	catalog *tools.Catalog
}

func NewToolsHandler(catalog *tools.Catalog) *ToolsHandler {
	return &ToolsHandler{catalog: catalog}
}

// GetTools handles GET /api/v1/tools?category=
func (h *ToolsHandler) GetTools(c *fiber.Ctx) error {
	return response.Success(c, h.catalog.Filter(c.Query("category")))
}
