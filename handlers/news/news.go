package news

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/services/news"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"github.com/sahilchouksey/skills-lab/utils/response"
)

// NewsHandler serves the aggregated AI news feed
type NewsHandler struct {
	news *news.Service
	log  *logger.Logger
}

func NewNewsHandler(svc *news.Service, log *logger.Logger) *NewsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &NewsHandler{news: svc, log: log.With("component", "news_handler")}
}

// GetNews handles GET /api/v1/news?region=&category=
func (h *NewsHandler) GetNews(c *fiber.Ctx) error {
	region := c.Query("region", news.RegionFinland)
	category := c.Query("category", news.CategoryAll)

	feed, err := h.news.Get(c.UserContext(), region, category)
	switch {
	case errors.Is(err, news.ErrUnknownRegion):
		return response.ValidationError(c, map[string]string{"region": "region must be one of: fi global"})
	case errors.Is(err, news.ErrUnknownCategory):
		return response.ValidationError(c, map[string]string{"category": "unknown category"})
	case err != nil:
		h.log.Error("failed to load news", "region", region, "category", category, "error", err)
		return response.InternalServerError(c, "Failed to fetch news")
	}
	return response.Success(c, feed)
}

// CategoriesResponse lists what GetNews accepts
type CategoriesResponse struct {
	Regions    []string                  `json:"regions"`
	Categories []news.CategoryVocabulary `json:"categories"`
}

// ListCategories handles GET /api/v1/news/categories
func (h *NewsHandler) ListCategories(c *fiber.Ctx) error {
	return response.Success(c, CategoriesResponse{
		Regions:    h.news.Regions(),
		Categories: h.news.Categories(),
	})
}
