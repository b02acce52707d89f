package achievement

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/handlers"
	"github.com/sahilchouksey/skills-lab/services"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"github.com/sahilchouksey/skills-lab/utils/middleware"
	"github.com/sahilchouksey/skills-lab/utils/response"
)

// AchievementHandler serves achievements and dashboard aggregates
type AchievementHandler struct {
	achievements *services.AchievementService
	log          *logger.Logger
}

func NewAchievementHandler(achievements *services.AchievementService, log *logger.Logger) *AchievementHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AchievementHandler{achievements: achievements, log: log.With("component", "achievement_handler")}
}

// ListAchievements handles GET /api/v1/achievements
func (h *AchievementHandler) ListAchievements(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	achievements, err := h.achievements.ListAchievements(c.UserContext(), userID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch achievements")
	}
	return response.Success(c, achievements)
}

// CompletedCourses handles GET /api/v1/achievements/completed
func (h *AchievementHandler) CompletedCourses(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	groups, err := h.achievements.CompletedCoursesByCategory(c.UserContext(), userID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch completed courses")
	}
	return response.Success(c, groups)
}

// DashboardStats handles GET /api/v1/dashboard/stats
func (h *AchievementHandler) DashboardStats(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	stats, err := h.achievements.Stats(c.UserContext(), userID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch stats")
	}
	return response.Success(c, stats)
}
