package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/handlers"
	"github.com/sahilchouksey/skills-lab/model"
	"github.com/sahilchouksey/skills-lab/utils/middleware"
	"github.com/sahilchouksey/skills-lab/utils/response"
)

// UpdatePreferencesRequest represents a preferences update
type UpdatePreferencesRequest struct {
	DailyGoalMinutes int   `json:"daily_goal_minutes" validate:"required,min=5,max=480"`
	Notifications    *bool `json:"notifications" validate:"required"`
}

// GetProfile handles GET /api/v1/profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	user, err := h.profiles.GetProfile(c.UserContext(), userID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch profile")
	}
	return response.Success(c, user)
}

// UpdatePreferences handles PUT /api/v1/profile/preferences
func (h *AuthHandler) UpdatePreferences(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req UpdatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if errs := h.validator.ValidateStruct(req); errs != nil {
		return response.ValidationError(c, errs)
	}

	user, err := h.profiles.UpdatePreferences(c.UserContext(), userID, model.Preferences{
		DailyGoalMinutes: req.DailyGoalMinutes,
		Notifications:    *req.Notifications,
	})
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to update preferences")
	}
	return response.SuccessWithMessage(c, "Preferences updated", user)
}
