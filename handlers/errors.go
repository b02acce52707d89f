package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/services"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"github.com/sahilchouksey/skills-lab/utils/response"
)

// ServiceError maps a service error onto the response envelope. Unknown
// errors are logged and answered with a generic 500.
func ServiceError(c *fiber.Ctx, log *logger.Logger, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrProfileNotFound):
		return response.NotFound(c, "Profile not found")
	case errors.Is(err, services.ErrCategoryNotFound):
		return response.NotFound(c, "Category not found")
	case errors.Is(err, services.ErrCourseNotFound):
		return response.NotFound(c, "Course not found")
	case errors.Is(err, services.ErrProgressNotFound):
		return response.NotFound(c, "Progress not found")
	case errors.Is(err, services.ErrTopicNotFound):
		return response.NotFound(c, "Topic not found in this course")
	case errors.Is(err, services.ErrProgressExists):
		return response.Conflict(c, "Progress for this course already exists")
	case errors.Is(err, services.ErrTopicLocked):
		return response.Conflict(c, "Complete the previous topic first")
	case errors.Is(err, services.ErrInvalidStatus):
		return response.ValidationError(c, map[string]string{"status": "status must be one of: pending approved rejected"})
	case errors.Is(err, services.ErrInvalidMinutes):
		return response.ValidationError(c, map[string]string{"minutes_spent": "minutes_spent must be between 1 and 240"})
	case errors.Is(err, services.ErrInvalidPreferences):
		return response.ValidationError(c, map[string]string{"daily_goal_minutes": "daily_goal_minutes must be between 5 and 480"})
	}

	if log != nil {
		log.Error(fallback, "path", c.Path(), "error", err)
	}
	return response.InternalServerError(c, fallback)
}

// ParamID parses a positive numeric route parameter
func ParamID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
