package progress

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/handlers"
	"github.com/sahilchouksey/skills-lab/services"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"github.com/sahilchouksey/skills-lab/utils/middleware"
	"github.com/sahilchouksey/skills-lab/utils/response"
	"github.com/sahilchouksey/skills-lab/utils/validation"
)

// ProgressHandler handles topic completion and progress listing
type ProgressHandler struct {
	progress  *services.ProgressService
	validator *validation.Validator
	log       *logger.Logger
}

func NewProgressHandler(progress *services.ProgressService, log *logger.Logger) *ProgressHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ProgressHandler{
		progress:  progress,
		validator: validation.NewValidator(),
		log:       log.With("component", "progress_handler"),
	}
}

// CompleteTopicRequest represents a topic completion
type CompleteTopicRequest struct {
	MinutesSpent int `json:"minutes_spent" validate:"required,min=1,max=240"`
}

// ListProgress handles GET /api/v1/progress
func (h *ProgressHandler) ListProgress(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	views, err := h.progress.List(c.UserContext(), userID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch progress")
	}
	return response.Success(c, views)
}

// GetProgress handles GET /api/v1/progress/:id
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	progressID, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid progress ID")
	}

	view, err := h.progress.Get(c.UserContext(), userID, progressID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch progress")
	}
	return response.Success(c, view)
}

// CompleteTopic handles POST /api/v1/progress/:id/topics/:topic_id/complete
func (h *ProgressHandler) CompleteTopic(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	progressID, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid progress ID")
	}

	var req CompleteTopicRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if errs := h.validator.ValidateStruct(req); errs != nil {
		return response.ValidationError(c, errs)
	}

	result, err := h.progress.MarkTopicComplete(c.UserContext(), userID, progressID, c.Params("topic_id"), req.MinutesSpent)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to complete topic")
	}

	message := "Topic completed"
	switch {
	case result.AlreadyCompleted:
		message = "Topic was already completed"
	case result.CourseCompleted:
		message = "Course completed"
	}
	return response.SuccessWithMessage(c, message, result)
}
