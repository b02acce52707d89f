package syllabus

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/handlers"
	"github.com/sahilchouksey/skills-lab/services"
	"github.com/sahilchouksey/skills-lab/services/syllabus"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"github.com/sahilchouksey/skills-lab/utils/middleware"
	"github.com/sahilchouksey/skills-lab/utils/response"
	"github.com/sahilchouksey/skills-lab/utils/validation"
)

// SyllabusHandler previews generated syllabi without storing them
type SyllabusHandler struct {
	generator  *syllabus.Generator
	categories *services.CategoryService
	courses    *services.CourseService
	validator  *validation.Validator
	log        *logger.Logger
}

func NewSyllabusHandler(generator *syllabus.Generator, categories *services.CategoryService, courses *services.CourseService, log *logger.Logger) *SyllabusHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SyllabusHandler{
		generator:  generator,
		categories: categories,
		courses:    courses,
		validator:  syllabus.NewRequestValidator(),
		log:        log.With("component", "syllabus_handler"),
	}
}

// PreviewRequest mirrors the course generation request
type PreviewRequest struct {
	CategoryID      uint   `json:"category_id" validate:"required,min=1"`
	Goal            string `json:"goal" validate:"required,syllabus_goal"`
	Level           string `json:"level" validate:"required,syllabus_level"`
	DetailedGoal    string `json:"detailed_goal" validate:"omitempty,max=2000"`
	LearningStyle   string `json:"learning_style" validate:"omitempty,syllabus_style"`
	CourseStructure string `json:"course_structure" validate:"omitempty,syllabus_structure"`
}

// Preview handles POST /api/v1/syllabus/preview
func (h *SyllabusHandler) Preview(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	var req PreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.DetailedGoal = validation.SanitizeString(req.DetailedGoal)
	if errs := h.validator.ValidateStruct(req); errs != nil {
		return response.ValidationError(c, errs)
	}

	ctx := c.UserContext()
	category, err := h.categories.Get(ctx, userID, req.CategoryID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch category")
	}

	learned, err := h.courses.PreviouslyLearnedTitles(ctx, userID, category.ID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch learning history")
	}

	result := h.generator.Generate(ctx, syllabus.Request{
		Category:          category.Name,
		Goal:              req.Goal,
		Level:             req.Level,
		PreviouslyLearned: learned,
		DetailedGoal:      req.DetailedGoal,
		LearningStyle:     req.LearningStyle,
		CourseStructure:   req.CourseStructure,
	})
	return response.Success(c, result)
}
