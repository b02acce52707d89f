package course

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/handlers"
	"github.com/sahilchouksey/skills-lab/services"
	"github.com/sahilchouksey/skills-lab/services/syllabus"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"github.com/sahilchouksey/skills-lab/utils/middleware"
	"github.com/sahilchouksey/skills-lab/utils/response"
	"github.com/sahilchouksey/skills-lab/utils/validation"
)

// CourseHandler handles course generation, lookup and progress start
type CourseHandler struct {
	courses   *services.CourseService
	progress  *services.ProgressService
	validator *validation.Validator
	log       *logger.Logger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courses *services.CourseService, progress *services.ProgressService, log *logger.Logger) *CourseHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CourseHandler{
		courses:   courses,
		progress:  progress,
		validator: syllabus.NewRequestValidator(),
		log:       log.With("component", "course_handler"),
	}
}

// GenerateCourseRequest represents the request body for generating a course
type GenerateCourseRequest struct {
	CategoryID      uint   `json:"category_id" validate:"required,min=1"`
	Goal            string `json:"goal" validate:"required,syllabus_goal"`
	Level           string `json:"level" validate:"required,syllabus_level"`
	DetailedGoal    string `json:"detailed_goal" validate:"omitempty,max=2000"`
	LearningStyle   string `json:"learning_style" validate:"omitempty,syllabus_style"`
	CourseStructure string `json:"course_structure" validate:"omitempty,syllabus_structure"`
}

// GenerateCourse handles POST /api/v1/courses/generate
func (h *CourseHandler) GenerateCourse(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	var req GenerateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.DetailedGoal = validation.SanitizeString(req.DetailedGoal)
	if errs := h.validator.ValidateStruct(req); errs != nil {
		return response.ValidationError(c, errs)
	}

	generated, err := h.courses.GenerateCourse(c.UserContext(), userID, services.GenerateInput{
		CategoryID:      req.CategoryID,
		Goal:            req.Goal,
		Level:           req.Level,
		DetailedGoal:    req.DetailedGoal,
		LearningStyle:   req.LearningStyle,
		CourseStructure: req.CourseStructure,
	})
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to generate course")
	}
	return response.Created(c, "Course generated successfully", generated)
}

// ListCourses handles GET /api/v1/courses?category_id=
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	categoryID, err := strconv.ParseUint(c.Query("category_id"), 10, 64)
	if err != nil || categoryID == 0 {
		return response.ValidationError(c, map[string]string{"category_id": "category_id is required"})
	}

	courses, err := h.courses.ListByCategory(c.UserContext(), userID, uint(categoryID))
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch courses")
	}
	return response.Success(c, courses)
}

// GetCourse handles GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	courseID, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	course, err := h.courses.Get(c.UserContext(), userID, courseID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch course")
	}
	return response.Success(c, course)
}

// StartProgress handles POST /api/v1/courses/:id/progress
func (h *CourseHandler) StartProgress(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	courseID, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	ctx := c.UserContext()
	course, err := h.courses.Get(ctx, userID, courseID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch course")
	}

	progress, err := h.progress.Initialize(ctx, userID, course)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to start course")
	}
	return response.Created(c, "Course started", progress)
}

// GetProgress handles GET /api/v1/courses/:id/progress
func (h *CourseHandler) GetProgress(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	courseID, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	view, err := h.progress.GetByCourse(c.UserContext(), userID, courseID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch progress")
	}
	return response.Success(c, view)
}
