package category

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/handlers"
	"github.com/sahilchouksey/skills-lab/services"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"github.com/sahilchouksey/skills-lab/utils/middleware"
	"github.com/sahilchouksey/skills-lab/utils/response"
	"github.com/sahilchouksey/skills-lab/utils/validation"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categories *services.CategoryService
	validator  *validation.Validator
	log        *logger.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories *services.CategoryService, log *logger.Logger) *CategoryHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CategoryHandler{
		categories: categories,
		validator:  validation.NewValidator(),
		log:        log.With("component", "category_handler"),
	}
}

// CategoryRequest is the body of create and rename
type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

func (h *CategoryHandler) parse(c *fiber.Ctx) (string, error) {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return "", response.BadRequest(c, "Invalid request body")
	}
	req.Name = validation.SanitizeString(req.Name)
	if errs := h.validator.ValidateStruct(req); errs != nil {
		return "", response.ValidationError(c, errs)
	}
	return req.Name, nil
}

// ListCategories handles GET /api/v1/categories
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	categories, err := h.categories.List(c.UserContext(), userID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch categories")
	}
	return response.Success(c, categories)
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	name, err := h.parse(c)
	if name == "" {
		return err
	}

	category, err := h.categories.Create(c.UserContext(), userID, name)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to create category")
	}
	return response.Created(c, "Category created successfully", category)
}

// RenameCategory handles PUT /api/v1/categories/:id
func (h *CategoryHandler) RenameCategory(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid category ID")
	}

	name, err := h.parse(c)
	if name == "" {
		return err
	}

	category, err := h.categories.Rename(c.UserContext(), userID, id, name)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to rename category")
	}
	return response.Success(c, category)
}

// DeleteCategory handles DELETE /api/v1/categories/:id. Courses and
// progress of the category are kept.
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid category ID")
	}

	if err := h.categories.Delete(c.UserContext(), userID, id); err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to delete category")
	}
	return response.SuccessWithMessage(c, "Category deleted", nil)
}
