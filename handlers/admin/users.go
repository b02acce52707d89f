package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/handlers"
	"github.com/sahilchouksey/skills-lab/model"
	"github.com/sahilchouksey/skills-lab/services"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"github.com/sahilchouksey/skills-lab/utils/middleware"
	"github.com/sahilchouksey/skills-lab/utils/response"
	"github.com/sahilchouksey/skills-lab/utils/validation"
)

// AdminHandler handles user approval requests of administrators
type AdminHandler struct {
	profiles  *services.ProfileService
	validator *validation.Validator
	log       *logger.Logger
}

func NewAdminHandler(profiles *services.ProfileService, log *logger.Logger) *AdminHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AdminHandler{
		profiles:  profiles,
		validator: validation.NewValidator(),
		log:       log.With("component", "admin_handler"),
	}
}

// UpdateUserStatusRequest represents a status change
type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

// ListUsers handles GET /api/v1/admin/users?status=
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.profiles.ListUsers(c.UserContext(), model.UserStatus(c.Query("status")))
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch users")
	}
	return response.Success(c, users)
}

// UpdateUserStatus handles PUT /api/v1/admin/users/:id/status
func (h *AdminHandler) UpdateUserStatus(c *fiber.Ctx) error {
	admin, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	userID, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req UpdateUserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if errs := h.validator.ValidateStruct(req); errs != nil {
		return response.ValidationError(c, errs)
	}

	if userID == admin.ID && model.UserStatus(req.Status) != model.UserStatusApproved {
		return response.BadRequest(c, "Administrators cannot revoke their own access")
	}

	user, err := h.profiles.UpdateStatus(c.UserContext(), services.StatusChange{
		AdminID:   admin.ID,
		UserID:    userID,
		Status:    model.UserStatus(req.Status),
		IPAddress: c.IP(),
	})
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to update user status")
	}
	return response.SuccessWithMessage(c, "User status updated", user)
}
