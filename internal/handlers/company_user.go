package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdesk/taskdesk-api/internal/dto"
	apierrors "github.com/taskdesk/taskdesk-api/internal/errors"
	"github.com/taskdesk/taskdesk-api/internal/middleware"
	"github.com/taskdesk/taskdesk-api/internal/services"
)

// CompanyUserHandler serves the company-admin user endpoints.
type CompanyUserHandler struct {
	userService *services.UserService
}

// NewCompanyUserHandler creates a new CompanyUserHandler.
func NewCompanyUserHandler(userService *services.UserService) *CompanyUserHandler {
	return &CompanyUserHandler{
		userService: userService,
	}
}

// ListUsers returns the company's plain users with minimal fields. The
// company task screens use the same list to pick assignees.
func (h *CompanyUserHandler) ListUsers(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	users, err := h.userService.ListCompanyUsers(p)
	if err != nil {
		respondUserError(c, err)
		return
	}

	userDTOs := make([]dto.CompanyUserDTO, len(users))
	for i, user := range users {
		userDTOs[i] = dto.ToCompanyUserDTO(user)
	}

	c.JSON(http.StatusOK, gin.H{
		"users": userDTOs,
	})
}

// CreateUser provisions a plain user under the company.
func (h *CompanyUserHandler) CreateUser(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateUserRequest struct {
		Name     string `json:"name" binding:"required,max=255"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateCompanyUser(p, services.CreateCompanyUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    dto.ToUserDTO(*user),
	})
}

// GetUser returns one of the company's plain users.
func (h *CompanyUserHandler) GetUser(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetCompanyUser(p, id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser updates one of the company's plain users. Password is
// optional: when present it is re-hashed, when absent it stays unchanged.
func (h *CompanyUserHandler) UpdateUser(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type UpdateUserRequest struct {
		Name     string  `json:"name" binding:"required,max=255"`
		Email    string  `json:"email" binding:"required,email"`
		Password *string `json:"password"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateCompanyUser(p, id, services.UpdateCompanyUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    dto.ToUserDTO(*user),
	})
}

// DeleteUser removes one of the company's plain users.
func (h *CompanyUserHandler) DeleteUser(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.DeleteCompanyUser(p, id); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

// respondUserError maps user service errors onto the HTTP surface. An
// out-of-scope user reads exactly like a missing one.
func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrUserAccessDenied):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
