package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskdesk/taskdesk-api/internal/dto"
	apierrors "github.com/taskdesk/taskdesk-api/internal/errors"
	"github.com/taskdesk/taskdesk-api/internal/middleware"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/services"
	"github.com/taskdesk/taskdesk-api/internal/utils"
)

// CompanyHandler serves the platform-admin company endpoints.
type CompanyHandler struct {
	companyService *services.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(companyService *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
	}
}

// ListCompanies returns all companies with their users, paginated.
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	companies, total, err := h.companyService.ListCompanies(p, params.Page, params.Limit)
	if err != nil {
		respondCompanyError(c, err)
		return
	}

	companyDTOs := make([]dto.CompanyDTO, len(companies))
	for i, company := range companies {
		companyDTOs[i] = dto.ToCompanyDTO(company)
	}

	c.JSON(http.StatusOK, gin.H{
		"companies": companyDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// CreateCompany provisions a company together with its admin user.
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateCompanyRequest struct {
		Name          string `json:"name" binding:"required,max=255"`
		Email         string `json:"email" binding:"required,email"`
		Phone         string `json:"phone" binding:"max=20"`
		Address       string `json:"address"`
		Website       string `json:"website" binding:"omitempty,url"`
		Logo          string `json:"logo"`
		Status        string `json:"status" binding:"required"`
		AdminName     string `json:"admin_name" binding:"required,max=255"`
		AdminEmail    string `json:"admin_email" binding:"required,email"`
		AdminPassword string `json:"admin_password" binding:"required"`
	}

	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	status, ok := models.ParseCompanyStatus(req.Status)
	if !ok {
		apierrors.BadRequest(c, "Status must be one of: active, inactive")
		return
	}

	company, err := h.companyService.CreateCompany(p, services.CreateCompanyInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Website:       req.Website,
		Logo:          req.Logo,
		Status:        status,
		AdminName:     req.AdminName,
		AdminEmail:    req.AdminEmail,
		AdminPassword: req.AdminPassword,
	})
	if err != nil {
		respondCompanyError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Company created successfully",
		"company": dto.ToCompanyDTO(*company),
	})
}

// GetCompany returns a company with its users and tasks.
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid company ID")
		return
	}

	company, err := h.companyService.GetCompany(p, id)
	if err != nil {
		respondCompanyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyDTO(*company))
}

// UpdateCompany updates a company's profile fields.
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid company ID")
		return
	}

	type UpdateCompanyRequest struct {
		Name    string `json:"name" binding:"required,max=255"`
		Email   string `json:"email" binding:"required,email"`
		Phone   string `json:"phone" binding:"max=20"`
		Address string `json:"address"`
		Website string `json:"website" binding:"omitempty,url"`
		Logo    string `json:"logo"`
		Status  string `json:"status" binding:"required"`
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	status, ok := models.ParseCompanyStatus(req.Status)
	if !ok {
		apierrors.BadRequest(c, "Status must be one of: active, inactive")
		return
	}

	company, err := h.companyService.UpdateCompany(p, id, services.UpdateCompanyInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Website: req.Website,
		Logo:    req.Logo,
		Status:  status,
	})
	if err != nil {
		respondCompanyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Company updated successfully",
		"company": dto.ToCompanyDTO(*company),
	})
}

// DeleteCompany removes a company and everything scoped to it.
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid company ID")
		return
	}

	if err := h.companyService.DeleteCompany(p, id); err != nil {
		respondCompanyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Company deleted successfully",
	})
}

// ListCustomers returns a company's plain users, paginated.
func (h *CompanyHandler) ListCustomers(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid company ID")
		return
	}

	params := utils.GetPaginationParams(c)

	customers, total, err := h.companyService.ListCustomers(p, id, params.Page, params.Limit)
	if err != nil {
		respondCompanyError(c, err)
		return
	}

	customerDTOs := make([]dto.UserDTO, len(customers))
	for i, customer := range customers {
		customerDTOs[i] = dto.ToUserDTO(customer)
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": customerDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

func respondCompanyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCompanyNotFound):
		apierrors.NotFound(c, "Company not found")
	case errors.Is(err, services.ErrCompanyAccessDenied):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrCompanyEmailTaken),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrCompanyNameRequired),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

func parseIDParam(c *gin.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
