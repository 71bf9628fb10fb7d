package dto

import (
	"time"

	"github.com/taskdesk/taskdesk-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash is never
// serialized outward.
type UserDTO struct {
	ID        uint64      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CompanyID *uint64     `json:"company_id,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// CompanyUserDTO is the minimal projection the company user list returns.
type CompanyUserDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CompanyDTO represents a company in API responses
type CompanyDTO struct {
	ID        uint64               `json:"id"`
	Name      string               `json:"name"`
	Email     string               `json:"email"`
	Phone     string               `json:"phone,omitempty"`
	Address   string               `json:"address,omitempty"`
	Website   string               `json:"website,omitempty"`
	Logo      string               `json:"logo,omitempty"`
	Status    models.CompanyStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	Users     []UserDTO            `json:"users,omitempty"`
	Tasks     []TaskDTO            `json:"tasks,omitempty"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CompanyID: user.CompanyID,
		CreatedAt: user.CreatedAt,
	}
}

// ToCompanyUserDTO converts a User model to the minimal company projection
func ToCompanyUserDTO(user models.User) CompanyUserDTO {
	return CompanyUserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// ToCompanyDTO converts a Company model to CompanyDTO, carrying preloaded
// users and tasks along when present.
func ToCompanyDTO(company models.Company) CompanyDTO {
	dto := CompanyDTO{
		ID:        company.ID,
		Name:      company.Name,
		Email:     company.Email,
		Phone:     company.Phone,
		Address:   company.Address,
		Website:   company.Website,
		Logo:      company.Logo,
		Status:    company.Status,
		CreatedAt: company.CreatedAt,
	}

	if len(company.Users) > 0 {
		dto.Users = make([]UserDTO, len(company.Users))
		for i, user := range company.Users {
			dto.Users[i] = ToUserDTO(user)
		}
	}

	if len(company.Tasks) > 0 {
		dto.Tasks = make([]TaskDTO, len(company.Tasks))
		for i, task := range company.Tasks {
			dto.Tasks[i] = ToTaskDTO(task)
		}
	}

	return dto
}
