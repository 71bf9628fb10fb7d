package models

import (
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCompany Role = "company"
	RoleUser    Role = "user"
)

// ParseRole decodes a role string into the closed Role enum.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleCompany, RoleUser:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	CompanyID    *uint64   `gorm:"index" json:"company_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Company       *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	CreatedTasks  []Task   `gorm:"foreignKey:CreatorID" json:"-"`
	AssignedTasks []Task   `gorm:"foreignKey:AssignedTo" json:"-"`
}

// IsAdmin reports whether the user holds the platform admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsCompany reports whether the user administers a company.
func (u *User) IsCompany() bool {
	return u.Role == RoleCompany
}

// IsUser reports whether the user is a plain company member.
func (u *User) IsUser() bool {
	return u.Role == RoleUser
}
