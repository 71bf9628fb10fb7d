package models

import (
	"time"
)

type CompanyStatus string

const (
	CompanyStatusActive   CompanyStatus = "active"
	CompanyStatusInactive CompanyStatus = "inactive"
)

// ParseCompanyStatus decodes a status string into the closed enum.
func ParseCompanyStatus(s string) (CompanyStatus, bool) {
	switch CompanyStatus(s) {
	case CompanyStatusActive, CompanyStatusInactive:
		return CompanyStatus(s), true
	}
	return "", false
}

type Company struct {
	ID        uint64        `gorm:"primarykey" json:"id"`
	Name      string        `gorm:"type:varchar(255);not null" json:"name"`
	Email     string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone     string        `gorm:"type:varchar(20)" json:"phone"`
	Address   string        `gorm:"type:text" json:"address"`
	Website   string        `gorm:"type:varchar(255)" json:"website"`
	Logo      string        `gorm:"type:varchar(255)" json:"logo"`
	Status    CompanyStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Relations
	Users []User `gorm:"foreignKey:CompanyID" json:"users,omitempty"`
	Tasks []Task `gorm:"foreignKey:CompanyID" json:"tasks,omitempty"`
}
