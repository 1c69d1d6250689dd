package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin  = "admin"
	RoleAgent  = "agent"
	RoleAgency = "agency"
)

type User struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null"`
	Email         string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone         string    `json:"phone" gorm:"type:varchar(32)"`
	Role          string    `json:"role" gorm:"type:varchar(16);not null;default:'agent'"`
	PasswordHash  string    `json:"-" gorm:"type:varchar(255);not null"`
	AgencyName    string    `json:"agency_name,omitempty" gorm:"type:varchar(255)"`
	AgencyAddress string    `json:"agency_address,omitempty" gorm:"type:varchar(512)"`
	AgencyLogo    string    `json:"agency_logo,omitempty" gorm:"type:varchar(512)"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleAgent || role == RoleAgency
}
