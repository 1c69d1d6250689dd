package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project status values. Projects use a closed status set; properties accept
// free-form status text defaulting to active.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusCompleted = "completed"
)

var ProjectTypes = []string{"residential", "commercial", "mixed"}

var ProjectStatuses = []string{StatusActive, StatusInactive, StatusCompleted}

type Project struct {
	ID             uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	Title          string                      `json:"title" gorm:"type:varchar(255);not null"`
	Slug           string                      `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex"`
	Description    string                      `json:"description" gorm:"type:text"`
	Location       string                      `json:"location" gorm:"type:varchar(512)"`
	State          string                      `json:"state" gorm:"type:varchar(128)"`
	City           string                      `json:"city" gorm:"type:varchar(128)"`
	AreaName       string                      `json:"area_name" gorm:"type:varchar(128)"`
	Type           string                      `json:"type" gorm:"type:varchar(32);not null"`
	Status         string                      `json:"status" gorm:"type:varchar(32);not null;default:'active'"`
	LaunchDate     *time.Time                  `json:"launch_date"`
	CompletionDate *time.Time                  `json:"completion_date"`
	PriceMin       float64                     `json:"price_min" gorm:"not null;default:0"`
	PriceMax       float64                     `json:"price_max" gorm:"not null;default:0"`
	Amenities      datatypes.JSONSlice[string] `json:"amenities"`
	ImageURLs      datatypes.JSONSlice[string] `json:"image_urls"`
	AgencyID       uuid.UUID                   `json:"agency_id" gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time                   `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt      time.Time                   `json:"updated_at" gorm:"autoUpdateTime"`

	Agency *User `json:"agency,omitempty" gorm:"foreignKey:AgencyID"`
}

func IsValidProjectType(t string) bool {
	for _, v := range ProjectTypes {
		if v == t {
			return true
		}
	}
	return false
}

func IsValidProjectStatus(s string) bool {
	for _, v := range ProjectStatuses {
		if v == s {
			return true
		}
	}
	return false
}
