package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Property purpose values. Case-sensitive, matches the public listing forms.
const (
	PurposeForSale = "For Sale"
	PurposeForRent = "For Rent"
)

var PropertyTypes = []string{"house", "apartment", "plot", "commercial"}

var PropertyPurposes = []string{PurposeForSale, PurposeForRent}

type Property struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string                      `json:"title" gorm:"type:varchar(255);not null"`
	Slug        string                      `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string                      `json:"description" gorm:"type:text"`
	Location    string                      `json:"location" gorm:"type:varchar(512)"`
	State       string                      `json:"state" gorm:"type:varchar(128)"`
	City        string                      `json:"city" gorm:"type:varchar(128)"`
	AreaName    string                      `json:"area_name" gorm:"type:varchar(128)"`
	LocalArea   string                      `json:"local_area" gorm:"type:varchar(128)"`
	Latitude    float64                     `json:"latitude"`
	Longitude   float64                     `json:"longitude"`
	Type        string                      `json:"type" gorm:"type:varchar(32);not null"`
	Purpose     string                      `json:"purpose" gorm:"type:varchar(32);not null"`
	Price       float64                     `json:"price" gorm:"not null;default:0"`
	Bedrooms    int                         `json:"bedrooms" gorm:"not null;default:0"`
	Bathrooms   int                         `json:"bathrooms" gorm:"not null;default:0"`
	Area        float64                     `json:"area" gorm:"not null;default:0"`
	Status      string                      `json:"status" gorm:"type:varchar(32);not null;default:'active'"`
	Amenities   datatypes.JSONSlice[string] `json:"amenities"`
	ImageURLs   datatypes.JSONSlice[string] `json:"image_urls"`
	AgentID     uuid.UUID                   `json:"agent_id" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time                   `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt   time.Time                   `json:"updated_at" gorm:"autoUpdateTime"`

	Agent *User `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
}

func IsValidPropertyType(t string) bool {
	for _, v := range PropertyTypes {
		if v == t {
			return true
		}
	}
	return false
}

func IsValidPropertyPurpose(p string) bool {
	for _, v := range PropertyPurposes {
		if v == p {
			return true
		}
	}
	return false
}
