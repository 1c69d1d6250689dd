package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/propertyhub/propertyhub/service"
)

// PropertyForm mirrors the add/edit property form. Numeric fields arrive as
// strings and are coerced leniently: unparsable input becomes 0, it never
// rejects the submission.
type PropertyForm struct {
	Title       string   `form:"title"`
	Slug        string   `form:"slug"`
	Description string   `form:"description"`
	State       string   `form:"state"`
	City        string   `form:"city"`
	AreaName    string   `form:"area_name"`
	LocalArea   string   `form:"local_area"`
	Latitude    string   `form:"latitude"`
	Longitude   string   `form:"longitude"`
	Type        string   `form:"type"`
	Purpose     string   `form:"purpose"`
	Status      string   `form:"status"`
	Price       string   `form:"price"`
	Bedrooms    string   `form:"bedrooms"`
	Bathrooms   string   `form:"bathrooms"`
	Area        string   `form:"area"`
	Amenities   []string `form:"amenities"`
}

func (f *PropertyForm) ToInput(images [][]byte) service.PropertyInput {
	return service.PropertyInput{
		Title:       strings.TrimSpace(f.Title),
		Slug:        f.Slug,
		Description: f.Description,
		State:       strings.TrimSpace(f.State),
		City:        strings.TrimSpace(f.City),
		AreaName:    strings.TrimSpace(f.AreaName),
		LocalArea:   strings.TrimSpace(f.LocalArea),
		Latitude:    CoerceFloat(f.Latitude),
		Longitude:   CoerceFloat(f.Longitude),
		Type:        f.Type,
		Purpose:     f.Purpose,
		Status:      f.Status,
		Price:       CoerceFloat(f.Price),
		Bedrooms:    CoerceInt(f.Bedrooms),
		Bathrooms:   CoerceInt(f.Bathrooms),
		Area:        CoerceFloat(f.Area),
		Amenities:   f.Amenities,
		Images:      images,
	}
}

// ProjectForm mirrors the add/edit project form.
type ProjectForm struct {
	Title          string   `form:"title"`
	Slug           string   `form:"slug"`
	Description    string   `form:"description"`
	Location       string   `form:"location"`
	State          string   `form:"state"`
	City           string   `form:"city"`
	AreaName       string   `form:"area_name"`
	Type           string   `form:"type"`
	Status         string   `form:"status"`
	LaunchDate     string   `form:"launch_date"`
	CompletionDate string   `form:"completion_date"`
	PriceMin       string   `form:"price_min"`
	PriceMax       string   `form:"price_max"`
	Amenities      []string `form:"amenities"`
}

func (f *ProjectForm) ToInput(images [][]byte) service.ProjectInput {
	return service.ProjectInput{
		Title:          strings.TrimSpace(f.Title),
		Slug:           f.Slug,
		Description:    f.Description,
		Location:       strings.TrimSpace(f.Location),
		State:          strings.TrimSpace(f.State),
		City:           strings.TrimSpace(f.City),
		AreaName:       strings.TrimSpace(f.AreaName),
		Type:           f.Type,
		Status:         f.Status,
		LaunchDate:     CoerceDate(f.LaunchDate),
		CompletionDate: CoerceDate(f.CompletionDate),
		PriceMin:       CoerceFloat(f.PriceMin),
		PriceMax:       CoerceFloat(f.PriceMax),
		Amenities:      f.Amenities,
		Images:         images,
	}
}

// CoerceFloat parses a form numeric with a 0 fallback on bad input.
func CoerceFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// CoerceInt parses a form integer with a 0 fallback on bad input.
func CoerceInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// CoerceDate parses an ISO date, nil on empty or bad input.
func CoerceDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
