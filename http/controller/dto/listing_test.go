package dto

import (
	"testing"
	"time"
)

func TestCoerceFloatFallsBackToZero(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"125000", 125000},
		{" 99.5 ", 99.5},
		{"abc", 0},
		{"", 0},
		{"12,500", 0},
	}
	for _, tc := range cases {
		if got := CoerceFloat(tc.in); got != tc.want {
			t.Errorf("CoerceFloat(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCoerceIntFallsBackToZero(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"4", 4},
		{" 2 ", 2},
		{"two", 0},
		{"3.5", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := CoerceInt(tc.in); got != tc.want {
			t.Errorf("CoerceInt(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCoerceDate(t *testing.T) {
	if got := CoerceDate("not-a-date"); got != nil {
		t.Errorf("CoerceDate(bad) = %v, want nil", got)
	}
	if got := CoerceDate(""); got != nil {
		t.Errorf("CoerceDate(empty) = %v, want nil", got)
	}
	got := CoerceDate("2026-03-15")
	if got == nil {
		t.Fatal("CoerceDate(valid) = nil")
	}
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CoerceDate = %v, want %v", got, want)
	}
}

// A submission with garbage numerics still produces a usable input: the
// numeric fields flatten to zero instead of failing the whole form.
func TestPropertyFormLenientNumerics(t *testing.T) {
	form := PropertyForm{
		Title:     "Sunset Villa",
		Type:      "house",
		Purpose:   "For Sale",
		Price:     "abc",
		Bedrooms:  "many",
		Bathrooms: "2",
		Area:      "",
		Latitude:  "24.86",
	}

	in := form.ToInput(nil)
	if in.Price != 0 {
		t.Errorf("price = %v, want 0", in.Price)
	}
	if in.Bedrooms != 0 {
		t.Errorf("bedrooms = %v, want 0", in.Bedrooms)
	}
	if in.Bathrooms != 2 {
		t.Errorf("bathrooms = %v, want 2", in.Bathrooms)
	}
	if in.Area != 0 {
		t.Errorf("area = %v, want 0", in.Area)
	}
	if in.Latitude != 24.86 {
		t.Errorf("latitude = %v, want 24.86", in.Latitude)
	}
}
