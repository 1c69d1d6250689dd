package entity

// AmenityCatalog is the fixed set of amenity values a listing may carry.
// Submitted amenities outside this catalog are rejected, never stored.
var AmenityCatalog = []string{
	// Main features
	"Newly Built", "Parking Spaces", "Double Glazed Windows", "Central Air Conditioning",
	"Central Heating", "Electricity Backup", "Waste Disposal", "Tiled Flooring",
	// Rooms
	"Servant Quarters", "Drawing Room", "Dining Room", "Kitchens", "Study Room",
	"Prayer Room", "Powder Room", "Store Room", "Steam Room", "Lounge or Sitting Room",
	"Laundry Room",
	// Business and communication
	"Broadband Internet", "Cable TV Ready", "Intercom",
	// Community features
	"Community Garden", "Community Swimming Pool", "Community Gym", "Medical Centre",
	"Day Care Centre", "Kids Play Area", "Barbecue Area", "Mosque", "Community Centre",
	// Recreational / health
	"Private Lawn", "Private Swimming Pool", "Sauna", "Jacuzzi",
	// Nearby facilities
	"Nearby Schools", "Nearby Hospitals", "Nearby Shopping Malls", "Nearby Restaurants",
	"Nearby Public Transport", "Near Airport",
	// Other facilities
	"Maintenance Staff", "Security Staff", "Disabled Access",
}

var amenitySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(AmenityCatalog))
	for _, a := range AmenityCatalog {
		m[a] = struct{}{}
	}
	return m
}()

func IsValidAmenity(a string) bool {
	_, ok := amenitySet[a]
	return ok
}
