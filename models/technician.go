package models

// Specialty is a technician's trade
type Specialty string

const (
	SpecialtyElectrical Specialty = "Electrical Appliances"
	SpecialtyHVAC       Specialty = "HVAC Systems"
	SpecialtyPlumbing   Specialty = "Plumbing"
	SpecialtyKitchen    Specialty = "Kitchen Appliances"
	SpecialtyGeneral    Specialty = "General Repairs"
)

// Specialties lists every specialty in display order
var Specialties = []Specialty{
	SpecialtyElectrical,
	SpecialtyHVAC,
	SpecialtyPlumbing,
	SpecialtyKitchen,
	SpecialtyGeneral,
}

// Valid reports whether s is a known specialty
func (s Specialty) Valid() bool {
	for _, known := range Specialties {
		if known == s {
			return true
		}
	}
	return false
}

// Technician is a read-only directory entry
type Technician struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Specialty    Specialty `json:"specialty"`
	Rating       float64   `json:"rating"` // 0..5
	ReviewCount  int       `json:"review_count"`
	Distance     string    `json:"distance"`
	Availability string    `json:"availability"`
	HourlyRate   float64   `json:"hourly_rate"`
	Phone        string    `json:"phone"`
	ImageURI     *string   `json:"image_uri,omitempty"`
}
