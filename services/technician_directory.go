package services

import (
	"strings"

	"github.com/smart-home-repair/repair-api/models"
)

// SpecialtyAll disables the specialty filter in ListTechnicians
const SpecialtyAll = "All"

var technicianDirectory = []models.Technician{
	{
		ID:           "tech1",
		Name:         "John Miller",
		Specialty:    models.SpecialtyElectrical,
		Rating:       4.8,
		ReviewCount:  156,
		Distance:     "2.3 km",
		Availability: "Available Today",
		HourlyRate:   45,
		Phone:        "+1 555-0101",
	},
	{
		ID:           "tech2",
		Name:         "Sarah Chen",
		Specialty:    models.SpecialtyHVAC,
		Rating:       4.9,
		ReviewCount:  203,
		Distance:     "3.1 km",
		Availability: "Available Tomorrow",
		HourlyRate:   55,
		Phone:        "+1 555-0102",
	},
	{
		ID:           "tech3",
		Name:         "Michael Brown",
		Specialty:    models.SpecialtyPlumbing,
		Rating:       4.7,
		ReviewCount:  128,
		Distance:     "1.8 km",
		Availability: "Available Today",
		HourlyRate:   40,
		Phone:        "+1 555-0103",
	},
	{
		ID:           "tech4",
		Name:         "Emily Davis",
		Specialty:    models.SpecialtyKitchen,
		Rating:       4.6,
		ReviewCount:  94,
		Distance:     "4.2 km",
		Availability: "Next Week",
		HourlyRate:   42,
		Phone:        "+1 555-0104",
	},
	{
		ID:           "tech5",
		Name:         "David Wilson",
		Specialty:    models.SpecialtyGeneral,
		Rating:       4.5,
		ReviewCount:  178,
		Distance:     "2.8 km",
		Availability: "Available Today",
		HourlyRate:   38,
		Phone:        "+1 555-0105",
	},
}

// ListTechnicians filters the directory by a case-insensitive search over name and specialty,
// and by exact specialty. Empty query and "All"/empty specialty match everything.
func ListTechnicians(query, specialty string) []models.Technician {
	q := strings.ToLower(strings.TrimSpace(query))
	result := make([]models.Technician, 0, len(technicianDirectory))

	for _, tech := range technicianDirectory {
		matchesSearch := q == "" ||
			strings.Contains(strings.ToLower(tech.Name), q) ||
			strings.Contains(strings.ToLower(string(tech.Specialty)), q)
		matchesSpecialty := specialty == "" || specialty == SpecialtyAll ||
			string(tech.Specialty) == specialty

		if matchesSearch && matchesSpecialty {
			result = append(result, tech)
		}
	}
	return result
}

// FindTechnician looks a technician up by id
func FindTechnician(id string) (*models.Technician, error) {
	for _, tech := range technicianDirectory {
		if tech.ID == id {
			t := tech
			return &t, nil
		}
	}
	return nil, ErrNotFound
}
