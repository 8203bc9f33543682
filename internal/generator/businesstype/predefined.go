package businesstype

import "github.com/magabrotheeeer/mileage-log-generator/internal/models"

// DefaultName название вида деятельности по умолчанию.
const DefaultName = "General Business"

// predefined статический каталог предустановленных видов деятельности.
// Ограничения MaxDistance и FrequencyPerDay заданы там, где они
// свойственны самой деятельности; нулевое значение означает отсутствие ограничения.
var predefined = map[string]*models.BusinessType{
	DefaultName: {
		DisplayName:            DefaultName,
		AverageTripsPerWorkday: 2,
		Purposes: []models.PurposeRule{
			{Name: "Business Errand"},
		},
	},
	"Real Estate": {
		DisplayName:            "Real Estate",
		AverageTripsPerWorkday: 4,
		Purposes: []models.PurposeRule{
			{Name: "Property Showing"},
			{Name: "Property Inspection", FrequencyPerDay: 2},
			{Name: "Client Meeting", FrequencyPerDay: 3},
			{Name: "Office Visit", MaxDistance: 20, FrequencyPerDay: 1},
		},
	},
	"Sales": {
		DisplayName:            "Sales",
		AverageTripsPerWorkday: 5,
		Purposes: []models.PurposeRule{
			{Name: "Sales Call"},
			{Name: "Client Meeting"},
			{Name: "Networking Event", FrequencyPerDay: 1},
		},
	},
	"Consulting": {
		DisplayName:            "Consulting",
		AverageTripsPerWorkday: 2,
		Purposes: []models.PurposeRule{
			{Name: "Client Meeting"},
			{Name: "Site Visit", FrequencyPerDay: 2},
			{Name: "Conference", FrequencyPerDay: 1},
		},
	},
	"Delivery": {
		DisplayName:            "Delivery",
		AverageTripsPerWorkday: 8,
		Purposes: []models.PurposeRule{
			{Name: "Delivery", MaxDistance: 30},
			{Name: "Pickup", MaxDistance: 30},
		},
	},
	"Construction": {
		DisplayName:            "Construction",
		AverageTripsPerWorkday: 3,
		Purposes: []models.PurposeRule{
			{Name: "Site Visit"},
			{Name: "Supply Run", MaxDistance: 25},
			{Name: "Client Meeting", FrequencyPerDay: 1},
		},
	},
}

// PredefinedNames возвращает названия всех предустановленных видов деятельности.
func PredefinedNames() []string {
	names := make([]string, 0, len(predefined))
	for name := range predefined {
		names = append(names, name)
	}
	return names
}
