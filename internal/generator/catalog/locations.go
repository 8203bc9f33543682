package catalog

import (
	"strings"
	"time"

	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/rnd"
	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

// WeightedLocation место назначения с весом выбора.
// Вероятность выбора равна weight / сумма весов списка.
type WeightedLocation struct {
	Label  string
	Weight int
}

// purposeLocations взвешенные списки мест для целей с явным справочником.
var purposeLocations = map[string][]WeightedLocation{
	"Client Meeting": {
		{Label: "Client Office", Weight: 5},
		{Label: "Coffee Shop", Weight: 3},
		{Label: "Restaurant", Weight: 2},
	},
	"Site Visit": {
		{Label: "Job Site", Weight: 6},
		{Label: "Construction Site", Weight: 2},
		{Label: "Warehouse", Weight: 2},
	},
	"Delivery": {
		{Label: "Customer Address", Weight: 7},
		{Label: "Distribution Center", Weight: 3},
	},
	"Pickup": {
		{Label: "Supplier", Weight: 5},
		{Label: "Distribution Center", Weight: 3},
		{Label: "Customer Address", Weight: 2},
	},
	"Supply Run": {
		{Label: "Hardware Store", Weight: 4},
		{Label: "Office Supply Store", Weight: 3},
		{Label: "Wholesale Club", Weight: 3},
	},
	"Bank": {
		{Label: "Main Street Bank", Weight: 6},
		{Label: "Credit Union", Weight: 4},
	},
	"Grocery Shopping": {
		{Label: "Supermarket", Weight: 6},
		{Label: "Farmers Market", Weight: 2},
		{Label: "Wholesale Club", Weight: 2},
	},
	"Medical": {
		{Label: "Medical Center", Weight: 5},
		{Label: "Dental Clinic", Weight: 3},
		{Label: "Pharmacy", Weight: 2},
	},
	"Gym": {
		{Label: "Fitness Club", Weight: 7},
		{Label: "Community Pool", Weight: 3},
	},
}

// seasonalLocations сезонные места для личных поездок, ключ — название сезона.
var seasonalLocations = map[string][]string{
	"winter": {"Ski Resort", "Holiday Market", "Ice Rink"},
	"spring": {"Botanical Garden", "Park", "Garden Center"},
	"summer": {"Beach", "Lake House", "Amusement Park"},
	"autumn": {"Pumpkin Farm", "Orchard", "State Fair"},
}

// seasonalPurposes личные цели, для которых допустима сезонная подмена места.
var seasonalPurposes = map[string]bool{
	"Vacation":      true,
	"Entertainment": true,
	"Shopping":      true,
	"Family Visit":  true,
}

// seasonalChance вероятность подмены места сезонным вариантом.
const seasonalChance = 0.3

// luxuryPropertyThreshold пробег, выше которого риелторские поездки
// смещаются к элитной недвижимости.
const luxuryPropertyThreshold = 25.0

// PickLocation выбирает место назначения поездки.
//
// Порядок выбора: явный взвешенный список цели; затем эвристики вида деятельности
// (риелторские цели со словом Property при большом пробеге смещаются к Luxury Property);
// затем запасной вариант по длине поездки. Для сезонных личных целей
// с вероятностью seasonalChance место подменяется сезонным.
func PickLocation(r rnd.Rand, purpose string, miles float64, kind models.TripKind, businessType string, month time.Month) string {
	if kind == models.TripPersonal && seasonalPurposes[purpose] && r.Float64() < seasonalChance {
		options := seasonalLocations[seasonOf(month)]
		return options[r.Intn(len(options))]
	}

	if list, ok := purposeLocations[purpose]; ok {
		return pickWeighted(r, list)
	}

	if businessType == "Real Estate" && containsProperty(purpose) {
		if miles > luxuryPropertyThreshold {
			return "Luxury Property"
		}
		return "Residential Property"
	}

	if kind == models.TripBusiness {
		if miles >= categoryRanges[Far].Min {
			return "Regional Office"
		}
		return "Local Business"
	}
	if miles >= categoryRanges[Far].Min {
		return "Out of Town"
	}
	return "Local Area"
}

// pickWeighted выбирает элемент списка с вероятностью weight / сумма весов.
func pickWeighted(r rnd.Rand, list []WeightedLocation) string {
	total := 0
	for _, l := range list {
		total += l.Weight
	}
	roll := r.Intn(total)
	for _, l := range list {
		roll -= l.Weight
		if roll < 0 {
			return l.Label
		}
	}
	return list[len(list)-1].Label
}

// seasonOf возвращает название сезона для месяца поездки.
func seasonOf(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}

func containsProperty(purpose string) bool {
	return strings.Contains(purpose, "Property")
}
