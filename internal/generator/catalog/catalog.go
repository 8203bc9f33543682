// Package catalog содержит статические справочники целей и мест поездок.
//
// Справочники загружаются один раз при старте процесса и только читаются:
// категория дистанции для каждой цели, границы пробега по категориям
// и взвешенные списки правдоподобных мест назначения.
package catalog

import (
	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

// Category категория дистанции поездки.
type Category string

const (
	// VeryNear поездки в пределах пары миль.
	VeryNear Category = "very_near"
	// Near короткие поездки по району.
	Near Category = "near"
	// Medium поездки по городу.
	Medium Category = "medium"
	// Far поездки в соседние районы и пригороды.
	Far Category = "far"
	// VeryFar региональные поездки.
	VeryFar Category = "very_far"
)

// Range границы длины поездки в милях.
type Range struct {
	Min float64
	Max float64
}

// categoryRanges границы пробега для каждой категории дистанции.
var categoryRanges = map[Category]Range{
	VeryNear: {Min: 0.5, Max: 3},
	Near:     {Min: 2, Max: 8},
	Medium:   {Min: 5, Max: 20},
	Far:      {Min: 15, Max: 45},
	VeryFar:  {Min: 40, Max: 120},
}

// Запасные диапазоны для целей, отсутствующих в справочнике.
var (
	genericBusinessRange = Range{Min: 3, Max: 25}
	genericPersonalRange = Range{Min: 1, Max: 15}
)

// purposeCategories категория дистанции для каждой известной цели поездки.
var purposeCategories = map[string]Category{
	// Деловые цели
	"Client Meeting":      Medium,
	"Site Visit":          Far,
	"Property Showing":    Medium,
	"Property Inspection": Far,
	"Sales Call":          Medium,
	"Delivery":            Near,
	"Pickup":              Near,
	"Supply Run":          Near,
	"Bank":                VeryNear,
	"Post Office":         VeryNear,
	"Office Visit":        Medium,
	"Conference":          VeryFar,
	"Training":            Far,
	"Networking Event":    Medium,
	"Business Errand":     Near,

	// Личные цели
	"Grocery Shopping": VeryNear,
	"Shopping":         Near,
	"Errands":          Near,
	"Medical":          Medium,
	"Dining Out":       Near,
	"Gym":              VeryNear,
	"Family Visit":     Far,
	"Entertainment":    Medium,
	"Vacation":         VeryFar,
	"Church":           Near,
	"School Run":       VeryNear,
}

// PersonalPurposes цели личных поездок, из которых синтезатор выбирает случайно.
var PersonalPurposes = []string{
	"Grocery Shopping",
	"Shopping",
	"Errands",
	"Medical",
	"Dining Out",
	"Gym",
	"Family Visit",
	"Entertainment",
	"Church",
	"School Run",
}

// DistanceRange возвращает границы длины поездки для цели.
// Для неизвестной цели возвращается общий деловой или личный диапазон.
func DistanceRange(purpose string, kind models.TripKind) Range {
	if cat, ok := purposeCategories[purpose]; ok {
		return categoryRanges[cat]
	}
	if kind == models.TripBusiness {
		return genericBusinessRange
	}
	return genericPersonalRange
}

// CategoryRange возвращает границы пробега для категории дистанции.
func CategoryRange(cat Category) Range {
	return categoryRanges[cat]
}
