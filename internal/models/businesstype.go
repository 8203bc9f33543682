package models

import "time"

// PurposeRule правило для одной цели деловых поездок.
// Нулевые значения ограничений означают их отсутствие.
type PurposeRule struct {
	Name            string  `json:"name" validate:"required"`                // Название цели
	MaxDistance     float64 `json:"max_distance" validate:"gte=0"`           // Максимальная длина поездки в милях, 0 — без ограничения
	FrequencyPerDay int     `json:"frequency_per_day" validate:"gte=0"`      // Максимум поездок этой цели в день, 0 — без ограничения
}

// BusinessType описание вида деятельности: список целей поездок
// и целевое среднее число поездок в рабочий день.
type BusinessType struct {
	DisplayName            string        // Название вида деятельности
	AverageTripsPerWorkday float64       // Среднее число деловых поездок в рабочий день
	Purposes               []PurposeRule // Упорядоченный список целей поездок
}

// CustomBusinessType пользовательский вид деятельности, хранится в базе
// и принадлежит конкретному пользователю.
type CustomBusinessType struct {
	UID                    string        // Уникальный идентификатор
	Username               string        // Владелец
	DisplayName            string        // Название вида деятельности
	AverageTripsPerWorkday float64       // Среднее число деловых поездок в рабочий день
	Purposes               []PurposeRule // Список целей поездок
	CreatedAt              time.Time     // Время создания записи
}

// Definition переводит пользовательский вид деятельности в общее описание,
// используемое генератором.
func (c *CustomBusinessType) Definition() *BusinessType {
	return &BusinessType{
		DisplayName:            c.DisplayName,
		AverageTripsPerWorkday: c.AverageTripsPerWorkday,
		Purposes:               c.Purposes,
	}
}
