package models

// DummyGenerateRequest используется для приёма данных из JSON-запроса на генерацию журнала,
// прежде чем конвертировать их во внутренний запрос генератора.
// Даты приходят в виде строк в формате 02-01-2006, чтобы их можно было валидировать и парсить вручную.
type DummyGenerateRequest struct {
	StartDate          string  `json:"start_date" validate:"required"`      // Начало периода в формате 02-01-2006
	EndDate            string  `json:"end_date" validate:"required"`        // Конец периода в формате 02-01-2006
	StartMileage       float64 `json:"start_mileage" validate:"gte=0"`      // Одометр на начало периода
	EndMileage         float64 `json:"end_mileage" validate:"required,gt=0"` // Одометр на конец периода
	TotalPersonalMiles float64 `json:"total_personal_miles" validate:"gte=0"` // Суммарный личный пробег
	Vehicle            string  `json:"vehicle" validate:"required"`         // Название транспортного средства
	BusinessType       string  `json:"business_type"`                       // Название предустановленного вида деятельности или UID пользовательского
}

// DummyBusinessType используется для приёма данных из JSON-запроса на создание
// пользовательского вида деятельности.
type DummyBusinessType struct {
	DisplayName            string        `json:"display_name" validate:"required,min=2,max=100"`   // Название вида деятельности
	AverageTripsPerWorkday float64       `json:"average_trips_per_workday" validate:"required,gt=0"` // Среднее число поездок в рабочий день
	Purposes               []PurposeRule `json:"purposes" validate:"required,min=1,dive"`          // Список целей поездок
}
