// Package models содержит доменные структуры журнала пробега,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// TripKind тип поездки: деловая или личная.
type TripKind string

const (
	// TripBusiness — деловая поездка, учитывается при расчете налогового вычета.
	TripBusiness TripKind = "business"
	// TripPersonal — личная поездка.
	TripPersonal TripKind = "personal"
)

// TripEntry представляет одну поездку — атомарную единицу сгенерированного журнала.
// Показания одометра поездок одного дня образуют непрерывную последовательность:
// EndMileage поездки i равен StartMileage поездки i+1.
type TripEntry struct {
	Date              time.Time // Дата поездки
	Kind              TripKind  // Тип поездки: business или personal
	StartMileage      float64   // Показание одометра в начале поездки
	EndMileage        float64   // Показание одометра в конце поездки
	Miles             float64   // Пробег поездки, EndMileage - StartMileage
	Purpose           string    // Цель поездки
	Location          string    // Место назначения
	VehicleLabel      string    // Название транспортного средства
	BusinessTypeLabel string    // Название вида деятельности
}

// MileageLog сгенерированный журнал пробега: агрегированная шапка
// плюс упорядоченный список поездок.
type MileageLog struct {
	UID                string      // Уникальный идентификатор журнала
	Username           string      // Владелец журнала
	StartDate          time.Time   // Начало периода
	EndDate            time.Time   // Конец периода
	StartMileage       float64     // Показание одометра на начало периода
	EndMileage         float64     // Показание одометра на конец периода
	TotalMileage       float64     // Общий пробег, EndMileage - StartMileage
	TotalBusinessMiles float64     // Деловой пробег, пересчитанный по сгенерированным поездкам
	TotalPersonalMiles float64     // Личный пробег, пересчитанный по сгенерированным поездкам
	DeductionRate      float64     // Ставка вычета за милю для года начала периода
	DeductionAmount    float64     // Сумма налогового вычета, TotalBusinessMiles * DeductionRate
	VehicleLabel       string      // Название транспортного средства
	BusinessTypeLabel  string      // Название вида деятельности
	CreatedAt          time.Time   // Время создания записи
	Entries            []TripEntry // Поездки в порядке генерации
}

// DailyTarget план пробега на один календарный день,
// результат работы распределителя по дням.
type DailyTarget struct {
	Date          time.Time // Дата
	IsWorkday     bool      // Является ли день рабочим
	BusinessMiles float64   // Плановый деловой пробег
	PersonalMiles float64   // Плановый личный пробег
}
