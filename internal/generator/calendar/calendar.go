// Package calendar реализует классификатор календарных дней для генератора журналов.
//
// Классификатор отвечает на единственный вопрос: является ли дата рабочим днем.
// Нерабочими считаются суббота и воскресенье, федеральные праздники США
// из канонической таблицы rickar/cal, а также 1 января — всегда,
// независимо от содержимого таблицы (явная политика NewYearAlwaysExcluded).
package calendar

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// Classifier классификатор дней. Безопасен для конкурентного использования:
// после создания состояние только читается.
type Classifier struct {
	cal *cal.BusinessCalendar
}

// New создает классификатор с федеральными праздниками США.
func New() *Classifier {
	c := cal.NewBusinessCalendar()
	c.Name = "Mileage Log Generator"
	c.Description = "US federal holidays for mileage log generation"
	c.AddHoliday(us.Holidays...)
	return &Classifier{cal: c}
}

// IsHoliday сообщает, является ли дата праздником.
// 1 января считается праздником всегда, даже если таблица для этого года его не содержит.
func (c *Classifier) IsHoliday(date time.Time) bool {
	if isNewYearsDay(date) {
		return true
	}
	actual, observed, _ := c.cal.IsHoliday(date)
	return actual || observed
}

// IsWorkday сообщает, является ли дата рабочим днем:
// будний день, не праздник и не 1 января.
func (c *Classifier) IsWorkday(date time.Time) bool {
	if isNewYearsDay(date) {
		return false
	}
	return c.cal.IsWorkday(date)
}

// isNewYearsDay политика NewYearAlwaysExcluded: 1 января исключается безусловно.
func isNewYearsDay(date time.Time) bool {
	return date.Month() == time.January && date.Day() == 1
}
