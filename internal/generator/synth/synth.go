// Package synth синтезирует поездки одного дня из его дневного плана пробега.
//
// Бюджет дня разбивается на поездки правдоподобной длины: деловые поездки
// выбирают цель с учетом дневных лимитов частоты и ограничений максимальной
// дистанции, личные — из общего каталога личных целей. Последняя поездка
// добирает остаток бюджета точно; если остаток превышает лимит дистанции цели,
// добавляется еще одна поездка вместо нарушения лимита. Показания одометра
// сцепляются в непрерывную последовательность, после чего порядок поездок
// перемешивается и одометр пересчитывается заново.
package synth

import (
	"log/slog"

	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/catalog"
	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/rnd"
	"github.com/magabrotheeeer/mileage-log-generator/internal/lib/miles"
	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

// personalDailyTripCap мягкий потолок числа личных поездок в день.
const personalDailyTripCap = 4

// maxTripsPerDay жесткий предохранитель от зацикливания при вырожденных ограничениях.
const maxTripsPerDay = 50

// Synthesizer синтезатор поездок одного дня.
type Synthesizer struct {
	rng rnd.Rand
	log *slog.Logger
}

// New создает новый Synthesizer.
func New(rng rnd.Rand, log *slog.Logger) *Synthesizer {
	return &Synthesizer{rng: rng, log: log}
}

// Day генерирует поездки дня: сначала деловые, затем личные,
// после чего перемешивает их и пересцепляет одометр от startOdometer.
// Сумма пробега поездок равна дневному плану, кроме случая, когда деловые цели
// исчерпали дневные лимиты частоты раньше бюджета — такой остаток теряется
// и добирается финальной сверкой на уровне журнала.
func (s *Synthesizer) Day(target models.DailyTarget, startOdometer float64, bt *models.BusinessType, vehicle string) []models.TripEntry {
	var entries []models.TripEntry

	entries = append(entries, s.businessTrips(target, bt, vehicle)...)
	entries = append(entries, s.personalTrips(target, bt, vehicle)...)

	s.shuffle(entries)
	Chain(entries, startOdometer)
	return entries
}

// businessTrips разбивает деловой бюджет дня на поездки.
func (s *Synthesizer) businessTrips(target models.DailyTarget, bt *models.BusinessType, vehicle string) []models.TripEntry {
	remaining := miles.Round1(target.BusinessMiles)
	if remaining < miles.Epsilon || len(bt.Purposes) == 0 {
		return nil
	}

	ceiling := s.tripCeiling(bt)
	counts := make(map[string]int, len(bt.Purposes))

	var entries []models.TripEntry
	for remaining >= miles.Increment-miles.Epsilon && len(entries) < maxTripsPerDay {
		eligible := eligiblePurposes(bt.Purposes, counts)
		if len(eligible) == 0 {
			s.log.Info("business purposes exhausted before budget",
				slog.String("date", target.Date.Format("2006-01-02")),
				slog.Float64("leftover", remaining))
			break
		}
		if len(entries) >= ceiling {
			break
		}

		rule := eligible[s.rng.Intn(len(eligible))]
		length := s.tripLength(rule, models.TripBusiness, remaining)

		// Последняя разрешенная поездка добирает остаток целиком.
		if len(entries) == ceiling-1 && remaining > length {
			length = remaining
			if rule.MaxDistance > 0 && length > rule.MaxDistance {
				// Вместо нарушения лимита дистанции остаток уходит в дополнительную поездку.
				length = rule.MaxDistance
				ceiling++
			}
		}
		length = miles.Round1(length)
		if length < miles.Increment {
			break
		}

		entries = append(entries, models.TripEntry{
			Date:              target.Date,
			Kind:              models.TripBusiness,
			Miles:             length,
			Purpose:           rule.Name,
			Location:          catalog.PickLocation(s.rng, rule.Name, length, models.TripBusiness, bt.DisplayName, target.Date.Month()),
			VehicleLabel:      vehicle,
			BusinessTypeLabel: bt.DisplayName,
		})
		counts[rule.Name]++
		remaining = miles.Round1(remaining - length)
	}
	return entries
}

// personalTrips разбивает личный бюджет дня на поездки из общего каталога целей.
func (s *Synthesizer) personalTrips(target models.DailyTarget, bt *models.BusinessType, vehicle string) []models.TripEntry {
	remaining := miles.Round1(target.PersonalMiles)
	if remaining < miles.Epsilon {
		return nil
	}

	var entries []models.TripEntry
	for remaining >= miles.Increment-miles.Epsilon && len(entries) < maxTripsPerDay {
		purpose := catalog.PersonalPurposes[s.rng.Intn(len(catalog.PersonalPurposes))]
		length := s.tripLength(models.PurposeRule{Name: purpose}, models.TripPersonal, remaining)

		// Последняя поездка дня добирает остаток целиком.
		if len(entries) == personalDailyTripCap-1 && remaining > length {
			length = remaining
		}
		length = miles.Round1(length)
		if length < miles.Increment {
			break
		}

		entries = append(entries, models.TripEntry{
			Date:              target.Date,
			Kind:              models.TripPersonal,
			Miles:             length,
			Purpose:           purpose,
			Location:          catalog.PickLocation(s.rng, purpose, length, models.TripPersonal, bt.DisplayName, target.Date.Month()),
			VehicleLabel:      vehicle,
			BusinessTypeLabel: bt.DisplayName,
		})
		remaining = miles.Round1(remaining - length)
		if len(entries) >= personalDailyTripCap {
			break
		}
	}

	// Недобор из-за потолка поездок уходит в последнюю личную поездку.
	if remaining > miles.Epsilon && len(entries) > 0 {
		last := &entries[len(entries)-1]
		last.Miles = miles.Round1(last.Miles + remaining)
	}
	return entries
}

// tripCeiling определяет потолок числа деловых поездок дня: целевое значение
// из среднего по виду деятельности, ограниченное суммой лимитов частоты,
// когда лимит задан у каждой цели.
func (s *Synthesizer) tripCeiling(bt *models.BusinessType) int {
	// Целевое число поездок: среднее с разбросом ±20%.
	target := int(bt.AverageTripsPerWorkday*(0.8+s.rng.Float64()*0.4) + 0.5)
	if target < 1 {
		target = 1
	}

	capSum := 0
	allCapped := true
	for _, p := range bt.Purposes {
		if p.FrequencyPerDay == 0 {
			allCapped = false
			break
		}
		capSum += p.FrequencyPerDay
	}
	if allCapped && capSum < target {
		return capSum
	}
	return target
}

// tripLength выбирает длину поездки из диапазона цели, обрезая ее по лимиту
// дистанции и остатку дневного бюджета.
func (s *Synthesizer) tripLength(rule models.PurposeRule, kind models.TripKind, remaining float64) float64 {
	r := catalog.DistanceRange(rule.Name, kind)
	lo, hi := r.Min, r.Max
	if rule.MaxDistance > 0 && hi > rule.MaxDistance {
		hi = rule.MaxDistance
	}
	if hi > remaining {
		hi = remaining
	}
	if lo > hi {
		lo = hi
	}
	return miles.Round1(lo + s.rng.Float64()*(hi-lo))
}

// eligiblePurposes возвращает цели, не исчерпавшие дневной лимит частоты.
func eligiblePurposes(purposes []models.PurposeRule, counts map[string]int) []models.PurposeRule {
	var eligible []models.PurposeRule
	for _, p := range purposes {
		if p.FrequencyPerDay > 0 && counts[p.Name] >= p.FrequencyPerDay {
			continue
		}
		eligible = append(eligible, p)
	}
	return eligible
}

// shuffle перемешивает поездки дня (Фишер–Йейтс) для чередования деловых и личных.
func (s *Synthesizer) shuffle(entries []models.TripEntry) {
	for i := len(entries) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		entries[i], entries[j] = entries[j], entries[i]
	}
}

// Chain сцепляет показания одометра: первая поездка начинается со start,
// каждая следующая — с конца предыдущей. Используется и финальной сверкой
// журнала после корректировки пробега последней записи.
func Chain(entries []models.TripEntry, start float64) {
	odometer := start
	for i := range entries {
		entries[i].StartMileage = miles.Round1(odometer)
		entries[i].EndMileage = miles.Round1(odometer + entries[i].Miles)
		odometer = entries[i].EndMileage
	}
}
