// Package allocator распределяет суммарный деловой и личный пробег периода
// по календарным дням.
//
// Рабочие дни получают основную долю делового пробега, выходные и праздники —
// основную долю личного. К базовой доле каждого дня применяется ограниченный
// случайный множитель, после чего остатки округления довносятся шагами по 0.1 мили,
// чтобы дневные планы сходились к запрошенным суммам точно.
// Деловой пробег никогда не назначается на праздники.
package allocator

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/calendar"
	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/rnd"
	"github.com/magabrotheeeer/mileage-log-generator/internal/lib/miles"
	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

// ErrNoDays возвращается, когда в периоде нет ни одного дня.
var ErrNoDays = errors.New("no days in range")

// ErrNoBusinessDays возвращается, когда деловой пробег запрошен,
// но каждый день периода — праздник.
var ErrNoBusinessDays = errors.New("no days available for business mileage")

// Доли делового пробега: рабочие дни против остальных.
const (
	businessWorkdayShare = 0.9
	personalWorkdayShare = 0.35
)

// Амплитуды случайного множителя по типу пробега и типу дня.
const (
	businessWorkdayNoise = 0.2
	businessOtherNoise   = 0.3
	personalWorkdayNoise = 0.3
	personalOtherNoise   = 0.2
)

// skipDayChance вероятность полностью пропустить нерабочий день,
// имитируя неравномерность реальных поездок.
const skipDayChance = 0.2

// Allocator распределитель пробега по дням.
type Allocator struct {
	classifier *calendar.Classifier
	rng        rnd.Rand
	log        *slog.Logger
}

// New создает новый Allocator.
func New(classifier *calendar.Classifier, rng rnd.Rand, log *slog.Logger) *Allocator {
	return &Allocator{classifier: classifier, rng: rng, log: log}
}

// Allocate раскладывает деловой и личный пробег по дням периода [start, end].
// Суммы дневных планов равны запрошенным итогам с точностью до miles.Epsilon.
func (a *Allocator) Allocate(start, end time.Time, businessMiles, personalMiles float64) ([]models.DailyTarget, error) {
	const op = "allocator.Allocate"

	targets := a.buildDays(start, end)
	if len(targets) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoDays)
	}

	if err := a.allocateBusiness(targets, miles.Round1(businessMiles)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a.allocatePersonal(targets, miles.Round1(personalMiles))

	return targets, nil
}

// buildDays перечисляет дни периода и классифицирует каждый.
func (a *Allocator) buildDays(start, end time.Time) []models.DailyTarget {
	var targets []models.DailyTarget
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		targets = append(targets, models.DailyTarget{
			Date:      d,
			IsWorkday: a.classifier.IsWorkday(d),
		})
	}
	return targets
}

// allocateBusiness распределяет деловой пробег. Праздники исключаются полностью;
// при отсутствии рабочих дней вся доля переносится на остальные непраздничные дни.
func (a *Allocator) allocateBusiness(targets []models.DailyTarget, total float64) error {
	if total < miles.Epsilon {
		return nil
	}

	var workdays, others []int
	for i, t := range targets {
		if a.classifier.IsHoliday(t.Date) {
			continue
		}
		if t.IsWorkday {
			workdays = append(workdays, i)
		} else {
			others = append(others, i)
		}
	}

	if len(workdays) == 0 && len(others) == 0 {
		return ErrNoBusinessDays
	}
	if len(workdays) == 0 {
		a.log.Warn("no workdays in range, spreading business miles across all days",
			slog.Float64("business_miles", total))
		workdays, others = others, nil
	}

	workShare := businessWorkdayShare
	if len(others) == 0 {
		workShare = 1
	}

	remaining := total
	assign := func(indexes []int, share, noise float64, skippable bool) {
		if len(indexes) == 0 {
			return
		}
		perDay := total * share / float64(len(indexes))
		for _, i := range indexes {
			if skippable && a.rng.Float64() < skipDayChance {
				continue
			}
			v := a.noisy(perDay, noise)
			if v > remaining {
				v = remaining
			}
			targets[i].BusinessMiles = v
			remaining = miles.Round1(remaining - v)
		}
	}
	assign(workdays, workShare, businessWorkdayNoise, false)
	assign(others, 1-workShare, businessOtherNoise, true)

	// Остаток довносится только по рабочим дням.
	buckets := make([]*float64, len(workdays))
	for j, i := range workdays {
		buckets[j] = &targets[i].BusinessMiles
	}
	DistributeRemainder(remaining, miles.Increment, buckets)
	return nil
}

// allocatePersonal распределяет личный пробег: выходные и праздники получают
// большую долю, остаток довносится по всем дням.
func (a *Allocator) allocatePersonal(targets []models.DailyTarget, total float64) {
	if total < miles.Epsilon {
		return
	}

	var workdays, others []int
	for i, t := range targets {
		if t.IsWorkday {
			workdays = append(workdays, i)
		} else {
			others = append(others, i)
		}
	}

	workShare := personalWorkdayShare
	if len(others) == 0 {
		workShare = 1
	} else if len(workdays) == 0 {
		workShare = 0
	}

	remaining := total
	assign := func(indexes []int, share, noise float64, skippable bool) {
		if len(indexes) == 0 || share == 0 {
			return
		}
		perDay := total * share / float64(len(indexes))
		for _, i := range indexes {
			if skippable && a.rng.Float64() < skipDayChance {
				continue
			}
			v := a.noisy(perDay, noise)
			if v > remaining {
				v = remaining
			}
			targets[i].PersonalMiles = v
			remaining = miles.Round1(remaining - v)
		}
	}
	assign(workdays, workShare, personalWorkdayNoise, false)
	assign(others, 1-workShare, personalOtherNoise, true)

	buckets := make([]*float64, len(targets))
	for i := range targets {
		buckets[i] = &targets[i].PersonalMiles
	}
	DistributeRemainder(remaining, miles.Increment, buckets)
}

// noisy применяет к базовому значению ограниченный случайный множитель 1±noise
// и округляет результат до 0.1 мили, не опускаясь ниже нуля.
func (a *Allocator) noisy(base, noise float64) float64 {
	mult := 1 + (a.rng.Float64()*2-1)*noise
	v := miles.Round1(base * mult)
	if v < 0 {
		return 0
	}
	return v
}
