// Package generator реализует движок синтетической генерации журналов пробега.
//
// Движок принимает проверенный набор параметров периода и ссылку на вид
// деятельности, раскладывает суммарный пробег по дням, синтезирует поездки
// каждого дня и собирает готовый журнал. Итоговые суммы пересчитываются
// по сгенерированным поездкам и сводятся к запрошенным точно финальной сверкой.
// Движок не знает про HTTP, базу данных и подписки; состояние между вызовами
// не сохраняется, кроме статических справочников.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/allocator"
	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/businesstype"
	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/calendar"
	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/catalog"
	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/rnd"
	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/synth"
	"github.com/magabrotheeeer/mileage-log-generator/internal/lib/miles"
	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

// Ошибки валидации запроса. Генерация не начинается, пока запрос не проверен.
var (
	ErrInvalidDateRange     = errors.New("end date must not be before start date")
	ErrInvalidMileageRange  = errors.New("end mileage must be greater than start mileage")
	ErrPersonalExceedsTotal = errors.New("personal miles must be less than total mileage")
	ErrEmptyVehicle         = errors.New("vehicle is required")
)

// reconcileTolerance расхождение сгенерированной суммы с запрошенной,
// выше которого сверка пишет диагностическое сообщение.
const reconcileTolerance = 1.0

// Request проверенный запрос на генерацию журнала.
type Request struct {
	Username           string
	StartDate          time.Time
	EndDate            time.Time
	StartMileage       float64
	EndMileage         float64
	TotalPersonalMiles float64
	Vehicle            string
	BusinessTypeRef    businesstype.Ref
	// EntryCap предел числа видимых поездок, 0 — без ограничения.
	EntryCap int
}

// Engine движок генерации журналов.
type Engine struct {
	resolver   *businesstype.Resolver
	classifier *calendar.Classifier
	rng        rnd.Rand
	log        *slog.Logger
}

// New создает новый Engine.
func New(resolver *businesstype.Resolver, classifier *calendar.Classifier, rng rnd.Rand, log *slog.Logger) *Engine {
	return &Engine{
		resolver:   resolver,
		classifier: classifier,
		rng:        rng,
		log:        log,
	}
}

// Validate проверяет предусловия запроса. Ошибки детерминированы:
// один и тот же некорректный запрос отклоняется одинаково при любом зерне.
func Validate(req Request) error {
	if req.StartDate.IsZero() || req.EndDate.IsZero() || req.EndDate.Before(req.StartDate) {
		return ErrInvalidDateRange
	}
	if req.EndMileage <= req.StartMileage {
		return ErrInvalidMileageRange
	}
	total := req.EndMileage - req.StartMileage
	if req.TotalPersonalMiles < 0 || req.TotalPersonalMiles >= total {
		return ErrPersonalExceedsTotal
	}
	if req.Vehicle == "" {
		return ErrEmptyVehicle
	}
	return nil
}

// Generate генерирует журнал пробега по запросу.
func (e *Engine) Generate(ctx context.Context, req Request) (*models.MileageLog, error) {
	const op = "generator.Generate"

	if err := Validate(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bt, err := e.resolver.Resolve(ctx, req.BusinessTypeRef, req.Username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	total := miles.Round1(req.EndMileage - req.StartMileage)
	personal := miles.Round1(req.TotalPersonalMiles)
	business := miles.Round1(total - personal)

	alloc := allocator.New(e.classifier, e.rng, e.log)
	targets, err := alloc.Allocate(req.StartDate, req.EndDate, business, personal)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	synthesizer := synth.New(e.rng, e.log)
	var entries []models.TripEntry
	odometer := req.StartMileage
	for _, target := range targets {
		dayEntries := synthesizer.Day(target, odometer, bt, req.Vehicle)
		if len(dayEntries) > 0 {
			odometer = dayEntries[len(dayEntries)-1].EndMileage
		}
		entries = append(entries, dayEntries...)
	}

	entries = e.reconcile(entries, total, req.StartMileage, maxDistances(bt))

	logEntry := &models.MileageLog{
		Username:          req.Username,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		StartMileage:      req.StartMileage,
		EndMileage:        req.EndMileage,
		TotalMileage:      total,
		VehicleLabel:      req.Vehicle,
		BusinessTypeLabel: bt.DisplayName,
		Entries:           entries,
	}

	// Итоги пересчитываются по сгенерированным поездкам, а не по запросу.
	for _, entry := range entries {
		if entry.Kind == models.TripBusiness {
			logEntry.TotalBusinessMiles = miles.Round1(logEntry.TotalBusinessMiles + entry.Miles)
		} else {
			logEntry.TotalPersonalMiles = miles.Round1(logEntry.TotalPersonalMiles + entry.Miles)
		}
	}

	logEntry.DeductionRate = RateForYear(req.StartDate.Year())
	logEntry.DeductionAmount = miles.Round2(logEntry.TotalBusinessMiles * logEntry.DeductionRate)

	e.truncate(logEntry, req.EntryCap)
	return logEntry, nil
}

// maxDistances собирает лимиты дистанции целей вида деятельности,
// чтобы сверка не выталкивала поездки за их пределы.
func maxDistances(bt *models.BusinessType) map[string]float64 {
	limits := make(map[string]float64, len(bt.Purposes))
	for _, p := range bt.Purposes {
		if p.MaxDistance > 0 {
			limits[p.Name] = p.MaxDistance
		}
	}
	return limits
}

// reconcile сводит суммарный пробег поездок к запрошенному итогу.
// Расхождение довносится в последние поездки без лимита дистанции шагами
// по 0.1 мили; если таких поездок нет, остаток уходит в overflow. При
// расхождении выше допуска пишется диагностическое сообщение. После
// корректировки одометр пересцепляется.
func (e *Engine) reconcile(entries []models.TripEntry, total, startMileage float64, limits map[string]float64) []models.TripEntry {
	if len(entries) == 0 {
		return entries
	}

	sum := 0.0
	for _, entry := range entries {
		sum = miles.Round1(sum + entry.Miles)
	}
	diff := miles.Round1(total - sum)

	if math.Abs(diff) > reconcileTolerance {
		e.log.Warn("generated mileage drifted from requested total, correcting",
			slog.Float64("generated", sum),
			slog.Float64("requested", total),
			slog.Float64("diff", diff))
	}

	if diff >= miles.Increment-miles.Epsilon {
		// Положительный остаток распределяется по поездкам без лимита дистанции,
		// начиная с конца журнала.
		var buckets []*float64
		for i := len(entries) - 1; i >= 0 && len(buckets) < 10; i-- {
			if _, capped := limits[entries[i].Purpose]; capped {
				continue
			}
			buckets = append(buckets, &entries[i].Miles)
		}
		if len(buckets) > 0 {
			allocator.DistributeRemainder(diff, miles.Increment, buckets)
		} else {
			// Все поездки ограничены лимитом дистанции: остаток довносится
			// в запас до лимита, излишек уходит в дополнительные поездки.
			entries = e.overflow(entries, diff, limits)
		}
	} else if diff < -miles.Epsilon {
		// Перебор снимается с конца журнала, каждая поездка сохраняет минимум 0.1 мили.
		for i := len(entries) - 1; i >= 0 && diff < -miles.Epsilon; i-- {
			take := miles.Round1(entries[i].Miles - miles.Increment)
			if take > -diff {
				take = -diff
			}
			if take <= 0 {
				continue
			}
			entries[i].Miles = miles.Round1(entries[i].Miles - take)
			diff = miles.Round1(diff + take)
		}
	}

	synth.Chain(entries, startMileage)
	return entries
}

// overflow довносит положительный остаток, когда у каждой поездки журнала
// есть лимит дистанции. Сначала заполняется запас существующих поездок до их
// лимита, затем излишек разбивается на дополнительные поездки той же цели,
// что и последняя запись, длиной не выше ее лимита.
func (e *Engine) overflow(entries []models.TripEntry, diff float64, limits map[string]float64) []models.TripEntry {
	for i := len(entries) - 1; i >= 0 && diff >= miles.Increment-miles.Epsilon; i-- {
		headroom := miles.Round1(limits[entries[i].Purpose] - entries[i].Miles)
		if headroom < miles.Increment {
			continue
		}
		add := headroom
		if add > diff {
			add = diff
		}
		add = miles.Round1(add)
		entries[i].Miles = miles.Round1(entries[i].Miles + add)
		diff = miles.Round1(diff - add)
	}

	last := entries[len(entries)-1]
	limit := limits[last.Purpose]
	for diff >= miles.Increment-miles.Epsilon {
		length := diff
		if length > limit {
			length = limit
		}
		extra := last
		extra.Miles = miles.Round1(length)
		extra.Location = catalog.PickLocation(e.rng, extra.Purpose, extra.Miles,
			extra.Kind, extra.BusinessTypeLabel, extra.Date.Month())
		entries = append(entries, extra)
		diff = miles.Round1(diff - extra.Miles)
	}
	return entries
}

// truncate обрезает список поездок до предела тарифа. Итоговые суммы журнала
// продолжают отражать полную генерацию; последняя видимая поездка получает
// пометку о числе скрытых записей.
func (e *Engine) truncate(logEntry *models.MileageLog, limit int) {
	if limit <= 0 || len(logEntry.Entries) <= limit {
		return
	}
	hidden := len(logEntry.Entries) - limit
	logEntry.Entries = logEntry.Entries[:limit]
	last := &logEntry.Entries[limit-1]
	last.Purpose = fmt.Sprintf("%s (+%d more entries)", last.Purpose, hidden)
	e.log.Info("entry list truncated to subscription cap",
		slog.Int("cap", limit), slog.Int("hidden", hidden))
}
