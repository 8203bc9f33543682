package allocator

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/calendar"
	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/rnd"
	"github.com/magabrotheeeer/mileage-log-generator/internal/lib/miles"
	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

func newTestAllocator(seed int64) *Allocator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(calendar.New(), rnd.NewSeeded(seed), logger)
}

func sumTargets(targets []models.DailyTarget) (business, personal float64) {
	for _, t := range targets {
		business = miles.Round1(business + t.BusinessMiles)
		personal = miles.Round1(personal + t.PersonalMiles)
	}
	return business, personal
}

func TestAllocate_ExactSums(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		business float64
		personal float64
	}{
		{
			name:     "полная неделя",
			start:    time.Date(2023, 3, 6, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2023, 3, 12, 0, 0, 0, 0, time.UTC),
			business: 300,
			personal: 100,
		},
		{
			name:     "один день",
			start:    time.Date(2023, 3, 7, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2023, 3, 7, 0, 0, 0, 0, time.UTC),
			business: 42.5,
			personal: 10.3,
		},
		{
			name:     "месяц с праздником",
			start:    time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2023, 7, 31, 0, 0, 0, 0, time.UTC),
			business: 1200,
			personal: 340,
		},
		{
			name:     "только личный пробег",
			start:    time.Date(2023, 3, 6, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2023, 3, 12, 0, 0, 0, 0, time.UTC),
			business: 0,
			personal: 250,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(1); seed <= 5; seed++ {
				a := newTestAllocator(seed)
				targets, err := a.Allocate(tt.start, tt.end, tt.business, tt.personal)
				require.NoError(t, err)

				business, personal := sumTargets(targets)
				assert.InDelta(t, tt.business, business, miles.Epsilon, "seed %d", seed)
				assert.InDelta(t, tt.personal, personal, miles.Epsilon, "seed %d", seed)
			}
		})
	}
}

func TestAllocate_HolidayGetsNoBusinessMiles(t *testing.T) {
	a := newTestAllocator(7)

	// Период включает 4 июля 2023 года.
	targets, err := a.Allocate(
		time.Date(2023, 7, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 7, 7, 0, 0, 0, 0, time.UTC),
		500, 100,
	)
	require.NoError(t, err)

	for _, target := range targets {
		if target.Date.Equal(time.Date(2023, 7, 4, 0, 0, 0, 0, time.UTC)) {
			assert.Zero(t, target.BusinessMiles, "business miles on a holiday")
		}
	}
}

func TestAllocate_WeekendOnlyRangeReassignsBusiness(t *testing.T) {
	a := newTestAllocator(3)

	// Только суббота и воскресенье: деловой пробег переносится на все дни,
	// ошибки нет, сумма сходится.
	targets, err := a.Allocate(
		time.Date(2023, 3, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 3, 12, 0, 0, 0, 0, time.UTC),
		80, 20,
	)
	require.NoError(t, err)

	business, personal := sumTargets(targets)
	assert.InDelta(t, 80.0, business, miles.Epsilon)
	assert.InDelta(t, 20.0, personal, miles.Epsilon)
}

func TestAllocate_AllDaysHolidays(t *testing.T) {
	a := newTestAllocator(3)

	// Единственный день — 1 января: деловому пробегу некуда деться.
	_, err := a.Allocate(
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		50, 0,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoBusinessDays)
}

func TestDistributeRemainder(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		buckets []float64
		want    []float64
	}{
		{
			name:    "остаток раскладывается циклически",
			amount:  0.3,
			buckets: []float64{1, 2, 3},
			want:    []float64{1.1, 2.1, 3.1},
		},
		{
			name:    "остаток больше одного круга",
			amount:  0.5,
			buckets: []float64{0, 0},
			want:    []float64{0.3, 0.2},
		},
		{
			name:    "нулевой остаток ничего не меняет",
			amount:  0,
			buckets: []float64{1, 2},
			want:    []float64{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs := make([]*float64, len(tt.buckets))
			for i := range tt.buckets {
				refs[i] = &tt.buckets[i]
			}
			DistributeRemainder(tt.amount, miles.Increment, refs)
			for i, want := range tt.want {
				assert.InDelta(t, want, tt.buckets[i], miles.Epsilon)
			}
		})
	}
}

func TestDistributeRemainder_EmptyBuckets(t *testing.T) {
	assert.NotPanics(t, func() {
		DistributeRemainder(1.0, miles.Increment, nil)
	})
}
