package allocator

import "github.com/magabrotheeeer/mileage-log-generator/internal/lib/miles"

// DistributeRemainder довносит остаток amount в корзины, циклически добавляя
// increment в каждую, пока остаток не станет меньше шага. Хвост меньше шага
// целиком добавляется в первую корзину, чтобы сумма сошлась точно.
//
// Утилита общая для распределителя по дням и финальной сверки журнала.
func DistributeRemainder(amount, increment float64, buckets []*float64) {
	if len(buckets) == 0 || amount < miles.Epsilon {
		return
	}
	i := 0
	for amount >= increment-miles.Epsilon {
		*buckets[i] = miles.Round1(*buckets[i] + increment)
		amount = miles.Round1(amount - increment)
		i = (i + 1) % len(buckets)
	}
	if amount > miles.Epsilon {
		*buckets[0] = miles.Round1(*buckets[0] + amount)
	}
}
