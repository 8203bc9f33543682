// Package miles содержит вспомогательные функции округления пробега и денежных сумм.
//
// Весь пробег в системе ведется с точностью до 0.1 мили, суммы вычета — до цента.
package miles

import "math"

// Epsilon допуск при сравнении пробега с учетом накопления ошибок float64.
const Epsilon = 0.001

// Increment минимальный шаг пробега, которым оперирует распределение остатков.
const Increment = 0.1

// Round1 округляет пробег до 0.1 мили.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 округляет денежную сумму до цента.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Equal сравнивает два значения пробега с допуском Epsilon.
func Equal(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}
