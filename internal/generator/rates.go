package generator

// deductionRates ставки налогового вычета за деловую милю по годам (IRS standard mileage rate).
var deductionRates = map[int]float64{
	2018: 0.545,
	2019: 0.58,
	2020: 0.575,
	2021: 0.56,
	2022: 0.585,
	2023: 0.655,
	2024: 0.67,
	2025: 0.70,
}

// RateForYear возвращает ставку вычета для года. Для года за пределами таблицы
// используется ближайший известный год: последний для будущих лет,
// первый для прошлых.
func RateForYear(year int) float64 {
	if rate, ok := deductionRates[year]; ok {
		return rate
	}
	bestYear, bestRate := 0, 0.0
	minYear, minRate := 0, 0.0
	for y, r := range deductionRates {
		if y <= year && y > bestYear {
			bestYear, bestRate = y, r
		}
		if minYear == 0 || y < minYear {
			minYear, minRate = y, r
		}
	}
	if bestYear != 0 {
		return bestRate
	}
	return minRate
}
