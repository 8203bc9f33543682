// Package rnd предоставляет абстракцию источника случайности для генератора журналов.
//
// Генерация использует псевдослучайные числа без требований к криптостойкости,
// но тесты должны уметь подставлять детерминированный источник,
// чтобы проверять инварианты точных сумм воспроизводимо.
package rnd

import (
	"math/rand"
	"time"
)

// Rand источник случайности, используемый всеми проходами генератора.
type Rand interface {
	// Float64 возвращает число в интервале [0, 1).
	Float64() float64
	// Intn возвращает число в интервале [0, n).
	Intn(n int) int
}

// New возвращает производственный источник случайности.
// Каждый вызов создает независимый генератор, безопасный для одного запроса.
func New() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewSeeded возвращает детерминированный источник с заданным зерном.
func NewSeeded(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// Sequence детерминированный источник, циклически выдающий заранее заданные значения.
// Используется в тестах, когда нужен полный контроль над ходом генерации.
type Sequence struct {
	values []float64
	pos    int
}

// NewSequence создает Sequence из переданных значений. Значения должны лежать в [0, 1).
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Float64 возвращает очередное значение последовательности.
func (s *Sequence) Float64() float64 {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

// Intn отображает очередное значение последовательности на интервал [0, n).
func (s *Sequence) Intn(n int) int {
	return int(s.Float64() * float64(n))
}
