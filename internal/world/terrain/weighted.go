package terrain

import "math/rand"

// Choice дискретное распределение с весами
type Choice[T any] struct {
	Values  []T
	Weights []float64
}

// Pick выбирает значение пропорционально весу
func (c Choice[T]) Pick(rng *rand.Rand) T {
	total := 0.0
	for _, w := range c.Weights {
		total += w
	}
	r := rng.Float64() * total
	for i, w := range c.Weights {
		if r < w {
			return c.Values[i]
		}
		r -= w
	}
	return c.Values[len(c.Values)-1]
}

// Uniform равновероятный выбор из значений
func Uniform[T any](values ...T) Choice[T] {
	weights := make([]float64, len(values))
	for i := range weights {
		weights[i] = 1
	}
	return Choice[T]{Values: values, Weights: weights}
}

// walkWeights веса семи последовательных длин прохода
var walkWeights = []float64{0.3, 0.3, 0.1, 0.1, 0.08, 0.09, 0.03}

// WalkLengths распределение длин прохода base..base+6
func WalkLengths(base int) Choice[int] {
	values := make([]int, len(walkWeights))
	for i := range values {
		values[i] = base + i
	}
	return Choice[int]{Values: values, Weights: walkWeights}
}

// Expected математическое ожидание целочисленного распределения
func Expected(c Choice[int]) float64 {
	total, sum := 0.0, 0.0
	for i, w := range c.Weights {
		total += w
		sum += w * float64(c.Values[i])
	}
	if total == 0 {
		return 0
	}
	return sum / total
}
