package vec

import "math"

// Vec2Float представляет 2D координаты в пикселях мира
type Vec2Float struct {
	X, Y float64
}

// Add складывает два вектора
func (v Vec2Float) Add(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2Float) Sub(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X - other.X, Y: v.Y - other.Y}
}

// Snap возвращает клетку сетки с шагом step, центр которой ближе всего к точке.
// Клетка с координатами (c, r) занимает [c*step - step/2, c*step + step/2).
func (v Vec2Float) Snap(step float64) Vec2 {
	half := step / 2
	return Vec2{
		X: int(math.Floor((v.X + half) / step)),
		Y: int(math.Floor((v.Y + half) / step)),
	}
}

// FromCell возвращает центр клетки в пикселях
func FromCell(c Vec2, step float64) Vec2Float {
	return Vec2Float{X: float64(c.X) * step, Y: float64(c.Y) * step}
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2Float) DistanceTo(other Vec2Float) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}
