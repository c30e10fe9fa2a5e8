package vec

import "math"

// StripWidth ширина вертикальной полосы (чанка) в клетках
const StripWidth = 16

// Vec2 представляет 2D координаты клетки
type Vec2 struct {
	X, Y int
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// StripIndex возвращает индекс вертикальной полосы, которой принадлежит клетка.
// Для отрицательных X используется деление с округлением вниз.
func (v Vec2) StripIndex() int {
	return v.X >> 4
}

// LocalInStrip возвращает координаты внутри полосы: X по модулю 16, Y без изменений
func (v Vec2) LocalInStrip() Vec2 {
	return Vec2{X: v.X & 0xF, Y: v.Y}
}

// FromLocal переводит локальные координаты полосы index обратно в глобальные
func FromLocal(index int, local Vec2) Vec2 {
	return Vec2{X: index*StripWidth + local.X, Y: local.Y}
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// FloorDiv делит a на b с округлением к минус бесконечности
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
