package physics

import (
	"github.com/annel0/terra2d/internal/vec"
)

// Box прямоугольник в пикселях мира: [MinX, MaxX) x [MinY, MaxY)
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Intersects проверяет пересечение двух прямоугольников
func (b Box) Intersects(o Box) bool {
	return b.MinX < o.MaxX && o.MinX < b.MaxX &&
		b.MinY < o.MaxY && o.MinY < b.MaxY
}

// Contains проверяет, находится ли точка внутри прямоугольника
func (b Box) Contains(p vec.Vec2Float) bool {
	return p.X >= b.MinX && p.X < b.MaxX && p.Y >= b.MinY && p.Y < b.MaxY
}

// BoxCollider представляет простой прямоугольный коллайдер
type BoxCollider struct {
	Width  float64 // Ширина в пикселях
	Height float64 // Высота в пикселях
}

// NewBoxCollider создаёт новый коллайдер с указанными размерами
func NewBoxCollider(width, height float64) *BoxCollider {
	return &BoxCollider{
		Width:  width,
		Height: height,
	}
}

// At возвращает прямоугольник коллайдера с центром в pos
func (bc *BoxCollider) At(pos vec.Vec2Float) Box {
	hw, hh := bc.Width/2, bc.Height/2
	return Box{MinX: pos.X - hw, MinY: pos.Y - hh, MaxX: pos.X + hw, MaxY: pos.Y + hh}
}

// CellBox прямоугольник клетки с центром center и стороной size
func CellBox(center vec.Vec2Float, size float64) Box {
	return NewBoxCollider(size, size).At(center)
}

// CheckBoxCollision проверяет столкновение двух коллайдеров
func CheckBoxCollision(pos1 vec.Vec2Float, collider1 *BoxCollider, pos2 vec.Vec2Float, collider2 *BoxCollider) bool {
	return collider1.At(pos1).Intersects(collider2.At(pos2))
}
