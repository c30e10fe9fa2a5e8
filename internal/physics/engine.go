package physics

import (
	"sync"

	"github.com/annel0/terra2d/internal/vec"
)

// Surface источник твёрдых прямоугольников, например активный чанк
type Surface interface {
	Walls() []Box
}

// StaticSurface неизменяемый снимок стен. Движок читает поверхности из
// горутин физики, поэтому публикуемый набор не должен меняться после
// SetSurfaces.
type StaticSurface []Box

// Walls возвращает стены снимка
func (s StaticSurface) Walls() []Box {
	return s
}

// Snapshot копирует текущие стены поверхности
func Snapshot(s Surface) StaticSurface {
	return append(StaticSurface(nil), s.Walls()...)
}

// Engine хранит последний опубликованный список поверхностей и отвечает
// на запросы коллизий. Список заменяется целиком при каждой публикации.
// Walls опубликованных поверхностей вызывается под блокировкой чтения
// из разных горутин и должен быть безопасен для конкурентного чтения.
type Engine struct {
	mu       sync.RWMutex
	surfaces []Surface
	version  uint64
}

// NewEngine создаёт пустой движок коллизий
func NewEngine() *Engine {
	return &Engine{}
}

// SetSurfaces заменяет набор поверхностей
func (e *Engine) SetSurfaces(surfaces []Surface) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.surfaces = append([]Surface(nil), surfaces...)
	e.version++
}

// Version число публикаций с момента создания
func (e *Engine) Version() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.version
}

// SurfaceCount количество поверхностей в текущем наборе
func (e *Engine) SurfaceCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.surfaces)
}

// WallCount общее число твёрдых прямоугольников
func (e *Engine) WallCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	n := 0
	for _, s := range e.surfaces {
		n += len(s.Walls())
	}
	return n
}

// Collides проверяет, пересекает ли box хотя бы одну стену
func (e *Engine) Collides(box Box) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, s := range e.surfaces {
		for _, w := range s.Walls() {
			if w.Intersects(box) {
				return true
			}
		}
	}
	return false
}

// CanMoveToPosition проверяет, может ли коллайдер встать в позицию newPos
func (e *Engine) CanMoveToPosition(newPos vec.Vec2Float, collider *BoxCollider) bool {
	return !e.Collides(collider.At(newPos))
}
