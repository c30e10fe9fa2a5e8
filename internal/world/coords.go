package world

import (
	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world/block"
)

const (
	// ChunkWidth ширина чанка в клетках
	ChunkWidth = vec.StripWidth
	// CellSize сторона клетки в пикселях
	CellSize = 20.0
	// ChunkPixels ширина чанка в пикселях
	ChunkPixels = ChunkWidth * CellSize
)

// CellData сырые данные чанка: локальная клетка -> материал
type CellData map[vec.Vec2]block.BlockID

// Clone возвращает независимую копию
func (d CellData) Clone() CellData {
	out := make(CellData, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// CellAt клетка мира, содержащая точку (x, y) в пикселях
func CellAt(x, y float64) vec.Vec2 {
	return vec.Vec2Float{X: x, Y: y}.Snap(CellSize)
}

// ChunkIndexAt индекс чанка, содержащего горизонтальную координату x
func ChunkIndexAt(x float64) int {
	return CellAt(x, 0).StripIndex()
}

// ChunkWorldX центр самой левой клетки чанка index в пикселях
func ChunkWorldX(index int) float64 {
	return float64(index) * ChunkPixels
}
