package world

import (
	"github.com/annel0/terra2d/internal/physics"
	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world/block"
)

// Block материализованная клетка чанка
type Block struct {
	ID    block.BlockID
	Local vec.Vec2      // координаты внутри чанка
	Cell  vec.Vec2      // координаты клетки в мире
	Pos   vec.Vec2Float // центр клетки в пикселях
}

func newBlock(index int, local vec.Vec2, id block.BlockID) *Block {
	cell := vec.FromLocal(index, local)
	return &Block{
		ID:    id,
		Local: local,
		Cell:  cell,
		Pos:   vec.FromCell(cell, CellSize),
	}
}

// Solid сообщает, участвует ли блок в коллизиях
func (b *Block) Solid() bool {
	return block.IsSolid(b.ID)
}

// Box прямоугольник блока
func (b *Block) Box() physics.Box {
	return physics.CellBox(b.Pos, CellSize)
}
