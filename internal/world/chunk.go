// Package world описывает вертикальные полосы мира (чанки) и их блоки.
package world

import (
	"sort"

	"github.com/annel0/terra2d/internal/physics"
	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world/block"
)

// Chunk вертикальная полоса мира шириной ChunkWidth клеток.
//
// Чанк не защищён мьютексом: до передачи в очередь загрузчика им владеет
// поток загрузки, после - только основной цикл.
type Chunk struct {
	index  int
	worldX float64
	data   CellData

	solid      map[vec.Vec2]*Block
	background map[vec.Vec2]*Block

	pending      []vec.Vec2 // клетки, ещё не прошедшие материализацию
	started      bool
	materialized bool

	walls      []physics.Box
	wallsValid bool
}

// NewChunk создаёт пустой чанк с указанным индексом
func NewChunk(index int) *Chunk {
	return NewChunkFromData(index, nil)
}

// NewChunkFromData создаёт чанк из сырых данных. Чанк забирает data себе.
func NewChunkFromData(index int, data CellData) *Chunk {
	if data == nil {
		data = make(CellData)
	}
	return &Chunk{
		index:      index,
		worldX:     ChunkWorldX(index),
		data:       data,
		solid:      make(map[vec.Vec2]*Block),
		background: make(map[vec.Vec2]*Block),
	}
}

// Index индекс чанка
func (c *Chunk) Index() int {
	return c.index
}

// WorldX центр самой левой клетки в пикселях
func (c *Chunk) WorldX() float64 {
	return c.worldX
}

// Extent горизонтальные границы чанка в пикселях: [left, right)
func (c *Chunk) Extent() (left, right float64) {
	left = c.worldX - CellSize/2
	return left, left + ChunkPixels
}

// IsVisible проверяет пересечение чанка с [playerX - maxDistance, playerX + maxDistance]
func (c *Chunk) IsVisible(playerX, maxDistance float64) bool {
	left, right := c.Extent()
	return left <= playerX+maxDistance && right > playerX-maxDistance
}

// Data возвращает копию сырых данных
func (c *Chunk) Data() CellData {
	return c.data.Clone()
}

// Len число клеток в сырых данных
func (c *Chunk) Len() int {
	return len(c.data)
}

// IDAt материал клетки по локальным координатам
func (c *Chunk) IDAt(local vec.Vec2) (block.BlockID, bool) {
	id, ok := c.data[local]
	return id, ok
}

// Set вставляет или перезаписывает клетку и переклассифицирует её блок
func (c *Chunk) Set(x, y int, id block.BlockID) {
	pos := vec.Vec2{X: x, Y: y}
	_, existed := c.data[pos]
	c.data[pos] = id

	if !c.started {
		return
	}
	if c.solid[pos] != nil || c.background[pos] != nil || c.materialized {
		c.classify(pos, id)
		return
	}
	if !existed {
		c.pending = append(c.pending, pos)
	}
}

// Remove убирает твёрдый блок и ставит на его место block.Air.
// Возвращает false, если блока нет среди твёрдых блоков этого чанка.
func (c *Chunk) Remove(b *Block) bool {
	if b == nil {
		return false
	}
	c.Materialize()
	cur, ok := c.solid[b.Local]
	if !ok || cur.ID != b.ID || cur.Cell != b.Cell {
		return false
	}
	c.Set(b.Local.X, b.Local.Y, block.Air)
	return true
}

// Add ставит твёрдый блок в точку мира (worldX, worldY).
// Ничего не делает, если точка вне чанка, материал не твёрдый или клетка занята.
func (c *Chunk) Add(worldX, worldY float64, id block.BlockID) (*Block, bool) {
	cell := CellAt(worldX, worldY)
	if cell.StripIndex() != c.index || !block.IsSolid(id) {
		return nil, false
	}
	local := cell.LocalInStrip()
	if cur, ok := c.data[local]; ok && block.IsSolid(cur) {
		return nil, false
	}

	c.Materialize()
	c.Set(local.X, local.Y, id)
	return c.solid[local], true
}

// Neighbors материалы восьми соседей блока внутри чанка.
// Клетки за границей чанка возвращаются как block.None.
func (c *Chunk) Neighbors(b *Block) Neighbors {
	var n Neighbors
	for d, off := range Offsets {
		p := b.Local.Add(off)
		if p.X < 0 || p.X >= ChunkWidth {
			continue
		}
		id, ok := c.data[p]
		n[d] = neighborID(id, ok)
	}
	return n
}

// BlockAt блок в клетке мира или nil
func (c *Chunk) BlockAt(cell vec.Vec2) *Block {
	if cell.StripIndex() != c.index {
		return nil
	}
	c.Materialize()
	local := cell.LocalInStrip()
	if b, ok := c.solid[local]; ok {
		return b
	}
	return c.background[local]
}

// Step материализует не более n клеток и сообщает, закончена ли работа.
// Позволяет растянуть построение блоков на несколько кадров.
func (c *Chunk) Step(n int) bool {
	if c.materialized {
		return true
	}
	if !c.started {
		c.pending = make([]vec.Vec2, 0, len(c.data))
		for pos := range c.data {
			c.pending = append(c.pending, pos)
		}
		sort.Slice(c.pending, func(i, j int) bool {
			a, b := c.pending[i], c.pending[j]
			if a.Y != b.Y {
				return a.Y > b.Y
			}
			return a.X < b.X
		})
		c.started = true
	}

	for n > 0 && len(c.pending) > 0 {
		pos := c.pending[0]
		c.pending = c.pending[1:]
		if id, ok := c.data[pos]; ok {
			c.classify(pos, id)
		}
		n--
	}

	if len(c.pending) == 0 {
		c.pending = nil
		c.materialized = true
	}
	return c.materialized
}

// Materialize доводит материализацию до конца
func (c *Chunk) Materialize() {
	for !c.Step(len(c.data) + 1) {
	}
}

// Materialized сообщает, построены ли группы блоков
func (c *Chunk) Materialized() bool {
	return c.materialized
}

// Collidable твёрдые блоки, сверху вниз и слева направо
func (c *Chunk) Collidable() []*Block {
	c.Materialize()
	return sortedBlocks(c.solid)
}

// Background фоновые блоки, сверху вниз и слева направо
func (c *Chunk) Background() []*Block {
	c.Materialize()
	return sortedBlocks(c.background)
}

// CollidableCount число твёрдых блоков
func (c *Chunk) CollidableCount() int {
	c.Materialize()
	return len(c.solid)
}

// BackgroundCount число фоновых блоков
func (c *Chunk) BackgroundCount() int {
	c.Materialize()
	return len(c.background)
}

// Walls прямоугольники твёрдых блоков для движка коллизий
func (c *Chunk) Walls() []physics.Box {
	c.Materialize()
	if !c.wallsValid {
		blocks := sortedBlocks(c.solid)
		c.walls = make([]physics.Box, len(blocks))
		for i, b := range blocks {
			c.walls[i] = b.Box()
		}
		c.wallsValid = true
	}
	return c.walls
}

// classify создаёт блок клетки заново и кладёт его в нужную группу
func (c *Chunk) classify(pos vec.Vec2, id block.BlockID) {
	if _, wasSolid := c.solid[pos]; wasSolid {
		delete(c.solid, pos)
		c.wallsValid = false
	}
	delete(c.background, pos)

	b := newBlock(c.index, pos, id)
	if block.IsSolid(id) {
		c.solid[pos] = b
		c.wallsValid = false
	} else {
		c.background[pos] = b
	}
}

func sortedBlocks(m map[vec.Vec2]*Block) []*Block {
	out := make([]*Block, 0, len(m))
	for _, b := range m {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Local.Y != out[j].Local.Y {
			return out[i].Local.Y > out[j].Local.Y
		}
		return out[i].Local.X < out[j].Local.X
	})
	return out
}
