package streaming

import (
	"github.com/annel0/terra2d/internal/eventbus"
	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world"
	"github.com/annel0/terra2d/internal/world/block"
)

// supportDirections стороны, по которым ищется опора для нового блока
var supportDirections = []world.Direction{world.North, world.East, world.South, world.West}

// ChunkAt загруженный чанк, содержащий точку мира, или nil
func (wm *WorldManager) ChunkAt(x, y float64) *world.Chunk {
	return wm.chunks[world.ChunkIndexAt(x)]
}

// BlockAt блок в точке мира или nil, если чанк не загружен
func (wm *WorldManager) BlockAt(x, y float64) *world.Block {
	c := wm.ChunkAt(x, y)
	if c == nil {
		return nil
	}
	return c.BlockAt(world.CellAt(x, y))
}

// PlaceBlock ставит твёрдый блок id в точку мира. Клетка должна быть фоновой;
// при RequireSupport нужен твёрдый сосед по одной из четырёх сторон.
// Некорректная установка ничего не делает и возвращает false.
func (wm *WorldManager) PlaceBlock(x, y float64, id block.BlockID) bool {
	c := wm.ChunkAt(x, y)
	if c == nil {
		return false
	}
	if wm.opts.RequireSupport && !wm.supported(world.CellAt(x, y)) {
		return false
	}
	b, ok := c.Add(x, y, id)
	if !ok {
		return false
	}
	wm.logger.Debug("Блок %s поставлен в (%.0f, %.0f)", id, x, y)
	wm.emitBlock(eventbus.BlockPlaced, b)
	if wm.isActive(c) {
		wm.publish()
	}
	return true
}

// RemoveBlock ломает твёрдый блок, на его месте остаётся фон
func (wm *WorldManager) RemoveBlock(b *world.Block) bool {
	if b == nil {
		return false
	}
	c := wm.chunks[b.Cell.StripIndex()]
	if c == nil || !c.Remove(b) {
		return false
	}
	wm.logger.Debug("Блок %s сломан в клетке %v", b.ID, b.Cell)
	wm.emitBlock(eventbus.BlockRemoved, b)
	if wm.isActive(c) {
		wm.publish()
	}
	return true
}

// NeighborsOf восемь соседей блока с учётом соседних чанков.
// Клетки незагруженных чанков считаются пустыми.
func (wm *WorldManager) NeighborsOf(b *world.Block) world.Neighbors {
	var n world.Neighbors
	for d, off := range world.Offsets {
		n[d] = world.SolidOrNone(wm.idAtCell(b.Cell.Add(off)))
	}
	return n
}

// CanBreak сообщает, можно ли сломать блок, стоя в точке from: сторона
// блока, обращённая к игроку, должна быть открыта, а при заданном MaxReach
// блок должен быть строго ближе MaxReach.
func (wm *WorldManager) CanBreak(b *world.Block, from vec.Vec2Float) bool {
	if b == nil || !b.Solid() {
		return false
	}
	if wm.opts.MaxReach > 0 && from.DistanceTo(b.Pos) >= wm.opts.MaxReach {
		return false
	}
	toward := world.DirectionTowards(from, b.Pos).Opposite()
	return !wm.NeighborsOf(b).Has(toward)
}

func (wm *WorldManager) emitBlock(eventType string, b *world.Block) {
	if wm.events == nil {
		return
	}
	ev := eventbus.NewEvent(eventType, b.Cell.StripIndex())
	ev.Cell = b.Cell
	ev.Block = b.ID
	wm.emit(ev)
}

func (wm *WorldManager) idAtCell(cell vec.Vec2) (block.BlockID, bool) {
	c := wm.chunks[cell.StripIndex()]
	if c == nil {
		return block.None, false
	}
	return c.IDAt(cell.LocalInStrip())
}

func (wm *WorldManager) supported(cell vec.Vec2) bool {
	for _, d := range supportDirections {
		if block.IsSolid(world.SolidOrNone(wm.idAtCell(cell.Add(world.Offsets[d])))) {
			return true
		}
	}
	return false
}
