package world

import (
	"math"

	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world/block"
)

// Direction одно из восьми направлений вокруг клетки
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// Offsets смещения клеток по направлениям; Y растёт вверх
var Offsets = [8]vec.Vec2{
	North:     {X: 0, Y: 1},
	NorthEast: {X: 1, Y: 1},
	East:      {X: 1, Y: 0},
	SouthEast: {X: 1, Y: -1},
	South:     {X: 0, Y: -1},
	SouthWest: {X: -1, Y: -1},
	West:      {X: -1, Y: 0},
	NorthWest: {X: -1, Y: 1},
}

var directionNames = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "?"
	}
	return directionNames[d]
}

// Opposite противоположное направление
func (d Direction) Opposite() Direction {
	return (d + 4) % 8
}

// Neighbors материалы восьми соседей. Фоновые соседи и клетки вне
// известных данных записаны как block.None.
type Neighbors [8]block.BlockID

// Has сообщает, есть ли твёрдый сосед в направлении d
func (n Neighbors) Has(d Direction) bool {
	return n[d] != block.None
}

// Count число твёрдых соседей
func (n Neighbors) Count() int {
	c := 0
	for _, id := range n {
		if id != block.None {
			c++
		}
	}
	return c
}

// neighborID приводит материал к значению для Neighbors
func neighborID(id block.BlockID, ok bool) block.BlockID {
	if !ok || !block.IsSolid(id) {
		return block.None
	}
	return id
}

// sectors направления по секторам угла atan2, начиная с востока против часовой
var sectors = [8]Direction{East, NorthEast, North, NorthWest, West, SouthWest, South, SouthEast}

// DirectionTowards направление из точки from на точку to с точностью до 45°
func DirectionTowards(from, to vec.Vec2Float) Direction {
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	sector := int(math.Round(angle/(math.Pi/4))) % 8
	if sector < 0 {
		sector += 8
	}
	return sectors[sector]
}

// SolidOrNone возвращает id, если клетка известна и твёрдая, иначе block.None
func SolidOrNone(id block.BlockID, ok bool) block.BlockID {
	return neighborID(id, ok)
}
