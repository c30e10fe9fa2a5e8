package terrain

import (
	"math/rand"

	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world/block"
)

// Grid сетка 16x16. Cells[row][col], строка 0 верхняя.
type Grid struct {
	Origin vec.Vec2 // левая нижняя клетка в координатах мира
	Region Region
	Cells  [GridSize][GridSize]block.BlockID
}

func (g *Grid) fill(id block.BlockID) {
	for r := range g.Cells {
		for c := range g.Cells[r] {
			g.Cells[r][c] = id
		}
	}
}

// set ставит блок, молча игнорируя клетки вне сетки
func (g *Grid) set(row, col int, id block.BlockID) {
	if row < 0 || row >= GridSize || col < 0 || col >= GridSize {
		return
	}
	g.Cells[row][col] = id
}

// World возвращает мировые координаты клетки сетки
func (g *Grid) World(row, col int) vec.Vec2 {
	return vec.Vec2{X: g.Origin.X + col, Y: g.Origin.Y + GridSize - 1 - row}
}

// walk ставит блок id вдоль случайного пути от каждой стартовой точки.
// Каждый шаг увеличивает col или row с равной вероятностью; на границе сетки
// координата остаётся на месте.
func walk(g *Grid, rng *rand.Rand, id block.BlockID, length int, seeds []vec.Vec2) {
	for _, s := range seeds {
		col, row := s.X, s.Y
		g.set(row, col, id)
		for i := 0; i < length; i++ {
			if rng.Intn(2) == 0 {
				col = min(col+1, GridSize-1)
			} else {
				row = min(row+1, GridSize-1)
			}
			g.set(row, col, id)
		}
	}
}

// randomSeeds выбирает n стартовых точек внутри сетки (X = col, Y = row)
func randomSeeds(rng *rand.Rand, n int) []vec.Vec2 {
	seeds := make([]vec.Vec2, n)
	for i := range seeds {
		seeds[i] = vec.Vec2{X: rng.Intn(GridSize), Y: rng.Intn(GridSize)}
	}
	return seeds
}

// stamp накладывает фигуру shape с верхним левым углом (row, col).
// Клетки block.None в фигуре прозрачны.
func stamp(g *Grid, shape [][]block.BlockID, row, col int) {
	for r, line := range shape {
		for c, id := range line {
			if id == block.None {
				continue
			}
			g.set(row+r, col+c, id)
		}
	}
}
