package terrain

import (
	"sort"

	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world/block"
)

// Result сетки, сгенерированные за один вызов, по левой нижней клетке
type Result struct {
	XMin, XMax int
	YMin, YMax int
	Grids      map[vec.Vec2]*Grid
}

func newResult(xMin, xMax, yMin, yMax, grids int) *Result {
	return &Result{
		XMin:  xMin,
		XMax:  xMax,
		YMin:  yMin,
		YMax:  yMax,
		Grids: make(map[vec.Vec2]*Grid, grids),
	}
}

// Indices индексы полос, покрытых результатом, по возрастанию
func (r *Result) Indices() []int {
	indices := make([]int, 0, (r.XMax-r.XMin)/GridSize)
	for x := r.XMin; x < r.XMax; x += GridSize {
		indices = append(indices, vec.Vec2{X: x}.StripIndex())
	}
	return indices
}

// Chunk собирает сырые данные полосы index в локальных координатах.
// Возвращает nil, если полоса не входит в результат.
func (r *Result) Chunk(index int) map[vec.Vec2]block.BlockID {
	originX := index * GridSize
	if originX < r.XMin || originX >= r.XMax {
		return nil
	}
	data := make(map[vec.Vec2]block.BlockID, GridSize*(r.YMax-r.YMin))
	for y := r.YMin; y < r.YMax; y += GridSize {
		grid, ok := r.Grids[vec.Vec2{X: originX, Y: y}]
		if !ok {
			continue
		}
		for row := 0; row < GridSize; row++ {
			for col := 0; col < GridSize; col++ {
				data[grid.World(row, col).LocalInStrip()] = grid.Cells[row][col]
			}
		}
	}
	return data
}

// Regions регионы сеток полосы index сверху вниз
func (r *Result) Regions(index int) []Region {
	originX := index * GridSize
	var grids []*Grid
	for origin, g := range r.Grids {
		if origin.X == originX {
			grids = append(grids, g)
		}
	}
	sort.Slice(grids, func(i, j int) bool { return grids[i].Origin.Y > grids[j].Origin.Y })

	regions := make([]Region, len(grids))
	for i, g := range grids {
		regions[i] = g.Region
	}
	return regions
}
