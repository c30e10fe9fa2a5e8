// Package terrain генерирует сетки блоков по слоям и биомам.
package terrain

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/annel0/terra2d/internal/logging"
	"github.com/annel0/terra2d/internal/util"
	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world/block"
)

// ErrMalformedRange диапазон не кратен сетке или высота не совпадает с раскладкой
var ErrMalformedRange = errors.New("некорректный диапазон генерации")

const (
	cloudSeeds  = 14
	cloudLength = 4
	dirtSeeds   = 10
)

// Config параметры генератора
type Config struct {
	Layout Layout
	// Clouds модулирует количество облаков по столбцам, nil отключает
	Clouds *util.Noise
}

// Generator генерирует мир по сеткам 16x16.
// Не потокобезопасен: источник случайности принадлежит одному вызывающему.
type Generator struct {
	rng    *rand.Rand
	layout Layout
	clouds *util.Noise
	logger *logging.Logger
}

// NewGenerator создаёт генератор с внешним источником случайности
func NewGenerator(rng *rand.Rand, cfg Config) (*Generator, error) {
	if rng == nil {
		return nil, errors.New("источник случайности не задан")
	}
	if err := cfg.Layout.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		rng:    rng,
		layout: cfg.Layout,
		clouds: cfg.Clouds,
		logger: logging.GetGeneratorLogger(),
	}, nil
}

// Layout возвращает раскладку слоёв
func (g *Generator) Layout() Layout {
	return g.layout
}

// Generate заполняет прямоугольник клеток [xMin, xMax) x [yMin, yMax).
// Границы по X должны быть кратны 16, высота должна совпадать с раскладкой.
func (g *Generator) Generate(xMin, xMax, yMin, yMax int) (*Result, error) {
	if xMin%GridSize != 0 || xMax%GridSize != 0 || xMax <= xMin {
		return nil, fmt.Errorf("%w: x [%d, %d)", ErrMalformedRange, xMin, xMax)
	}
	if yMax-yMin != g.layout.Height() {
		return nil, fmt.Errorf("%w: высота %d, ожидалось %d", ErrMalformedRange, yMax-yMin, g.layout.Height())
	}

	columns := (xMax - xMin) / GridSize
	plan := g.planBiomes(columns)

	res := newResult(xMin, xMax, yMin, yMax, columns*g.layout.Height()/GridSize)
	for col := 0; col < columns; col++ {
		g.fillColumn(res, xMin+col*GridSize, plan.biomeAt(col))
	}

	g.logger.Debug("Сгенерировано %d сеток, биомы: %s", len(res.Grids), plan)
	return res, nil
}

// fillColumn заполняет все слои столбца с левой клеткой originX
func (g *Generator) fillColumn(res *Result, originX int, biome RegionKind) {
	rows := g.layout.Height() / GridSize
	for n := 0; n < rows; n++ {
		grid := &Grid{
			Origin: vec.Vec2{X: originX, Y: res.YMax - (n+1)*GridSize},
			Region: regionFor(g.layout.bandAt(n), biome),
		}
		g.fill(grid)
		res.Grids[grid.Origin] = grid
	}
}

// GenerateChunks генерирует полосы с индексами [minIndex, maxIndex] от строки yMin
func (g *Generator) GenerateChunks(minIndex, maxIndex, yMin int) (*Result, error) {
	return g.Generate(minIndex*GridSize, (maxIndex+1)*GridSize, yMin, yMin+g.layout.Height())
}

// fill применяет правило региона к сетке
func (g *Generator) fill(grid *Grid) {
	r := grid.Region
	switch r.Kind {
	case RegionSky:
		grid.fill(block.Sky)
		walk(grid, g.rng, block.Clouds, cloudLength, randomSeeds(g.rng, g.cloudCount(grid.Origin.X)))
	case RegionUpperMine:
		grid.fill(block.Stone)
		for _, s := range randomSeeds(g.rng, dirtSeeds) {
			walk(grid, g.rng, block.Dirt, 6+g.rng.Intn(3), []vec.Vec2{s})
		}
	case RegionMiddleMine:
		grid.fill(block.Stone)
		for _, d := range Deposits(r.Tier) {
			for _, s := range randomSeeds(g.rng, d.Seeds) {
				walk(grid, g.rng, d.Block, d.Length.Pick(g.rng), []vec.Vec2{s})
			}
		}
	case RegionLowerMine:
		grid.fill(block.HardStone)
	case RegionForest, RegionPlains, RegionDesert, RegionVolcanic, RegionJungle:
		g.fillBiome(grid)
	}
}

func (g *Generator) fillBiome(grid *Grid) {
	r := grid.Region
	switch r.Layer {
	case LayerFloor:
		grid.fill(floorBlock(r.Kind))
		return
	case LayerSky:
		grid.fill(block.Sky)
		return
	}

	grid.fill(block.Sky)
	switch r.Kind {
	case RegionForest:
		decorateForest(grid, g.rng)
	case RegionJungle:
		decorateJungle(grid, g.rng)
	case RegionDesert:
		decorateDesert(grid, g.rng)
	case RegionVolcanic:
		decorateVolcanic(grid, g.rng)
	case RegionPlains:
		decoratePlains(grid)
	}
}

// cloudCount число облачных точек для столбца с левой клеткой x
func (g *Generator) cloudCount(x int) int {
	if g.clouds == nil {
		return cloudSeeds
	}
	cover := g.clouds.At1D(float64(x) / 64.0)
	return int(math.Round(cloudSeeds * (0.5 + cover)))
}
