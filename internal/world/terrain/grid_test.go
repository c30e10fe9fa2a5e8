package terrain

import (
	"math/rand"
	"testing"

	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world/block"
	"github.com/stretchr/testify/assert"
)

func TestWalkClampsAtBoundary(t *testing.T) {
	g := &Grid{}
	g.fill(block.Stone)
	walk(g, rand.New(rand.NewSource(1)), block.Coal, 50, []vec.Vec2{{X: 14, Y: 14}})

	count := 0
	for r := range g.Cells {
		for c := range g.Cells[r] {
			if g.Cells[r][c] == block.Coal {
				assert.True(t, r >= 14 && c >= 14, "проход не должен уходить за границу: (%d,%d)", r, c)
				count++
			}
		}
	}
	assert.GreaterOrEqual(t, count, 2)
	assert.Equal(t, block.Coal, g.Cells[15][15], "проход упирается в угол")
}

func TestVolcanoIsPyramid(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		g := &Grid{}
		g.fill(block.Sky)
		decorateVolcanic(g, rand.New(rand.NewSource(seed)))

		prev := 0
		for r := 0; r < GridSize; r++ {
			width := 0
			for c := 0; c < GridSize; c++ {
				if g.Cells[r][c] != block.Sky {
					width++
				}
			}
			if width > 0 {
				assert.Greater(t, width, prev, "строки конуса расширяются книзу")
				prev = width
			}
		}
		assert.Contains(t, []int{9, 11, 13}, prev, "основание конуса")
	}
}

func TestForestTreesStandOnBottomRow(t *testing.T) {
	g := &Grid{}
	g.fill(block.Sky)
	decorateForest(g, rand.New(rand.NewSource(4)))

	logs := 0
	for c := 0; c < GridSize; c++ {
		switch g.Cells[GridSize-1][c] {
		case block.OakLog, block.TimberLog, block.TeakLog:
			logs++
		}
	}
	assert.True(t, logs == 2 || logs == 3, "стволы на нижней строке: %d", logs)
}

func TestChoicePickRespectsWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	c := Choice[string]{Values: []string{"a", "b"}, Weights: []float64{0, 1}}
	for i := 0; i < 100; i++ {
		assert.Equal(t, "b", c.Pick(rng))
	}
	assert.InDelta(t, 2.0*0.3+3*0.3+4*0.1+5*0.1+6*0.08+7*0.09+8*0.03, Expected(WalkLengths(2)), 1e-9)
}
