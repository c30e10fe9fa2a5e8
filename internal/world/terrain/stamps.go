package terrain

import (
	"math/rand"

	"github.com/annel0/terra2d/internal/world/block"
)

type species struct {
	leaf, log block.BlockID
}

var (
	forestSpecies = Uniform(
		species{block.OakLeaf, block.OakLog},
		species{block.TimberLeaf, block.TimberLog},
		species{block.TeakLeaf, block.TeakLog},
	)
	jungleSpecies = Uniform(
		species{block.MangroveLeaf, block.MangroveLog},
		species{block.MahoganyLeaf, block.MahoganyLog},
	)
	volcanoRock = Choice[block.BlockID]{
		Values:  []block.BlockID{block.Pumice, block.Basalt, block.Obsidian, block.MoltenRock},
		Weights: []float64{0.1, 0.5, 0.1, 0.3},
	}
	volcanoWidths = Uniform(9, 11, 13)
)

// tree строит дерево: крона canopy строк сверху, ствол trunk строк в среднем столбце
func tree(s species, width, canopy, trunk int) [][]block.BlockID {
	shape := make([][]block.BlockID, canopy+trunk)
	for r := range shape {
		shape[r] = make([]block.BlockID, width)
		if r < canopy {
			for c := range shape[r] {
				shape[r][c] = s.leaf
			}
			continue
		}
		shape[r][width/2] = s.log
	}
	return shape
}

func decorateForest(g *Grid, rng *rand.Rand) {
	count := 2 + rng.Intn(2)
	for i := 0; i < count; i++ {
		stamp(g, tree(forestSpecies.Pick(rng), 3, 3, 3), 10, 2+4*i)
	}
}

func decorateJungle(g *Grid, rng *rand.Rand) {
	count := 1 + rng.Intn(2)
	for i := 0; i < count; i++ {
		stamp(g, tree(jungleSpecies.Pick(rng), 5, 5, 5), 6, 6*i)
	}
}

func decorateDesert(g *Grid, rng *rand.Rand) {
	bushes := 2 + rng.Intn(2)
	for i := 0; i < bushes; i++ {
		g.set(GridSize-1, 1+4*i, block.DeadBush)
	}
	cacti := 1 + rng.Intn(5)
	for i := 0; i < cacti; i++ {
		for r := GridSize - 3; r < GridSize; r++ {
			g.set(r, 3*i, block.Cactus)
		}
	}
}

// decorateVolcanic ставит конус шириной w и высотой ceil(w/2) на нижнюю строку
func decorateVolcanic(g *Grid, rng *rand.Rand) {
	w := volcanoWidths.Pick(rng)
	h := (w + 1) / 2
	center := w / 2
	top := GridSize - h
	for r := 0; r < h; r++ {
		for c := center - r; c <= center+r; c++ {
			g.set(top+r, 2+c, volcanoRock.Pick(rng))
		}
	}
}

func decoratePlains(g *Grid) {
	for c := 0; c < GridSize; c++ {
		g.set(GridSize-1, c, block.Grass)
	}
}

// floorBlock материал почвы биома
func floorBlock(kind RegionKind) block.BlockID {
	switch kind {
	case RegionDesert:
		return block.Sand
	case RegionVolcanic:
		return block.BurnedStone
	case RegionJungle:
		return block.MossyDirt
	default:
		return block.Dirt
	}
}
