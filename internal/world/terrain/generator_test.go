package terrain

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/annel0/terra2d/internal/util"
	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T, seed int64, layout Layout) *Generator {
	t.Helper()
	g, err := NewGenerator(rand.New(rand.NewSource(seed)), Config{Layout: layout, Clouds: util.NewNoise(seed)})
	require.NoError(t, err)
	return g
}

func TestGenerateFillsEveryCell(t *testing.T) {
	g := newTestGenerator(t, 7, ReferenceLayout())
	res, err := g.GenerateChunks(-3, 2, 0)
	require.NoError(t, err)

	assert.Equal(t, []int{-3, -2, -1, 0, 1, 2}, res.Indices())
	for _, index := range res.Indices() {
		data := res.Chunk(index)
		assert.Len(t, data, GridSize*320, "полоса %d должна быть заполнена целиком", index)
		for pos, id := range data {
			assert.True(t, block.IsValidBlockID(id), "клетка %v полосы %d содержит неизвестный блок %d", pos, index, id)
			assert.True(t, pos.X >= 0 && pos.X < GridSize, "локальный X вне полосы: %v", pos)
			assert.True(t, pos.Y >= 0 && pos.Y < 320, "Y вне мира: %v", pos)
		}
	}
}

func TestGenerateRejectsMalformedRange(t *testing.T) {
	g := newTestGenerator(t, 1, ReferenceLayout())

	_, err := g.Generate(0, 17, 0, 320)
	assert.True(t, errors.Is(err, ErrMalformedRange), "ширина не кратна 16")

	_, err = g.Generate(16, 16, 0, 320)
	assert.True(t, errors.Is(err, ErrMalformedRange), "пустой диапазон")

	_, err = g.Generate(0, 32, 0, 300)
	assert.True(t, errors.Is(err, ErrMalformedRange), "высота не совпадает с раскладкой")
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a, err := newTestGenerator(t, 99, ReferenceLayout()).GenerateChunks(-2, 2, 0)
	require.NoError(t, err)
	b, err := newTestGenerator(t, 99, ReferenceLayout()).GenerateChunks(-2, 2, 0)
	require.NoError(t, err)

	for _, index := range a.Indices() {
		assert.Equal(t, a.Chunk(index), b.Chunk(index), "полоса %d должна совпадать", index)
		assert.Equal(t, a.Regions(index), b.Regions(index))
	}
}

func TestReferenceLayoutBands(t *testing.T) {
	layout := ReferenceLayout()
	assert.Equal(t, 320, layout.Height())

	g := newTestGenerator(t, 3, layout)
	res, err := g.GenerateChunks(0, 0, 0)
	require.NoError(t, err)

	regions := res.Regions(0)
	require.Len(t, regions, 20)
	for i := 0; i < 5; i++ {
		assert.Equal(t, RegionSky, regions[i].Kind)
	}
	assert.Equal(t, LayerSky, regions[5].Layer)
	assert.Equal(t, LayerDecoration, regions[7].Layer)
	assert.Equal(t, LayerFloor, regions[8].Layer)
	assert.Equal(t, LayerFloor, regions[9].Layer)
	assert.Equal(t, RegionUpperMine, regions[10].Kind)
	assert.Equal(t, Region{Kind: RegionMiddleMine, Tier: 1}, regions[12])
	assert.Equal(t, Region{Kind: RegionMiddleMine, Tier: 2}, regions[13])
	assert.Equal(t, Region{Kind: RegionMiddleMine, Tier: 3}, regions[17])
	assert.Equal(t, RegionLowerMine, regions[18].Kind)
	assert.Equal(t, RegionLowerMine, regions[19].Kind)

	data := res.Chunk(0)
	for y := 0; y < 32; y++ {
		for x := 0; x < GridSize; x++ {
			assert.Equal(t, block.HardStone, data[vec.Vec2{X: x, Y: y}], "нижняя шахта однородна")
		}
	}
}

func TestShallowLayoutHasNoOres(t *testing.T) {
	g := newTestGenerator(t, 11, ShallowLayout())
	res, err := g.GenerateChunks(-5, 5, 0)
	require.NoError(t, err)

	regions := res.Regions(0)
	sky, floor := 0, 0
	for _, r := range regions {
		if r.Kind == RegionSky {
			sky++
		}
		if r.IsBiome() && r.Layer == LayerFloor {
			floor++
		}
	}
	assert.Equal(t, 1, sky, "ровно один слой неба")
	assert.Equal(t, 1, floor, "ровно один слой почвы")

	for _, id := range res.Chunk(0) {
		assert.False(t, block.IsOre(id), "в полосе 0 не должно быть руды")
	}
}

func TestDepositDepthOrdering(t *testing.T) {
	byBlock := make(map[block.BlockID]float64)
	for _, d := range Deposits(3) {
		byBlock[d.Block] = Expected(d.Length)
	}
	assert.Less(t, byBlock[block.Diamond], byBlock[block.Iron], "алмазные проходы короче железных")
	assert.Less(t, byBlock[block.Iron], byBlock[block.Coal], "железные проходы короче угольных")
}

func TestPlanBiomesCoversColumns(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		g := newTestGenerator(t, seed, ReferenceLayout())
		plan := g.planBiomes(62)

		assert.GreaterOrEqual(t, len(plan), 1)
		assert.LessOrEqual(t, len(plan), 4)

		seen := make(map[RegionKind]bool)
		total := 0
		for _, s := range plan {
			assert.False(t, seen[s.kind], "биом %s повторяется", s.kind)
			seen[s.kind] = true
			total += s.width
		}
		assert.Equal(t, 62, total)
		assert.Equal(t, plan[0].kind, plan.biomeAt(0))
		assert.Equal(t, plan[len(plan)-1].kind, plan.biomeAt(61))
	}
}

func TestPlanBiomesFewColumns(t *testing.T) {
	g := newTestGenerator(t, 5, ReferenceLayout())
	plan := g.planBiomes(1)
	assert.Equal(t, 1, plan[len(plan)-1].width, "последняя область забирает остаток")
}

func TestNewGeneratorValidation(t *testing.T) {
	_, err := NewGenerator(nil, Config{Layout: ReferenceLayout()})
	assert.Error(t, err)

	_, err = NewGenerator(rand.New(rand.NewSource(1)), Config{Layout: Layout{Bands: []Band{{Kind: BandMiddleMine, Grids: 1, Tier: 9}}}})
	assert.True(t, errors.Is(err, ErrInvalidLayout))

	_, err = LayoutByName("caves")
	assert.True(t, errors.Is(err, ErrInvalidLayout))
}

func floorBiome(t *testing.T, res *Result, index int) RegionKind {
	t.Helper()
	for _, r := range res.Regions(index) {
		if r.IsBiome() && r.Layer == LayerFloor {
			return r.Kind
		}
	}
	t.Fatalf("у полосы %d нет слоя почвы", index)
	return 0
}

func TestGenerateColumnFollowsWorldPlan(t *testing.T) {
	plan, err := newTestGenerator(t, 42, ReferenceLayout()).PlanChunks(-31, 30)
	require.NoError(t, err)
	whole, err := newTestGenerator(t, 42, ReferenceLayout()).GenerateChunks(-31, 30, 0)
	require.NoError(t, err)

	transitions := 0
	var prev RegionKind
	for index := -31; index <= 30; index++ {
		// Каждая полоса со своим зерном, как при ленивой генерации
		res, err := newTestGenerator(t, int64(1000+index), ReferenceLayout()).GenerateColumn(plan, index, 0)
		require.NoError(t, err)
		require.Equal(t, []int{index}, res.Indices())
		assert.Len(t, res.Chunk(index), GridSize*320)

		kind := floorBiome(t, res, index)
		assert.Equal(t, floorBiome(t, whole, index), kind, "биом полосы %d должен совпадать с генерацией мира целиком", index)
		if index > -31 && kind != prev {
			transitions++
		}
		prev = kind
	}
	assert.LessOrEqual(t, transitions, 3, "план %s", plan)
	assert.Equal(t, plan.Regions()-1, transitions)
}

func TestGenerateColumnOutsidePlan(t *testing.T) {
	g := newTestGenerator(t, 3, ReferenceLayout())
	plan, err := g.PlanChunks(0, 4)
	require.NoError(t, err)

	_, err = g.GenerateColumn(plan, 5, 0)
	assert.True(t, errors.Is(err, ErrMalformedRange))
	_, err = g.GenerateColumn(Plan{}, 0, 0)
	assert.True(t, errors.Is(err, ErrMalformedRange), "пустой план")

	_, err = g.PlanChunks(4, 0)
	assert.True(t, errors.Is(err, ErrMalformedRange))
}
