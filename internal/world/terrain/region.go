package terrain

import "fmt"

// RegionKind правило генерации сетки
type RegionKind uint8

const (
	RegionForest RegionKind = iota
	RegionPlains
	RegionDesert
	RegionVolcanic
	RegionJungle
	RegionSky
	RegionUpperMine
	RegionMiddleMine
	RegionLowerMine
)

// Biomes каталог биомов поверхности
var Biomes = []RegionKind{RegionForest, RegionPlains, RegionDesert, RegionVolcanic, RegionJungle}

// Layer подслой биома
type Layer uint8

const (
	LayerNone Layer = iota
	LayerSky
	LayerDecoration
	LayerFloor
)

// Region описывает, как заполнить одну сетку.
// Layer задан только для биомов, Tier только для средней шахты.
type Region struct {
	Kind  RegionKind
	Layer Layer
	Tier  int
}

// IsBiome сообщает, относится ли регион к поверхности
func (r Region) IsBiome() bool {
	return r.Kind <= RegionJungle
}

var regionNames = map[RegionKind]string{
	RegionForest:     "forest",
	RegionPlains:     "plains",
	RegionDesert:     "desert",
	RegionVolcanic:   "volcanic",
	RegionJungle:     "jungle",
	RegionSky:        "sky",
	RegionUpperMine:  "upper_mine",
	RegionMiddleMine: "middle_mine",
	RegionLowerMine:  "lower_mine",
}

var layerNames = map[Layer]string{
	LayerSky:        "sky",
	LayerDecoration: "decoration",
	LayerFloor:      "floor",
}

func (k RegionKind) String() string {
	if name, ok := regionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("region(%d)", uint8(k))
}

func (r Region) String() string {
	switch {
	case r.IsBiome():
		return r.Kind.String() + "/" + layerNames[r.Layer]
	case r.Kind == RegionMiddleMine:
		return fmt.Sprintf("%s/%d", r.Kind, r.Tier)
	default:
		return r.Kind.String()
	}
}

// regionFor сопоставляет слою и биому столбца правило генерации
func regionFor(b Band, biome RegionKind) Region {
	switch b.Kind {
	case BandSky:
		return Region{Kind: RegionSky}
	case BandBiomeSky:
		return Region{Kind: biome, Layer: LayerSky}
	case BandBiomeDecoration:
		return Region{Kind: biome, Layer: LayerDecoration}
	case BandBiomeFloor:
		return Region{Kind: biome, Layer: LayerFloor}
	case BandUpperMine:
		return Region{Kind: RegionUpperMine}
	case BandMiddleMine:
		return Region{Kind: RegionMiddleMine, Tier: b.Tier}
	default:
		return Region{Kind: RegionLowerMine}
	}
}
