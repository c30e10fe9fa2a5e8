package terrain

import (
	"errors"
	"fmt"
)

// GridSize сторона квадратной сетки генерации в клетках
const GridSize = 16

// ErrInvalidLayout возвращается для некорректного описания слоёв
var ErrInvalidLayout = errors.New("некорректная раскладка слоёв")

// BandKind тип горизонтального слоя мира
type BandKind uint8

const (
	BandSky BandKind = iota
	BandBiomeSky
	BandBiomeDecoration
	BandBiomeFloor
	BandUpperMine
	BandMiddleMine
	BandLowerMine
)

// Band горизонтальный слой высотой Grids сеток
type Band struct {
	Kind  BandKind
	Grids int
	Tier  int // глубина для средней шахты: 1 (верх) .. 3 (низ)
}

// Layout перечисляет слои сверху вниз
type Layout struct {
	Name  string
	Bands []Band
}

// ReferenceLayout раскладка стандартного мира высотой 320 клеток
func ReferenceLayout() Layout {
	return Layout{
		Name: "reference",
		Bands: []Band{
			{Kind: BandSky, Grids: 5},
			{Kind: BandBiomeSky, Grids: 2},
			{Kind: BandBiomeDecoration, Grids: 1},
			{Kind: BandBiomeFloor, Grids: 2},
			{Kind: BandUpperMine, Grids: 2},
			{Kind: BandMiddleMine, Grids: 1, Tier: 1},
			{Kind: BandMiddleMine, Grids: 4, Tier: 2},
			{Kind: BandMiddleMine, Grids: 1, Tier: 3},
			{Kind: BandLowerMine, Grids: 2},
		},
	}
}

// ShallowLayout мир только из неба и поверхности биомов
func ShallowLayout() Layout {
	return Layout{
		Name: "shallow",
		Bands: []Band{
			{Kind: BandSky, Grids: 1},
			{Kind: BandBiomeDecoration, Grids: 1},
			{Kind: BandBiomeFloor, Grids: 1},
		},
	}
}

// LayoutByName возвращает раскладку по имени из конфигурации
func LayoutByName(name string) (Layout, error) {
	switch name {
	case "", "reference":
		return ReferenceLayout(), nil
	case "shallow":
		return ShallowLayout(), nil
	default:
		return Layout{}, fmt.Errorf("%w: неизвестное имя %q", ErrInvalidLayout, name)
	}
}

// Height высота мира в клетках
func (l Layout) Height() int {
	total := 0
	for _, b := range l.Bands {
		total += b.Grids
	}
	return total * GridSize
}

// Validate проверяет раскладку
func (l Layout) Validate() error {
	if len(l.Bands) == 0 {
		return fmt.Errorf("%w: нет слоёв", ErrInvalidLayout)
	}
	for i, b := range l.Bands {
		if b.Grids <= 0 {
			return fmt.Errorf("%w: слой %d имеет высоту %d", ErrInvalidLayout, i, b.Grids)
		}
		if b.Kind == BandMiddleMine {
			if _, ok := depositTiers[b.Tier]; !ok {
				return fmt.Errorf("%w: слой %d имеет неизвестную глубину %d", ErrInvalidLayout, i, b.Tier)
			}
		}
		if b.Kind > BandLowerMine {
			return fmt.Errorf("%w: слой %d имеет неизвестный тип %d", ErrInvalidLayout, i, b.Kind)
		}
	}
	return nil
}

// bandAt возвращает слой для сетки с номером n, считая сверху.
// Первое совпадение сверху вниз выигрывает.
func (l Layout) bandAt(n int) Band {
	for _, b := range l.Bands {
		if n < b.Grids {
			return b
		}
		n -= b.Grids
	}
	return l.Bands[len(l.Bands)-1]
}
