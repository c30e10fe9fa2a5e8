package terrain

import "github.com/annel0/terra2d/internal/world/block"

// Deposit залежь руды: сколько стартовых точек и какой длины проходы
type Deposit struct {
	Block  block.BlockID
	Seeds  int
	Length Choice[int]
}

// depositTiers залежи по глубине средней шахты (3 самая глубокая)
var depositTiers = map[int][]Deposit{
	1: {
		{Block: block.Coal, Seeds: 7, Length: WalkLengths(10)},
		{Block: block.Iron, Seeds: 4, Length: WalkLengths(7)},
	},
	2: {
		{Block: block.Coal, Seeds: 7, Length: WalkLengths(7)},
		{Block: block.Iron, Seeds: 4, Length: WalkLengths(10)},
	},
	3: {
		{Block: block.Coal, Seeds: 7, Length: WalkLengths(6)},
		{Block: block.Iron, Seeds: 4, Length: WalkLengths(4)},
		{Block: block.Diamond, Seeds: 2, Length: WalkLengths(2)},
	},
}

// Deposits возвращает залежи для глубины tier
func Deposits(tier int) []Deposit {
	return depositTiers[tier]
}
