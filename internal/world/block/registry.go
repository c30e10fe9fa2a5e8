package block

import (
	"fmt"
	"sort"
)

// BlockID представляет идентификатор материала клетки
type BlockID uint16

// SolidThreshold граница твёрдых блоков: всё, что >= порога, участвует в коллизиях
const SolidThreshold BlockID = 130

// Константы ID блоков
const (
	// None означает «нет соседа» при проверке направлений разрушения
	None BlockID = 0

	// Фоновые блоки
	Air    BlockID = 127 // пустота на месте сломанного блока
	Sky    BlockID = 128
	Clouds BlockID = 129

	// Шахта
	Stone     BlockID = 130
	Dirt      BlockID = 131
	Coal      BlockID = 132
	Iron      BlockID = 133
	Diamond   BlockID = 134
	HardStone BlockID = 135

	// Деревья
	OakLeaf    BlockID = 136
	OakLog     BlockID = 137
	TimberLeaf BlockID = 138
	TimberLog  BlockID = 139
	TeakLeaf   BlockID = 140
	TeakLog    BlockID = 141

	// Вулкан
	Pumice       BlockID = 142
	Basalt       BlockID = 143
	Obsidian     BlockID = 144
	MoltenRock   BlockID = 145
	BurnedStone  BlockID = 146
	MossyDirt    BlockID = 147
	MahoganyLeaf BlockID = 148
	MahoganyLog  BlockID = 149
	MangroveLeaf BlockID = 150
	MangroveLog  BlockID = 151

	// Пустыня и равнины
	Sand     BlockID = 152
	Cactus   BlockID = 153
	DeadBush BlockID = 154
	Grass    BlockID = 155
)

// Definition описывает материал
type Definition struct {
	ID    BlockID
	Name  string
	Glyph rune // символ для текстового дампа
	Ore   bool
}

// Solid сообщает, является ли материал твёрдым
func (d Definition) Solid() bool {
	return IsSolid(d.ID)
}

var registry = make(map[BlockID]Definition)

// Register добавляет материал в реестр. Повторная регистрация ID запрещена.
func Register(def Definition) {
	if _, exists := registry[def.ID]; exists {
		panic(fmt.Sprintf("блок %d уже зарегистрирован", def.ID))
	}
	registry[def.ID] = def
}

// Get возвращает описание для указанного ID
func Get(id BlockID) (Definition, bool) {
	def, exists := registry[id]
	return def, exists
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func IsValidBlockID(id BlockID) bool {
	_, exists := registry[id]
	return exists
}

// IsSolid проверяет, относится ли ID к твёрдым (коллизионным) блокам
func IsSolid(id BlockID) bool {
	return id >= SolidThreshold
}

// IsOre проверяет, является ли блок рудой
func IsOre(id BlockID) bool {
	def, ok := registry[id]
	return ok && def.Ore
}

// All возвращает все зарегистрированные материалы по возрастанию ID
func All() []Definition {
	defs := make([]Definition, 0, len(registry))
	for _, def := range registry {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// String возвращает имя блока
func (id BlockID) String() string {
	if def, ok := registry[id]; ok {
		return def.Name
	}
	return fmt.Sprintf("block(%d)", uint16(id))
}

func init() {
	for _, def := range []Definition{
		{ID: Air, Name: "air", Glyph: ' '},
		{ID: Sky, Name: "sky", Glyph: '.'},
		{ID: Clouds, Name: "clouds", Glyph: '~'},
		{ID: Stone, Name: "stone", Glyph: '#'},
		{ID: Dirt, Name: "dirt", Glyph: 'd'},
		{ID: Coal, Name: "coal", Glyph: 'c', Ore: true},
		{ID: Iron, Name: "iron", Glyph: 'i', Ore: true},
		{ID: Diamond, Name: "diamond", Glyph: '*', Ore: true},
		{ID: HardStone, Name: "hard_stone", Glyph: '='},
		{ID: OakLeaf, Name: "oak_leaf", Glyph: 'o'},
		{ID: OakLog, Name: "oak_log", Glyph: '|'},
		{ID: TimberLeaf, Name: "timber_leaf", Glyph: 'o'},
		{ID: TimberLog, Name: "timber_log", Glyph: '|'},
		{ID: TeakLeaf, Name: "teak_leaf", Glyph: 'o'},
		{ID: TeakLog, Name: "teak_log", Glyph: '|'},
		{ID: Pumice, Name: "pumice", Glyph: 'p'},
		{ID: Basalt, Name: "basalt", Glyph: 'b'},
		{ID: Obsidian, Name: "obsidian", Glyph: 'x'},
		{ID: MoltenRock, Name: "molten_rock", Glyph: 'm'},
		{ID: BurnedStone, Name: "burned_stone", Glyph: '%'},
		{ID: MossyDirt, Name: "mossy_dirt", Glyph: 'D'},
		{ID: MahoganyLeaf, Name: "mahogany_leaf", Glyph: 'O'},
		{ID: MahoganyLog, Name: "mahogany_log", Glyph: 'I'},
		{ID: MangroveLeaf, Name: "mangrove_leaf", Glyph: 'O'},
		{ID: MangroveLog, Name: "mangrove_log", Glyph: 'I'},
		{ID: Sand, Name: "sand", Glyph: 's'},
		{ID: Cactus, Name: "cactus", Glyph: 'T'},
		{ID: DeadBush, Name: "dead_bush", Glyph: 'v'},
		{ID: Grass, Name: "grass", Glyph: '"'},
	} {
		Register(def)
	}
}
