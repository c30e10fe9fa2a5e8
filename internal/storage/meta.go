package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrNoWorld метаданные мира отсутствуют, мир ещё не сгенерирован
var ErrNoWorld = errors.New("мир не сгенерирован")

const metaFile = "world.json"

// WorldMeta описание сохранённого мира. Наличие файла означает, что все
// чанки диапазона [MinIndex, MaxIndex] записаны, если мир не ленивый.
// В ленивом мире чанки создаёт загрузчик при первом обращении.
type WorldMeta struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Seed      int64     `json:"seed"`
	MinIndex  int       `json:"min_index"`
	MaxIndex  int       `json:"max_index"`
	YMin      int       `json:"y_min"`
	Height    int       `json:"height"`
	Layout    string    `json:"layout"`
	Backend   string    `json:"backend"`
	Lazy      bool      `json:"lazy"`
	CreatedAt time.Time `json:"created_at"`
}

// NewWorldMeta создаёт метаданные с новым идентификатором
func NewWorldMeta(name string, seed int64) WorldMeta {
	return WorldMeta{
		ID:        uuid.New(),
		Name:      name,
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
	}
}

// Contains сообщает, входит ли индекс в сохранённый диапазон
func (m WorldMeta) Contains(index int) bool {
	return index >= m.MinIndex && index <= m.MaxIndex
}

// ReadMeta читает метаданные мира из dataDir
func ReadMeta(dataDir string) (WorldMeta, error) {
	var meta WorldMeta
	raw, err := os.ReadFile(filepath.Join(dataDir, metaFile))
	if errors.Is(err, os.ErrNotExist) {
		return meta, ErrNoWorld
	}
	if err != nil {
		return meta, fmt.Errorf("ошибка чтения метаданных мира: %w", err)
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return meta, fmt.Errorf("ошибка разбора метаданных мира: %w", err)
	}
	return meta, nil
}

// WriteMeta атомарно записывает метаданные мира в dataDir
func WriteMeta(dataDir string, meta WorldMeta) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("не удалось создать директорию %s: %w", dataDir, err)
	}
	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации метаданных мира: %w", err)
	}
	raw = append(raw, '\n')

	path := filepath.Join(dataDir, metaFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("ошибка записи метаданных мира: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("ошибка переименования метаданных мира: %w", err)
	}
	return nil
}
