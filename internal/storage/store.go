// Package storage сохраняет сырые данные чанков по индексу.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/annel0/terra2d/internal/world"
)

var (
	// ErrChunkNotFound чанк с таким индексом не сохранён
	ErrChunkNotFound = errors.New("чанк не найден")
	// ErrCorruptChunk данные чанка повреждены
	ErrCorruptChunk = errors.New("данные чанка повреждены")
	// ErrUnknownBackend неизвестный тип хранилища
	ErrUnknownBackend = errors.New("неизвестный тип хранилища")
	// ErrClosed хранилище уже закрыто
	ErrClosed = errors.New("хранилище закрыто")
)

// ChunkStore сохраняет и читает сырые данные чанков.
// Реализации безопасны для одновременного использования.
type ChunkStore interface {
	Save(index int, data world.CellData) error
	Load(index int) (world.CellData, error)
	Close() error
}

// Типы хранилищ
const (
	BackendFile    = "file"
	BackendBadger  = "badger"
	BackendLevelDB = "leveldb"
)

// Open открывает хранилище указанного типа внутри dataDir
func Open(backend, dataDir string) (ChunkStore, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(filepath.Join(dataDir, "chunks"))
	case BackendBadger:
		return NewBadgerStore(filepath.Join(dataDir, "badger"))
	case BackendLevelDB:
		return NewLevelDBStore(filepath.Join(dataDir, "leveldb"))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func chunkKey(index int) []byte {
	return []byte(fmt.Sprintf("chunk:%d", index))
}

func notFound(index int) error {
	return fmt.Errorf("%w: индекс %d", ErrChunkNotFound, index)
}
