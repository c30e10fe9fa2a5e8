package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/annel0/terra2d/internal/world"
	"github.com/df-mc/goleveldb/leveldb"
)

// LevelDBStore хранит чанки в LevelDB под ключами chunk:<index>
type LevelDBStore struct {
	db    *leveldb.DB
	codec *Codec

	mu     sync.RWMutex
	closed bool
}

// NewLevelDBStore открывает базу LevelDB в директории path
func NewLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть LevelDB %s: %w", path, err)
	}
	codec, err := NewCodec()
	if err != nil {
		db.Close()
		return nil, err
	}
	return &LevelDBStore{db: db, codec: codec}, nil
}

func (s *LevelDBStore) Save(index int, data world.CellData) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	raw, err := s.codec.Encode(index, data)
	if err != nil {
		return err
	}
	if err := s.db.Put(chunkKey(index), raw, nil); err != nil {
		return fmt.Errorf("ошибка сохранения чанка %d в LevelDB: %w", index, err)
	}
	return nil
}

func (s *LevelDBStore) Load(index int) (world.CellData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	raw, err := s.db.Get(chunkKey(index), nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return nil, notFound(index)
	case err != nil:
		return nil, fmt.Errorf("ошибка чтения чанка %d из LevelDB: %w", index, err)
	}
	return s.codec.decodeIndex(index, raw)
}

func (s *LevelDBStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.codec.Close()
	return s.db.Close()
}
