package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/annel0/terra2d/internal/world"
	"github.com/dgraph-io/badger/v3"
)

// BadgerStore хранит чанки в BadgerDB под ключами chunk:<index>
type BadgerStore struct {
	db      *badger.DB
	dbPath  string
	codec   *Codec
	mutex   sync.RWMutex
	isReady bool
}

// NewBadgerStore открывает BadgerDB в директории dbPath
func NewBadgerStore(dbPath string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	codec, err := NewCodec()
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BadgerStore{
		db:      db,
		dbPath:  dbPath,
		codec:   codec,
		isReady: true,
	}, nil
}

// Close закрывает хранилище данных
func (bs *BadgerStore) Close() error {
	bs.mutex.Lock()
	defer bs.mutex.Unlock()

	if !bs.isReady {
		return nil
	}

	bs.isReady = false
	bs.codec.Close()
	return bs.db.Close()
}

// Save сохраняет сырые данные чанка
func (bs *BadgerStore) Save(index int, data world.CellData) error {
	bs.mutex.RLock()
	defer bs.mutex.RUnlock()

	if !bs.isReady {
		return ErrClosed
	}

	raw, err := bs.codec.Encode(index, data)
	if err != nil {
		return err
	}

	err = bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chunkKey(index), raw)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения чанка %d в BadgerDB: %w", index, err)
	}
	return nil
}

// Load загружает сырые данные чанка
func (bs *BadgerStore) Load(index int) (world.CellData, error) {
	bs.mutex.RLock()
	defer bs.mutex.RUnlock()

	if !bs.isReady {
		return nil, ErrClosed
	}

	var raw []byte
	err := bs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chunkKey(index))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, notFound(index)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения чанка %d из BadgerDB: %w", index, err)
	}

	return bs.codec.decodeIndex(index, raw)
}
