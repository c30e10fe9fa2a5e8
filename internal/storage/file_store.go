package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/annel0/terra2d/internal/logging"
	"github.com/annel0/terra2d/internal/world"
	"github.com/dustin/go-humanize"
)

const chunkFileExt = ".t2dc"

// FileStore хранит каждый чанк в отдельном файле chunk_<index>.t2dc
type FileStore struct {
	dir    string
	codec  *Codec
	logger *logging.Logger

	mu     sync.RWMutex
	closed bool
}

// NewFileStore создаёт файловое хранилище в директории dir
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию %s: %w", dir, err)
	}
	codec, err := NewCodec()
	if err != nil {
		return nil, err
	}
	return &FileStore{
		dir:    dir,
		codec:  codec,
		logger: logging.GetStorageLogger(),
	}, nil
}

// Dir директория с файлами чанков
func (s *FileStore) Dir() string {
	return s.dir
}

// Path путь к файлу чанка index
func (s *FileStore) Path(index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("chunk_%d%s", index, chunkFileExt))
}

// Save записывает чанк атомарно: во временный файл, затем переименование
func (s *FileStore) Save(index int, data world.CellData) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	raw, err := s.codec.Encode(index, data)
	if err != nil {
		return err
	}

	path := s.Path(index)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("ошибка записи чанка %d: %w", index, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("ошибка переименования файла чанка %d: %w", index, err)
	}

	s.logger.Trace("Чанк %d сохранён (%s)", index, humanize.Bytes(uint64(len(raw))))
	return nil
}

// Load читает чанк index
func (s *FileStore) Load(index int) (world.CellData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	raw, err := os.ReadFile(s.Path(index))
	if errors.Is(err, os.ErrNotExist) {
		return nil, notFound(index)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения чанка %d: %w", index, err)
	}
	return s.codec.decodeIndex(index, raw)
}

// List индексы сохранённых чанков по возрастанию
func (s *FileStore) List() ([]int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения директории %s: %w", s.dir, err)
	}
	var indices []int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, "chunk_") || !strings.HasSuffix(name, chunkFileExt) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "chunk_"), chunkFileExt))
		if err != nil {
			continue
		}
		indices = append(indices, n)
	}
	sort.Ints(indices)
	return indices, nil
}

// Size размер файла чанка в байтах
func (s *FileStore) Size(index int) (int64, error) {
	info, err := os.Stat(s.Path(index))
	if errors.Is(err, os.ErrNotExist) {
		return 0, notFound(index)
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Close закрывает хранилище
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.codec.Close()
	return nil
}
