package storage

import (
	"errors"
	"math/rand"
	"os"
	"testing"

	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world"
	"github.com/annel0/terra2d/internal/world/block"
	"github.com/annel0/terra2d/internal/world/terrain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T, backend string) (ChunkStore, string) {
	// Создаем временную директорию для тестов
	tempDir, err := os.MkdirTemp("", "chunk-store-test")
	if err != nil {
		t.Fatalf("Не удалось создать временную директорию: %v", err)
	}

	store, err := Open(backend, tempDir)
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("Не удалось создать хранилище %s: %v", backend, err)
	}

	return store, tempDir
}

func cleanupTestStore(store ChunkStore, tempDir string) {
	if store != nil {
		store.Close()
	}
	if tempDir != "" {
		os.RemoveAll(tempDir)
	}
}

var backends = []string{BackendFile, BackendBadger, BackendLevelDB}

func sampleData() world.CellData {
	return world.CellData{
		{X: 0, Y: 0}:   block.HardStone,
		{X: 15, Y: 0}:  block.Diamond,
		{X: 3, Y: 200}: block.Sky,
		{X: 7, Y: 319}: block.Clouds,
	}
}

func TestSaveAndLoadChunk(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			store, tempDir := setupTestStore(t, backend)
			defer cleanupTestStore(store, tempDir)

			data := sampleData()
			require.NoError(t, store.Save(-7, data))

			loaded, err := store.Load(-7)
			require.NoError(t, err)
			assert.Equal(t, data, loaded, "данные чанка должны совпадать после загрузки")

			data[vec.Vec2{X: 1, Y: 1}] = block.Dirt
			require.NoError(t, store.Save(-7, data), "перезапись чанка")
			loaded, err = store.Load(-7)
			require.NoError(t, err)
			assert.Equal(t, block.Dirt, loaded[vec.Vec2{X: 1, Y: 1}])
		})
	}
}

func TestLoadMissingChunk(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			store, tempDir := setupTestStore(t, backend)
			defer cleanupTestStore(store, tempDir)

			_, err := store.Load(12)
			assert.True(t, errors.Is(err, ErrChunkNotFound), "ожидалась ошибка ErrChunkNotFound, получено %v", err)
		})
	}
}

func TestClosedStore(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			store, tempDir := setupTestStore(t, backend)
			defer os.RemoveAll(tempDir)

			require.NoError(t, store.Close())
			assert.NoError(t, store.Close(), "повторное закрытие")
			assert.True(t, errors.Is(store.Save(0, sampleData()), ErrClosed))
			_, err := store.Load(0)
			assert.True(t, errors.Is(err, ErrClosed))
		})
	}
}

func TestGeneratedWorldRoundTrip(t *testing.T) {
	store, tempDir := setupTestStore(t, BackendFile)
	defer cleanupTestStore(store, tempDir)

	gen, err := terrain.NewGenerator(rand.New(rand.NewSource(2024)), terrain.Config{Layout: terrain.ReferenceLayout()})
	require.NoError(t, err)
	res, err := gen.GenerateChunks(-31, 30, 0)
	require.NoError(t, err)

	for _, index := range res.Indices() {
		data := world.CellData(res.Chunk(index))
		require.NoError(t, store.Save(index, data))

		loaded, err := store.Load(index)
		require.NoError(t, err)
		assert.Equal(t, data, loaded, "чанк %d должен совпадать после загрузки", index)
	}

	indices, err := store.(*FileStore).List()
	require.NoError(t, err)
	assert.Equal(t, res.Indices(), indices)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}

func TestFileStoreSize(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Size(1)
	assert.True(t, errors.Is(err, ErrChunkNotFound))

	require.NoError(t, store.Save(1, sampleData()))
	size, err := store.Size(1)
	require.NoError(t, err)
	assert.Greater(t, size, int64(headerSize))

	_, err = os.Stat(store.Path(1) + ".tmp")
	assert.True(t, os.IsNotExist(err), "временный файл не должен оставаться")
}
