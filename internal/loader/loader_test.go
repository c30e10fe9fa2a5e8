package loader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/annel0/terra2d/internal/storage"
	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world"
	"github.com/annel0/terra2d/internal/world/block"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData(index int) world.CellData {
	data := make(world.CellData)
	for y := 0; y < 4; y++ {
		for x := 0; x < world.ChunkWidth; x++ {
			id := block.Sky
			if y == 0 {
				id = block.Stone
			}
			data[vec.Vec2{X: x, Y: y}] = id
		}
	}
	data[vec.Vec2{X: 0, Y: 3}] = block.BlockID(int(block.Stone) + (index+10)%3)
	return data
}

func setupStore(t *testing.T, indices ...int) storage.ChunkStore {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	for _, i := range indices {
		require.NoError(t, store.Save(i, testData(i)))
	}
	return store
}

// drainAll ждёт, пока загрузчик отдаст n чанков
func drainAll(t *testing.T, l *ChunkLoader, n int) []*world.Chunk {
	t.Helper()
	var got []*world.Chunk
	require.Eventually(t, func() bool {
		got = append(got, l.Drain(1)...)
		return len(got) >= n
	}, 5*time.Second, time.Millisecond, "загрузчик не отдал %d чанков", n)
	return got
}

func TestLoaderDeliversInOrder(t *testing.T) {
	store := setupStore(t, -2, -1, 0, 1)
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	l := NewChunkLoader(store, Config{MinIndex: -2, MaxIndex: 1, YieldEvery: 7, YieldPause: time.Microsecond}, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.Start(ctx)
	l.Start(ctx) // повторный запуск игнорируется

	for _, i := range []int{0, -1, 1} {
		l.Request(i)
	}

	chunks := drainAll(t, l, 3)
	require.Len(t, chunks, 3)
	for i, want := range []int{0, -1, 1} {
		assert.Equal(t, want, chunks[i].Index())
		assert.True(t, chunks[i].Materialized(), "чанк приходит материализованным")
		assert.Equal(t, testData(want), chunks[i].Data())
	}
	assert.NoError(t, l.Err())
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.loaded))
	assert.Equal(t, 0, l.Pending())

	l.Stop()
	assert.True(t, errors.Is(l.Err(), ErrStopped))
}

func TestDrainIsBounded(t *testing.T) {
	store := setupStore(t, 0, 1, 2)
	l := NewChunkLoader(store, Config{MinIndex: 0, MaxIndex: 2}, nil)
	l.Start(context.Background())
	defer l.Stop()

	for i := 0; i < 3; i++ {
		l.Request(i)
	}
	require.Eventually(t, func() bool { return l.ready.Len() == 3 }, 5*time.Second, time.Millisecond)

	assert.Len(t, l.Drain(1), 1, "за один вызов не больше max чанков")
	assert.Len(t, l.Drain(5), 2)
	assert.Empty(t, l.Drain(5))
}

func TestLoaderOutOfRangeIsFatal(t *testing.T) {
	store := setupStore(t, 0)
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	l := NewChunkLoader(store, Config{MinIndex: 0, MaxIndex: 0}, metrics)
	l.Start(context.Background())

	l.Request(5)
	select {
	case <-l.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("загрузчик должен остановиться")
	}
	assert.True(t, errors.Is(l.Err(), ErrOutOfRange), "получено %v", l.Err())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.failures.WithLabelValues("out_of_range")))
	l.Stop()
}

func TestLoaderMissingChunkIsFatal(t *testing.T) {
	store := setupStore(t)
	l := NewChunkLoader(store, Config{MinIndex: -3, MaxIndex: 3}, nil)
	l.Start(context.Background())

	l.Request(2)
	<-l.Done()
	assert.True(t, errors.Is(l.Err(), storage.ErrChunkNotFound))
}

func TestLoaderGeneratesOnFirstLoad(t *testing.T) {
	store := setupStore(t)
	metrics := NewMetrics(prometheus.NewRegistry())
	calls := 0
	l := NewChunkLoader(store, Config{
		MinIndex: -3,
		MaxIndex: 3,
		Generate: func(index int) (world.CellData, error) {
			calls++
			return testData(index), nil
		},
	}, metrics)
	l.Start(context.Background())
	defer l.Stop()

	l.Request(-3)
	chunks := drainAll(t, l, 1)
	assert.Equal(t, -3, chunks[0].Index())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.generated))

	saved, err := store.Load(-3)
	require.NoError(t, err)
	assert.Equal(t, testData(-3), saved, "сгенерированный чанк сохраняется")
}

func TestStopWithoutStart(t *testing.T) {
	l := NewChunkLoader(setupStore(t), Config{}, nil)
	l.Stop()
	l.Start(context.Background())
	assert.True(t, errors.Is(l.Err(), ErrStopped), "после Stop запуск не происходит")
	assert.Equal(t, 0, l.Pending())
}
