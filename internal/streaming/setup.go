package streaming

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/annel0/terra2d/internal/logging"
	"github.com/annel0/terra2d/internal/storage"
	"github.com/annel0/terra2d/internal/util"
	"github.com/annel0/terra2d/internal/world"
	"github.com/annel0/terra2d/internal/world/terrain"
	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// ErrWorldMismatch сохранённый мир не совпадает с конфигурацией
var ErrWorldMismatch = errors.New("сохранённый мир не совпадает с конфигурацией")

// SetupOptions параметры создания мира
type SetupOptions struct {
	Name     string
	Seed     int64
	DataDir  string
	Backend  string
	MinIndex int
	MaxIndex int
	YMin     int
	Layout   terrain.Layout
	// CloudNoise включает шум Перлина для облаков
	CloudNoise bool
	// Lazy откладывает генерацию чанков до первой загрузки
	Lazy        bool
	SaveWorkers int
}

// World сохранённый мир, готовый к потоковой загрузке
type World struct {
	Meta    storage.WorldMeta
	Created bool
	// Generate задан для ленивого мира и передаётся загрузчику
	Generate func(index int) (world.CellData, error)
}

// Setup открывает сохранённый мир или создаёт новый. Для обычного мира все
// чанки диапазона генерируются и сохраняются до записи метаданных.
func Setup(ctx context.Context, store storage.ChunkStore, opts SetupOptions) (*World, error) {
	ctx, span := otel.Tracer("terra2d/world").Start(ctx, "world.setup")
	defer span.End()
	logger := logging.GetWorldLogger()

	if opts.MaxIndex < opts.MinIndex {
		return nil, fmt.Errorf("некорректный диапазон чанков [%d, %d]", opts.MinIndex, opts.MaxIndex)
	}

	meta, err := storage.ReadMeta(opts.DataDir)
	switch {
	case err == nil:
		if meta.Layout != opts.Layout.Name || meta.Height != opts.Layout.Height() {
			return nil, fmt.Errorf("%w: мир %q (раскладка %s, высота %d)", ErrWorldMismatch, meta.Name, meta.Layout, meta.Height)
		}
		logger.Info("🌍 Мир %q (%s) найден, чанки [%d, %d]", meta.Name, meta.ID, meta.MinIndex, meta.MaxIndex)
		w := &World{Meta: meta}
		if meta.Lazy {
			w.Generate, err = lazyGenerator(meta, opts)
			if err != nil {
				return nil, err
			}
		}
		return w, nil
	case !errors.Is(err, storage.ErrNoWorld):
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	meta = storage.NewWorldMeta(opts.Name, seed)
	meta.MinIndex, meta.MaxIndex = opts.MinIndex, opts.MaxIndex
	meta.YMin = opts.YMin
	meta.Height = opts.Layout.Height()
	meta.Layout = opts.Layout.Name
	meta.Backend = opts.Backend
	meta.Lazy = opts.Lazy
	span.SetAttributes(attribute.String("world.id", meta.ID.String()), attribute.Int64("world.seed", meta.Seed))

	w := &World{Meta: meta, Created: true}
	if opts.Lazy {
		w.Generate, err = lazyGenerator(meta, opts)
		if err != nil {
			return nil, err
		}
	} else if err := generateAll(ctx, store, meta, opts); err != nil {
		return nil, err
	}

	if err := storage.WriteMeta(opts.DataDir, meta); err != nil {
		return nil, err
	}
	logger.Info("🌍 Мир %q создан: seed=%d, чанки [%d, %d], lazy=%v", meta.Name, meta.Seed, meta.MinIndex, meta.MaxIndex, meta.Lazy)
	return w, nil
}

// newGenerator генератор с отдельным seed для случайных решений. Шум облаков
// всегда строится от seed мира, чтобы облака шли без швов между чанками.
func newGenerator(meta storage.WorldMeta, opts SetupOptions, seed int64) (*terrain.Generator, error) {
	cfg := terrain.Config{Layout: opts.Layout}
	if opts.CloudNoise {
		cfg.Clouds = util.NewNoise(meta.Seed)
	}
	return terrain.NewGenerator(rand.New(rand.NewSource(seed)), cfg)
}

// generateAll генерирует весь диапазон за один проход и сохраняет чанки
// параллельно не более чем SaveWorkers горутинами
func generateAll(ctx context.Context, store storage.ChunkStore, meta storage.WorldMeta, opts SetupOptions) error {
	logger := logging.GetWorldLogger()
	start := time.Now()

	gen, err := newGenerator(meta, opts, meta.Seed)
	if err != nil {
		return err
	}
	res, err := gen.GenerateChunks(meta.MinIndex, meta.MaxIndex, meta.YMin)
	if err != nil {
		return fmt.Errorf("ошибка генерации мира: %w", err)
	}

	workers := opts.SaveWorkers
	if workers <= 0 {
		workers = 4
	}
	var cells atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, index := range res.Indices() {
		data := world.CellData(res.Chunk(index))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := store.Save(index, data); err != nil {
				return fmt.Errorf("ошибка сохранения чанка %d: %w", index, err)
			}
			cells.Add(int64(len(data)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("💾 Сохранено %d чанков, %s клеток за %v",
		len(res.Indices()), humanize.Comma(cells.Load()), time.Since(start).Round(time.Millisecond))
	return nil
}

// lazyGenerator генерирует по одному чанку на запрос. План биомов строится
// один раз от seed мира по всему диапазону, как в generateAll. Seed чанка
// зависит только от seed мира и индекса и определяет лишь содержимое полосы,
// поэтому порядок запросов не влияет на результат.
func lazyGenerator(meta storage.WorldMeta, opts SetupOptions) (func(int) (world.CellData, error), error) {
	planner, err := newGenerator(meta, opts, meta.Seed)
	if err != nil {
		return nil, err
	}
	plan, err := planner.PlanChunks(meta.MinIndex, meta.MaxIndex)
	if err != nil {
		return nil, err
	}
	logging.GetWorldLogger().Debug("План биомов ленивого мира: %s", plan)

	return func(index int) (world.CellData, error) {
		gen, err := newGenerator(meta, opts, ChunkSeed(meta.Seed, index))
		if err != nil {
			return nil, err
		}
		res, err := gen.GenerateColumn(plan, index, meta.YMin)
		if err != nil {
			return nil, err
		}
		return res.Chunk(index), nil
	}, nil
}

// ChunkSeed seed отдельного чанка ленивого мира: xxhash от seed мира и индекса
func ChunkSeed(worldSeed int64, index int) int64 {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(worldSeed))
	binary.BigEndian.PutUint64(buf[8:], uint64(int64(index)))
	return int64(xxhash.Sum64(buf[:]))
}
