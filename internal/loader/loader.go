// Package loader загружает чанки в фоновой горутине.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/annel0/terra2d/internal/logging"
	"github.com/annel0/terra2d/internal/storage"
	"github.com/annel0/terra2d/internal/world"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrOutOfRange запрошен индекс вне сохранённого диапазона мира
	ErrOutOfRange = errors.New("индекс чанка вне диапазона мира")
	// ErrStopped загрузчик остановлен
	ErrStopped = errors.New("загрузчик остановлен")
)

// GenerateFunc создаёт данные чанка, которого ещё нет в хранилище
type GenerateFunc func(index int) (world.CellData, error)

// Config параметры загрузчика
type Config struct {
	MinIndex, MaxIndex int
	// YieldEvery сколько клеток материализовать между паузами
	YieldEvery int
	// YieldPause пауза между порциями материализации
	YieldPause time.Duration
	// Generate включает генерацию при первой загрузке, nil - только чтение
	Generate GenerateFunc
}

// ChunkLoader единственный фоновый загрузчик мира. Запросы и готовые чанки
// передаются только через две очереди; картой чанков загрузчик не владеет.
type ChunkLoader struct {
	store    storage.ChunkStore
	cfg      Config
	requests *FIFO[int]
	ready    *FIFO[*world.Chunk]
	metrics  *Metrics
	logger   *logging.Logger
	tracer   trace.Tracer

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}

	errMu sync.Mutex
	err   error
}

// NewChunkLoader создаёт загрузчик. metrics может быть nil.
func NewChunkLoader(store storage.ChunkStore, cfg Config, metrics *Metrics) *ChunkLoader {
	if cfg.YieldEvery <= 0 {
		cfg.YieldEvery = 50
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &ChunkLoader{
		store:    store,
		cfg:      cfg,
		requests: NewFIFO[int](),
		ready:    NewFIFO[*world.Chunk](),
		metrics:  metrics,
		logger:   logging.GetLoaderLogger(),
		tracer:   otel.Tracer("terra2d/loader"),
		done:     make(chan struct{}),
	}
}

// Start запускает горутину загрузки. Повторные вызовы ничего не делают.
func (l *ChunkLoader) Start(ctx context.Context) {
	l.startOnce.Do(func() {
		ctx, l.cancel = context.WithCancel(ctx)
		go l.run(ctx)
		l.logger.Info("🚚 Загрузчик чанков запущен, диапазон [%d, %d]", l.cfg.MinIndex, l.cfg.MaxIndex)
	})
}

// Stop останавливает загрузчик и ждёт завершения горутины
func (l *ChunkLoader) Stop() {
	started := false
	l.startOnce.Do(func() { close(l.done) })
	if l.cancel != nil {
		l.cancel()
		started = true
	}
	if started {
		<-l.done
	}
}

// Done закрывается после завершения горутины загрузки
func (l *ChunkLoader) Done() <-chan struct{} {
	return l.done
}

// Request ставит индекс в очередь загрузки, не блокируя
func (l *ChunkLoader) Request(index int) {
	l.requests.Push(index)
	l.metrics.pending.Set(float64(l.requests.Len()))
}

// Drain забирает не более max готовых чанков, не блокируя
func (l *ChunkLoader) Drain(max int) []*world.Chunk {
	return l.ready.PopN(max)
}

// Pending число запросов, ещё не взятых в работу
func (l *ChunkLoader) Pending() int {
	return l.requests.Len()
}

// Err первая фатальная ошибка загрузчика или ErrStopped, если горутина
// завершилась без ошибки
func (l *ChunkLoader) Err() error {
	l.errMu.Lock()
	defer l.errMu.Unlock()
	if l.err != nil {
		return l.err
	}
	select {
	case <-l.done:
		return ErrStopped
	default:
		return nil
	}
}

func (l *ChunkLoader) fail(err error, reason string) {
	l.errMu.Lock()
	if l.err == nil {
		l.err = err
	}
	l.errMu.Unlock()
	l.metrics.failures.WithLabelValues(reason).Inc()
	l.logger.Error("❌ Загрузчик остановлен: %v", err)
}

func (l *ChunkLoader) run(ctx context.Context) {
	defer close(l.done)

	for {
		index, err := l.requests.Pop(ctx)
		if err != nil {
			l.logger.Debug("Загрузчик завершает работу: %v", err)
			return
		}
		l.metrics.pending.Set(float64(l.requests.Len()))

		chunk, err := l.load(ctx, index)
		switch {
		case err == nil:
			l.ready.Push(chunk)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return
		case errors.Is(err, ErrOutOfRange):
			l.fail(err, "out_of_range")
			return
		case errors.Is(err, storage.ErrChunkNotFound):
			l.fail(err, "not_found")
			return
		default:
			l.fail(err, "storage")
			return
		}
	}
}

// load проходит состояния Loading -> Materializing -> Ready для одного индекса
func (l *ChunkLoader) load(ctx context.Context, index int) (*world.Chunk, error) {
	ctx, span := l.tracer.Start(ctx, "loader.load", trace.WithAttributes(attribute.Int("chunk.index", index)))
	defer span.End()
	start := time.Now()

	if index < l.cfg.MinIndex || index > l.cfg.MaxIndex {
		err := fmt.Errorf("%w: %d не входит в [%d, %d]", ErrOutOfRange, index, l.cfg.MinIndex, l.cfg.MaxIndex)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	data, err := l.store.Load(index)
	if errors.Is(err, storage.ErrChunkNotFound) && l.cfg.Generate != nil {
		data, err = l.generate(index)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	chunk := world.NewChunkFromData(index, data)
	for !chunk.Step(l.cfg.YieldEvery) {
		if err := l.yield(ctx); err != nil {
			return nil, err
		}
	}

	l.metrics.loaded.Inc()
	l.metrics.duration.Observe(time.Since(start).Seconds())
	l.logger.Debug("Чанк %d готов: %d клеток за %v", index, chunk.Len(), time.Since(start))
	return chunk, nil
}

func (l *ChunkLoader) generate(index int) (world.CellData, error) {
	data, err := l.cfg.Generate(index)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации чанка %d: %w", index, err)
	}
	if err := l.store.Save(index, data); err != nil {
		return nil, fmt.Errorf("ошибка сохранения сгенерированного чанка %d: %w", index, err)
	}
	l.metrics.generated.Inc()
	l.logger.Info("🌱 Чанк %d сгенерирован при первой загрузке", index)
	return data, nil
}

func (l *ChunkLoader) yield(ctx context.Context) error {
	if l.cfg.YieldPause <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(l.cfg.YieldPause)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
