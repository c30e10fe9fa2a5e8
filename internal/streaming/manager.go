// Package streaming держит активное окно чанков вокруг игрока.
package streaming

import (
	"fmt"
	"sort"

	"github.com/annel0/terra2d/internal/eventbus"
	"github.com/annel0/terra2d/internal/logging"
	"github.com/annel0/terra2d/internal/physics"
	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world"
)

// ChunkSource фоновый источник чанков, например loader.ChunkLoader
type ChunkSource interface {
	Request(index int)
	Drain(max int) []*world.Chunk
	Err() error
}

// CollisionSink потребитель твёрдых поверхностей активного окна
type CollisionSink interface {
	SetSurfaces(surfaces []physics.Surface)
}

// Facing последнее горизонтальное направление игрока
type Facing int

const (
	FacingLeft  Facing = -1
	FacingRight Facing = 1
)

func (f Facing) String() string {
	if f == FacingLeft {
		return "left"
	}
	return "right"
}

// PlayerState позиция и направление игрока на текущий тик
type PlayerState struct {
	Pos    vec.Vec2Float
	Facing Facing
}

// Options параметры менеджера мира
type Options struct {
	MinIndex, MaxIndex int
	// VisibleRange радиус видимости и коллизий в пикселях
	VisibleRange float64
	// DrainPerTick сколько готовых чанков принимать за тик
	DrainPerTick int
	// PrefetchAhead сколько чанков запрашивать впереди по направлению движения
	PrefetchAhead int
	// RequireSupport требует твёрдого соседа для установки блока
	RequireSupport bool
	// MaxReach блок ломается только ближе этого расстояния в пикселях, 0 без ограничения
	MaxReach float64
}

// TickReport итог одного тика
type TickReport struct {
	Delivered  int  // чанков принято из загрузчика
	Ready      bool // чанк игрока загружен
	Changed    bool // окно изменилось
	Prefetched int  // запросов впереди по движению
	Active     int
}

// WorldManager владеет картой загруженных чанков и активным окном.
// Все методы вызываются из одного основного цикла.
type WorldManager struct {
	opts    Options
	source  ChunkSource
	sink    CollisionSink
	metrics *Metrics
	events  eventbus.Bus
	logger  *logging.Logger

	chunks    map[int]*world.Chunk
	active    []*world.Chunk
	requested map[int]struct{}
	player    PlayerState
}

// NewWorldManager создаёт менеджер. metrics может быть nil.
func NewWorldManager(source ChunkSource, sink CollisionSink, opts Options, metrics *Metrics) *WorldManager {
	if opts.DrainPerTick <= 0 {
		opts.DrainPerTick = 1
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &WorldManager{
		opts:      opts,
		source:    source,
		sink:      sink,
		metrics:   metrics,
		logger:    logging.GetWorldLogger(),
		chunks:    make(map[int]*world.Chunk),
		requested: make(map[int]struct{}),
		player:    PlayerState{Facing: FacingRight},
	}
}

// SetPlayer обновляет позицию игрока. Нулевое направление сохраняет прежнее.
func (wm *WorldManager) SetPlayer(pos vec.Vec2Float, facing Facing) {
	wm.player.Pos = pos
	if facing != 0 {
		wm.player.Facing = facing
	}
}

// SetEventBus включает публикацию событий мира. nil отключает.
func (wm *WorldManager) SetEventBus(bus eventbus.Bus) {
	wm.events = bus
}

func (wm *WorldManager) emit(ev *eventbus.Event) {
	if wm.events != nil {
		wm.events.Publish(ev)
	}
}

// Player текущее состояние игрока
func (wm *WorldManager) Player() PlayerState {
	return wm.player
}

// Tick принимает готовые чанки, обновляет окно и запрашивает чанки впереди.
// Возвращает фатальную ошибку загрузчика, если она произошла.
func (wm *WorldManager) Tick() (TickReport, error) {
	var report TickReport
	if err := wm.source.Err(); err != nil {
		return report, fmt.Errorf("загрузчик чанков: %w", err)
	}

	report.Delivered = wm.ProcessNewChunks()
	report.Ready, report.Changed = wm.UpdateVisibleChunks()
	report.Prefetched = wm.Optimize()
	report.Active = len(wm.active)
	return report, nil
}

// ProcessNewChunks принимает не более DrainPerTick готовых чанков
func (wm *WorldManager) ProcessNewChunks() int {
	delivered := wm.source.Drain(wm.opts.DrainPerTick)
	for _, c := range delivered {
		wm.chunks[c.Index()] = c
		delete(wm.requested, c.Index())
		wm.emit(eventbus.NewEvent(eventbus.ChunkLoaded, c.Index()))
		wm.logger.Debug("Чанк %d принят, в пути %d", c.Index(), len(wm.requested))
	}
	wm.metrics.delivered.Add(float64(len(delivered)))
	return len(delivered)
}

// UpdateVisibleChunks расширяет и сужает активное окно по видимости.
// ready=false, если чанк под игроком ещё не загружен.
func (wm *WorldManager) UpdateVisibleChunks() (ready, changed bool) {
	px, r := wm.player.Pos.X, wm.opts.VisibleRange

	if len(wm.active) == 0 {
		index := world.ChunkIndexAt(px)
		if !wm.inBounds(index) {
			return false, false
		}
		c, ok := wm.chunks[index]
		if !ok {
			wm.request(index)
			return false, false
		}
		wm.active = append(wm.active, c)
		changed = true
	}

	// Расширение влево
	for wm.active[0].IsVisible(px, r) {
		next := wm.active[0].Index() - 1
		if !wm.inBounds(next) {
			break
		}
		c, ok := wm.chunks[next]
		if !ok {
			wm.request(next)
			break
		}
		if !c.IsVisible(px, r) {
			break
		}
		wm.active = append([]*world.Chunk{c}, wm.active...)
		changed = true
	}

	// Расширение вправо
	for wm.active[len(wm.active)-1].IsVisible(px, r) {
		next := wm.active[len(wm.active)-1].Index() + 1
		if !wm.inBounds(next) {
			break
		}
		c, ok := wm.chunks[next]
		if !ok {
			wm.request(next)
			break
		}
		if !c.IsVisible(px, r) {
			break
		}
		wm.active = append(wm.active, c)
		changed = true
	}

	// Сужение с обеих сторон; чанки остаются в карте
	for len(wm.active) > 0 && !wm.active[0].IsVisible(px, r) {
		wm.active[0] = nil
		wm.active = wm.active[1:]
		changed = true
	}
	for len(wm.active) > 0 && !wm.active[len(wm.active)-1].IsVisible(px, r) {
		wm.active[len(wm.active)-1] = nil
		wm.active = wm.active[:len(wm.active)-1]
		changed = true
	}

	if changed {
		wm.publish()
		if wm.events != nil {
			ev := eventbus.NewEvent(eventbus.WindowChanged, world.ChunkIndexAt(px))
			ev.Window = wm.ActiveIndices()
			wm.emit(ev)
		}
	}
	wm.metrics.active.Set(float64(len(wm.active)))
	return len(wm.active) > 0, changed
}

// Optimize запрашивает PrefetchAhead чанков за краем окна в сторону
// взгляда игрока, чтобы они были готовы к моменту появления в зоне видимости.
// Хвост окна отсекается в UpdateVisibleChunks по видимости.
func (wm *WorldManager) Optimize() int {
	if len(wm.active) == 0 || wm.opts.PrefetchAhead <= 0 {
		return 0
	}
	edge := wm.active[len(wm.active)-1].Index()
	if wm.player.Facing == FacingLeft {
		edge = wm.active[0].Index()
	}

	issued := 0
	for k := 1; k <= wm.opts.PrefetchAhead; k++ {
		index := edge + k*int(wm.player.Facing)
		if !wm.inBounds(index) {
			break
		}
		if wm.request(index) {
			issued++
		}
	}
	return issued
}

// request отправляет запрос загрузчику, если чанк не загружен и ещё не запрошен
func (wm *WorldManager) request(index int) bool {
	if _, ok := wm.chunks[index]; ok {
		return false
	}
	if _, ok := wm.requested[index]; ok {
		wm.metrics.duplicates.Inc()
		return false
	}
	wm.requested[index] = struct{}{}
	wm.source.Request(index)
	wm.metrics.requests.Inc()
	wm.logger.Trace("Запрошен чанк %d", index)
	return true
}

func (wm *WorldManager) inBounds(index int) bool {
	return index >= wm.opts.MinIndex && index <= wm.opts.MaxIndex
}

// publish передаёт движку коллизий снимки стен активного окна одним
// списком. Чанки меняются только в основном цикле, снимки читаются из
// горутин физики.
func (wm *WorldManager) publish() {
	if wm.sink == nil {
		return
	}
	surfaces := make([]physics.Surface, len(wm.active))
	for i, c := range wm.active {
		surfaces[i] = physics.Snapshot(c)
	}
	wm.sink.SetSurfaces(surfaces)
	wm.metrics.published.Inc()
}

func (wm *WorldManager) isActive(c *world.Chunk) bool {
	if len(wm.active) == 0 {
		return false
	}
	first, last := wm.active[0].Index(), wm.active[len(wm.active)-1].Index()
	return c.Index() >= first && c.Index() <= last
}

// ActiveChunks копия активного окна по возрастанию индекса
func (wm *WorldManager) ActiveChunks() []*world.Chunk {
	return append([]*world.Chunk(nil), wm.active...)
}

// ActiveIndices индексы активного окна
func (wm *WorldManager) ActiveIndices() []int {
	out := make([]int, len(wm.active))
	for i, c := range wm.active {
		out[i] = c.Index()
	}
	return out
}

// InFlight индексы, запрошенные у загрузчика и ещё не принятые
func (wm *WorldManager) InFlight() []int {
	out := make([]int, 0, len(wm.requested))
	for i := range wm.requested {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Loaded сообщает, загружен ли чанк в этой сессии
func (wm *WorldManager) Loaded(index int) bool {
	_, ok := wm.chunks[index]
	return ok
}

// LoadedCount число загруженных чанков
func (wm *WorldManager) LoadedCount() int {
	return len(wm.chunks)
}
