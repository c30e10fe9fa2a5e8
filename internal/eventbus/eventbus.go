// Package eventbus доставляет события мира подписчикам вне основного цикла.
package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world/block"
	"github.com/google/uuid"
)

// Типы событий мира
const (
	ChunkLoaded   = "chunk_loaded"
	WindowChanged = "window_changed"
	BlockPlaced   = "block_placed"
	BlockRemoved  = "block_removed"
)

// Event событие мира. Заполняются только поля, относящиеся к типу.
type Event struct {
	ID        uuid.UUID
	Timestamp time.Time // UTC
	Type      string
	Index     int           // индекс чанка
	Cell      vec.Vec2      // клетка мира для событий блоков
	Block     block.BlockID // материал для событий блоков
	Window    []int         // индексы активного окна для WindowChanged
}

// NewEvent создаёт событие с новым ID и текущим временем
func NewEvent(eventType string, index int) *Event {
	return &Event{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		Index:     index,
	}
}

// Filter позволяет подписаться только на нужные события.
type Filter struct {
	Types []string // Если пусто, подходят все типы.
}

// Subscription возвращается при подписке; позволяет отписаться.
type Subscription interface {
	Unsubscribe()
}

// Handler потребляет события.
type Handler func(ctx context.Context, ev *Event)

// Stats агрегированные метрики шины.
type Stats struct {
	Published uint64
	Consumed  uint64
	Dropped   uint64
	InFlight  int
}

// Bus шина событий мира. Publish никогда не блокирует вызывающего.
type Bus interface {
	Publish(ev *Event) bool
	Subscribe(ctx context.Context, f Filter, h Handler) Subscription
	Stats() Stats
	Close()
}

//================ In-Memory implementation =================//

type memoryBus struct {
	mu          sync.RWMutex
	subscribers map[int]subscriber
	nextID      int
	stats       Stats
	buffer      chan *Event
	closeOnce   sync.Once
	closed      chan struct{}
	done        chan struct{}
}

type subscriber struct {
	filter  Filter
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewMemoryBus создаёт in-memory Bus с указанным буфером.
func NewMemoryBus(capacity int) Bus {
	if capacity <= 0 {
		capacity = 256
	}
	mb := &memoryBus{
		subscribers: make(map[int]subscriber),
		buffer:      make(chan *Event, capacity),
		closed:      make(chan struct{}),
		done:        make(chan struct{}),
	}
	go mb.dispatchLoop()
	return mb
}

// Publish кладёт событие в буфер. При заполненном буфере или закрытой
// шине событие отбрасывается и возвращается false.
func (mb *memoryBus) Publish(ev *Event) bool {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	select {
	case <-mb.closed:
		mb.stats.Dropped++
		return false
	default:
	}
	select {
	case mb.buffer <- ev:
		mb.stats.Published++
		return true
	default:
		mb.stats.Dropped++
		return false
	}
}

func (mb *memoryBus) Subscribe(ctx context.Context, f Filter, h Handler) Subscription {
	mb.mu.Lock()
	id := mb.nextID
	mb.nextID++
	cctx, cancel := context.WithCancel(ctx)
	mb.subscribers[id] = subscriber{filter: f, handler: h, ctx: cctx, cancel: cancel}
	mb.mu.Unlock()

	return &memSub{bus: mb, id: id}
}

func (mb *memoryBus) Stats() Stats {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	s := mb.stats
	s.InFlight = len(mb.buffer)
	return s
}

// Close прекращает приём событий, доставляет оставшиеся и ждёт завершения рассылки
func (mb *memoryBus) Close() {
	mb.closeOnce.Do(func() {
		mb.mu.Lock()
		close(mb.closed)
		close(mb.buffer)
		mb.mu.Unlock()
	})
	<-mb.done
}

// dispatchLoop рассылает события подписчикам в порядке публикации.
func (mb *memoryBus) dispatchLoop() {
	defer close(mb.done)
	for ev := range mb.buffer {
		mb.mu.RLock()
		subs := make([]subscriber, 0, len(mb.subscribers))
		for _, sub := range mb.subscribers {
			subs = append(subs, sub)
		}
		mb.mu.RUnlock()

		for _, sub := range subs {
			if !matchFilter(ev, sub.filter) || sub.ctx.Err() != nil {
				continue
			}
			sub.handler(sub.ctx, ev)
			mb.mu.Lock()
			mb.stats.Consumed++
			mb.mu.Unlock()
		}
	}
}

func matchFilter(ev *Event, f Filter) bool {
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if t == ev.Type {
			return true
		}
	}
	return false
}

type memSub struct {
	bus *memoryBus
	id  int
}

func (s *memSub) Unsubscribe() {
	s.bus.mu.Lock()
	if sub, ok := s.bus.subscribers[s.id]; ok {
		sub.cancel()
		delete(s.bus.subscribers, s.id)
	}
	s.bus.mu.Unlock()
}
