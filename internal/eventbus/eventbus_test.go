package eventbus

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu     sync.Mutex
	events []*Event
}

func (c *collector) handle(_ context.Context, ev *Event) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func (c *collector) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.Type
	}
	return out
}

func TestDeliversInOrderWithFilter(t *testing.T) {
	bus := NewMemoryBus(16)
	all, blocks := &collector{}, &collector{}
	bus.Subscribe(context.Background(), Filter{}, all.handle)
	bus.Subscribe(context.Background(), Filter{Types: []string{BlockPlaced, BlockRemoved}}, blocks.handle)

	for _, typ := range []string{ChunkLoaded, BlockPlaced, WindowChanged, BlockRemoved} {
		require.True(t, bus.Publish(NewEvent(typ, 1)))
	}
	bus.Close()

	assert.Equal(t, []string{ChunkLoaded, BlockPlaced, WindowChanged, BlockRemoved}, all.types())
	assert.Equal(t, []string{BlockPlaced, BlockRemoved}, blocks.types())

	stats := bus.Stats()
	assert.Equal(t, uint64(4), stats.Published)
	assert.Equal(t, uint64(6), stats.Consumed)
	assert.Zero(t, stats.InFlight)
}

func TestPublishDropsWhenFull(t *testing.T) {
	bus := NewMemoryBus(1)
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Event) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	})

	require.True(t, bus.Publish(NewEvent(ChunkLoaded, 0)))
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("обработчик не запустился")
	}

	// первое событие в обработчике, второе в буфере, третье не помещается
	assert.True(t, bus.Publish(NewEvent(ChunkLoaded, 1)))
	assert.False(t, bus.Publish(NewEvent(ChunkLoaded, 2)), "переполнение не блокирует")
	assert.Equal(t, uint64(1), bus.Stats().Dropped)

	close(release)
	bus.Close()
	assert.False(t, bus.Publish(NewEvent(ChunkLoaded, 3)), "закрытая шина отбрасывает события")
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewMemoryBus(8)
	c := &collector{}
	sub := bus.Subscribe(context.Background(), Filter{}, c.handle)
	sub.Unsubscribe()

	bus.Publish(NewEvent(ChunkLoaded, 0))
	bus.Close()
	assert.Empty(t, c.types())
}

func TestRegisterMetrics(t *testing.T) {
	bus := NewMemoryBus(8)
	reg := prometheus.NewRegistry()
	RegisterMetrics(reg, bus)

	bus.Publish(NewEvent(ChunkLoaded, 0))
	bus.Publish(NewEvent(ChunkLoaded, 1))
	bus.Close()

	expected := `
# HELP terra_eventbus_messages_published_total Общее число опубликованных событий.
# TYPE terra_eventbus_messages_published_total counter
terra_eventbus_messages_published_total 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "terra_eventbus_messages_published_total"))
}
