package eventbus

import (
	"context"

	"github.com/annel0/terra2d/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог компонента events.
// Функция неблокирующая.
func StartLoggingListener(bus Bus) Subscription {
	logger := logging.GetComponentLogger("events")
	sub := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Event) {
		switch ev.Type {
		case BlockPlaced, BlockRemoved:
			logger.Debug("[%s] %s чанк %d клетка %v блок %s", ev.ID, ev.Type, ev.Index, ev.Cell, ev.Block)
		case WindowChanged:
			logger.Debug("[%s] %s окно %v", ev.ID, ev.Type, ev.Window)
		default:
			logger.Trace("[%s] %s чанк %d", ev.ID, ev.Type, ev.Index)
		}
	})
	logger.Info("🪵 LoggingListener: подписка на все события активирована")
	return sub
}
