package loader

import (
	"context"
	"sync"
)

// FIFO неограниченная очередь. Push никогда не блокирует; Pop ждёт элемент
// или отмену контекста. Рассчитана на одного читателя.
type FIFO[T any] struct {
	mu     sync.Mutex
	items  []T
	notify chan struct{}
}

// NewFIFO создаёт пустую очередь
func NewFIFO[T any]() *FIFO[T] {
	return &FIFO[T]{notify: make(chan struct{}, 1)}
}

// Push добавляет элемент в конец очереди
func (q *FIFO[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// TryPop забирает первый элемент, не блокируя
func (q *FIFO[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true
}

// Pop ждёт и забирает первый элемент
func (q *FIFO[T]) Pop(ctx context.Context) (T, error) {
	for {
		if v, ok := q.TryPop(); ok {
			return v, nil
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-q.notify:
		}
	}
}

// PopN забирает не более max элементов, не блокируя
func (q *FIFO[T]) PopN(max int) []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := min(max, len(q.items))
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	copy(out, q.items[:n])
	var zero T
	for i := 0; i < n; i++ {
		q.items[i] = zero
	}
	q.items = q.items[n:]
	return out
}

// Len текущая длина очереди
func (q *FIFO[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
