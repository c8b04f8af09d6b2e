package queue

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/catalog-exchange/internal/application/exchange"
)

var _ exchange.Broker = (*MemoryBroker)(nil)

// MemoryBroker cola en proceso para desarrollo y tests; se pierde al reiniciar
// (los jobs PENDING se re-encolan con QueueManager.Resume).
type MemoryBroker struct {
	mu     sync.Mutex
	queues map[string][]string
	notify map[string]chan struct{}
}

// NewMemoryBroker crea la cola vacía.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		queues: map[string][]string{},
		notify: map[string]chan struct{}{},
	}
}

func (b *MemoryBroker) signal(queue string) chan struct{} {
	ch, ok := b.notify[queue]
	if !ok {
		ch = make(chan struct{}, 1)
		b.notify[queue] = ch
	}
	return ch
}

// Push encola jobID.
func (b *MemoryBroker) Push(_ context.Context, queue, jobID string) error {
	b.mu.Lock()
	b.queues[queue] = append(b.queues[queue], jobID)
	ch := b.signal(queue)
	b.mu.Unlock()
	select {
	case ch <- struct{}{}:
	default:
	}
	return nil
}

// Pop extrae el primer job o espera hasta timeout.
func (b *MemoryBroker) Pop(ctx context.Context, queue string, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		b.mu.Lock()
		if q := b.queues[queue]; len(q) > 0 {
			id := q[0]
			b.queues[queue] = q[1:]
			b.mu.Unlock()
			return id, nil
		}
		ch := b.signal(queue)
		b.mu.Unlock()

		select {
		case <-ch:
		case <-timer.C:
			return "", exchange.ErrQueueEmpty
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// Len número de jobs en espera (helper de tests).
func (b *MemoryBroker) Len(queue string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queues[queue])
}
