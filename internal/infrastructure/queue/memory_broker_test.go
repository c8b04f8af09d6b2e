package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-exchange/internal/application/exchange"
	"github.com/jhoicas/catalog-exchange/internal/infrastructure/queue"
)

func TestMemoryBroker_FIFOPorCola(t *testing.T) {
	b := queue.NewMemoryBroker()
	ctx := context.Background()
	require.NoError(t, b.Push(ctx, "c1", "j1"))
	require.NoError(t, b.Push(ctx, "c1", "j2"))
	require.NoError(t, b.Push(ctx, "c2", "k1"))

	id, err := b.Pop(ctx, "c1", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "j1", id)
	id, err = b.Pop(ctx, "c1", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "j2", id)
	assert.Equal(t, 1, b.Len("c2"))
}

func TestMemoryBroker_TimeoutDevuelveColaVacia(t *testing.T) {
	b := queue.NewMemoryBroker()
	_, err := b.Pop(context.Background(), "c1", 20*time.Millisecond)
	assert.ErrorIs(t, err, exchange.ErrQueueEmpty)
}

func TestMemoryBroker_DespiertaAlEncolar(t *testing.T) {
	b := queue.NewMemoryBroker()
	got := make(chan string, 1)
	go func() {
		id, _ := b.Pop(context.Background(), "c1", 5*time.Second)
		got <- id
	}()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, b.Push(context.Background(), "c1", "j1"))

	select {
	case id := <-got:
		assert.Equal(t, "j1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("Pop no despertó")
	}
}

func TestMemoryBroker_CancelacionDelContexto(t *testing.T) {
	b := queue.NewMemoryBroker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Pop(ctx, "c1", time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
