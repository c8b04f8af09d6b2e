// Package queue implementa las colas de jobs de intercambio (Redis y memoria).
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/catalog-exchange/internal/application/exchange"
	"github.com/jhoicas/catalog-exchange/pkg/config"
)

// DefaultKeyPrefix prefijo de las listas Redis; la clave final es prefijo + companyId.
const DefaultKeyPrefix = "exchange:queue:"

var _ exchange.Broker = (*RedisBroker)(nil)

// RedisBroker cola sobre listas Redis (RPUSH / BLPOP). Sobrevive reinicios del proceso.
type RedisBroker struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisBroker conecta con Redis y comprueba la conexión.
func NewRedisBroker(cfg config.RedisConfig) (*RedisBroker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("queue: conectar Redis: %w", err)
	}
	return NewRedisBrokerWithClient(client, DefaultKeyPrefix), nil
}

// NewRedisBrokerWithClient usa un cliente existente (tests o cliente compartido).
func NewRedisBrokerWithClient(client *redis.Client, keyPrefix string) *RedisBroker {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisBroker{client: client, keyPrefix: keyPrefix}
}

// Push encola jobID al final de la cola.
func (b *RedisBroker) Push(ctx context.Context, queue, jobID string) error {
	if err := b.client.RPush(ctx, b.keyPrefix+queue, jobID).Err(); err != nil {
		return fmt.Errorf("queue: push %s: %w", queue, err)
	}
	return nil
}

// Pop extrae el primer job; espera como máximo timeout.
func (b *RedisBroker) Pop(ctx context.Context, queue string, timeout time.Duration) (string, error) {
	res, err := b.client.BLPop(ctx, timeout, b.keyPrefix+queue).Result()
	if errors.Is(err, redis.Nil) {
		return "", exchange.ErrQueueEmpty
	}
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("queue: pop %s: %w", queue, err)
	}
	// BLPOP devuelve [clave, valor].
	if len(res) != 2 {
		return "", exchange.ErrQueueEmpty
	}
	return res[1], nil
}

// Close cierra el cliente.
func (b *RedisBroker) Close() error {
	return b.client.Close()
}
