package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
)

const keyPrefix = "booking:occupied"

// versionGrace mantém o contador vivo além de qualquer entrada gravada sob
// ele; se o contador expirasse antes, uma geração antiga voltaria a ser lida.
const versionGrace = time.Hour

// RedisOccupancy guarda, por (serviço, dia), a lista de horários ocupados.
// Cada (serviço, dia) tem um contador de geração; a lista fica numa chave
// com a geração no nome. Invalidate incrementa o contador (INCR), e o que
// foi lido do ledger antes disso é gravado numa geração que ninguém mais lê.
type RedisOccupancy struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisOccupancy(rdb *redis.Client, ttl time.Duration) *RedisOccupancy {
	return &RedisOccupancy{rdb: rdb, ttl: ttl}
}

func dayKey(serviceID string, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, serviceID, day.Format("2006-01-02"))
}

// VersionKey é o contador de geração do (serviço, dia).
func VersionKey(serviceID string, day time.Time) string {
	return dayKey(serviceID, day) + ":ver"
}

// Key é a chave da lista para uma geração.
func Key(serviceID string, day time.Time, version int64) string {
	return fmt.Sprintf("%s:v%d", dayKey(serviceID, day), version)
}

func (c *RedisOccupancy) version(ctx context.Context, serviceID string, day time.Time) (int64, error) {
	v, err := c.rdb.Get(ctx, VersionKey(serviceID, day)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get occupancy version: %w", err)
	}
	return v, nil
}

func (c *RedisOccupancy) Get(ctx context.Context, serviceID string, day time.Time) (domain.OccupancySnapshot, error) {
	v, err := c.version(ctx, serviceID, day)
	if err != nil {
		return domain.OccupancySnapshot{}, err
	}
	snap := domain.OccupancySnapshot{Version: v}

	raw, err := c.rdb.Get(ctx, Key(serviceID, day, v)).Bytes()
	if errors.Is(err, redis.Nil) {
		return snap, nil
	}
	if err != nil {
		return domain.OccupancySnapshot{}, fmt.Errorf("redis get occupancy: %w", err)
	}

	if err := json.Unmarshal(raw, &snap.Occupied); err != nil {
		return domain.OccupancySnapshot{}, fmt.Errorf("decode occupancy: %w", err)
	}
	snap.Hit = true
	return snap, nil
}

func (c *RedisOccupancy) Set(ctx context.Context, serviceID string, day time.Time, version int64, occupied []time.Time) error {
	if occupied == nil {
		occupied = []time.Time{}
	}
	raw, err := json.Marshal(occupied)
	if err != nil {
		return fmt.Errorf("encode occupancy: %w", err)
	}
	if err := c.rdb.Set(ctx, Key(serviceID, day, version), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set occupancy: %w", err)
	}
	return nil
}

func (c *RedisOccupancy) Invalidate(ctx context.Context, serviceID string, day time.Time) error {
	vk := VersionKey(serviceID, day)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, vk)
		pipe.Expire(ctx, vk, c.ttl+versionGrace)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis incr occupancy version: %w", err)
	}
	return nil
}

// NewRedisClient abre e testa a conexão.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

var _ domain.OccupancyCache = (*RedisOccupancy)(nil)

// Noop é usado quando o redis não está configurado: sempre miss.
type Noop struct{}

func (Noop) Get(context.Context, string, time.Time) (domain.OccupancySnapshot, error) {
	return domain.OccupancySnapshot{}, nil
}

func (Noop) Set(context.Context, string, time.Time, int64, []time.Time) error { return nil }

func (Noop) Invalidate(context.Context, string, time.Time) error { return nil }

var _ domain.OccupancyCache = Noop{}
