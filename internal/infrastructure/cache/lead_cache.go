package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/studio-portal/internal/domain/repository"
	"github.com/jhoicas/studio-portal/pkg/config"
	"github.com/jhoicas/studio-portal/pkg/logger"
)

var _ repository.LeadExistenceChecker = (*LeadExistsCache)(nil)

const leadKeyPrefix = "lead:exists:"

// kv subconjunto de comandos de Redis que usa la caché.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// NewRedisClient abre el cliente y verifica la conexión con un PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// LeadExistsCache delante de la consulta de existencia de leads del guard.
// Solo guarda positivos: un lead nunca deja de existir, pero uno nuevo debe
// verse en la siguiente petición.
type LeadExistsCache struct {
	rdb  kv
	next repository.LeadExistenceChecker
	ttl  time.Duration
	log  *logger.Logger
}

// NewLeadExistsCache envuelve next. ttl <= 0 usa 10 minutos.
func NewLeadExistsCache(rdb kv, next repository.LeadExistenceChecker, ttl time.Duration, log *logger.Logger) *LeadExistsCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LeadExistsCache{rdb: rdb, next: next, ttl: ttl, log: log.Component("lead_cache")}
}

// ExistsByEmail consulta Redis y, si no hay acierto, la base. Un fallo de Redis
// nunca bloquea: se degrada a la consulta directa.
func (c *LeadExistsCache) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	key := leadKeyPrefix + email
	v, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil && v == "1":
		return true, nil
	case err != nil && !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Msg("redis get falló; consultando base de datos")
	}

	ok, err := c.next.ExistsByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if ok {
		if err := c.rdb.Set(ctx, key, "1", c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Msg("redis set falló")
		}
	}
	return ok, nil
}
