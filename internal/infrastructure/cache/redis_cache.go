// Package cache implementa ports.Cache sobre Redis con versiones por empresa y namespace.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/fakturi-api/internal/application/ports"
	"github.com/jhoicas/fakturi-api/pkg/logger"
)

const (
	keyPrefix = "fakturi"
	// bypassPrefix marca claves armadas sin versión (Redis caído): nunca se leen ni se escriben.
	bypassPrefix = "nocache:"
)

var _ ports.Cache = (*RedisCache)(nil)

// New abre el cliente y verifica la conexión.
func New(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	return client, nil
}

// RedisCache caché JSON con TTL. Un cliente nil deja pasar todo al loader.
// Los errores de Redis nunca llegan al llamador: se registran y se consulta la fuente.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisCache ttl <= 0 usa 5 minutos.
func NewRedisCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisCache{client: client, ttl: ttl, log: log.WithComponent("cache")}
}

func versionKey(companyID, namespace string) string {
	return strings.Join([]string{keyPrefix, "ver", namespace, companyID}, ":")
}

// Version versión vigente de (companyID, namespace); 1 si aún no existe.
func (c *RedisCache) Version(ctx context.Context, companyID, namespace string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey(companyID, namespace)).Int64()
	if errors.Is(err, redis.Nil) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if ver <= 0 {
		ver = 1
	}
	return ver, nil
}

// Key compone la clave con la versión actual.
func (c *RedisCache) Key(ctx context.Context, companyID, namespace string, parts ...string) (string, error) {
	joined := strings.Join([]string{keyPrefix, namespace, companyID}, ":") + ports.KeyParts(parts...)
	if c == nil || c.client == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx, companyID, namespace)
	if err != nil {
		c.log.Warn().Err(err).Str("namespace", namespace).Msg("versión no disponible")
		return bypassPrefix + joined, nil
	}
	return joined + ":v" + strconv.FormatInt(ver, 10), nil
}

// FetchJSON lee la clave en dest o la puebla con loader.
func (c *RedisCache) FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("cache: loader requerido")
	}
	if c == nil || c.client == nil || strings.HasPrefix(key, bypassPrefix) {
		return ports.NopCache{}.FetchJSON(ctx, key, dest, loader)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		if jerr := json.Unmarshal(payload, dest); jerr == nil {
			return nil
		}
		// entrada corrupta: se regenera
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Str("key", key).Msg("lectura fallida")
		return ports.NopCache{}.FetchJSON(ctx, key, dest, loader)
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("escritura fallida")
	}
	return json.Unmarshal(raw, dest)
}

// Bump incrementa la versión y deja obsoletas las claves anteriores del namespace.
func (c *RedisCache) Bump(ctx context.Context, companyID, namespace string) error {
	if c == nil || c.client == nil {
		return nil
	}
	k := versionKey(companyID, namespace)
	pipe := c.client.TxPipeline()
	pipe.SetNX(ctx, k, 1, 0)
	pipe.Incr(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache: bump %s: %w", namespace, err)
	}
	return nil
}
