package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"opsmanual/internal/models"
	"opsmanual/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "opsmanual"

// CacheService caches airline records for the airline read endpoints.
// Writes through the airline service invalidate the cached entry.
type CacheService interface {
	GetAirline(ctx context.Context, airlineID uuid.UUID) (*models.Airline, error)
	SetAirline(ctx context.Context, airline *models.Airline) error
	DeleteAirline(ctx context.Context, airlineID uuid.UUID) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient accepts either host:port or a redis:// URL.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if opts, err := redis.ParseURL(addr); err == nil {
			if password != "" {
				opts.Password = password
			}
			return redis.NewClient(opts)
		}
		logger.Log.Warnf("invalid redis url %q; treating it as an address", addr)
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisCacheService(client *redis.Client, ttl time.Duration) CacheService {
	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		logger.Log.Warnf("redis ping failed on initialization: %v", pingErr)
	}
	return &redisCacheService{client: client, ttl: ttl}
}

func airlineKey(airlineID uuid.UUID) string {
	return fmt.Sprintf("%s:airline:%s", keyPrefix, airlineID.String())
}

// GetAirline returns nil, nil on a cache miss.
func (r *redisCacheService) GetAirline(ctx context.Context, airlineID uuid.UUID) (*models.Airline, error) {
	data, err := r.client.Get(ctx, airlineKey(airlineID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var airline models.Airline
	if err := json.Unmarshal(data, &airline); err != nil {
		return nil, err
	}
	return &airline, nil
}

func (r *redisCacheService) SetAirline(ctx context.Context, airline *models.Airline) error {
	data, err := json.Marshal(airline)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, airlineKey(airline.ID), data, r.ttl).Err()
}

func (r *redisCacheService) DeleteAirline(ctx context.Context, airlineID uuid.UUID) error {
	return r.client.Del(ctx, airlineKey(airlineID)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type noopCache struct{}

// NewNoopCache is used when no redis address is configured.
func NewNoopCache() CacheService {
	return noopCache{}
}

func (noopCache) GetAirline(context.Context, uuid.UUID) (*models.Airline, error) { return nil, nil }
func (noopCache) SetAirline(context.Context, *models.Airline) error             { return nil }
func (noopCache) DeleteAirline(context.Context, uuid.UUID) error                 { return nil }
func (noopCache) Ping(context.Context) error                                     { return nil }
