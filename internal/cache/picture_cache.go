package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const pictureNamespace = "profile-picture"

// PictureCache is a read-through cache of profile picture bytes keyed by user id.
type PictureCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewPictureCache(addr, password string, ttl time.Duration) *PictureCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	return NewPictureCacheWithClient(rdb, ttl)
}

func NewPictureCacheWithClient(client redis.UniversalClient, ttl time.Duration) *PictureCache {
	return &PictureCache{client: client, ttl: ttl}
}

func key(userID int64) string {
	return pictureNamespace + ":" + strconv.FormatInt(userID, 10)
}

// Get returns the cached bytes; found is false on a miss
func (c *PictureCache) Get(ctx context.Context, userID int64) (data []byte, found bool, err error) {
	data, err = c.client.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *PictureCache) Set(ctx context.Context, userID int64, data []byte) error {
	return c.client.Set(ctx, key(userID), data, c.ttl).Err()
}

func (c *PictureCache) Invalidate(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, key(userID)).Err()
}

func (c *PictureCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *PictureCache) Close() error {
	return c.client.Close()
}
