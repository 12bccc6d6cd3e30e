package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisConnOnce sync.Once
var redisServer *miniredis.Miniredis
var redisConn *redis.Client

// NewRedis returns a client to a shared in-process Redis.
func NewRedis() *redis.Client {
	redisConnOnce.Do(
		func() {
			redisServer, redisConn = openRedisConn()
		},
	)

	return redisConn
}

// RedisServer returns the in-process server behind NewRedis.
func RedisServer() *miniredis.Miniredis {
	NewRedis()
	return redisServer
}

func openRedisConn() (*miniredis.Miniredis, *redis.Client) {
	miniRedis, err := miniredis.Run()
	if err != nil {
		panic(err)
	}

	conn := redis.NewClient(
		&redis.Options{
			Addr: miniRedis.Addr(),
		},
	)

	return miniRedis, conn
}

func ClearRedis(redis *redis.Client) error {
	return redis.FlushAll(context.TODO()).Err()
}
