package redis_fx

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"vitalis/internal/infra"
	"vitalis/pkg/dedupe"
)

var Module = fx.Provide(
	provideRedis, provideDeduper,
)

func provideRedis() *redis.Client {
	return infra.InitRedis()
}

func provideDeduper(rdb *redis.Client) dedupe.EventDeduper {
	return dedupe.NewRedisDeduper(rdb)
}
