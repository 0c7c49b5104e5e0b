package redis_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/smartplace/idrole/pkg/redis"
)

func TestHealthcheck_Unreachable(t *testing.T) {
	t.Parallel()

	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer func() { _ = client.Close() }()

	err := redis.Healthcheck(client)(context.Background())
	assert.ErrorIs(t, err, redis.ErrHealthcheckFailed)
}
