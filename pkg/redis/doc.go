// Package redis connects to Redis with go-redis/v9.
//
// Config is populated from REDIS_* environment variables. Connect parses the
// URL and pings the server, retrying until it answers or ConnectTimeout
// elapses:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// Healthcheck wraps a ping for readiness probes.
package redis
