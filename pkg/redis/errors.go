package redis

import "errors"

var (
	ErrFailedToParseRedisConnString = errors.New("redis.failed_to_parse_connection_url")
	ErrRedisNotReady                = errors.New("redis.not_ready")
	ErrEmptyConnectionURL           = errors.New("redis.empty_connection_url")
	ErrHealthcheckFailed            = errors.New("redis.healthcheck_failed")
)
