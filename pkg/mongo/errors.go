package mongo

import "errors"

var (
	ErrEmptyConnectionURL     = errors.New("mongo.empty_connection_url")
	ErrFailedToConnectToMongo = errors.New("mongo.failed_to_connect")
	ErrHealthcheckFailed      = errors.New("mongo.healthcheck_failed")
)
