// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct parsing. Each config type is parsed
// once per process and served from a cache afterwards, so packages can call
// Load for the same struct without re-reading the environment:
//
//	if err := config.LoadEnv("deploy/.env"); err != nil {
//	    return err
//	}
//
//	var db pg.Config
//	if err := config.Load(&db); err != nil {
//	    return err
//	}
//
// A failed parse is not cached. ResetCache clears everything, which tests use
// after changing variables with t.Setenv.
package config
