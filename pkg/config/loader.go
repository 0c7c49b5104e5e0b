package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache holds one parsed value per config type.
type cache struct {
	mu     sync.RWMutex
	values map[string]any
	onces  map[string]*sync.Once
}

var (
	globalCache = newCache()

	defaultEnvMu     sync.Mutex
	defaultEnvLoaded bool
)

func newCache() *cache {
	return &cache{
		values: make(map[string]any),
		onces:  make(map[string]*sync.Once),
	}
}

// Load parses environment variables into v using its env struct tags.
// The first call for a type parses; later calls for the same type copy the
// cached value. A .env file in the working directory is read once, if present,
// before the first parse.
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	loadDefaultEnv()

	key := typeKey[T]()
	if cached, ok := globalCache.get(key); ok {
		*v = cached.(T)
		return nil
	}

	var err error
	globalCache.once(key).Do(func() {
		var parsed T
		if perr := env.Parse(&parsed); perr != nil {
			err = errors.Join(ErrParsingConfig, perr)
			return
		}
		globalCache.set(key, parsed)
	})
	if err != nil {
		// let a later call retry once the environment is fixed
		globalCache.forget(key)
		return err
	}

	cached, ok := globalCache.get(key)
	if !ok {
		return ErrConfigNotLoaded
	}
	*v = cached.(T)
	return nil
}

// MustLoad is like Load but panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// LoadEnv reads the given .env files into the process environment. Variables
// already set are kept, and earlier files win over later ones. With no paths
// it reads .env from the working directory.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv is like LoadEnv but panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// ResetCache drops every cached config so the next Load parses again.
// Meant for tests that change the environment.
func ResetCache() {
	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()
	clear(globalCache.values)
	clear(globalCache.onces)
}

func loadDefaultEnv() {
	defaultEnvMu.Lock()
	defer defaultEnvMu.Unlock()
	if defaultEnvLoaded {
		return
	}
	defaultEnvLoaded = true
	// .env is optional
	_ = godotenv.Load()
}

func (c *cache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *cache) set(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = v
}

func (c *cache) once(key string) *sync.Once {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.onces[key]
	if !ok {
		o = new(sync.Once)
		c.onces[key] = o
	}
	return o
}

func (c *cache) forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.onces, key)
}

func typeKey[T any]() string {
	t := reflect.TypeFor[T]()
	return t.PkgPath() + "." + t.String()
}
