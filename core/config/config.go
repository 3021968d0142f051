package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNilPointer is returned when Load receives anything but a non-nil
// struct pointer.
var ErrNilPointer = errors.New("config: target must be a non-nil struct pointer")

var (
	cache   sync.Map // reflect.Type -> any (pointer to cached struct)
	envOnce sync.Once
)

// Load parses environment variables into cfg based on its `env` struct tags.
// Each configuration type is loaded once per process; subsequent calls for
// the same type return the cached values. A .env file in the working
// directory is loaded on first use when present.
func Load(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrNilPointer
	}

	// Missing .env files are expected outside local development.
	envOnce.Do(func() { _ = godotenv.Load() })

	t := v.Elem().Type()
	if cached, ok := cache.Load(t); ok {
		v.Elem().Set(reflect.ValueOf(cached).Elem())
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", t, err)
	}

	stored := reflect.New(t)
	stored.Elem().Set(v.Elem())
	if prev, loaded := cache.LoadOrStore(t, stored.Interface()); loaded {
		v.Elem().Set(reflect.ValueOf(prev).Elem())
	}

	return nil
}

// MustLoad is like Load but panics on failure. Useful during application startup.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
