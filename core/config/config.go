package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	envOnce sync.Once

	cacheMu sync.Mutex
	cache   = make(map[reflect.Type]any)
)

// loadDotenv loads a .env file from the working directory once per process.
// A missing file is not an error; real deployments set env vars directly.
func loadDotenv() {
	envOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// Load populates cfg from environment variables using caarlos0/env struct
// tags, caching the result per concrete type so repeated calls for the same
// type return the first-loaded value without re-parsing the environment.
// cfg must be a non-nil pointer to a struct.
func Load(cfg any) error {
	loadDotenv()

	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("config: Load requires a non-nil pointer, got %T", cfg)
	}
	t := v.Elem().Type()

	cacheMu.Lock()
	if cached, ok := cache[t]; ok {
		cacheMu.Unlock()
		reflect.ValueOf(cfg).Elem().Set(reflect.ValueOf(cached).Elem())
		return nil
	}
	cacheMu.Unlock()

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", t, err)
	}

	stored := reflect.New(t)
	stored.Elem().Set(v.Elem())

	cacheMu.Lock()
	cache[t] = stored.Interface()
	cacheMu.Unlock()

	return nil
}

// MustLoad calls Load and panics on failure. Intended for application
// startup where a missing or invalid required variable should abort boot.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
