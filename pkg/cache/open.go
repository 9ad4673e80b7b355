package cache

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Backends lists every backend name in display order.
var Backends = []string{BackendFile, BackendMemory, BackendRedis, BackendMongo, BackendNone}

// Options selects and configures a backend.
type Options struct {
	Backend       string `toml:"backend" json:"backend"`
	Dir           string `toml:"dir" json:"dir,omitempty"`
	RedisURL      string `toml:"redis_url" json:"redis_url,omitempty"`
	MongoURI      string `toml:"mongo_uri" json:"mongo_uri,omitempty"`
	MongoDatabase string `toml:"mongo_database" json:"mongo_database,omitempty"`
	MemorySize    int    `toml:"memory_size" json:"memory_size,omitempty"`
}

// Open constructs the backend named by opts.Backend. An empty name selects
// the file backend in opts.Dir, or DefaultDir when Dir is empty.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		dir := opts.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, fmt.Errorf("cache dir: %w", err)
			}
			dir = d
		}
		return wrap(NewFileCache(dir))
	case BackendMemory:
		return wrap(NewMemoryCache(opts.MemorySize))
	case BackendRedis:
		return wrap(NewRedisCache(ctx, opts.RedisURL))
	case BackendMongo:
		return wrap(NewMongoCache(ctx, opts.MongoURI, opts.MongoDatabase))
	case BackendNone, "off", "null":
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownBackend, opts.Backend, strings.Join(Backends, ", "))
	}
}

// ValidBackend reports whether name is accepted by Open.
func ValidBackend(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendFile, BackendMemory, BackendRedis, BackendMongo, BackendNone, "off", "null":
		return true
	}
	return false
}

// wrap avoids returning a typed nil inside a non-nil Cache interface.
func wrap[C Cache](c C, err error) (Cache, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
