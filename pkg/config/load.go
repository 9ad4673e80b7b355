package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// Environment variables read by ApplyEnv.
const (
	EnvCacheBackend  = "SANKEYFLOW_CACHE_BACKEND"
	EnvCacheDir      = "SANKEYFLOW_CACHE_DIR"
	EnvRedisURL      = "SANKEYFLOW_REDIS_URL"
	EnvMongoURI      = "SANKEYFLOW_MONGO_URI"
	EnvMongoDatabase = "SANKEYFLOW_MONGO_DATABASE"
	EnvAddr          = "SANKEYFLOW_ADDR"
	EnvPalette       = "SANKEYFLOW_PALETTE"
	EnvTheme         = "SANKEYFLOW_THEME"
	EnvMemorySize    = "SANKEYFLOW_CACHE_MEMORY_SIZE"
)

// Load reads the file at path on top of [Default]. An empty path selects
// [DefaultPath], which may be absent. An explicit path must exist.
//
// Keys the file sets override defaults; keys it omits keep them. Unknown
// keys are reported as INVALID_INPUT so typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		if stderrors.Is(err, fs.ErrNotExist) {
			return cfg, errors.New(errors.ErrCodeNotFound, "config file %s does not exist", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeParse, err, "read config %s", path).
			WithSuggestion("check the TOML syntax of the config file")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored. With no arguments it reads .env in the working directory.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with the SANKEYFLOW_* variables found by lookup.
// Pass os.LookupEnv in production.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str(EnvCacheBackend, &cfg.Cache.Backend)
	str(EnvCacheDir, &cfg.Cache.Dir)
	str(EnvRedisURL, &cfg.Cache.RedisURL)
	str(EnvMongoURI, &cfg.Cache.MongoURI)
	str(EnvMongoDatabase, &cfg.Cache.MongoDatabase)
	str(EnvAddr, &cfg.Server.Addr)
	str(EnvPalette, &cfg.Style.Palette)
	str(EnvTheme, &cfg.Style.Theme)

	if v, ok := lookup(EnvMemorySize); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", EnvMemorySize, v)
		}
		cfg.Cache.MemorySize = n
	}
	return nil
}

// Resolve runs the full chain: file, .env, environment, validation.
func Resolve(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if err := LoadDotEnv(); err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	return enc.Encode(cfg)
}
