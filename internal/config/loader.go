// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from Defaults() plus three
layers (highest precedence last):

 1. Optional `.env` file in the config file's directory.
 2. The YAML config file, when one is given and exists.
 3. Environment variables prefixed `DATADICT_`, where `__` maps to “.”
    (e.g., `DATADICT_LOGGING__DIR → logging.dir`).

After merging, the tree is unmarshalled over the defaults, validated, and
cached in an `atomic.Pointer` for lock-free reads.

Instrumentation
---------------
  • DEBUG spans — YAML read, env overlay.
  • ERROR spans — YAML parse, env overlay, unmarshal, validation failures.
  • Logs use the global *sugared* logger (`zap.S()`); the CLI loads config
    before its logger exists, so these are no-ops unless a caller installed
    one earlier.
*/
package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// EnvPrefix prefixes every configuration override variable.
const EnvPrefix = "DATADICT_"

var current atomic.Pointer[Config]

// Load reads .env, YAML, env overrides, validates, and caches Config.  An
// empty path, or a path that does not exist, skips the file layers.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		// .env (optional, no error if missing)
		_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

		err := k.Load(file.Provider(path), yaml.Parser())
		switch {
		case err == nil:
			zap.S().Debugw("config yaml loaded", "file", path)
		case errors.Is(err, fs.ErrNotExist):
			zap.S().Debugw("config yaml absent, using defaults", "file", path)
		default:
			zap.S().Errorw("config yaml load failed", "file", path, "err", err)
			return nil, err
		}
	}

	// Env overrides: DATADICT_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, EnvPrefix), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	return &cfg, nil
}

// Get returns the last loaded Config, or nil before the first Load.
func Get() *Config { return current.Load() }
