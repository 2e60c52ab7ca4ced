// internal/config/model.go
//
// Typed configuration model for datadict.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env` next to the config file    – dotenv values,
//   • optional YAML config file                  – static settings,
//   • `DATADICT_`-prefixed environment overrides – highest precedence.
//
// Validation happens immediately after unmarshal; the CLI fails fast if a
// value is malformed.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • Defaults live in Defaults(); the loader unmarshals over them so absent
//     keys keep their default value.

package config

// Logging controls the zap/lumberjack logger.
type Logging struct {
	Dir   string `koanf:"dir"`   // "" means console only
	Tee   bool   `koanf:"tee"`   // also write to the console when Dir is set
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

// Cache sizes the specification store.
type Cache struct {
	Entries int `koanf:"entries" validate:"gte=0"`
}

// HTTP holds the read-only API listener.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	Specfile  string  `koanf:"specfile"`   // default collection file
	EnvPrefix string  `koanf:"env_prefix"` // per-dataset override prefix
	SkipStat  bool    `koanf:"skip_stat"`  // accept absolute paths without stat
	Watch     bool    `koanf:"watch"`      // evict cached collections on change
	Logging   Logging `koanf:"logging"`
	Cache     Cache   `koanf:"cache"`
	HTTP      HTTP    `koanf:"http"`
}

// Defaults returns the configuration used when no layer sets a value.
func Defaults() Config {
	return Config{
		EnvPrefix: "DDSPEC_",
		Logging:   Logging{Level: "info"},
		Cache:     Cache{Entries: 32},
		HTTP:      HTTP{ListenAddr: ":8080"},
	}
}
