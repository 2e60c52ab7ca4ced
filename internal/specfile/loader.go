// internal/specfile/loader.go
//
// Specification-collection loader.
//
/*
Context
--------
A collection file is a YAML mapping from dataset name to data dictionary:

	iris:
	  path: /data/iris.csv
	  delimiter: ","
	  nrows: 150
	  columns:
	    - {name: Sepal Length, type: float, use: true}
	    - {name: Species,      type: string, use: true}

`Load()` builds one Collection from two layers (highest precedence last):

 1. the YAML file itself,
 2. optional environment overrides under a prefix, where `__` maps to “.”
    (e.g., `DDSPEC_IRIS__PATH → iris.path`).

The merged tree is unmarshalled with koanf's weakly-typed decoder, so
`DDSPEC_IRIS__NROWS=10` lands in an int field.  The loader performs no
semantic checks; that is the validator's job.

Instrumentation
---------------
  • DEBUG — file read, env overlay.
  • ERROR — read, parse, overlay, and unmarshal failures.
*/
package specfile

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/datadict/internal/dictionary"
)

// DefaultEnvPrefix is the prefix of per-dataset environment overrides.
const DefaultEnvPrefix = "DDSPEC_"

// Load reads the collection at path and applies overrides from variables
// starting with envPrefix.  An empty envPrefix disables the overlay.
func Load(path, envPrefix string) (dictionary.Collection, error) {
	log := zap.S()
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		log.Errorw("specfile load failed", "file", path, "err", err)
		return nil, fmt.Errorf("load specfile %s: %w", path, err)
	}
	log.Debugw("specfile loaded", "file", path, "datasets", len(k.Raw()))

	if envPrefix != "" {
		if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
			return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, envPrefix), "__", "."))
		}), nil); err != nil {
			log.Errorw("specfile env overlay failed", "prefix", envPrefix, "err", err)
			return nil, fmt.Errorf("env overlay %s*: %w", envPrefix, err)
		}
		log.Debugw("specfile env overlay applied", "prefix", envPrefix)
	}

	coll := dictionary.Collection{}
	if err := k.Unmarshal("", &coll); err != nil {
		log.Errorw("specfile unmarshal failed", "file", path, "err", err)
		return nil, fmt.Errorf("decode specfile %s: %w", path, err)
	}
	return coll, nil
}
