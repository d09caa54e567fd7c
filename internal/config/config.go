// Package config loads meshq settings from defaults, an optional YAML or
// JSON file and MESHQ_ environment variables, in that order.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/danielpatrickdp/meshquality/internal/quality"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "MESHQ_"

// #region types

// Quality holds the quality bounds of a pass. Zero means unconstrained.
type Quality struct {
	MinimumAngle        float64 `koanf:"min_angle" yaml:"min_angle" json:"min_angle"`
	MaximumAngle        float64 `koanf:"max_angle" yaml:"max_angle" json:"max_angle"`
	MaximumArea         float64 `koanf:"max_area" yaml:"max_area" json:"max_area"`
	VariableArea        bool    `koanf:"variable_area" yaml:"variable_area" json:"variable_area"`
	SteinerPoints       int     `koanf:"steiner_points" yaml:"steiner_points" json:"steiner_points"`
	UseLegacyRefinement bool    `koanf:"legacy" yaml:"legacy" json:"legacy"`
}

// File is the full meshq configuration.
type File struct {
	Quality Quality `koanf:"quality" yaml:"quality" json:"quality"`
	DBPath  string  `koanf:"db_path" yaml:"db_path" json:"db_path"`
	Workers int     `koanf:"workers" yaml:"workers" json:"workers"`
	OnlyBad bool    `koanf:"only_bad" yaml:"only_bad" json:"only_bad"` // log bad verdicts only
}

// ToOptions converts the quality section to quality.Options. Predicates are
// attached by the caller.
func (q Quality) ToOptions() quality.Options {
	return quality.Options{
		MinimumAngle:        q.MinimumAngle,
		MaximumAngle:        q.MaximumAngle,
		MaximumArea:         q.MaximumArea,
		VariableArea:        q.VariableArea,
		SteinerPoints:       q.SteinerPoints,
		UseLegacyRefinement: q.UseLegacyRefinement,
	}
}

// #endregion types

// #region load

// Load reads the configuration. path may be empty, in which case only
// defaults and the environment apply.
func Load(path string) (*File, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		k.Set(key, value)
	}

	if path != "" {
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment config: %w", err)
	}

	var cfg File
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := ValidateYAMLSyntax(path); err != nil {
			return err
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config %s: unsupported extension %q", path, filepath.Ext(path))
	}
	return nil
}

// qualityKeys are the env names that live under the quality section.
var qualityKeys = map[string]bool{
	"min_angle":      true,
	"max_angle":      true,
	"max_area":       true,
	"variable_area":  true,
	"steiner_points": true,
	"legacy":         true,
}

// envTransform maps MESHQ_MIN_ANGLE to quality.min_angle and MESHQ_DB_PATH
// to db_path.
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if qualityKeys[key] {
		return "quality." + key
	}
	return key
}

// #endregion load
