package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// key levels: MDLINT_LINT__JOBS=4 sets lint.jobs.
const EnvPrefix = "MDLINT_"

// configFileNames is the ordered list of config file names to search for.
var configFileNames = []string{
	"mdlint.yml",
	"mdlint.yaml",
	".mdlint.yml",
	".mdlint.yaml",
}

// userConfigFile is looked up under the XDG config directories when no
// project config exists.
const userConfigFile = "mdlint/config.yml"

// Discover returns the path of the first config file found in dir,
// following the standard search order, falling back to the user config
// under $XDG_CONFIG_HOME. It returns an empty string if no config file is
// found.
func Discover(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	if path, err := xdg.SearchConfigFile(userConfigFile); err == nil {
		return path
	}
	return ""
}

// Load builds the configuration from defaults, a config file and the
// environment. If configPath is non-empty, that file is loaded directly.
// Otherwise, Load searches the current working directory using Discover.
//
// Partial YAML files are supported: any fields not specified in the YAML
// retain their default values.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		configPath = Discover(wd)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file not found: %s", configPath)
			}
			return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
		}
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	if cfg.Lint.Rules == nil {
		cfg.Lint.Rules = map[string]string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// envKey maps MDLINT_LINT__MAX_PARAGRAPH_LENGTH to
// lint.max_paragraph_length.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
