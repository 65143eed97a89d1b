package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Kind selects a [Sink] implementation.
type Kind string

const (
	KindLogger Kind = "logger"
	KindStream Kind = "stream"
)

// Config describes how a sink is built. The zero value is a text logger without a log file.
type Config struct {
	Kind Kind `toml:"kind"`
	// ProjectName is attached to every logger entry as the "project" field.
	ProjectName string `toml:"project_name"`
	// Format is the logger format, "text" (default) or "json". Ignored by the stream sink.
	Format string `toml:"format"`
	// LogFile, when set, receives a copy of every logger entry.
	LogFile    string `toml:"log_file"`
	NoColor    bool   `toml:"no_color"`
	ForceColor bool   `toml:"force_color"`
}

// Environment variables read by [ApplyEnv] and [ConfigFromEnv].
const (
	EnvConfig      = "BASECMD_CONFIG"
	EnvOutput      = "BASECMD_OUTPUT"
	EnvProjectName = "BASECMD_PROJECT_NAME"
	EnvLogFormat   = "BASECMD_LOG_FORMAT"
	EnvLogFile     = "BASECMD_LOG_FILE"
	EnvNoColor     = "BASECMD_NO_COLOR"
	EnvForceColor  = "BASECMD_FORCE_COLOR"
)

// LoadConfig decodes the TOML file at path and applies environment overrides. An empty path skips
// the file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("output: failed to load config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return Config{}, fmt.Errorf("output: unknown key(s) in %s: %s", path, strings.Join(keys, ", "))
		}
	}
	cfg = ApplyEnv(cfg, os.LookupEnv)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigFromEnv loads the file named by BASECMD_CONFIG, if any, and applies environment overrides.
func ConfigFromEnv() (Config, error) {
	return LoadConfig(os.Getenv(EnvConfig))
}

// ApplyEnv returns cfg with overrides from the environment, as reported by lookup. NO_COLOR and
// FORCE_COLOR follow the usual convention: any non-empty value enables them.
func ApplyEnv(cfg Config, lookup func(string) (string, bool)) Config {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	if v := get(EnvOutput); v != "" {
		cfg.Kind = Kind(strings.ToLower(v))
	}
	if v := get(EnvProjectName); v != "" {
		cfg.ProjectName = v
	}
	if v := get(EnvLogFormat); v != "" {
		cfg.Format = strings.ToLower(v)
	}
	if v := get(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
	if get("NO_COLOR") != "" || get(EnvNoColor) != "" {
		cfg.NoColor = true
	}
	if get("FORCE_COLOR") != "" || get(EnvForceColor) != "" {
		cfg.ForceColor = true
	}
	return cfg
}

func (c Config) validate() error {
	switch c.Kind {
	case "", KindLogger, KindStream:
	default:
		return fmt.Errorf("output: unknown sink kind %q", c.Kind)
	}
	switch c.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("output: unknown log format %q", c.Format)
	}
	return nil
}
