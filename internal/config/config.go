// Package config loads cefrtag settings from a YAML file and environment variables.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Source kinds.
const (
	SourceFile    = "file"
	SourceBolt    = "bolt"
	SourceBuiltin = "builtin"
)

// Config is the root application configuration.
type Config struct {
	Vocab  VocabConfig  `yaml:"vocab"`
	Tagger TaggerConfig `yaml:"tagger"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// VocabConfig selects where the vocabulary source comes from.
type VocabConfig struct {
	Kind         string        `yaml:"kind"          env:"CEFRTAG_VOCAB_KIND"          env-default:"file"`
	Path         string        `yaml:"path"          env:"CEFRTAG_VOCAB_PATH"          env-default:"vocabulary.json"`
	FallbackPath string        `yaml:"fallback_path" env:"CEFRTAG_VOCAB_FALLBACK_PATH" env-default:"../vocabulary.json"`
	DBPath       string        `yaml:"db_path"       env:"CEFRTAG_VOCAB_DB_PATH"       env-default:"cefrtag.db"`
	Name         string        `yaml:"name"          env:"CEFRTAG_VOCAB_NAME"          env-default:"default"`
	Watch        bool          `yaml:"watch"         env:"CEFRTAG_VOCAB_WATCH"         env-default:"false"`
	Debounce     time.Duration `yaml:"debounce"      env:"CEFRTAG_VOCAB_DEBOUNCE"      env-default:"100ms"`
}

// TaggerConfig holds tagging behavior switches. Both default to the
// historical behavior.
type TaggerConfig struct {
	Phrases      bool `yaml:"phrases"       env:"CEFRTAG_TAGGER_PHRASES"       env-default:"false"`
	TokenOffsets bool `yaml:"token_offsets" env:"CEFRTAG_TAGGER_TOKEN_OFFSETS" env-default:"false"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"CEFRTAG_SERVER_HOST"             env-default:"127.0.0.1"`
	Port            int           `yaml:"port"             env:"CEFRTAG_SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"CEFRTAG_SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"CEFRTAG_SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"CEFRTAG_SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"CEFRTAG_SERVER_MAX_BODY_BYTES"   env-default:"1048576"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"CEFRTAG_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"CEFRTAG_LOG_FORMAT" env-default:"text"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The YAML file path is path if non-empty, else CEFRTAG_CONFIG, else
// "./cefrtag.yaml". A missing default file is not an error; a missing
// explicit one is.
func Load(path string) (*Config, error) {
	var cfg Config

	explicitPath := path != ""
	if !explicitPath {
		path = os.Getenv("CEFRTAG_CONFIG")
		explicitPath = path != ""
	}
	if !explicitPath {
		path = "./cefrtag.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		// No file, load from ENV + defaults only.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	var errs []string

	if !slices.Contains([]string{SourceFile, SourceBolt, SourceBuiltin}, c.Vocab.Kind) {
		errs = append(errs, fmt.Sprintf("vocab.kind %q: want file, bolt or builtin", c.Vocab.Kind))
	}
	if c.Vocab.Kind == SourceFile && c.Vocab.Path == "" {
		errs = append(errs, "vocab.path is required for kind file")
	}
	if c.Vocab.Kind == SourceBolt && (c.Vocab.DBPath == "" || c.Vocab.Name == "") {
		errs = append(errs, "vocab.db_path and vocab.name are required for kind bolt")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, "server.max_body_bytes must be positive")
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Sprintf("log.level %q: want debug, info, warn or error", c.Log.Level))
	}
	if !slices.Contains([]string{"text", "json"}, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Sprintf("log.format %q: want text or json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
