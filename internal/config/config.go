// Package config loads pageserve settings from defaults, a config file,
// the environment and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/f4ah6o/pageserve-go/internal/log"
	"github.com/f4ah6o/pageserve-go/internal/pages"
)

// DefaultFile is read from the working directory when no config path is given.
const DefaultFile = "pageserve.toml"

// EnvFile is the dotenv file read from the working directory.
const EnvFile = ".env"

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "PAGESERVE_"

var (
	ErrInvalidConfig     = errors.New("invalid config")
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// Duration is a [time.Duration] that decodes from strings like "5s".
type Duration time.Duration

// UnmarshalText implements [encoding.TextUnmarshaler] for TOML.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements [yaml.Unmarshaler].
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Config holds every process-start setting. It is read once and not
// modified after the server starts.
type Config struct {
	// Root is the directory files are served from.
	Root string `toml:"root" yaml:"root"`
	// Host is the bind address.
	Host string `toml:"host" yaml:"host"`
	// Port is the listening port; 0 picks a free one.
	Port int `toml:"port" yaml:"port"`
	// Lang selects the language of the built-in pages.
	Lang string `toml:"lang" yaml:"lang"`
	// Gzip enables response compression.
	Gzip bool `toml:"gzip" yaml:"gzip"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" yaml:"log_level"`
	// LogFormat is one of auto, text, logfmt, json.
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Root:            ".",
		Host:            "0.0.0.0",
		Port:            5001,
		Lang:            pages.DefaultLang,
		ShutdownTimeout: Duration(5 * time.Second),
		LogLevel:        "info",
		LogFormat:       log.AutoFormat,
	}
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load builds a Config from defaults, the file at path, a .env file in the
// working directory and PAGESERVE_* variables, in increasing precedence.
// An empty path falls back to DefaultFile when it exists.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return cfg, err
		}
	}

	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var merr error

	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	str("ROOT", &c.Root)
	str("HOST", &c.Host)
	str("LANG", &c.Lang)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	if v, ok := lookup(EnvPrefix + "PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%sPORT: %w", EnvPrefix, err))
		} else {
			c.Port = port
		}
	}

	if v, ok := lookup(EnvPrefix + "GZIP"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%sGZIP: %w", EnvPrefix, err))
		} else {
			c.Gzip = b
		}
	}

	if v, ok := lookup(EnvPrefix + "SHUTDOWN_TIMEOUT"); ok {
		if err := c.ShutdownTimeout.UnmarshalText([]byte(v)); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%sSHUTDOWN_TIMEOUT: %w", EnvPrefix, err))
		}
	}

	if merr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, merr)
	}

	return nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var merr error

	if strings.TrimSpace(c.Root) == "" {
		merr = multierror.Append(merr, errors.New("root must not be empty"))
	}

	if strings.TrimSpace(c.Host) == "" {
		merr = multierror.Append(merr, errors.New("host must not be empty"))
	}

	if c.Port < 0 || c.Port > 65535 {
		merr = multierror.Append(merr, fmt.Errorf("port %d out of range 0-65535", c.Port))
	}

	if _, err := pages.ParseLang(c.Lang); err != nil {
		merr = multierror.Append(merr, err)
	}

	if c.ShutdownTimeout <= 0 {
		merr = multierror.Append(merr, fmt.Errorf("shutdown_timeout must be positive, got %s",
			time.Duration(c.ShutdownTimeout)))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		merr = multierror.Append(merr, err)
	}

	if _, err := log.ParseFormat(nil, c.LogFormat); err != nil {
		merr = multierror.Append(merr, err)
	}

	if merr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, merr)
	}

	return nil
}

// Sources returns the config file and dotenv file Load reads for path,
// whether or not they exist.
func Sources(path string) []string {
	if path == "" {
		path = DefaultFile
	}
	return []string{path, EnvFile}
}

// FilesUnder returns the files that exist inside root, as absolute paths.
// The server would publish them like any other file.
func FilesUnder(root string, files ...string) []string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil
	}

	var out []string
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err != nil || info.IsDir() {
			continue
		}
		rel, err := filepath.Rel(absRoot, abs)
		if err != nil || !filepath.IsLocal(rel) {
			continue
		}
		out = append(out, abs)
	}
	return out
}

// AbsRoot returns the absolute form of Root.
func (c Config) AbsRoot() (string, error) {
	abs, err := filepath.Abs(c.Root)
	if err != nil {
		return "", fmt.Errorf("resolve root %q: %w", c.Root, err)
	}
	return abs, nil
}
