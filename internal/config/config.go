package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-timeline/internal/providers"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	dirName   = ".go-timeline"
	fileName  = "config"
	fileType  = "yaml"
	envPrefix = "GOTIMELINE"
)

// Config is the on-disk configuration.
type Config struct {
	Providers   []providers.Config `mapstructure:"providers" yaml:"providers"`
	Concurrency int                `mapstructure:"concurrency" yaml:"concurrency"`
	CacheTTL    time.Duration      `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	Log         LogConfig          `mapstructure:"log" yaml:"log"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Providers: providers.DefaultConfigs(),
		CacheTTL:  providers.DefaultCacheTTL,
		Log:       LogConfig{Level: "info"},
	}
}

// Dir returns ~/.go-timeline.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dirName
	}
	return filepath.Join(home, dirName)
}

// FilePath returns the default config file path.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Validate checks provider entries for missing types and duplicate ids.
// Type-specific options are checked when the provider is built.
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	seen := make(map[string]int, len(c.Providers))
	for i, p := range c.Providers {
		if p.Type == "" {
			return fmt.Errorf("providers[%d]: type is required", i)
		}
		id := p.ID
		if id == "" {
			id = p.Type
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("providers[%d]: id %q already used by providers[%d]", i, id, prev)
		}
		seen[id] = i
	}
	return nil
}

// Loader reads the config file through viper and optionally watches it.
type Loader struct {
	mu       sync.Mutex
	v        *viper.Viper
	path     string
	explicit bool
}

// NewLoader creates a loader for path. An empty path means FilePath(), which
// is allowed to be missing; an explicit path must exist.
func NewLoader(path string) *Loader {
	explicit := path != ""
	if !explicit {
		path = FilePath()
	}
	path = expandPath(path)

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("concurrency", def.Concurrency)
	v.SetDefault("cache_ttl", def.CacheTTL)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)

	return &Loader{v: v, path: path, explicit: explicit}
}

// Path returns the config file the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Load reads and validates the configuration. Without a file the built-in
// provider set is used; environment overrides still apply.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.path, err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if !l.v.IsSet("providers") {
		cfg.Providers = providers.DefaultConfigs()
	}
	for i := range cfg.Providers {
		cfg.Providers[i].Dir = expandPath(cfg.Providers[i].Dir)
	}
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Watch calls fn with the reloaded configuration every time the file
// changes. Decode or validation errors are passed to fn with a nil config.
func (l *Loader) Watch(fn func(*Config, error)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.v.OnConfigChange(func(e fsnotify.Event) {
		l.mu.Lock()
		cfg, err := l.decode()
		l.mu.Unlock()
		fn(cfg, err)
	})
	l.v.WatchConfig()
}

// Save writes cfg as YAML to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
