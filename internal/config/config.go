// Package config loads runtime settings for the lead page from defaults, an
// optional YAML file, LEADPAGE_* environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goliatone/go-leadform/pkg/intake"
	"github.com/goliatone/go-leadform/pkg/lead"
)

const (
	// EnvPrefix prefixes environment overrides: http.addr becomes LEADPAGE_HTTP_ADDR.
	EnvPrefix = "LEADPAGE"
	// FileName is the config file looked up in the working directory.
	FileName = "leadpage"
)

type HTTPConfig struct {
	Addr          string        `mapstructure:"addr" json:"addr" yaml:"addr"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace" json:"shutdown_grace" yaml:"shutdown_grace"`
}

type SubmitConfig struct {
	Delay time.Duration `mapstructure:"delay" json:"delay" yaml:"delay"`
}

type IntakeConfig struct {
	Mode          string            `mapstructure:"mode" json:"mode" yaml:"mode"`
	StorePath     string            `mapstructure:"store_path" json:"store_path" yaml:"store_path"`
	RemoteURL     string            `mapstructure:"remote_url" json:"remote_url" yaml:"remote_url"`
	RemoteTimeout time.Duration     `mapstructure:"remote_timeout" json:"remote_timeout" yaml:"remote_timeout"`
	RemoteHeaders map[string]string `mapstructure:"remote_headers" json:"remote_headers,omitempty" yaml:"remote_headers,omitempty"`
}

type ContentConfig struct {
	Path string `mapstructure:"path" json:"path" yaml:"path"`
}

type ThemeConfig struct {
	Name    string `mapstructure:"name" json:"name" yaml:"name"`
	Variant string `mapstructure:"variant" json:"variant" yaml:"variant"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" json:"level" yaml:"level"`
	Development bool   `mapstructure:"development" json:"development" yaml:"development"`
}

type CacheConfig struct {
	Size int `mapstructure:"size" json:"size" yaml:"size"`
}

// Config is the resolved configuration.
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http" json:"http" yaml:"http"`
	Submit  SubmitConfig  `mapstructure:"submit" json:"submit" yaml:"submit"`
	Intake  IntakeConfig  `mapstructure:"intake" json:"intake" yaml:"intake"`
	Content ContentConfig `mapstructure:"content" json:"content" yaml:"content"`
	Theme   ThemeConfig   `mapstructure:"theme" json:"theme" yaml:"theme"`
	Locale  string        `mapstructure:"locale" json:"locale" yaml:"locale"`
	Log     LogConfig     `mapstructure:"log" json:"log" yaml:"log"`
	Cache   CacheConfig   `mapstructure:"cache" json:"cache" yaml:"cache"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-" json:"-" yaml:"-"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		HTTP:   HTTPConfig{Addr: ":8080", ShutdownGrace: 10 * time.Second},
		Submit: SubmitConfig{Delay: intake.DefaultDelay},
		Intake: IntakeConfig{
			Mode:          string(intake.ModeSimulated),
			StorePath:     "leads.db",
			RemoteTimeout: 10 * time.Second,
		},
		Locale: lead.DefaultLocale,
		Log:    LogConfig{Level: "info"},
		Cache:  CacheConfig{Size: 16},
	}
}

// Option tweaks Load.
type Option func(*loader)

type loader struct {
	file  string
	flags *pflag.FlagSet
	env   func(string) (string, bool)
}

// WithFile reads settings from path instead of searching for leadpage.yaml.
// A missing explicit file is an error.
func WithFile(path string) Option {
	return func(l *loader) {
		l.file = strings.TrimSpace(path)
	}
}

// WithFlags binds flags whose names match config keys, such as "http.addr".
// Only flags the user set override lower layers.
func WithFlags(flags *pflag.FlagSet) Option {
	return func(l *loader) {
		l.flags = flags
	}
}

// Load resolves the configuration. Later layers win: defaults, file,
// environment, flags.
func Load(opts ...Option) (Config, error) {
	l := &loader{}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.file != "" {
		v.SetConfigFile(l.file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", l.file, err)
		}
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read %s.yaml: %w", FileName, err)
			}
		}
	}

	if l.flags != nil {
		if err := bindFlags(v, l.flags); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values viper cannot type-check.
func (c Config) Validate() error {
	switch intake.Mode(strings.ToLower(c.Intake.Mode)) {
	case intake.ModeSimulated, intake.ModeStore, intake.ModeRemote:
	default:
		return fmt.Errorf("config: intake.mode %q must be simulated, store or remote", c.Intake.Mode)
	}
	if intake.Mode(strings.ToLower(c.Intake.Mode)) == intake.ModeRemote && strings.TrimSpace(c.Intake.RemoteURL) == "" {
		return fmt.Errorf("config: intake.remote_url is required in remote mode")
	}
	if c.Submit.Delay < 0 {
		return fmt.Errorf("config: submit.delay must not be negative")
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("config: cache.size must not be negative")
	}
	return nil
}

// IntakeBackend converts the intake and submit sections into intake.Config.
func (c Config) IntakeBackend() intake.Config {
	return intake.Config{
		Mode:          intake.Mode(c.Intake.Mode),
		Delay:         c.Submit.Delay,
		StorePath:     c.Intake.StorePath,
		RemoteURL:     c.Intake.RemoteURL,
		RemoteTimeout: c.Intake.RemoteTimeout,
		RemoteHeaders: c.Intake.RemoteHeaders,
	}
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("http.shutdown_grace", d.HTTP.ShutdownGrace)
	v.SetDefault("submit.delay", d.Submit.Delay)
	v.SetDefault("intake.mode", d.Intake.Mode)
	v.SetDefault("intake.store_path", d.Intake.StorePath)
	v.SetDefault("intake.remote_url", d.Intake.RemoteURL)
	v.SetDefault("intake.remote_timeout", d.Intake.RemoteTimeout)
	v.SetDefault("content.path", d.Content.Path)
	v.SetDefault("theme.name", d.Theme.Name)
	v.SetDefault("theme.variant", d.Theme.Variant)
	v.SetDefault("locale", d.Locale)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("cache.size", d.Cache.Size)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(flag *pflag.Flag) {
		if bindErr != nil || !isKnownKey(flag.Name) {
			return
		}
		if err := v.BindPFlag(flag.Name, flag); err != nil {
			bindErr = fmt.Errorf("config: bind flag %s: %w", flag.Name, err)
		}
	})
	return bindErr
}

func isKnownKey(name string) bool {
	for _, key := range Keys() {
		if key == name {
			return true
		}
	}
	return false
}

// Keys lists every setting Load understands.
func Keys() []string {
	return []string{
		"http.addr",
		"http.shutdown_grace",
		"submit.delay",
		"intake.mode",
		"intake.store_path",
		"intake.remote_url",
		"intake.remote_timeout",
		"content.path",
		"theme.name",
		"theme.variant",
		"locale",
		"log.level",
		"log.development",
		"cache.size",
	}
}
