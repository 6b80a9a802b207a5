package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	DefaultLogger = Logger{Level: "info"}
	DefaultServer = HttpServer{
		Bind:    ":8080",
		Metrics: "/metrics",
	}
)

type Logger struct {
	Level string `yaml:"level" json:"level"`
}

type HttpServer struct {
	Bind      string `yaml:"bind" json:"bind"`
	Root      string `yaml:"root" json:"root"`
	PublicURL string `yaml:"public_url" json:"public_url"`

	// Metrics is the path prometheus metrics are served on, empty disables it.
	Metrics string `yaml:"metrics" json:"metrics"`
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (c *HttpServer) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*c = DefaultServer
	type plain HttpServer
	if err := unmarshal((*plain)(c)); err != nil {
		return err
	}

	return nil
}

type Config struct {
	Timezone string `yaml:"timezone" json:"timezone"`

	// BaseURL is the monitoring web UI used to build check links.
	BaseURL string `yaml:"base_url" json:"base_url"`

	Logger *Logger     `yaml:"log" json:"log"`
	Server *HttpServer `yaml:"server" json:"server"`

	Listeners *Listeners `yaml:"listeners" json:"listeners"`
	Notifiers *Notifiers `yaml:"notifiers" json:"notifiers"`
}

func New(filename string) (*Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return Parse(content)
}

func Parse(content []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	// explicit nulls in the document reset sections to nil
	d := defaults()
	if cfg.Logger == nil {
		cfg.Logger = d.Logger
	}

	if cfg.Server == nil {
		cfg.Server = d.Server
	}

	if cfg.Listeners == nil {
		cfg.Listeners = d.Listeners
	}

	if cfg.Notifiers == nil {
		cfg.Notifiers = d.Notifiers
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	logger, server := DefaultLogger, DefaultServer

	return &Config{
		Timezone:  "UTC",
		Logger:    &logger,
		Server:    &server,
		Listeners: &Listeners{},
		Notifiers: &Notifiers{},
	}
}

func validate(cfg *Config) error {
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}

	switch cfg.Logger.Level {
	case "debug", "info", "warn", "error", "critical":
	default:
		return fmt.Errorf("log.level %q unknown: want debug|info|warn|error|critical", cfg.Logger.Level)
	}

	for i, c := range cfg.Listeners.WebhookConfigs {
		if c.Name == "" || c.Token == "" {
			return fmt.Errorf("listeners.webhook_configs[%d]: path and token required", i)
		}
	}

	for i, c := range cfg.Notifiers.HipChatConfigs {
		if err := validateURL(c.URL); err != nil {
			return fmt.Errorf("notifiers.hipchat_configs[%d].url: %w", i, err)
		}

		if c.Timeout <= 0 {
			return fmt.Errorf("notifiers.hipchat_configs[%d].timeout must be positive", i)
		}
	}

	for i, c := range cfg.Notifiers.SlackConfigs {
		if c.URL != "" {
			if err := validateURL(c.URL); err != nil {
				return fmt.Errorf("notifiers.slack_configs[%d].url: %w", i, err)
			}
		}

		if c.Timeout <= 0 {
			return fmt.Errorf("notifiers.slack_configs[%d].timeout must be positive", i)
		}
	}

	for i, c := range cfg.Notifiers.WebitelConfigs {
		if c.URL == "" {
			return fmt.Errorf("notifiers.webitel_configs[%d].url required", i)
		}
	}

	return nil
}

// validateURL accepts absolute http(s) URLs only.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) url", raw)
	}

	return nil
}
