package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the service.
type Config struct {
	// HTTP listen address
	ListenAddr string `yaml:"listen_addr"`

	// Log level (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Identity stamped on resolved alerts until an auth collaborator exists
	ResolverName string `yaml:"resolver_name"`

	// Locale for chart weekday labels (pt-BR or en)
	ChartLocale string `yaml:"chart_locale"`

	// Seed the in-memory store with sample alerts on startup
	SeedData bool `yaml:"seed_data"`

	SMTP  SMTPConfig  `yaml:"smtp"`
	Kafka KafkaConfig `yaml:"kafka"`
}

// SMTPConfig holds mail gateway settings. When Host or credentials are
// empty, email delivery degrades to a simulated send.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// KafkaConfig holds audit event stream settings. With no brokers
// configured, audit publishing is a no-op.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Default returns a sensible default config for local dev.
func Default() *Config {
	return &Config{
		ListenAddr:   ":8080",
		LogLevel:     "info",
		ResolverName: "Current User",
		ChartLocale:  "pt-BR",
		SeedData:     true,
		SMTP: SMTPConfig{
			Host: "",
			Port: 587,
			From: "alertas@sistema.com",
		},
		Kafka: KafkaConfig{
			Topic: "vigia.audit",
		},
	}
}

// Load reads configuration from a YAML file, applies defaults for unset
// fields and environment overrides for credentials.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides credential and address settings from the environment.
// Credentials live in the environment, not in config files.
func (c *Config) applyEnv() {
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = port
		}
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		c.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASS"); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv("FROM_EMAIL"); v != "" {
		c.SMTP.From = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("smtp port %d out of range", c.SMTP.Port)
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka topic is required when brokers are configured")
	}
	switch c.ChartLocale {
	case "", "pt-BR", "en":
	default:
		return fmt.Errorf("unsupported chart locale %q", c.ChartLocale)
	}
	return nil
}

// MailConfigured reports whether a real SMTP gateway is usable.
func (c *Config) MailConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.Username != "" && c.SMTP.Password != ""
}
