package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the POS server.
type Config struct {
	HTTP     HTTPConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Auth     AuthConfig
}

type HTTPConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
}

// RabbitMQConfig is optional: with an empty host the event relay is disabled
// and lifecycle events stay in-process only.
type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
	Exchange string
}

type AuthConfig struct {
	SessionSecret string
}

// Load reads the simple two-level YAML config format used across our
// services: top-level sections with plain key: value pairs.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := &Config{
		HTTP:     HTTPConfig{Port: 3000},
		Database: DatabaseConfig{Port: 5432, SSLMode: "disable", MaxConns: 10},
		RabbitMQ: RabbitMQConfig{Port: 5672, VHost: "/", Exchange: "pos.events"},
	}

	var section string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			section = strings.TrimSuffix(line, ":")
			continue
		}
		kv := strings.SplitN(line, ":", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		val := strings.Trim(strings.TrimSpace(kv[1]), `"'`)
		if err := cfg.setValue(section, key, val); err != nil {
			return nil, fmt.Errorf("config %s.%s: %w", section, key, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if cfg.Database.Host == "" || cfg.Database.User == "" || cfg.Database.Database == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.Auth.SessionSecret == "" {
		return nil, fmt.Errorf("auth.session_secret is required")
	}
	return cfg, nil
}

func (c *Config) setValue(section, key, value string) error {
	switch section {
	case "http":
		if key == "port" {
			return setInt(&c.HTTP.Port, value)
		}
	case "database":
		switch key {
		case "host":
			c.Database.Host = value
		case "port":
			return setInt(&c.Database.Port, value)
		case "user":
			c.Database.User = value
		case "password":
			c.Database.Password = value
		case "database":
			c.Database.Database = value
		case "sslmode":
			c.Database.SSLMode = value
		case "max_conns":
			return setInt(&c.Database.MaxConns, value)
		}
	case "rabbitmq":
		switch key {
		case "host":
			c.RabbitMQ.Host = value
		case "port":
			return setInt(&c.RabbitMQ.Port, value)
		case "user":
			c.RabbitMQ.User = value
		case "password":
			c.RabbitMQ.Password = value
		case "vhost":
			c.RabbitMQ.VHost = value
		case "exchange":
			c.RabbitMQ.Exchange = value
		}
	case "auth":
		if key == "session_secret" {
			c.Auth.SessionSecret = value
		}
	}
	return nil
}

func setInt(dst *int, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer %q", value)
	}
	*dst = n
	return nil
}

// DatabaseURL returns a PostgreSQL connection URL.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port,
		c.Database.Database, c.Database.SSLMode)
}

// RabbitMQURL returns an AMQP connection URL.
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port,
		strings.TrimPrefix(c.RabbitMQ.VHost, "/"))
}

// RelayEnabled reports whether the RabbitMQ event relay should start.
func (c *Config) RelayEnabled() bool { return c.RabbitMQ.Host != "" }
