package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Rooms    RoomsConfig    `mapstructure:"rooms"`
	Nats     NatsConfig     `mapstructure:"nats"`
	Game     GameConfig     `mapstructure:"game"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds the HTTP and WebSocket listener configuration.
type ServerConfig struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
}

// HTTPConfig holds the REST API listener configuration.
type HTTPConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// WebSocketConfig holds the push gateway listener configuration.
type WebSocketConfig struct {
	Address string `mapstructure:"address"`
	Path    string `mapstructure:"path"`
}

// DatabaseConfig holds the account store connection settings.
type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConns       int32         `mapstructure:"max_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// CatalogConfig holds the card/game-type reference service settings.
type CatalogConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RoomsConfig holds the chat rooms service settings.
type RoomsConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// NatsConfig holds the messaging broker settings.
type NatsConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

// GameConfig holds the turn engine tunables.
type GameConfig struct {
	ActionTimeout   time.Duration `mapstructure:"action_timeout"`
	TickInterval    time.Duration `mapstructure:"tick_interval"`
	ConfrontsWindow int           `mapstructure:"confronts_window"`
}

// LoggingConfig holds the logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the configuration from the given file path, applying defaults
// and ARENA_* environment variable overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.http.address", ":8080")
	v.SetDefault("server.http.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.websocket.address", ":8081")
	v.SetDefault("server.websocket.path", "/ws")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.connect_timeout", 5*time.Second)
	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.timeout", 10*time.Second)
	v.SetDefault("rooms.url", "")
	v.SetDefault("rooms.timeout", 10*time.Second)
	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.subject_prefix", "arena")
	v.SetDefault("game.action_timeout", 30*time.Second)
	v.SetDefault("game.tick_interval", time.Second)
	v.SetDefault("game.confronts_window", 50)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetEnvPrefix("ARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for obviously broken values.
func (c *Config) Validate() error {
	if c.Game.ActionTimeout <= 0 {
		return fmt.Errorf("game.action_timeout must be positive, got %s", c.Game.ActionTimeout)
	}
	if c.Game.TickInterval <= 0 {
		return fmt.Errorf("game.tick_interval must be positive, got %s", c.Game.TickInterval)
	}
	if c.Game.ConfrontsWindow <= 0 {
		return fmt.Errorf("game.confronts_window must be positive, got %d", c.Game.ConfrontsWindow)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}
	return nil
}
