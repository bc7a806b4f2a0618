package config

import (
	"fmt"

	"github.com/uberspeed/dispatch/pkg/configparser"
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Server    ServerConfig
		Database  DatabaseConfig
		RabbitMQ  RabbitMQConfig
		WebSocket WebSocketConfig
		Auth      Auth
		Log       LogConfig
	}

	ServerConfig struct {
		Host string `env:"SERVER_HOST" default:"0.0.0.0"`
		Port string `env:"SERVER_PORT" default:"8080"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"uberspeed_user"`
		Password string `env:"DATABASE_PASSWORD" default:"uberspeed_pass"`
		Database string `env:"DATABASE_DATABASE" default:"uberspeed_db"`
	}

	RabbitMQConfig struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"false"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	WebSocketConfig struct {
		// SendBuffer is the per-connection outbound queue size. A full queue
		// counts as a delivery failure for that member only.
		SendBuffer      int     `env:"WEBSOCKET_SEND_BUFFER" default:"256"`
		MaxMessageBytes int64   `env:"WEBSOCKET_MAX_MESSAGE_BYTES" default:"8192"`
		HandshakeRate   float64 `env:"WEBSOCKET_HANDSHAKE_RATE" default:"5"`
		HandshakeBurst  int     `env:"WEBSOCKET_HANDSHAKE_BURST" default:"10"`
	}

	Auth struct {
		JWTSecret string `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
	}

	LogConfig struct {
		Level string `env:"LOG_LEVEL" default:"DEBUG"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	return cfg, nil
}
