package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	libconfig "ocppnode/backend/libs/config"
	"ocppnode/backend/libs/ocpp/signature"
)

// Node roles.
const (
	RoleCSMS    = "csms"
	RoleGateway = "gateway"
)

// StationCredential is a Basic-auth password hash for one node.
type StationCredential struct {
	ID           string `yaml:"id"`
	PasswordHash string `yaml:"passwordHash"`
}

// StaticRoute is a configured route.
type StaticRoute struct {
	Destination string `yaml:"destination"`
	NextHop     string `yaml:"nextHop"`
	Priority    int    `yaml:"priority"`
}

// Config defines the networking node configuration.
type Config struct {
	Node struct {
		ID               string        `yaml:"id" env:"NODE_ID"`
		Role             string        `yaml:"role" env:"NODE_ROLE"`
		MaxHops          int           `yaml:"maxHops" env:"NODE_MAX_HOPS"`
		ForwardTimeout   time.Duration `yaml:"forwardTimeout" env:"NODE_FORWARD_TIMEOUT"`
		RouteTTL         time.Duration `yaml:"routeTtl" env:"NODE_ROUTE_TTL"`
		CommandRetention time.Duration `yaml:"commandRetention" env:"NODE_COMMAND_RETENTION"`
		Routes           []StaticRoute `yaml:"routes" env:"-"`
	} `yaml:"node"`
	Commands struct {
		Timeout     time.Duration `yaml:"timeout" env:"COMMAND_TIMEOUT"`
		MaxAttempts int           `yaml:"maxAttempts" env:"COMMAND_MAX_ATTEMPTS"`
		MaxInFlight int           `yaml:"maxInFlight" env:"COMMAND_MAX_IN_FLIGHT"`
	} `yaml:"commands"`
	HTTP struct {
		Port string `yaml:"port" env:"HTTP_PORT"`
	} `yaml:"http"`
	WebSocket struct {
		PingInterval time.Duration `yaml:"pingInterval" env:"WS_PING_INTERVAL"`
		WriteTimeout time.Duration `yaml:"writeTimeout" env:"WS_WRITE_TIMEOUT"`
		SendBuffer   int           `yaml:"sendBuffer" env:"WS_SEND_BUFFER"`
	} `yaml:"websocket"`
	Upstream struct {
		URL        string        `yaml:"url" env:"UPSTREAM_URL"`
		ID         string        `yaml:"id" env:"UPSTREAM_ID"`
		Password   string        `yaml:"password" env:"UPSTREAM_PASSWORD"`
		MinBackoff time.Duration `yaml:"minBackoff" env:"UPSTREAM_MIN_BACKOFF"`
		MaxBackoff time.Duration `yaml:"maxBackoff" env:"UPSTREAM_MAX_BACKOFF"`
	} `yaml:"upstream"`
	Database struct {
		DSN string `yaml:"dsn" env:"POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr        string        `yaml:"addr" env:"REDIS_ADDR"`
		Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
		DB          int           `yaml:"db" env:"REDIS_DB"`
		PresenceTTL time.Duration `yaml:"presenceTtl" env:"REDIS_PRESENCE_TTL"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string        `yaml:"jwtSecret" env:"JWT_SECRET"`
		TokenTTL  time.Duration `yaml:"tokenTtl" env:"JWT_TOKEN_TTL"`
		// BcryptCost is the cost station password hashes are expected to
		// have. Zero selects bcrypt's default.
		BcryptCost int                 `yaml:"bcryptCost" env:"AUTH_BCRYPT_COST"`
		Stations   []StationCredential `yaml:"stations" env:"-"`
	} `yaml:"auth"`
	Authorization struct {
		AllowedTokens []string `yaml:"allowedTokens" env:"AUTHORIZE_ALLOWED_TOKENS"`
	} `yaml:"authorization"`
	Boot struct {
		HeartbeatInterval time.Duration `yaml:"heartbeatInterval" env:"BOOT_HEARTBEAT_INTERVAL"`
	} `yaml:"boot"`
	Signatures []signature.RuleConfig `yaml:"signatures" env:"-"`
}

// Default returns a configuration with every optional value set.
func Default() *Config {
	cfg := &Config{}
	cfg.Node.Role = RoleCSMS
	cfg.Node.MaxHops = 8
	cfg.Node.ForwardTimeout = time.Minute
	cfg.Node.RouteTTL = 10 * time.Minute
	cfg.Node.CommandRetention = time.Hour
	cfg.Commands.Timeout = 30 * time.Second
	cfg.Commands.MaxAttempts = 3
	cfg.Commands.MaxInFlight = 1
	cfg.HTTP.Port = "8081"
	cfg.WebSocket.PingInterval = 30 * time.Second
	cfg.WebSocket.WriteTimeout = 15 * time.Second
	cfg.WebSocket.SendBuffer = 64
	cfg.Upstream.MinBackoff = time.Second
	cfg.Upstream.MaxBackoff = time.Minute
	cfg.Redis.PresenceTTL = 2 * time.Minute
	cfg.Auth.TokenTTL = time.Hour
	cfg.Boot.HeartbeatInterval = 5 * time.Minute
	return cfg
}

// Load uses shared config loader and validates required fields.
func Load() (*Config, error) {
	cfg := Default()
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields the node cannot run without.
func (c *Config) Validate() error {
	c.Node.ID = strings.TrimSpace(c.Node.ID)
	if c.Node.ID == "" {
		return errors.New("config: node id is required")
	}
	c.Node.Role = strings.ToLower(strings.TrimSpace(c.Node.Role))
	switch c.Node.Role {
	case RoleCSMS:
	case RoleGateway:
		if strings.TrimSpace(c.Upstream.URL) == "" || strings.TrimSpace(c.Upstream.ID) == "" {
			return errors.New("config: gateway role needs upstream url and id")
		}
	default:
		return fmt.Errorf("config: unknown role %q", c.Node.Role)
	}
	for i, r := range c.Node.Routes {
		if strings.TrimSpace(r.Destination) == "" || strings.TrimSpace(r.NextHop) == "" {
			return fmt.Errorf("config: route %d needs destination and nextHop", i+1)
		}
	}
	if c.Auth.BcryptCost != 0 && (c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost) {
		return fmt.Errorf("config: bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	for i, s := range c.Auth.Stations {
		if strings.TrimSpace(s.ID) == "" || s.PasswordHash == "" {
			return fmt.Errorf("config: station credential %d needs id and passwordHash", i+1)
		}
	}
	return nil
}

// HTTPAddress returns :port style address.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8081"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// HeartbeatIntervalSeconds is the interval sent in BootNotification responses.
func (c *Config) HeartbeatIntervalSeconds() int {
	if c.Boot.HeartbeatInterval <= 0 {
		return 300
	}
	return int(c.Boot.HeartbeatInterval / time.Second)
}

// IsGateway reports whether the node forwards to an upstream CSMS.
func (c *Config) IsGateway() bool {
	return c.Node.Role == RoleGateway
}
