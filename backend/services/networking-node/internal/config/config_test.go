package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
node:
  id: gw-1
  role: Gateway
  routes:
    - destination: cs-9
      nextHop: lc-1
      priority: 5
upstream:
  url: ws://csms:8081/ocpp
  id: csms
auth:
  stations:
    - id: cs-1
      passwordHash: $2a$10$abc
signatures:
  - name: sign-boot
    context: BootNotificationRequest
    action: sign
    key: /etc/ocpp/key.pem
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("COMMAND_TIMEOUT", "45s")
	t.Setenv("AUTHORIZE_ALLOWED_TOKENS", "AA11,BB22")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gw-1", cfg.Node.ID)
	assert.True(t, cfg.IsGateway())
	assert.Equal(t, ":9090", cfg.HTTPAddress())
	assert.Equal(t, 45*time.Second, cfg.Commands.Timeout)
	assert.Equal(t, 3, cfg.Commands.MaxAttempts)
	assert.Equal(t, []string{"AA11", "BB22"}, cfg.Authorization.AllowedTokens)
	require.Len(t, cfg.Node.Routes, 1)
	assert.Equal(t, 5, cfg.Node.Routes[0].Priority)
	require.Len(t, cfg.Signatures, 1)
	assert.Equal(t, "sign", cfg.Signatures[0].Action)
	assert.Equal(t, 300, cfg.HeartbeatIntervalSeconds())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults with id", func(c *Config) { c.Node.ID = "csms" }, true},
		{"missing id", func(c *Config) {}, false},
		{"unknown role", func(c *Config) { c.Node.ID = "x"; c.Node.Role = "relay" }, false},
		{"gateway without upstream", func(c *Config) { c.Node.ID = "gw"; c.Node.Role = RoleGateway }, false},
		{"incomplete route", func(c *Config) {
			c.Node.ID = "csms"
			c.Node.Routes = []StaticRoute{{Destination: "cs-1"}}
		}, false},
		{"bcrypt cost too low", func(c *Config) {
			c.Node.ID = "csms"
			c.Auth.BcryptCost = 2
		}, false},
		{"bcrypt cost in range", func(c *Config) {
			c.Node.ID = "csms"
			c.Auth.BcryptCost = 12
		}, true},
		{"incomplete credential", func(c *Config) {
			c.Node.ID = "csms"
			c.Auth.Stations = []StationCredential{{ID: "cs-1"}}
		}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestHTTPAddress(t *testing.T) {
	cfg := Default()
	cfg.HTTP.Port = ":7000"
	assert.Equal(t, ":7000", cfg.HTTPAddress())
	cfg.HTTP.Port = " "
	assert.Equal(t, ":8081", cfg.HTTPAddress())
}
