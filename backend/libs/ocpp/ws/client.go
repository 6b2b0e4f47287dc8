package ws

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/node"
)

const (
	defaultMinBackoff  = time.Second
	defaultMaxBackoff  = time.Minute
	defaultDialTimeout = 10 * time.Second
)

// ClientOptions configures an outgoing link.
type ClientOptions struct {
	// URL of the upstream server without the node id, e.g. ws://csms:8081/ocpp.
	URL string
	// ID is this node's id, appended to URL and used as the Basic username.
	ID ocpp.NodeID
	// Peer is the id of the upstream node the link is attached as.
	Peer       ocpp.NodeID
	Password   string
	Mode       node.NetworkingMode
	Connection ConnectionConfig
	MinBackoff time.Duration
	MaxBackoff time.Duration
	Dialer     *websocket.Dialer
	OnConnect  func(*Connection)
}

// Client keeps a link to an upstream node alive.
type Client struct {
	endpoint Endpoint
	manager  *Manager
	opts     ClientOptions
	logger   *zap.Logger
}

// NewClient builds a client. manager may be nil.
func NewClient(endpoint Endpoint, manager *Manager, opts ClientOptions, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, errors.New("ws: upstream url is required")
	}
	if opts.ID.IsZero() || opts.Peer.IsZero() {
		return nil, errors.New("ws: node id and peer id are required")
	}
	if opts.MinBackoff <= 0 {
		opts.MinBackoff = defaultMinBackoff
	}
	if opts.MaxBackoff < opts.MinBackoff {
		opts.MaxBackoff = defaultMaxBackoff
	}
	if opts.Dialer == nil {
		opts.Dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: defaultDialTimeout,
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: endpoint,
		manager:  manager,
		opts:     opts,
		logger:   logger.With(zap.String("peer", string(opts.Peer))),
	}, nil
}

// Run dials, serves the link and redials with exponential backoff until ctx
// is done.
func (c *Client) Run(ctx context.Context) {
	backoff := c.opts.MinBackoff
	for {
		conn, err := c.Dial(ctx)
		if err != nil {
			c.logger.Warn("dial upstream failed", zap.Duration("retry_in", backoff), zap.Error(err))
		} else {
			backoff = c.opts.MinBackoff
			if err := conn.Run(ctx); err != nil {
				c.logger.Warn("upstream link rejected", zap.Error(err))
				c.closed(conn)
			}
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		if err != nil {
			backoff *= 2
			if backoff > c.opts.MaxBackoff {
				backoff = c.opts.MaxBackoff
			}
		}
	}
}

// Dial opens one connection. The caller runs it.
func (c *Client) Dial(ctx context.Context) (*Connection, error) {
	url := strings.TrimRight(c.opts.URL, "/") + "/" + string(c.opts.ID)
	header := http.Header{}
	if c.opts.Password != "" {
		creds := base64.StdEncoding.EncodeToString([]byte(string(c.opts.ID) + ":" + c.opts.Password))
		header.Set("Authorization", "Basic "+creds)
	}
	if c.opts.Mode == node.Overlay {
		header.Set(NetworkingModeHeader, node.Overlay.String())
	}

	dialer := *c.opts.Dialer
	dialer.Subprotocols = c.subprotocols()
	wsConn, resp, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("ws: dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("ws: dial %s: %w", url, err)
	}

	conn := NewConnection(c.opts.Peer, c.opts.Mode, wsConn, c.endpoint, c.opts.Connection, c.logger, c.closed)
	if c.manager != nil {
		c.manager.Add(conn)
	}
	if c.opts.OnConnect != nil {
		c.opts.OnConnect(conn)
	}
	c.logger.Info("connected upstream", zap.String("url", url), zap.String("subprotocol", conn.Subprotocol()))
	return conn, nil
}

func (c *Client) closed(conn *Connection) {
	if c.manager != nil {
		c.manager.Remove(conn)
	}
}

func (c *Client) subprotocols() []string {
	if c.opts.Mode == node.Overlay {
		return []string{SubprotocolOCPP21 + OverlaySuffix, SubprotocolOCPP21}
	}
	return []string{SubprotocolOCPP21, SubprotocolOCPP201}
}
