// Package ws carries OCPP-J frames over WebSocket links between networking
// nodes.
package ws

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/node"
)

const (
	defaultWriteTimeout = 15 * time.Second
	defaultPingInterval = 30 * time.Second
	defaultSendBuffer   = 64
	defaultReadLimit    = 1024 * 1024
)

var (
	// ErrConnectionClosed is returned when writing to a closed connection.
	ErrConnectionClosed = errors.New("ws: connection closed")
	// ErrSendBufferFull is returned when the peer does not drain its frames.
	ErrSendBufferFull = errors.New("ws: send buffer full")
)

// Endpoint is the node side of a link. *node.Node implements it.
type Endpoint interface {
	Attach(peer ocpp.NodeID, conn node.Conn, mode node.NetworkingMode) error
	Detach(peer ocpp.NodeID, conn node.Conn) bool
	Receive(ctx context.Context, peer ocpp.NodeID, raw []byte) error
}

// ConnectionConfig tunes a single connection.
type ConnectionConfig struct {
	WriteTimeout time.Duration
	PingInterval time.Duration
	SendBuffer   int
	ReadLimit    int64
}

func (c ConnectionConfig) withDefaults() ConnectionConfig {
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = defaultWriteTimeout
	}
	if c.PingInterval <= 0 {
		c.PingInterval = defaultPingInterval
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = defaultSendBuffer
	}
	if c.ReadLimit <= 0 {
		c.ReadLimit = defaultReadLimit
	}
	return c
}

// readTimeout allows one missed pong.
func (c ConnectionConfig) readTimeout() time.Duration {
	return 2 * c.PingInterval
}

// Connection is one WebSocket link to a peer node. It implements node.Conn.
type Connection struct {
	peer        ocpp.NodeID
	mode        node.NetworkingMode
	subprotocol string
	ws          *websocket.Conn
	cfg         ConnectionConfig
	send        chan []byte
	done        chan struct{}
	closeOnce   sync.Once
	endpoint    Endpoint
	logger      *zap.Logger
	onClose     func(*Connection)
	connectedAt time.Time
}

// NewConnection wraps an established WebSocket.
func NewConnection(peer ocpp.NodeID, mode node.NetworkingMode, ws *websocket.Conn, endpoint Endpoint, cfg ConnectionConfig, logger *zap.Logger, onClose func(*Connection)) *Connection {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connection{
		peer:        peer,
		mode:        mode,
		subprotocol: ws.Subprotocol(),
		ws:          ws,
		cfg:         cfg,
		send:        make(chan []byte, cfg.SendBuffer),
		done:        make(chan struct{}),
		endpoint:    endpoint,
		logger:      logger.With(zap.String("peer", string(peer)), zap.String("mode", mode.String())),
		onClose:     onClose,
		connectedAt: time.Now().UTC(),
	}
}

// Peer returns the node on the other end.
func (c *Connection) Peer() ocpp.NodeID {
	return c.peer
}

// Mode returns the networking mode negotiated for the link.
func (c *Connection) Mode() node.NetworkingMode {
	return c.mode
}

// Subprotocol returns the negotiated WebSocket subprotocol.
func (c *Connection) Subprotocol() string {
	return c.subprotocol
}

// ConnectedAt returns when the link was established.
func (c *Connection) ConnectedAt() time.Time {
	return c.connectedAt
}

// WriteMessage queues a frame for the write pump. It never blocks.
func (c *Connection) WriteMessage(raw []byte) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}
	select {
	case c.send <- raw:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	default:
		c.logger.Warn("dropping outgoing frame, buffer full")
		return ErrSendBufferFull
	}
}

// Close stops the pumps. It is safe to call more than once.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

// Done is closed once Close has been called.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Ping sends a ping control frame. Safe to call concurrently with the pumps.
func (c *Connection) Ping() error {
	return c.ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(c.cfg.WriteTimeout))
}

// Run attaches the link to the endpoint and pumps frames until the socket
// fails, Close is called or ctx is done.
func (c *Connection) Run(ctx context.Context) error {
	if err := c.endpoint.Attach(c.peer, c, c.mode); err != nil {
		c.Close()
		_ = c.ws.Close()
		return err
	}
	c.logger.Info("link up", zap.String("subprotocol", c.subprotocol))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		c.writePump(ctx)
	}()

	c.readPump(ctx)
	c.Close()
	<-writeDone

	c.endpoint.Detach(c.peer, c)
	if c.onClose != nil {
		c.onClose(c)
	}
	c.logger.Info("link down")
	return nil
}

func (c *Connection) readPump(ctx context.Context) {
	c.ws.SetReadLimit(c.cfg.ReadLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.cfg.readTimeout()))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.cfg.readTimeout()))
	})
	c.ws.SetPingHandler(func(data string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(c.cfg.readTimeout()))
		err := c.ws.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(c.cfg.WriteTimeout))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	for {
		msgType, message, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.logger.Info("connection read closed", zap.Error(err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			c.logger.Warn("ignoring non-text frame", zap.Int("type", msgType))
			continue
		}
		if err := c.endpoint.Receive(ctx, c.peer, message); err != nil {
			c.logger.Warn("failed to process frame", zap.Error(err))
			if errors.Is(err, node.ErrClosed) || errors.Is(err, node.ErrNotConnected) {
				return
			}
		}
	}
}

func (c *Connection) writePump(ctx context.Context) {
	defer c.ws.Close()
	for {
		select {
		case <-ctx.Done():
			c.writeClose(websocket.CloseGoingAway)
			return
		case <-c.done:
			c.drain()
			c.writeClose(websocket.CloseNormalClosure)
			return
		case msg := <-c.send:
			if err := c.write(msg); err != nil {
				c.logger.Warn("write failed", zap.Error(err))
				return
			}
		}
	}
}

// drain flushes what was queued before Close.
func (c *Connection) drain() {
	for {
		select {
		case msg := <-c.send:
			if err := c.write(msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *Connection) write(data []byte) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *Connection) writeClose(code int) {
	_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, ""), time.Now().Add(c.cfg.WriteTimeout))
}
