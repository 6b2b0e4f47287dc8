package ws

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/node"
)

const (
	SubprotocolOCPP21  = "ocpp2.1"
	SubprotocolOCPP201 = "ocpp2.0.1"

	// OverlaySuffix marks a subprotocol whose frames carry the routing header,
	// e.g. "ocpp2.1+overlay".
	OverlaySuffix = "+overlay"

	// NetworkingModeHeader overrides the mode implied by the subprotocol.
	NetworkingModeHeader = "X-OCPP-Networking-Mode"

	maxNodeIDLength = 48
)

// Subprotocols lists what the server accepts in order of preference.
var Subprotocols = []string{
	SubprotocolOCPP21 + OverlaySuffix,
	SubprotocolOCPP21,
	SubprotocolOCPP201 + OverlaySuffix,
	SubprotocolOCPP201,
}

// ErrUnauthorized is returned by authenticators rejecting a peer.
var ErrUnauthorized = errors.New("ws: unauthorized")

// Authenticator checks the HTTP Basic credentials a node presents. The
// username always equals the node id.
type Authenticator interface {
	Authenticate(ctx context.Context, id ocpp.NodeID, password string) error
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, id ocpp.NodeID, password string) error

func (f AuthenticatorFunc) Authenticate(ctx context.Context, id ocpp.NodeID, password string) error {
	return f(ctx, id, password)
}

// ServerOptions configures a Server.
type ServerOptions struct {
	// Prefix of the upgrade path, the node id follows it. Default "/ocpp/".
	Prefix        string
	Authenticator Authenticator
	Connection    ConnectionConfig
	OnConnect     func(*Connection)
	OnDisconnect  func(*Connection)
}

// Server upgrades HTTP requests on /ocpp/{nodeId} to node links.
type Server struct {
	endpoint Endpoint
	manager  *Manager
	opts     ServerOptions
	logger   *zap.Logger
	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer builds a ws server feeding endpoint.
func NewServer(endpoint Endpoint, manager *Manager, opts ServerOptions, logger *zap.Logger) *Server {
	if opts.Prefix == "" {
		opts.Prefix = "/ocpp/"
	}
	if !strings.HasSuffix(opts.Prefix, "/") {
		opts.Prefix += "/"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		endpoint: endpoint,
		manager:  manager,
		opts:     opts,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// ServeHTTP handles the upgrade request.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := ocpp.NodeID(strings.TrimPrefix(r.URL.Path, s.opts.Prefix))
	if id.IsZero() || strings.Contains(string(id), "/") || len(id) > maxNodeIDLength || !strings.HasPrefix(r.URL.Path, s.opts.Prefix) {
		http.Error(w, "node id is required", http.StatusBadRequest)
		return
	}

	if s.opts.Authenticator != nil {
		user, password, ok := r.BasicAuth()
		if !ok || ocpp.NodeID(user) != id {
			s.unauthorized(w, id, "missing or mismatched credentials")
			return
		}
		if err := s.opts.Authenticator.Authenticate(r.Context(), id, password); err != nil {
			s.unauthorized(w, id, err.Error())
			return
		}
	}

	offered := websocket.Subprotocols(r)
	subprotocol := selectSubprotocol(offered)
	if len(offered) > 0 && subprotocol == "" {
		s.logger.Info("rejecting unsupported subprotocols", zap.String("peer", string(id)), zap.Strings("offered", offered))
		http.Error(w, "unsupported subprotocol", http.StatusBadRequest)
		return
	}
	mode, err := modeFor(subprotocol, r.Header.Get(NetworkingModeHeader))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var header http.Header
	if subprotocol != "" {
		header = http.Header{"Sec-Websocket-Protocol": {subprotocol}}
	}
	wsConn, err := s.upgrader.Upgrade(w, r, header)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.String("peer", string(id)), zap.Error(err))
		return
	}

	conn := NewConnection(id, mode, wsConn, s.endpoint, s.opts.Connection, s.logger, s.disconnected)
	if old := s.manager.Add(conn); old != nil {
		s.logger.Info("replacing connection", zap.String("peer", string(id)))
	}
	if s.opts.OnConnect != nil {
		s.opts.OnConnect(conn)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := conn.Run(s.ctx); err != nil {
			s.logger.Warn("link rejected", zap.String("peer", string(id)), zap.Error(err))
			s.disconnected(conn)
		}
	}()
	s.logger.Info("node connected",
		zap.String("peer", string(id)),
		zap.String("mode", mode.String()),
		zap.String("subprotocol", subprotocol),
	)
}

func (s *Server) disconnected(conn *Connection) {
	if !s.manager.Remove(conn) {
		return
	}
	if s.opts.OnDisconnect != nil {
		s.opts.OnDisconnect(conn)
	}
}

func (s *Server) unauthorized(w http.ResponseWriter, id ocpp.NodeID, reason string) {
	s.logger.Warn("rejecting node", zap.String("peer", string(id)), zap.String("reason", reason))
	w.Header().Set("WWW-Authenticate", `Basic realm="ocpp"`)
	http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
}

// Shutdown closes every link and waits for the pumps to stop.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	s.manager.CloseAll()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func selectSubprotocol(offered []string) string {
	for _, supported := range Subprotocols {
		for _, p := range offered {
			if p == supported {
				return supported
			}
		}
	}
	return ""
}

// modeFor resolves the networking mode from the negotiated subprotocol and the
// optional header. The header wins.
func modeFor(subprotocol, header string) (node.NetworkingMode, error) {
	if header = strings.TrimSpace(header); header != "" {
		return node.ParseNetworkingMode(header)
	}
	if strings.HasSuffix(subprotocol, OverlaySuffix) {
		return node.Overlay, nil
	}
	return node.Standard, nil
}
