package ws

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp"
)

// Manager tracks live connections.
type Manager struct {
	mu           sync.RWMutex
	connections  map[ocpp.NodeID]*Connection
	pingInterval time.Duration
	logger       *zap.Logger
	onChange     func(count int)
}

// NewManager builds a connection manager.
func NewManager(pingInterval time.Duration, logger *zap.Logger) *Manager {
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		connections:  make(map[ocpp.NodeID]*Connection),
		pingInterval: pingInterval,
		logger:       logger,
	}
}

// OnChange registers a hook called with the connection count after every
// add or remove.
func (m *Manager) OnChange(fn func(count int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Add registers a connection and returns the one it replaced, if any.
func (m *Manager) Add(conn *Connection) *Connection {
	m.mu.Lock()
	old := m.connections[conn.Peer()]
	m.connections[conn.Peer()] = conn
	count, fn := len(m.connections), m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn(count)
	}
	return old
}

// Remove unregisters conn unless it has already been replaced.
func (m *Manager) Remove(conn *Connection) bool {
	m.mu.Lock()
	if m.connections[conn.Peer()] != conn {
		m.mu.Unlock()
		return false
	}
	delete(m.connections, conn.Peer())
	count, fn := len(m.connections), m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn(count)
	}
	return true
}

// Get returns the live connection to peer.
func (m *Manager) Get(peer ocpp.NodeID) (*Connection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conn, ok := m.connections[peer]
	return conn, ok
}

// Count returns the number of live connections.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// Peers returns the connected node ids, sorted.
func (m *Manager) Peers() []ocpp.NodeID {
	m.mu.RLock()
	out := make([]ocpp.NodeID, 0, len(m.connections))
	for id := range m.connections {
		out = append(out, id)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CloseAll closes every connection.
func (m *Manager) CloseAll() {
	m.mu.RLock()
	conns := make([]*Connection, 0, len(m.connections))
	for _, c := range m.connections {
		conns = append(conns, c)
	}
	m.mu.RUnlock()
	for _, c := range conns {
		_ = c.Close()
	}
}

// Start pings every connection until ctx is done.
func (m *Manager) Start(ctx context.Context) {
	ticker := time.NewTicker(m.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.RLock()
			conns := make([]*Connection, 0, len(m.connections))
			for _, c := range m.connections {
				conns = append(conns, c)
			}
			m.mu.RUnlock()
			for _, c := range conns {
				if err := c.Ping(); err != nil {
					m.logger.Debug("ping failed", zap.String("peer", string(c.Peer())), zap.Error(err))
				}
			}
		}
	}
}
