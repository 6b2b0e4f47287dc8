package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/signature"
	"ocppnode/backend/services/networking-node/internal/config"
)

func testConfig(role string) *config.Config {
	cfg := config.Default()
	cfg.Node.ID = "node-1"
	cfg.Node.Role = role
	cfg.HTTP.Port = "0"
	if role == config.RoleGateway {
		cfg.Upstream.URL = "ws://127.0.0.1:1/ocpp"
		cfg.Upstream.ID = "csms"
	}
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) (*App, string) {
	t.Helper()
	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("/ocpp/", a.wsServer)
	hs := httptest.NewServer(mux)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		assert.NoError(t, a.wsServer.Shutdown(ctx))
		assert.NoError(t, a.node.Close())
		hs.Close()
		a.Close()
	})
	return a, "ws" + strings.TrimPrefix(hs.URL, "http") + "/ocpp/"
}

func TestNewInMemory(t *testing.T) {
	a, err := New(testConfig(config.RoleCSMS), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.db)
	assert.Nil(t, a.redisClient)
	assert.Nil(t, a.journal)
	assert.Nil(t, a.upstream)
	assert.Equal(t, ocpp.NodeID("node-1"), a.node.ID())
}

func TestNewGatewayBuildsUpstream(t *testing.T) {
	cfg := testConfig(config.RoleGateway)
	cfg.Node.Routes = []config.StaticRoute{{Destination: "cs-9", NextHop: "lc-1", Priority: 1}}
	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.upstream)
	hops := map[ocpp.NodeID]ocpp.NodeID{}
	for _, r := range a.node.RoutingTable().Routes() {
		hops[r.Destination] = r.NextHop
	}
	assert.Equal(t, ocpp.NodeID("lc-1"), hops["cs-9"])
	assert.Len(t, hops, 2, "static route plus the default route to the CSMS")
}

func TestNewRejectsBadSignatureRule(t *testing.T) {
	cfg := testConfig(config.RoleCSMS)
	cfg.Signatures = []signature.RuleConfig{{Action: "Reset", Key: "/nonexistent/signing-key.pem"}}
	_, err := New(cfg, zap.NewNop())
	require.Error(t, err)
}

func TestStationLifecycle(t *testing.T) {
	a, url := newTestApp(t, testConfig(config.RoleCSMS))

	dialer := websocket.Dialer{Subprotocols: []string{"ocpp2.1"}, HandshakeTimeout: time.Second}
	conn, _, err := dialer.Dial(url+"cs-1", nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snap, ok := a.registry.Snapshot("cs-1")
		return ok && snap.Connected
	}, 2*time.Second, 10*time.Millisecond)

	boot := `[2,"b-1","BootNotification",{"reason":"PowerUp","chargingStation":{"model":"M1","vendorName":"V"}}]`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(boot)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame []json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &frame))
	require.Len(t, frame, 3)
	assert.JSONEq(t, `3`, string(frame[0]))
	assert.JSONEq(t, `"b-1"`, string(frame[1]))
	assert.Contains(t, string(frame[2]), `"status":"Accepted"`)

	snap, ok := a.registry.Snapshot("cs-1")
	require.True(t, ok)
	require.NotNil(t, snap.Boot)
	assert.Equal(t, "M1", snap.Boot.Model)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		snap, ok := a.registry.Snapshot("cs-1")
		return ok && !snap.Connected
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunStopsOnCancel(t *testing.T) {
	a, err := New(testConfig(config.RoleCSMS), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
