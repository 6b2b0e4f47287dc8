package ws

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/node"
	"ocppnode/backend/libs/ocpp/provisioning"
)

type attachment struct {
	peer ocpp.NodeID
	conn node.Conn
	mode node.NetworkingMode
}

type frame struct {
	peer ocpp.NodeID
	raw  string
}

type fakeEndpoint struct {
	mu        sync.Mutex
	attached  []attachment
	detached  []ocpp.NodeID
	attachErr error
	received  chan frame
}

func newFakeEndpoint() *fakeEndpoint {
	return &fakeEndpoint{received: make(chan frame, 16)}
}

func (e *fakeEndpoint) Attach(peer ocpp.NodeID, conn node.Conn, mode node.NetworkingMode) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.attachErr != nil {
		return e.attachErr
	}
	e.attached = append(e.attached, attachment{peer: peer, conn: conn, mode: mode})
	return nil
}

func (e *fakeEndpoint) Detach(peer ocpp.NodeID, conn node.Conn) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.detached = append(e.detached, peer)
	return true
}

func (e *fakeEndpoint) Receive(_ context.Context, peer ocpp.NodeID, raw []byte) error {
	e.received <- frame{peer: peer, raw: string(raw)}
	return nil
}

func (e *fakeEndpoint) attachments() []attachment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]attachment(nil), e.attached...)
}

func (e *fakeEndpoint) detachCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.detached)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

type testServer struct {
	*Server
	manager *Manager
	http    *httptest.Server
	url     string
}

func newTestServer(t *testing.T, endpoint Endpoint, opts ServerOptions) *testServer {
	t.Helper()
	manager := NewManager(time.Minute, zap.NewNop())
	srv := NewServer(endpoint, manager, opts, zap.NewNop())
	mux := http.NewServeMux()
	mux.Handle("/ocpp/", srv)
	hs := httptest.NewServer(mux)
	ts := &testServer{Server: srv, manager: manager, http: hs, url: "ws" + strings.TrimPrefix(hs.URL, "http") + "/ocpp"}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		assert.NoError(t, srv.Shutdown(ctx))
		hs.Close()
	})
	return ts
}

func dial(t *testing.T, url string, header http.Header, protocols ...string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	dialer := websocket.Dialer{Subprotocols: protocols, HandshakeTimeout: time.Second}
	conn, resp, err := dialer.Dial(url, header)
	if conn != nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

func basicAuth(user, password string) http.Header {
	return http.Header{"Authorization": {"Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))}}
}

func TestServerRejectsBadHandshakes(t *testing.T) {
	auth := AuthenticatorFunc(func(_ context.Context, id ocpp.NodeID, password string) error {
		if password != "secret" {
			return ErrUnauthorized
		}
		return nil
	})
	ts := newTestServer(t, newFakeEndpoint(), ServerOptions{Authenticator: auth})

	cases := []struct {
		name      string
		path      string
		header    http.Header
		protocols []string
		status    int
	}{
		{"missing node id", "/", basicAuth("cs-1", "secret"), []string{SubprotocolOCPP21}, http.StatusBadRequest},
		{"no credentials", "/cs-1", nil, []string{SubprotocolOCPP21}, http.StatusUnauthorized},
		{"username mismatch", "/cs-1", basicAuth("cs-2", "secret"), []string{SubprotocolOCPP21}, http.StatusUnauthorized},
		{"wrong password", "/cs-1", basicAuth("cs-1", "nope"), []string{SubprotocolOCPP21}, http.StatusUnauthorized},
		{"unsupported subprotocol", "/cs-1", basicAuth("cs-1", "secret"), []string{"ocpp1.6"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, resp, err := dial(t, ts.url+tc.path, tc.header, tc.protocols...)
			require.ErrorIs(t, err, websocket.ErrBadHandshake)
			require.NotNil(t, resp)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}

	header := basicAuth("cs-1", "secret")
	header.Set(NetworkingModeHeader, "mesh")
	_, resp, err := dial(t, ts.url+"/cs-1", header, SubprotocolOCPP21)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, ts.manager.Count())
}

func TestServerNegotiatesMode(t *testing.T) {
	endpoint := newFakeEndpoint()
	ts := newTestServer(t, endpoint, ServerOptions{})

	cases := []struct {
		id          string
		protocols   []string
		header      string
		subprotocol string
		mode        node.NetworkingMode
	}{
		{"cs-1", []string{SubprotocolOCPP21}, "", SubprotocolOCPP21, node.Standard},
		{"gw-1", []string{SubprotocolOCPP21, SubprotocolOCPP21 + OverlaySuffix}, "", SubprotocolOCPP21 + OverlaySuffix, node.Overlay},
		{"gw-2", []string{SubprotocolOCPP201}, "Overlay", SubprotocolOCPP201, node.Overlay},
		{"cs-2", nil, "", "", node.Standard},
	}
	for i, tc := range cases {
		header := http.Header{}
		if tc.header != "" {
			header.Set(NetworkingModeHeader, tc.header)
		}
		conn, _, err := dial(t, ts.url+"/"+tc.id, header, tc.protocols...)
		require.NoError(t, err, tc.id)
		assert.Equal(t, tc.subprotocol, conn.Subprotocol(), tc.id)

		waitFor(t, time.Second, func() bool { return len(endpoint.attachments()) == i+1 })
		got := endpoint.attachments()[i]
		assert.Equal(t, ocpp.NodeID(tc.id), got.peer)
		assert.Equal(t, tc.mode, got.mode, tc.id)
	}
	assert.Equal(t, []ocpp.NodeID{"cs-1", "cs-2", "gw-1", "gw-2"}, ts.manager.Peers())
}

func TestConnectionRoundTrip(t *testing.T) {
	endpoint := newFakeEndpoint()
	var disconnected sync.WaitGroup
	disconnected.Add(1)
	ts := newTestServer(t, endpoint, ServerOptions{
		OnDisconnect: func(c *Connection) { disconnected.Done() },
	})

	client, _, err := dial(t, ts.url+"/cs-1", nil, SubprotocolOCPP21)
	require.NoError(t, err)

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(`[2,"1","Heartbeat",{}]`)))
	select {
	case f := <-endpoint.received:
		assert.Equal(t, ocpp.NodeID("cs-1"), f.peer)
		assert.Equal(t, `[2,"1","Heartbeat",{}]`, f.raw)
	case <-time.After(time.Second):
		t.Fatal("frame not received")
	}

	waitFor(t, time.Second, func() bool { return len(endpoint.attachments()) == 1 })
	conn := endpoint.attachments()[0].conn
	require.NoError(t, conn.WriteMessage([]byte(`[3,"1",{}]`)))
	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `[3,"1",{}]`, string(data))

	require.NoError(t, client.Close())
	disconnected.Wait()
	assert.Equal(t, 1, endpoint.detachCount())
	assert.Equal(t, 0, ts.manager.Count())
	assert.ErrorIs(t, conn.WriteMessage([]byte(`[3,"2",{}]`)), ErrConnectionClosed)
}

func TestServerClosesRejectedLink(t *testing.T) {
	endpoint := newFakeEndpoint()
	endpoint.attachErr = errors.New("node closed")
	ts := newTestServer(t, endpoint, ServerOptions{})

	client, _, err := dial(t, ts.url+"/cs-1", nil, SubprotocolOCPP21)
	require.NoError(t, err)
	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err = client.ReadMessage()
	assert.Error(t, err)
	waitFor(t, time.Second, func() bool { return ts.manager.Count() == 0 })
}

func TestClientReconnects(t *testing.T) {
	endpoint := newFakeEndpoint()
	ts := newTestServer(t, endpoint, ServerOptions{})

	upstream := newFakeEndpoint()
	client, err := NewClient(upstream, nil, ClientOptions{
		URL:        ts.url,
		ID:         "gw-1",
		Peer:       "csms",
		Mode:       node.Overlay,
		MinBackoff: 10 * time.Millisecond,
		MaxBackoff: 20 * time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		client.Run(ctx)
	}()

	waitFor(t, time.Second, func() bool { return len(endpoint.attachments()) == 1 })
	assert.Equal(t, node.Overlay, endpoint.attachments()[0].mode)
	require.Len(t, upstream.attachments(), 1)
	assert.Equal(t, ocpp.NodeID("csms"), upstream.attachments()[0].peer)

	server, ok := ts.manager.Get("gw-1")
	require.True(t, ok)
	require.NoError(t, server.Close())

	waitFor(t, 2*time.Second, func() bool { return len(endpoint.attachments()) == 2 })
	waitFor(t, time.Second, func() bool { return len(upstream.attachments()) == 2 })
	assert.GreaterOrEqual(t, upstream.detachCount(), 1)

	cancel()
	<-done
}

func TestNewClientValidates(t *testing.T) {
	_, err := NewClient(newFakeEndpoint(), nil, ClientOptions{ID: "gw", Peer: "csms"}, nil)
	assert.Error(t, err)
	_, err = NewClient(newFakeEndpoint(), nil, ClientOptions{URL: "ws://localhost/ocpp", Peer: "csms"}, nil)
	assert.Error(t, err)
}

func TestNodesTalkOverWebSocket(t *testing.T) {
	csms, err := node.New("csms", node.Options{Logger: zap.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = csms.Close() })
	node.HandleFunc(csms, provisioning.HeartbeatFeatureName, func(_ context.Context, rc *node.RequestContext, _ *provisioning.HeartbeatRequest) (*provisioning.HeartbeatResponse, error) {
		return provisioning.NewHeartbeatResponse(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)), nil
	})
	ts := newTestServer(t, csms, ServerOptions{
		Authenticator: AuthenticatorFunc(func(context.Context, ocpp.NodeID, string) error { return nil }),
	})

	station, err := node.New("cs-1", node.Options{Logger: zap.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = station.Close() })
	client, err := NewClient(station, nil, ClientOptions{URL: ts.url, ID: "cs-1", Peer: "csms", Password: "pw"}, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		client.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	callCtx, callCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer callCancel()
	resp, err := station.Call(callCtx, "csms", provisioning.NewHeartbeatRequest())
	require.NoError(t, err)
	assert.Equal(t, 2025, resp.(*provisioning.HeartbeatResponse).CurrentTime.Year())
	assert.Len(t, csms.Links(), 1)
}
