package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/node"
	"ocppnode/backend/services/networking-node/internal/auth"
	"ocppnode/backend/services/networking-node/internal/registry"
	"ocppnode/backend/services/networking-node/internal/service"
)

type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
}

func (c *fakeConn) WriteMessage(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, append([]byte(nil), data...))
	return nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func (c *fakeConn) frame(t *testing.T, i int) *ocpp.Message {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	msg, err := ocpp.NewParser().Parse(c.frames[i])
	require.NoError(t, err)
	return msg
}

type fixture struct {
	node     *node.Node
	conn     *fakeConn
	registry *registry.Registry
	handler  http.Handler
	finished chan node.CommandResult
}

func newFixture(t *testing.T, tokens *auth.TokenService) *fixture {
	t.Helper()
	n, err := node.New("csms", node.Options{Logger: zap.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = n.Close() })

	conn := &fakeConn{}
	require.NoError(t, n.Attach("cs-1", conn, node.Standard))

	reg := registry.New()
	f := &fixture{node: n, conn: conn, registry: reg, finished: make(chan node.CommandResult, 4)}
	f.handler = NewRouter(RouterDeps{
		Node:              n,
		Registry:          reg,
		Transactions:      service.NewTransactionStore(),
		Tokens:            tokens,
		Gatherer:          prometheus.NewRegistry(),
		OnCommandFinished: func(r node.CommandResult) { f.finished <- r },
		WebSocket: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
		Logger: zap.NewNop(),
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

// answer replies to the CALL at index i as cs-1.
func (f *fixture) answer(t *testing.T, i int, payload string) {
	t.Helper()
	call := f.frame(t, i)
	raw := `[3,"` + call.UniqueID + `",` + payload + `]`
	require.NoError(t, f.node.Receive(context.Background(), "cs-1", []byte(raw)))
}

func (f *fixture) frame(t *testing.T, i int) *ocpp.Message {
	return f.conn.frame(t, i)
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) node.CommandSnapshot {
	t.Helper()
	var snap node.CommandSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError {
	t.Helper()
	var body apiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestSendCommandLifecycle(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/nodes/cs-1/actions/Reset", `{"type":"Immediate"}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	snap := decodeSnapshot(t, rec)
	assert.Equal(t, ocpp.NodeID("cs-1"), snap.Destination)

	require.Eventually(t, func() bool { return f.conn.count() == 1 }, time.Second, 5*time.Millisecond)
	call := f.frame(t, 0)
	assert.Equal(t, "Reset", call.Action)

	rec = f.do(t, http.MethodGet, "/api/commands/"+snap.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, node.CommandStatusPending, decodeSnapshot(t, rec).Status)

	f.answer(t, 0, `{"status":"Accepted"}`)
	select {
	case res := <-f.finished:
		assert.Equal(t, node.CommandStatusAccepted, res.Status)
	case <-time.After(time.Second):
		t.Fatal("command did not finish")
	}

	rec = f.do(t, http.MethodGet, "/api/commands/"+snap.ID, "")
	assert.Equal(t, node.CommandStatusAccepted, decodeSnapshot(t, rec).Status)

	rec = f.do(t, http.MethodDelete, "/api/commands/"+snap.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodGet, "/api/commands/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendCommandWaits(t *testing.T) {
	f := newFixture(t, nil)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/api/nodes/cs-1/actions/Reset?wait=2s", strings.NewReader(`{"type":"OnIdle"}`))
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		done <- rec
	}()

	require.Eventually(t, func() bool { return f.conn.count() == 1 }, time.Second, 5*time.Millisecond)
	f.answer(t, 0, `{"status":"Scheduled"}`)

	select {
	case rec := <-done:
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		snap := decodeSnapshot(t, rec)
		assert.True(t, snap.Status.IsFinal())
		assert.JSONEq(t, `{"status":"Scheduled"}`, string(snap.LastResponse))
	case <-time.After(3 * time.Second):
		t.Fatal("request did not return")
	}
}

func TestSendCommandRejectsBadInput(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/nodes/cs-1/actions/NoSuchAction", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(ocpp.NotImplemented), decodeError(t, rec).Code)
	rec = f.do(t, http.MethodPost, "/api/nodes/cs-1/actions/Reset", `{"type":"Sometime"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEqual(t, codeBadRequest, decodeError(t, rec).Code, "payload errors carry the OCPP error code")
	rec = f.do(t, http.MethodPost, "/api/nodes/cs-1/actions/Reset?wait=soon", `{"type":"Immediate"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, codeBadRequest, body.Code)
	assert.Equal(t, "invalid wait duration", body.Message)
	assert.Zero(t, f.conn.count())
}

func TestSendCommandOnClosedNode(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.node.Close())

	rec := f.do(t, http.MethodPost, "/api/nodes/cs-1/actions/Reset", `{"type":"Immediate"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, codeUnavailable, decodeError(t, rec).Code)
}

func TestCancelQueuedCommand(t *testing.T) {
	f := newFixture(t, nil)

	// cs-9 is unreachable so the command stays queued.
	rec := f.do(t, http.MethodPost, "/api/nodes/cs-9/actions/Reset", `{"type":"Immediate"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	snap := decodeSnapshot(t, rec)
	assert.Equal(t, node.CommandStatusQueued, snap.Status)

	rec = f.do(t, http.MethodDelete, "/api/commands/"+snap.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodGet, "/api/commands/"+snap.ID, "")
	assert.Equal(t, node.CommandStatusCanceled, decodeSnapshot(t, rec).Status)
}

func TestRoutesAndLinks(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/routes", `{"destination":"cs-7","nextHop":"cs-1","priority":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = f.do(t, http.MethodPost, "/api/routes", `{"destination":"cs-7"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/routes", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	route, ok := f.node.RoutingTable().Lookup("cs-7")
	require.True(t, ok)
	assert.Equal(t, ocpp.NodeID("cs-1"), route.NextHop)

	rec = f.do(t, http.MethodGet, "/api/routes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"destination":"cs-7"`)

	rec = f.do(t, http.MethodDelete, "/api/routes/cs-7", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok = f.node.RoutingTable().Lookup("cs-7")
	assert.False(t, ok)

	rec = f.do(t, http.MethodGet, "/api/commands/unknown", "")
	assert.Equal(t, codeNotFound, decodeError(t, rec).Code)

	rec = f.do(t, http.MethodGet, "/api/links", "")
	assert.Contains(t, rec.Body.String(), `"peer":"cs-1"`)

	rec = f.do(t, http.MethodGet, "/api/stats", "")
	var stats node.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Links)
}

func TestAddRouteReleasesQueuedCommand(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/nodes/cs-7/actions/Reset", `{"type":"Immediate"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	snap := decodeSnapshot(t, rec)
	assert.Equal(t, node.CommandStatusQueued, snap.Status)
	assert.Zero(t, f.conn.count())

	rec = f.do(t, http.MethodPost, "/api/routes", `{"destination":"cs-7","nextHop":"cs-1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, 1, f.conn.count())
	assert.Equal(t, "Reset", f.frame(t, 0).Action)

	rec = f.do(t, http.MethodGet, "/api/commands/"+snap.ID, "")
	assert.Equal(t, node.CommandStatusPending, decodeSnapshot(t, rec).Status)
}

func TestStations(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.registry.Boot("cs-1", registry.BootInfo{Vendor: "Acme", Model: "X1", Reason: "PowerUp"}))

	rec := f.do(t, http.MethodGet, "/api/stations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stationId":"cs-1"`)

	rec = f.do(t, http.MethodGet, "/api/stations/cs-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"transactions":[]`)

	rec = f.do(t, http.MethodGet, "/api/stations/cs-2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnnounceTopology(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodPost, "/api/nodes/cs-1/topology", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Eventually(t, func() bool { return f.conn.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "NotifyNetworkTopology", f.frame(t, 0).Action)
}

func TestAuthentication(t *testing.T) {
	tokens := auth.NewTokenService("s3cret", time.Minute)
	f := newFixture(t, tokens)

	rec := f.do(t, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apiError{Code: codeUnauthorized, Message: "missing authorization header"}, decodeError(t, rec))
	rec = f.do(t, http.MethodGet, "/api/stats", "", "Authorization", "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = f.do(t, http.MethodGet, "/api/stats", "", "Authorization", "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := tokens.GenerateToken("operator", "admin")
	require.NoError(t, err)
	rec = f.do(t, http.MethodGet, "/api/stats", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Health, metrics and the OCPP endpoint stay open.
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/metrics", "").Code)
	assert.Equal(t, http.StatusTeapot, f.do(t, http.MethodGet, "/ocpp/cs-5", "").Code)
}

func TestClaimsReachHandlers(t *testing.T) {
	tokens := auth.NewTokenService("s3cret", time.Minute)
	token, err := tokens.GenerateToken("operator", "admin")
	require.NoError(t, err)

	var got *auth.Claims
	h := authenticated(tokens, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		got, _ = ClaimsFromContext(r.Context())
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h(httptest.NewRecorder(), req, nil)
	require.NotNil(t, got)
	assert.Equal(t, "operator", got.Subject)
}
