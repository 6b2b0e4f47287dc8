package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/node"
	"ocppnode/backend/services/networking-node/internal/registry"
	"ocppnode/backend/services/networking-node/internal/service"
)

var testNow = time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

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

func (c *fakeConn) last(t *testing.T) *ocpp.Message {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.frames)
	msg, err := ocpp.NewParser().Parse(c.frames[len(c.frames)-1])
	require.NoError(t, err)
	return msg
}

type fakeStations struct {
	mu       sync.Mutex
	boots    []string
	seen     []string
	statuses []registry.StatusUpdate
	bootErr  error
}

func (f *fakeStations) UpsertBoot(_ context.Context, stationID string, _ registry.BootInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boots = append(f.boots, stationID)
	return f.bootErr
}

func (f *fakeStations) UpdateLastSeen(_ context.Context, stationID string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, stationID)
	return nil
}

func (f *fakeStations) UpsertConnectorStatus(_ context.Context, _ string, update registry.StatusUpdate, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, update)
	return nil
}

type fixture struct {
	node     *node.Node
	conn     *fakeConn
	deps     *Deps
	stations *fakeStations
}

func newFixture(t *testing.T, allowed ...string) *fixture {
	t.Helper()
	n, err := node.New("csms", node.Options{Logger: zap.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = n.Close() })

	stations := &fakeStations{}
	deps := &Deps{
		Registry:          registry.New(),
		Stations:          stations,
		Transactions:      service.NewTransactionStore(),
		AllowedTokens:     allowed,
		HeartbeatInterval: 120,
		Logger:            zap.NewNop(),
		Now:               func() time.Time { return testNow },
	}
	Register(n, deps)

	conn := &fakeConn{}
	require.NoError(t, n.Attach("cs-1", conn, node.Standard))
	return &fixture{node: n, conn: conn, deps: deps, stations: stations}
}

// call delivers a CALL from cs-1 and returns the node's reply.
func (f *fixture) call(t *testing.T, id, action, payload string) *ocpp.Message {
	t.Helper()
	raw := `[2,"` + id + `","` + action + `",` + payload + `]`
	require.NoError(t, f.node.Receive(context.Background(), "cs-1", []byte(raw)))
	reply := f.conn.last(t)
	require.Equal(t, id, reply.UniqueID)
	return reply
}

func decode(t *testing.T, msg *ocpp.Message) map[string]any {
	t.Helper()
	require.Equal(t, ocpp.CallResult, msg.Type, "error %s: %s", msg.ErrorCode, msg.ErrorDescription)
	var out map[string]any
	require.NoError(t, json.Unmarshal(msg.Payload, &out))
	return out
}

func TestBootNotification(t *testing.T) {
	f := newFixture(t)
	resp := decode(t, f.call(t, "1", "BootNotification",
		`{"reason":"PowerUp","chargingStation":{"model":"X1","vendorName":"Acme","serialNumber":"SN-7"}}`))

	assert.Equal(t, "Accepted", resp["status"])
	assert.Equal(t, 120.0, resp["interval"])

	snap, ok := f.deps.Registry.Snapshot("cs-1")
	require.True(t, ok)
	require.NotNil(t, snap.Boot)
	assert.Equal(t, "Acme", snap.Boot.Vendor)
	assert.Equal(t, "SN-7", snap.Boot.SerialNumber)
	assert.Equal(t, "cs-1", snap.Via)
	assert.Equal(t, []string{"cs-1"}, f.stations.boots)
}

func TestBootNotificationStorageFailure(t *testing.T) {
	f := newFixture(t)
	f.stations.bootErr = errors.New("db down")
	reply := f.call(t, "1", "BootNotification",
		`{"reason":"PowerUp","chargingStation":{"model":"X1","vendorName":"Acme"}}`)
	assert.Equal(t, ocpp.CallError, reply.Type)
	assert.Equal(t, ocpp.InternalError, reply.ErrorCode)
	_, ok := f.deps.Registry.Snapshot("cs-1")
	assert.False(t, ok)
}

func TestHeartbeatAndStatus(t *testing.T) {
	f := newFixture(t)
	resp := decode(t, f.call(t, "1", "Heartbeat", `{}`))
	assert.Equal(t, testNow.Format(time.RFC3339), resp["currentTime"])
	assert.Equal(t, []string{"cs-1"}, f.stations.seen)

	decode(t, f.call(t, "2", "StatusNotification",
		`{"timestamp":"2026-04-02T09:29:00Z","connectorStatus":"Occupied","evseId":1,"connectorId":2}`))
	snap, _ := f.deps.Registry.Snapshot("cs-1")
	assert.Equal(t, "Occupied", snap.EVSEs[1][2].Status)
	require.Len(t, f.stations.statuses, 1)

	reply := f.call(t, "3", "StatusNotification",
		`{"timestamp":"2026-04-02T09:29:00Z","connectorStatus":"Occupied","evseId":0,"connectorId":0}`)
	assert.Equal(t, ocpp.CallError, reply.Type)
	assert.Equal(t, ocpp.PropertyConstraintViolation, reply.ErrorCode)
}

func TestTransactionLifecycle(t *testing.T) {
	f := newFixture(t, "TOKEN-1")

	resp := decode(t, f.call(t, "1", "TransactionEvent", `{
		"eventType":"Started","timestamp":"2026-04-02T09:00:00Z","triggerReason":"Authorized","seqNo":0,
		"transactionInfo":{"transactionId":"tx-1"},
		"evse":{"id":1,"connectorId":1},
		"idToken":{"idToken":"TOKEN-1","type":"ISO14443"},
		"meterValue":[{"timestamp":"2026-04-02T09:00:00Z","sampledValue":[{"value":1.5,"unitOfMeasure":{"unit":"kWh"}}]}]
	}`))
	info := resp["idTokenInfo"].(map[string]any)
	assert.Equal(t, "Accepted", info["status"])

	tx, ok := f.deps.Transactions.Get("cs-1", "tx-1")
	require.True(t, ok)
	assert.Equal(t, 1, tx.ConnectorID)
	assert.Equal(t, "TOKEN-1", tx.IdToken)
	assert.InDelta(t, 1500, tx.EnergyWh, 0.001)

	decode(t, f.call(t, "2", "TransactionEvent", `{
		"eventType":"Updated","timestamp":"2026-04-02T09:15:00Z","triggerReason":"MeterValuePeriodic","seqNo":1,
		"transactionInfo":{"transactionId":"tx-1"},
		"meterValue":[{"timestamp":"2026-04-02T09:15:00Z","sampledValue":[
			{"value":230,"measurand":"Voltage"},
			{"value":4200,"measurand":"Energy.Active.Import.Register"}
		]}]
	}`))
	tx, _ = f.deps.Transactions.Get("cs-1", "tx-1")
	assert.Equal(t, 1, tx.SeqNo)
	assert.InDelta(t, 4200, tx.EnergyWh, 0.001)

	decode(t, f.call(t, "3", "TransactionEvent", `{
		"eventType":"Ended","timestamp":"2026-04-02T09:30:00Z","triggerReason":"EVDeparted","seqNo":2,
		"transactionInfo":{"transactionId":"tx-1","stoppedReason":"EVDisconnected"}
	}`))
	_, ok = f.deps.Transactions.Get("cs-1", "tx-1")
	assert.False(t, ok)
}

func TestAuthorize(t *testing.T) {
	f := newFixture(t, "GOOD")
	resp := decode(t, f.call(t, "1", "Authorize", `{"idToken":{"idToken":"GOOD","type":"Central"}}`))
	assert.Equal(t, "Accepted", resp["idTokenInfo"].(map[string]any)["status"])
	resp = decode(t, f.call(t, "2", "Authorize", `{"idToken":{"idToken":"BAD","type":"Central"}}`))
	assert.Equal(t, "Invalid", resp["idTokenInfo"].(map[string]any)["status"])

	open := newFixture(t)
	resp = decode(t, open.call(t, "1", "Authorize", `{"idToken":{"idToken":"ANY","type":"Central"}}`))
	assert.Equal(t, "Accepted", resp["idTokenInfo"].(map[string]any)["status"])
}

func TestNotificationsAreAcknowledged(t *testing.T) {
	f := newFixture(t)
	decode(t, f.call(t, "1", "SecurityEventNotification", `{"type":"FirmwareUpdated","timestamp":"2026-04-02T09:00:00Z"}`))
	decode(t, f.call(t, "2", "FirmwareStatusNotification", `{"status":"Installed","requestId":7}`))
	decode(t, f.call(t, "3", "LogStatusNotification", `{"status":"Uploaded"}`))
	decode(t, f.call(t, "4", "NotifyReport", `{"requestId":1,"generatedAt":"2026-04-02T09:00:00Z","seqNo":0}`))
	decode(t, f.call(t, "5", "MeterValues", `{"evseId":1,"meterValue":[{"timestamp":"2026-04-02T09:00:00Z","sampledValue":[{"value":10}]}]}`))
	decode(t, f.call(t, "6", "NotifyDisplayMessages", `{"requestId":3}`))

	resp := decode(t, f.call(t, "7", "DataTransfer", `{"vendorId":"com.example"}`))
	assert.Equal(t, "UnknownVendorId", resp["status"])

	// SEND frames are consumed without a reply.
	before := len(f.conn.frames)
	require.NoError(t, f.node.Receive(context.Background(), "cs-1",
		[]byte(`[6,"8","NotifyPeriodicEventStream",{"id":1,"pending":0,"basetime":"2026-04-02T09:00:00Z","data":[{"t":0,"v":"1"}]}]`)))
	assert.Len(t, f.conn.frames, before)
}

func TestLastEnergyReading(t *testing.T) {
	_, ok := lastEnergyReading(nil)
	assert.False(t, ok)
}
