package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/node"
	"ocppnode/backend/services/networking-node/internal/registry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type execCall struct {
	query string
	args  []any
}

type fakeExecer struct {
	mu    sync.Mutex
	calls []execCall
	err   error
	block chan struct{}
}

func (f *fakeExecer) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, execCall{query: query, args: args})
	return nil, f.err
}

func (f *fakeExecer) snapshot() []execCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]execCall(nil), f.calls...)
}

func TestJournalWritesFrames(t *testing.T) {
	db := &fakeExecer{}
	j := NewJournal(db, "csms", 0, zap.NewNop())

	now := time.Now().UTC()
	require.NoError(t, j.Record(context.Background(), node.JournalEntry{
		Time:        now,
		Direction:   node.DirectionIn,
		Peer:        "gw-1",
		Destination: "csms",
		MessageType: ocpp.Call,
		MessageID:   "m-1",
		Action:      "Heartbeat",
		Payload:     []byte(`{}`),
		Raw:         []byte(`[2,"csms",["cs-1","gw-1"],"m-1","Heartbeat",{}]`),
	}))
	require.NoError(t, j.Record(context.Background(), node.JournalEntry{
		Time:        now,
		Direction:   node.DirectionOut,
		Peer:        "gw-1",
		MessageType: ocpp.CallError,
		MessageID:   "m-2",
		Raw:         []byte(`[4,"m-2","NotSupported","",{}]`),
	}))
	j.Close()

	calls := db.snapshot()
	require.Len(t, calls, 2)
	assert.True(t, strings.Contains(calls[0].query, "INSERT INTO ocpp_messages"))
	assert.Equal(t, "csms", calls[0].args[0])
	assert.Equal(t, "gw-1", calls[0].args[1])
	assert.Equal(t, "csms", calls[0].args[2])
	assert.Equal(t, "in", calls[0].args[3])
	assert.Equal(t, 2, calls[0].args[4])
	assert.Equal(t, "Heartbeat", calls[0].args[6])
	assert.Equal(t, `{}`, calls[0].args[7])

	assert.Nil(t, calls[1].args[2])
	assert.Nil(t, calls[1].args[6])
	assert.Nil(t, calls[1].args[7])

	assert.Error(t, j.Record(context.Background(), node.JournalEntry{}))
}

func TestJournalDropsWhenFull(t *testing.T) {
	db := &fakeExecer{block: make(chan struct{})}
	j := NewJournal(db, "csms", 1, zap.NewNop())

	// The worker takes the first entry and blocks in ExecContext.
	require.NoError(t, j.Record(context.Background(), node.JournalEntry{MessageID: "1"}))
	require.Eventually(t, func() bool { return len(j.entries) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, j.Record(context.Background(), node.JournalEntry{MessageID: "2"}))
	assert.ErrorIs(t, j.Record(context.Background(), node.JournalEntry{MessageID: "3"}), ErrJournalFull)

	close(db.block)
	j.Close()
	assert.Len(t, db.snapshot(), 2)
}

func TestJournalLogsWriteErrors(t *testing.T) {
	db := &fakeExecer{err: errors.New("connection refused")}
	j := NewJournal(db, "csms", 4, zap.NewNop())
	require.NoError(t, j.Record(context.Background(), node.JournalEntry{MessageID: "1"}))
	j.Close()
	assert.Len(t, db.snapshot(), 1)
}

func TestStationRepository(t *testing.T) {
	db := &fakeExecer{}
	repo := NewStationRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.UpsertBoot(ctx, "cs-1", registry.BootInfo{Vendor: "Acme", Model: "X1", Reason: "PowerUp", BootedAt: now}))
	require.NoError(t, repo.UpdateLastSeen(ctx, "cs-1", now))
	require.NoError(t, repo.UpsertConnectorStatus(ctx, "cs-1", registry.StatusUpdate{EVSEID: 1, ConnectorID: 2, ConnectorStatus: "Available", Timestamp: now}, now))

	assert.Error(t, repo.UpsertBoot(ctx, "", registry.BootInfo{}))
	assert.Error(t, repo.UpdateLastSeen(ctx, "", now))
	assert.Error(t, repo.UpsertConnectorStatus(ctx, "cs-1", registry.StatusUpdate{}, now))

	calls := db.snapshot()
	require.Len(t, calls, 3)
	assert.Contains(t, calls[0].query, "INSERT INTO charging_stations")
	assert.Nil(t, calls[0].args[3], "empty serial number is stored as NULL")
	assert.Contains(t, calls[2].query, "station_connector_statuses")
	assert.Equal(t, 2, calls[2].args[2])
}
