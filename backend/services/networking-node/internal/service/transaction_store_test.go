package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionStore(t *testing.T) {
	s := NewTransactionStore()
	start := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	s.Set(Transaction{ID: "tx-2", StationID: "cs-1", StartedAt: start.Add(time.Minute)})
	s.Set(Transaction{ID: "tx-1", StationID: "cs-1", StartedAt: start})
	s.Set(Transaction{ID: "tx-1", StationID: "cs-2", StartedAt: start})

	assert.Equal(t, 3, s.Count())
	list := s.ForStation("cs-1")
	require.Len(t, list, 2)
	assert.Equal(t, "tx-1", list[0].ID)

	tx, ok := s.Update("cs-1", "tx-1", func(tx *Transaction) { tx.EnergyWh = 1200; tx.SeqNo = 3 })
	require.True(t, ok)
	assert.Equal(t, 1200.0, tx.EnergyWh)
	got, _ := s.Get("cs-1", "tx-1")
	assert.Equal(t, 3, got.SeqNo)

	_, ok = s.Update("cs-9", "tx-1", func(*Transaction) {})
	assert.False(t, ok)

	removed, ok := s.Delete("cs-1", "tx-1")
	require.True(t, ok)
	assert.Equal(t, 1200.0, removed.EnergyWh)
	_, ok = s.Get("cs-1", "tx-1")
	assert.False(t, ok)
	_, ok = s.Get("cs-2", "tx-1")
	assert.True(t, ok)
}
