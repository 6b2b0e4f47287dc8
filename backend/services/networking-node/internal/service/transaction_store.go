package service

import (
	"sort"
	"sync"
	"time"
)

// Transaction keeps runtime info for an ongoing transaction.
type Transaction struct {
	ID          string    `json:"id"`
	StationID   string    `json:"stationId"`
	EVSEID      int       `json:"evseId,omitempty"`
	ConnectorID int       `json:"connectorId,omitempty"`
	IdToken     string    `json:"idToken,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	SeqNo       int       `json:"seqNo"`
	// EnergyWh is the last Energy.Active.Import.Register reading.
	EnergyWh float64 `json:"energyWh,omitempty"`
}

// TransactionStore stores transactions by station and transaction id.
type TransactionStore struct {
	mu   sync.RWMutex
	data map[string]Transaction
}

// NewTransactionStore returns initialized store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		data: make(map[string]Transaction),
	}
}

func key(stationID, txID string) string {
	return stationID + "/" + txID
}

// Set stores a transaction.
func (s *TransactionStore) Set(tx Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key(tx.StationID, tx.ID)] = tx
}

// Get returns a transaction and bool.
func (s *TransactionStore) Get(stationID, txID string) (Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.data[key(stationID, txID)]
	return tx, ok
}

// Update applies fn to a stored transaction. It reports false if the
// transaction is unknown.
func (s *TransactionStore) Update(stationID, txID string, fn func(*Transaction)) (Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.data[key(stationID, txID)]
	if !ok {
		return Transaction{}, false
	}
	fn(&tx)
	s.data[key(stationID, txID)] = tx
	return tx, true
}

// Delete removes a transaction and returns its last state.
func (s *TransactionStore) Delete(stationID, txID string) (Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.data[key(stationID, txID)]
	delete(s.data, key(stationID, txID))
	return tx, ok
}

// ForStation lists the ongoing transactions of a station, oldest first.
func (s *TransactionStore) ForStation(stationID string) []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Transaction
	for _, tx := range s.data {
		if tx.StationID == stationID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// Count returns the number of ongoing transactions.
func (s *TransactionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
