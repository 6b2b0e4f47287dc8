package node

import (
	"sync"
	"time"

	"ocppnode/backend/libs/ocpp"
)

// forwardKey identifies a CALL this node forwarded: the link it left on, the
// node that originated it and its message id. Message ids are only unique per
// originator, so overlay links key on the origin the response is addressed to.
// Standard links carry no origin; the CALL leaves them under a fresh id and
// origin stays empty.
type forwardKey struct {
	nextHop   ocpp.NodeID
	origin    ocpp.NodeID
	messageID string
}

type forwardEntry struct {
	from   ocpp.NodeID
	origin ocpp.NodeID
	action string
	// messageID is the id the CALL arrived with when it was rewritten.
	messageID string
	timer     *time.Timer
}

// responseKey is the forwardKey a response arriving on l would match.
func responseKey(l *link, msg *ocpp.Message) forwardKey {
	key := forwardKey{nextHop: l.peer, messageID: msg.UniqueID}
	if l.mode == Overlay && msg.IsRouted() {
		key.origin = msg.DestinationID
	}
	return key
}

// forwardTable remembers forwarded CALLs until their response passes through
// or the entry expires.
type forwardTable struct {
	mu      sync.Mutex
	entries map[forwardKey]*forwardEntry
	timeout time.Duration
	closed  bool
}

func newForwardTable(timeout time.Duration) *forwardTable {
	return &forwardTable{
		entries: make(map[forwardKey]*forwardEntry),
		timeout: timeout,
	}
}

func (f *forwardTable) remember(key forwardKey, entry *forwardEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	if old, ok := f.entries[key]; ok && old.timer != nil {
		old.timer.Stop()
	}
	entry.timer = time.AfterFunc(f.timeout, func() {
		f.expire(key, entry)
	})
	f.entries[key] = entry
}

func (f *forwardTable) expire(key forwardKey, entry *forwardEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.entries[key]; ok && cur == entry {
		delete(f.entries, key)
	}
}

func (f *forwardTable) take(key forwardKey) (*forwardEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[key]
	if !ok {
		return nil, false
	}
	delete(f.entries, key)
	if entry.timer != nil {
		entry.timer.Stop()
	}
	return entry, true
}

// dropPeer forgets every entry that involves peer on either side.
func (f *forwardTable) dropPeer(peer ocpp.NodeID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	removed := 0
	for key, entry := range f.entries {
		if key.nextHop == peer || entry.from == peer {
			if entry.timer != nil {
				entry.timer.Stop()
			}
			delete(f.entries, key)
			removed++
		}
	}
	return removed
}

func (f *forwardTable) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func (f *forwardTable) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for key, entry := range f.entries {
		if entry.timer != nil {
			entry.timer.Stop()
		}
		delete(f.entries, key)
	}
}
