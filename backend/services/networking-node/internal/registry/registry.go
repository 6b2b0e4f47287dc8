// Package registry keeps the last known state of the charging stations that
// talk to this node.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// BootInfo is what a station reported in its last BootNotification.
type BootInfo struct {
	Vendor          string    `json:"vendor"`
	Model           string    `json:"model"`
	SerialNumber    string    `json:"serialNumber,omitempty"`
	FirmwareVersion string    `json:"firmwareVersion,omitempty"`
	Reason          string    `json:"reason"`
	BootedAt        time.Time `json:"bootedAt"`
}

// StatusUpdate is a connector state reported by StatusNotification.
type StatusUpdate struct {
	EVSEID          int
	ConnectorID     int
	ConnectorStatus string
	Timestamp       time.Time
}

// ConnectorStatus holds the last known state of one connector.
type ConnectorStatus struct {
	Status          string    `json:"status"`
	StatusTimestamp time.Time `json:"statusTimestamp"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// StationSnapshot is a copy of a station's state.
type StationSnapshot struct {
	StationID  string                          `json:"stationId"`
	Connected  bool                            `json:"connected"`
	Via        string                          `json:"via,omitempty"`
	Boot       *BootInfo                       `json:"boot,omitempty"`
	LastSeenAt time.Time                       `json:"lastSeenAt"`
	UpdatedAt  time.Time                       `json:"updatedAt"`
	EVSEs      map[int]map[int]ConnectorStatus `json:"evses"`
}

// StatusEvent describes one connector transition.
type StatusEvent struct {
	StationID  string
	Update     StatusUpdate
	Previous   ConnectorStatus
	Current    ConnectorStatus
	RecordedAt time.Time
}

type stationState struct {
	stationID  string
	connected  bool
	via        string
	boot       *BootInfo
	lastSeenAt time.Time
	updatedAt  time.Time
	evses      map[int]map[int]ConnectorStatus
}

func newStationState(stationID string) *stationState {
	return &stationState{
		stationID: stationID,
		evses:     make(map[int]map[int]ConnectorStatus),
	}
}

func (s *stationState) snapshot() StationSnapshot {
	snapshot := StationSnapshot{
		StationID:  s.stationID,
		Connected:  s.connected,
		Via:        s.via,
		LastSeenAt: s.lastSeenAt,
		UpdatedAt:  s.updatedAt,
		EVSEs:      make(map[int]map[int]ConnectorStatus, len(s.evses)),
	}
	if s.boot != nil {
		boot := *s.boot
		snapshot.Boot = &boot
	}

	for evseID, connectors := range s.evses {
		copied := make(map[int]ConnectorStatus, len(connectors))
		for connectorID, status := range connectors {
			copied[connectorID] = status
		}
		snapshot.EVSEs[evseID] = copied
	}

	return snapshot
}

// Registry stores the state of every known station.
type Registry struct {
	mu       sync.RWMutex
	stations map[string]*stationState
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{stations: make(map[string]*stationState)}
}

func (r *Registry) stateLocked(stationID string) *stationState {
	state, ok := r.stations[stationID]
	if !ok {
		state = newStationState(stationID)
		r.stations[stationID] = state
	}
	return state
}

// Boot records a BootNotification.
func (r *Registry) Boot(stationID string, info BootInfo) error {
	if stationID == "" {
		return fmt.Errorf("station id is required")
	}
	if info.BootedAt.IsZero() {
		info.BootedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.stateLocked(stationID)
	state.boot = &info
	state.lastSeenAt = info.BootedAt
	state.updatedAt = info.BootedAt
	// A reboot invalidates the reported connector states.
	state.evses = make(map[int]map[int]ConnectorStatus)
	return nil
}

// Seen refreshes the last activity time of a station.
func (r *Registry) Seen(stationID, via string, at time.Time) {
	if stationID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.stateLocked(stationID)
	state.lastSeenAt = at
	if via != "" {
		state.via = via
	}
}

// SetConnected records that a direct link to the station went up or down.
func (r *Registry) SetConnected(stationID string, connected bool, at time.Time) {
	if stationID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.stateLocked(stationID)
	state.connected = connected
	state.updatedAt = at
	if connected {
		state.lastSeenAt = at
		state.via = stationID
	}
}

// Update stores a new connector state and returns the transition.
//
// recordedAt is the time the node processed the notification.
func (r *Registry) Update(stationID string, update StatusUpdate, recordedAt time.Time) (StatusEvent, error) {
	if stationID == "" {
		return StatusEvent{}, fmt.Errorf("station id is required")
	}
	if update.EVSEID <= 0 {
		return StatusEvent{}, fmt.Errorf("evse id must be positive")
	}
	if update.ConnectorID <= 0 {
		return StatusEvent{}, fmt.Errorf("connector id must be positive")
	}
	if strings.TrimSpace(update.ConnectorStatus) == "" {
		return StatusEvent{}, fmt.Errorf("connector status is required")
	}

	if update.Timestamp.IsZero() {
		update.Timestamp = recordedAt
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.stateLocked(stationID)
	connectors := state.evses[update.EVSEID]
	if connectors == nil {
		connectors = make(map[int]ConnectorStatus)
		state.evses[update.EVSEID] = connectors
	}

	previous := connectors[update.ConnectorID]
	current := ConnectorStatus{
		Status:          update.ConnectorStatus,
		StatusTimestamp: update.Timestamp,
		UpdatedAt:       recordedAt,
	}

	connectors[update.ConnectorID] = current
	state.updatedAt = recordedAt
	state.lastSeenAt = recordedAt

	return StatusEvent{
		StationID:  stationID,
		Update:     update,
		Previous:   previous,
		Current:    current,
		RecordedAt: recordedAt,
	}, nil
}

// Snapshot returns a copy of the station's last known state.
func (r *Registry) Snapshot(stationID string) (StationSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.stations[stationID]
	if !ok {
		return StationSnapshot{}, false
	}
	return state.snapshot(), true
}

// List returns every station ordered by id.
func (r *Registry) List() []StationSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]StationSnapshot, 0, len(r.stations))
	for _, state := range r.stations {
		out = append(out, state.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StationID < out[j].StationID })
	return out
}
