package ocpp

import (
	"encoding/json"
	"strings"
)

// NodeID identifies a networking node: a CSMS, a local controller/gateway or a
// charging station.
type NodeID string

// String implements fmt.Stringer.
func (id NodeID) String() string { return string(id) }

// IsZero reports whether the id is empty.
func (id NodeID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

// NetworkPath lists the nodes a message traversed, originator first.
type NetworkPath []NodeID

// NewNetworkPath starts a path at the originator.
func NewNetworkPath(origin NodeID) NetworkPath {
	return NetworkPath{origin}
}

// Append returns a new path extended by id. The receiver is never modified.
func (p NetworkPath) Append(id NodeID) NetworkPath {
	out := make(NetworkPath, len(p), len(p)+1)
	copy(out, p)
	return append(out, id)
}

// Contains reports whether id is part of the path.
func (p NetworkPath) Contains(id NodeID) bool {
	for _, hop := range p {
		if hop == id {
			return true
		}
	}
	return false
}

// Origin returns the originating node or "" for an empty path.
func (p NetworkPath) Origin() NodeID {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Last returns the most recent hop or "" for an empty path.
func (p NetworkPath) Last() NodeID {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Len returns the number of hops.
func (p NetworkPath) Len() int { return len(p) }

// String renders the path as "a -> b -> c".
func (p NetworkPath) String() string {
	parts := make([]string, len(p))
	for i, hop := range p {
		parts[i] = string(hop)
	}
	return strings.Join(parts, " -> ")
}

// MarshalJSON always emits an array, never null.
func (p NetworkPath) MarshalJSON() ([]byte, error) {
	hops := make([]string, len(p))
	for i, hop := range p {
		hops[i] = string(hop)
	}
	return json.Marshal(hops)
}
