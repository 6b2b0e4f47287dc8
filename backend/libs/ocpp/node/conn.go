package node

import (
	"fmt"
	"strings"
	"time"

	"ocppnode/backend/libs/ocpp"
)

// Conn is the transport of one link. WriteMessage must be safe for concurrent
// use.
type Conn interface {
	WriteMessage(data []byte) error
	Close() error
}

// NetworkingMode selects the frame format spoken on a link.
type NetworkingMode int

const (
	// Standard links carry plain OCPP-J frames; the peer is the endpoint.
	Standard NetworkingMode = iota
	// Overlay links carry frames with a destination and a network path.
	Overlay
)

func (m NetworkingMode) String() string {
	switch m {
	case Standard:
		return "standard"
	case Overlay:
		return "overlay"
	default:
		return fmt.Sprintf("NetworkingMode(%d)", int(m))
	}
}

// ParseNetworkingMode accepts "standard" and "overlay", case insensitive.
func ParseNetworkingMode(s string) (NetworkingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return Standard, nil
	case "overlay":
		return Overlay, nil
	default:
		return Standard, fmt.Errorf("node: unknown networking mode %q", s)
	}
}

type link struct {
	peer       ocpp.NodeID
	conn       Conn
	mode       NetworkingMode
	attachedAt time.Time
}

// LinkInfo describes an attached link.
type LinkInfo struct {
	Peer       ocpp.NodeID `json:"peer"`
	Mode       string      `json:"mode"`
	AttachedAt time.Time   `json:"attachedAt"`
}
