package node

import (
	"context"
	"encoding/json"
	"time"

	"ocppnode/backend/libs/ocpp"
)

// Direction of a frame relative to this node.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// FrameEvent describes one frame crossing a link.
type FrameEvent struct {
	Direction Direction
	Peer      ocpp.NodeID
	Message   *ocpp.Message
	Raw       []byte
	Time      time.Time
}

// Observer is notified about frames. Calls happen on the goroutine handling
// the frame and must not block.
type Observer interface {
	FrameReceived(ev FrameEvent)
	FrameSent(ev FrameEvent)
	FrameForwarded(from, to ocpp.NodeID, msg *ocpp.Message)
	FrameDropped(peer ocpp.NodeID, raw []byte, reason error)
}

// NopObserver ignores everything. Embed it to implement part of Observer.
type NopObserver struct{}

func (NopObserver) FrameReceived(FrameEvent)                               {}
func (NopObserver) FrameSent(FrameEvent)                                   {}
func (NopObserver) FrameForwarded(ocpp.NodeID, ocpp.NodeID, *ocpp.Message) {}
func (NopObserver) FrameDropped(ocpp.NodeID, []byte, error)                {}

// MultiObserver fans events out to several observers.
type MultiObserver []Observer

func (m MultiObserver) FrameReceived(ev FrameEvent) {
	for _, o := range m {
		o.FrameReceived(ev)
	}
}

func (m MultiObserver) FrameSent(ev FrameEvent) {
	for _, o := range m {
		o.FrameSent(ev)
	}
}

func (m MultiObserver) FrameForwarded(from, to ocpp.NodeID, msg *ocpp.Message) {
	for _, o := range m {
		o.FrameForwarded(from, to, msg)
	}
}

func (m MultiObserver) FrameDropped(peer ocpp.NodeID, raw []byte, reason error) {
	for _, o := range m {
		o.FrameDropped(peer, raw, reason)
	}
}

// JournalEntry is one persisted frame.
type JournalEntry struct {
	Time        time.Time
	Direction   Direction
	Peer        ocpp.NodeID
	Destination ocpp.NodeID
	MessageType ocpp.MessageType
	MessageID   string
	Action      string
	Payload     json.RawMessage
	Raw         []byte
}

// Journal persists frames.
type Journal interface {
	Record(ctx context.Context, entry JournalEntry) error
}

// JournalFunc adapts a function to Journal.
type JournalFunc func(ctx context.Context, entry JournalEntry) error

func (f JournalFunc) Record(ctx context.Context, entry JournalEntry) error {
	return f(ctx, entry)
}

type nopJournal struct{}

func (nopJournal) Record(context.Context, JournalEntry) error { return nil }
