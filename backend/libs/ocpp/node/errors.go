package node

import "errors"

var (
	// ErrNoRoute is returned when no attached link leads to a destination.
	ErrNoRoute = errors.New("node: no route to destination")
	// ErrNotConnected is returned for frames from a peer without a link.
	ErrNotConnected = errors.New("node: peer not connected")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("node: closed")
	// ErrTimeout terminates a command that ran out of attempts.
	ErrTimeout = errors.New("node: timeout waiting for response")
	// ErrOverlayRequired is returned when a multi-hop frame would have to cross
	// a standard link.
	ErrOverlayRequired = errors.New("node: destination needs an overlay link")

	// Reasons passed to Observer.FrameDropped.
	ErrLoop             = errors.New("node: network path already contains this node")
	ErrHopLimit         = errors.New("node: hop limit exceeded")
	ErrUnknownMessage   = errors.New("node: response for unknown message id")
	ErrUnexpectedOrigin = errors.New("node: response from unexpected node")
)
