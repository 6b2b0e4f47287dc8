package metrics

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/node"
)

func TestCollectorCountsFrames(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg, func() node.Stats { return node.Stats{Pending: 2, Queued: 5} })

	call := &ocpp.Message{Type: ocpp.Call, UniqueID: "1", Action: "Heartbeat"}
	c.FrameReceived(node.FrameEvent{Direction: node.DirectionIn, Peer: "cs-1", Message: call})
	c.FrameReceived(node.FrameEvent{Direction: node.DirectionIn, Peer: "cs-1", Message: call})
	c.FrameSent(node.FrameEvent{Direction: node.DirectionOut, Peer: "cs-1", Message: &ocpp.Message{Type: ocpp.CallResult, UniqueID: "1"}})
	c.FrameReceived(node.FrameEvent{Direction: node.DirectionIn, Peer: "cs-1"})
	c.FrameForwarded("cs-1", "csms", call)
	c.SetConnections(3)
	c.CommandFinished(node.CommandResult{Action: "Reset", Status: node.CommandStatusAccepted})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.frames.WithLabelValues("in", ocpp.Call.String(), "Heartbeat")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.frames.WithLabelValues("out", ocpp.CallResult.String(), "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.forwarded.WithLabelValues(ocpp.Call.String())))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.connections))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commands.WithLabelValues("Reset", "accepted")))

	expected := `
# HELP ocpp_node_calls_queued Outgoing CALLs waiting for a free slot or a route.
# TYPE ocpp_node_calls_queued gauge
ocpp_node_calls_queued 5
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "ocpp_node_calls_queued"))
}

func TestDropReason(t *testing.T) {
	cases := map[string]error{
		"loop":              node.ErrLoop,
		"hop_limit":         node.ErrHopLimit,
		"unknown_message":   node.ErrUnknownMessage,
		"unexpected_origin": node.ErrUnexpectedOrigin,
		"not_connected":     node.ErrNotConnected,
		"no_route":          fmt.Errorf("%w cs-9: route leads back to gw", node.ErrNoRoute),
		"overlay_required":  node.ErrOverlayRequired,
		"invalid_frame":     ocpp.NewError(ocpp.FormatViolation, "bad frame", nil),
		"write_failed":      errors.New("broken pipe"),
		"unknown":           nil,
	}
	for want, err := range cases {
		assert.Equal(t, want, DropReason(err), "error %v", err)
	}
}

func TestCollectorDropped(t *testing.T) {
	c := New(prometheus.NewRegistry(), nil)
	c.FrameDropped("gw", nil, node.ErrLoop)
	c.FrameDropped("gw", nil, node.ErrLoop)
	assert.Equal(t, 2.0, testutil.ToFloat64(c.dropped.WithLabelValues("loop")))
}
