package node

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/networking"
	"ocppnode/backend/libs/ocpp/provisioning"
)

func TestCallThroughGateway(t *testing.T) {
	csms := newTestNode(t, "csms", Options{})
	gw := newTestNode(t, "gw", Options{})
	station := newTestNode(t, "cs-1", Options{})

	seen := make(chan RequestContext, 1)
	HandleFunc(station, provisioning.ResetFeatureName, func(_ context.Context, rc *RequestContext, req *provisioning.ResetRequest) (*provisioning.ResetResponse, error) {
		seen <- *rc
		return provisioning.NewResetResponse(provisioning.ResetStatusAccepted), nil
	})

	csmsToGw, gwToCSMS := connect(t, csms, gw, Overlay)
	gwToStation, _ := connect(t, gw, station, Standard)
	csms.RoutingTable().AddStatic("cs-1", "gw", 0)

	resp, err := csms.Call(callCtx(t), "cs-1", provisioning.NewResetRequest(provisioning.ResetTypeImmediate))
	require.NoError(t, err)
	assert.Equal(t, provisioning.ResetStatusAccepted, resp.(*provisioning.ResetResponse).Status)

	rc := <-seen
	assert.Equal(t, ocpp.NodeID("gw"), rc.From, "a standard link hides the path")

	call := csmsToGw.frameAt(t, 0)
	require.Len(t, call, 6)
	assert.Equal(t, "cs-1", call[1])
	assert.Equal(t, []any{"csms"}, call[2])

	relayed := gwToStation.frameAt(t, 0)
	require.Len(t, relayed, 4, "overlay header stripped towards the station")
	assert.NotEqual(t, call[3], relayed[1], "standard links get a node-local message id")

	answer := gwToCSMS.frameAt(t, 0)
	require.Len(t, answer, 5)
	assert.Equal(t, float64(3), answer[0])
	assert.Equal(t, "csms", answer[1])
	assert.Equal(t, []any{"cs-1", "gw"}, answer[2])

	assert.Equal(t, 0, gw.Stats().Forwarding)
}

func TestGatewayForwardsUpstream(t *testing.T) {
	csms := newTestNode(t, "csms", Options{})
	gw := newTestNode(t, "gw", Options{Upstream: "csms"})
	station := newTestNode(t, "cs-1", Options{})
	seen := make(chan RequestContext, 1)
	handleHeartbeat(csms, seen)

	connect(t, gw, csms, Overlay)
	_, gwToStation := connect(t, station, gw, Standard)

	resp, err := station.Call(callCtx(t), "gw", provisioning.NewHeartbeatRequest())
	require.NoError(t, err)
	assert.IsType(t, &provisioning.HeartbeatResponse{}, resp)

	rc := <-seen
	assert.Equal(t, ocpp.NodeID("cs-1"), rc.From)
	assert.Equal(t, ocpp.NodeID("gw"), rc.Via)
	assert.Equal(t, ocpp.NetworkPath{"cs-1", "gw"}, rc.Path)

	answer := gwToStation.frameAt(t, 0)
	assert.Len(t, answer, 3)

	r, ok := csms.RoutingTable().Lookup("cs-1")
	require.True(t, ok, "route to the origin is learned from the path")
	assert.Equal(t, ocpp.NodeID("gw"), r.NextHop)
	assert.Equal(t, 2, r.Distance)
}

func TestStationsBehindGatewayReuseMessageIDs(t *testing.T) {
	gw := newTestNode(t, "gw", Options{Upstream: "csms"})
	up, cs1, cs2 := newFakeConn(), newFakeConn(), newFakeConn()
	require.NoError(t, gw.Attach("csms", up, Overlay))
	require.NoError(t, gw.Attach("cs-1", cs1, Standard))
	require.NoError(t, gw.Attach("cs-2", cs2, Standard))

	ctx := context.Background()
	require.NoError(t, gw.Receive(ctx, "cs-1", []byte(`[2,"1","Heartbeat",{}]`)))
	require.NoError(t, gw.Receive(ctx, "cs-2", []byte(`[2,"1","Heartbeat",{}]`)))
	require.Equal(t, 2, up.messageCount())
	assert.Equal(t, 2, gw.Stats().Forwarding)

	require.NoError(t, gw.Receive(ctx, "csms", []byte(`[3,"cs-2",["csms"],"1",{"currentTime":"2024-01-01T00:00:02Z"}]`)))
	require.NoError(t, gw.Receive(ctx, "csms", []byte(`[3,"cs-1",["csms"],"1",{"currentTime":"2024-01-01T00:00:01Z"}]`)))

	require.Equal(t, 1, cs1.messageCount())
	require.Equal(t, 1, cs2.messageCount())
	first, second := cs1.last(t), cs2.last(t)
	assert.Equal(t, ocpp.CallResult, first.Type)
	assert.Equal(t, "1", first.UniqueID)
	assert.JSONEq(t, `{"currentTime":"2024-01-01T00:00:01Z"}`, string(first.Payload))
	assert.Equal(t, ocpp.CallResult, second.Type)
	assert.Equal(t, "1", second.UniqueID)
	assert.JSONEq(t, `{"currentTime":"2024-01-01T00:00:02Z"}`, string(second.Payload))
	assert.Equal(t, 0, gw.Stats().Forwarding)
}

func TestCallsToStandardLinkGetDistinctIDs(t *testing.T) {
	useIDs(t, "fwd-1", "fwd-2")
	gw := newTestNode(t, "gw", Options{})
	csms, lc, down := newFakeConn(), newFakeConn(), newFakeConn()
	require.NoError(t, gw.Attach("csms", csms, Overlay))
	require.NoError(t, gw.Attach("lc", lc, Overlay))
	require.NoError(t, gw.Attach("cs-1", down, Standard))

	ctx := context.Background()
	require.NoError(t, gw.Receive(ctx, "csms", []byte(`[2,"cs-1",["csms"],"m1","Reset",{"type":"Immediate"}]`)))
	require.NoError(t, gw.Receive(ctx, "lc", []byte(`[2,"cs-1",["lc"],"m1","Reset",{"type":"OnIdle"}]`)))
	require.Equal(t, 2, down.messageCount())
	assert.Equal(t, "fwd-1", down.messageAt(t, 0).UniqueID)
	assert.Equal(t, "fwd-2", down.messageAt(t, 1).UniqueID)

	require.NoError(t, gw.Receive(ctx, "cs-1", []byte(`[3,"fwd-2",{"status":"Scheduled"}]`)))
	assert.Equal(t, 0, csms.messageCount())
	require.Equal(t, 1, lc.messageCount())
	reply := lc.last(t)
	assert.Equal(t, ocpp.CallResult, reply.Type)
	assert.Equal(t, "m1", reply.UniqueID)
	assert.Equal(t, ocpp.NodeID("lc"), reply.DestinationID)

	require.NoError(t, gw.Receive(ctx, "cs-1", []byte(`[3,"fwd-1",{"status":"Accepted"}]`)))
	require.Equal(t, 1, csms.messageCount())
	assert.Equal(t, "m1", csms.last(t).UniqueID)
	assert.JSONEq(t, `{"status":"Accepted"}`, string(csms.last(t).Payload))
}

func TestForwardRejections(t *testing.T) {
	gw := newTestNode(t, "gw", Options{MaxHops: 3})
	conn := newFakeConn()
	require.NoError(t, gw.Attach("csms", conn, Overlay))

	cases := []struct {
		name  string
		frame string
		code  ocpp.ErrorCode
		dest  ocpp.NodeID
	}{
		{"loop", `[2,"cs-1",["csms","gw"],"m1","Heartbeat",{}]`, ocpp.ProtocolError, "csms"},
		{"hop limit", `[2,"cs-1",["a","b","csms"],"m2","Heartbeat",{}]`, ocpp.ProtocolError, "a"},
		{"no route", `[2,"nowhere",["csms"],"m3","Heartbeat",{}]`, ocpp.NotSupported, "csms"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := conn.messageCount()
			require.NoError(t, gw.Receive(context.Background(), "csms", []byte(tc.frame)))
			require.Equal(t, before+1, conn.messageCount())

			reply := conn.last(t)
			assert.Equal(t, ocpp.CallError, reply.Type)
			assert.Equal(t, tc.code, reply.ErrorCode)
			assert.Equal(t, tc.dest, reply.DestinationID)
			assert.Equal(t, ocpp.NetworkPath{"gw"}, reply.NetworkPath)
		})
	}

	before := conn.messageCount()
	require.NoError(t, gw.Receive(context.Background(), "csms", []byte(`[3,"cs-1",["csms","gw"],"m4",{}]`)))
	require.NoError(t, gw.Receive(context.Background(), "csms", []byte(`[6,"nowhere",["csms"],"m5","NotifyPeriodicEventStream",{}]`)))
	assert.Equal(t, before, conn.messageCount(), "only CALLs are answered")
}

func TestForwardNeverSendsBack(t *testing.T) {
	gw := newTestNode(t, "gw", Options{})
	conn := newFakeConn()
	require.NoError(t, gw.Attach("csms", conn, Overlay))
	gw.RoutingTable().SetDefault("csms")

	require.NoError(t, gw.Receive(context.Background(), "csms", []byte(`[2,"cs-9",["csms"],"m1","Heartbeat",{}]`)))
	reply := conn.last(t)
	assert.Equal(t, ocpp.CallError, reply.Type)
	assert.Equal(t, ocpp.NotSupported, reply.ErrorCode)
}

func TestForwardedCallExpires(t *testing.T) {
	gw := newTestNode(t, "gw", Options{ForwardTimeout: 20 * time.Millisecond})
	up, down := newFakeConn(), newFakeConn()
	require.NoError(t, gw.Attach("csms", up, Overlay))
	require.NoError(t, gw.Attach("cs-1", down, Standard))

	require.NoError(t, gw.Receive(context.Background(), "csms", []byte(`[2,"cs-1",["csms"],"m1","Reset",{"type":"Immediate"}]`)))
	require.Equal(t, 1, down.messageCount())
	assert.Equal(t, 1, gw.Stats().Forwarding)

	waitFor(t, 500*time.Millisecond, func() bool { return gw.Stats().Forwarding == 0 })

	require.NoError(t, gw.Receive(context.Background(), "cs-1", []byte(`[3,"m1",{"status":"Accepted"}]`)))
	assert.Equal(t, 0, up.messageCount(), "late answer is dropped")
}

func TestResponseFromUnexpectedNodeDropped(t *testing.T) {
	useIDs(t, "cmd-1", "msg-1")
	csms := newTestNode(t, "csms", Options{})
	conn := newFakeConn()
	require.NoError(t, csms.Attach("gw", conn, Overlay))
	csms.RoutingTable().AddStatic("cs-1", "gw", 0)

	snap, err := csms.Enqueue("cs-1", provisioning.NewResetRequest(provisioning.ResetTypeImmediate), nil)
	require.NoError(t, err)

	require.NoError(t, csms.Receive(context.Background(), "gw", []byte(`[3,"csms",["cs-2","gw"],"msg-1",{"status":"Accepted"}]`)))
	got, _ := csms.Command(snap.ID)
	assert.Equal(t, CommandStatusPending, got.Status)

	require.NoError(t, csms.Receive(context.Background(), "gw", []byte(`[3,"csms",["cs-1","gw"],"msg-1",{"status":"Accepted"}]`)))
	got, _ = csms.Command(snap.ID)
	assert.Equal(t, CommandStatusAccepted, got.Status)
}

func TestTopologyAnnouncement(t *testing.T) {
	csms := newTestNode(t, "csms", Options{})
	conn := newFakeConn()
	require.NoError(t, csms.Attach("gw", conn, Overlay))

	snap, err := csms.Enqueue("cs-2", provisioning.NewResetRequest(provisioning.ResetTypeOnIdle), nil)
	require.NoError(t, err)
	assert.Equal(t, CommandStatusQueued, snap.Status)

	add := `[2,"csms",["gw"],"t1","NotifyNetworkTopology",{"mode":"Add","nodes":[{"nodeId":"cs-1","distance":1},{"nodeId":"cs-2","distance":2,"ttl":60},{"nodeId":"csms","distance":1}]}]`
	require.NoError(t, csms.Receive(context.Background(), "gw", []byte(add)))

	// The queued command follows the new route before the update is answered.
	require.Equal(t, 2, conn.messageCount())
	call := conn.messageAt(t, 0)
	assert.Equal(t, ocpp.Call, call.Type)
	assert.Equal(t, ocpp.NodeID("cs-2"), call.DestinationID)

	reply := conn.messageAt(t, 1)
	assert.Equal(t, ocpp.CallResult, reply.Type)
	assert.JSONEq(t, `{"status":"Accepted"}`, string(reply.Payload))

	r, ok := csms.RoutingTable().Lookup("cs-2")
	require.True(t, ok)
	assert.Equal(t, ocpp.NodeID("gw"), r.NextHop)
	assert.Equal(t, 3, r.Distance)
	assert.False(t, r.ExpiresAt.IsZero())

	replace := `[2,"csms",["gw"],"t2","NotifyNetworkTopology",{"mode":"Replace","nodes":[{"nodeId":"cs-3","distance":1}]}]`
	require.NoError(t, csms.Receive(context.Background(), "gw", []byte(replace)))
	_, ok = csms.RoutingTable().Lookup("cs-1")
	assert.False(t, ok)
	_, ok = csms.RoutingTable().Lookup("cs-3")
	assert.True(t, ok)

	remove := `[2,"csms",["gw"],"t3","NotifyNetworkTopology",{"mode":"Remove","nodes":[{"nodeId":"cs-3","distance":1}]}]`
	require.NoError(t, csms.Receive(context.Background(), "gw", []byte(remove)))
	_, ok = csms.RoutingTable().Lookup("cs-3")
	assert.False(t, ok)

	farAway := `[2,"csms",["cs-7","gw"],"t4","NotifyNetworkTopology",{"mode":"Add","nodes":[{"nodeId":"cs-8","distance":1}]}]`
	require.NoError(t, csms.Receive(context.Background(), "gw", []byte(farAway)))
	reply = conn.last(t)
	assert.JSONEq(t, `{"status":"Rejected","statusInfo":{"reasonCode":"NotNeighbour"}}`, string(reply.Payload))
}

func TestAnnounceTopology(t *testing.T) {
	csms := newTestNode(t, "csms", Options{})
	gw := newTestNode(t, "gw", Options{})
	require.NoError(t, gw.Attach("cs-1", newFakeConn(), Standard))
	require.NoError(t, gw.Attach("cs-2", newFakeConn(), Standard))
	connect(t, gw, csms, Overlay)

	req := gw.TopologyFor("csms")
	assert.Equal(t, networking.TopologyReplace, req.Mode)
	require.Len(t, req.Nodes, 2)
	assert.Equal(t, "cs-1", req.Nodes[0].NodeID)
	assert.Equal(t, 1, req.Nodes[0].Distance)

	snap, err := gw.AnnounceTopology("csms")
	require.NoError(t, err)
	waitFor(t, time.Second, func() bool {
		got, ok := gw.Command(snap.ID)
		return ok && got.Status == CommandStatusAccepted
	})

	r, ok := csms.RoutingTable().Lookup("cs-2")
	require.True(t, ok)
	assert.Equal(t, ocpp.NodeID("gw"), r.NextHop)
	assert.Equal(t, 2, r.Distance)
}
