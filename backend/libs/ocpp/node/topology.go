package node

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/networking"
	"ocppnode/backend/libs/ocpp/types"
)

func (n *Node) registerTopologyHandler() {
	HandleFunc(n, networking.NotifyNetworkTopologyFeatureName, n.handleTopology)
}

// handleTopology installs the routes a neighbour announces. Announced nodes are
// reached through the link the announcement arrived on.
func (n *Node) handleTopology(_ context.Context, rc *RequestContext, req *networking.NotifyNetworkTopologyRequest) (*networking.NotifyNetworkTopologyResponse, error) {
	via := rc.Via
	if rc.From != via {
		// Only direct neighbours may describe what lies behind them.
		resp := networking.NewNotifyNetworkTopologyResponse(types.GenericStatusRejected)
		resp.StatusInfo = &types.StatusInfo{ReasonCode: "NotNeighbour"}
		return resp, nil
	}

	if req.Mode == networking.TopologyReplace {
		n.routes.ForgetVia(via)
	}
	learned, removed := 0, 0
	for _, entry := range req.Nodes {
		dest := ocpp.NodeID(entry.NodeID)
		if dest == n.id || dest == via {
			continue
		}
		switch req.Mode {
		case networking.TopologyRemove:
			n.routes.Forget(dest, via)
			removed++
		default:
			ttl := n.routeTTL
			if entry.TTL != nil {
				ttl = time.Duration(*entry.TTL) * time.Second
			}
			n.routes.Learn(dest, via, entry.Distance+1, entry.Priority, ttl)
			learned++
		}
	}
	n.log.Info("topology update",
		zap.String("peer", string(via)),
		zap.String("mode", string(req.Mode)),
		zap.Int("learned", learned),
		zap.Int("removed", removed),
	)

	if learned > 0 {
		n.tracker.Flush()
	}
	return networking.NewNotifyNetworkTopologyResponse(types.GenericStatusAccepted), nil
}

// TopologyFor builds the announcement this node sends to peer: every node it
// can reach except through peer.
func (n *Node) TopologyFor(peer ocpp.NodeID) *networking.NotifyNetworkTopologyRequest {
	reachable := n.routes.Reachable(peer)
	ids := make([]ocpp.NodeID, 0, len(reachable))
	for id := range reachable {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	entries := make([]networking.TopologyEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, networking.NewTopologyEntry(id, reachable[id]))
	}
	return networking.NewNotifyNetworkTopologyRequest(networking.TopologyReplace, entries...)
}

// AnnounceTopology queues a NotifyNetworkTopology for peer.
func (n *Node) AnnounceTopology(peer ocpp.NodeID) (CommandSnapshot, error) {
	req := n.TopologyFor(peer)
	return n.Enqueue(peer, req, func(r CommandResult) {
		if r.Err != nil || r.Status == CommandStatusRejected {
			n.log.Warn("topology announcement not accepted",
				zap.String("peer", string(peer)),
				zap.String("status", string(r.Status)),
				zap.Error(r.Err),
			)
		}
	})
}
