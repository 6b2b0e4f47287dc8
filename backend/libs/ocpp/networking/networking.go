// Package networking contains the messages networking nodes exchange about the
// topology behind them.
package networking

import (
	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const ProfileName = "networking"

const NotifyNetworkTopologyFeatureName = "NotifyNetworkTopology"

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[NotifyNetworkTopologyRequest, NotifyNetworkTopologyResponse](NotifyNetworkTopologyFeatureName),
)

// TopologyUpdateMode tells the receiver how to merge the announced nodes.
type TopologyUpdateMode string

const (
	// TopologyAdd installs or refreshes the announced nodes.
	TopologyAdd TopologyUpdateMode = "Add"
	// TopologyRemove withdraws the announced nodes.
	TopologyRemove TopologyUpdateMode = "Remove"
	// TopologyReplace drops every route previously learned from the sender
	// before installing the announced nodes.
	TopologyReplace TopologyUpdateMode = "Replace"
)

// TopologyEntry announces one node reachable through the sender.
type TopologyEntry struct {
	CustomData *types.CustomData `json:"customData,omitempty"`
	NodeID     string            `json:"nodeId" validate:"required,max=48"`
	Distance   int               `json:"distance" validate:"gte=0"`
	Priority   int               `json:"priority,omitempty" validate:"gte=0"`
	TTL        *int              `json:"ttl,omitempty" validate:"omitempty,gte=0"`
}

// NotifyNetworkTopologyRequest is sent by a node to its neighbour to announce
// which nodes can be reached through it.
type NotifyNetworkTopologyRequest struct {
	types.Extensions
	Mode  TopologyUpdateMode `json:"mode" validate:"required,topologyUpdateMode"`
	Nodes []TopologyEntry    `json:"nodes" validate:"omitempty,max=1024,dive"`
}

type NotifyNetworkTopologyResponse struct {
	types.Extensions
	Status     types.GenericStatus `json:"status" validate:"required,genericStatus"`
	StatusInfo *types.StatusInfo   `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r NotifyNetworkTopologyRequest) GetFeatureName() string {
	return NotifyNetworkTopologyFeatureName
}

func (r NotifyNetworkTopologyResponse) GetFeatureName() string {
	return NotifyNetworkTopologyFeatureName
}

func NewNotifyNetworkTopologyRequest(mode TopologyUpdateMode, nodes ...TopologyEntry) *NotifyNetworkTopologyRequest {
	return &NotifyNetworkTopologyRequest{Mode: mode, Nodes: nodes}
}

func NewNotifyNetworkTopologyResponse(status types.GenericStatus) *NotifyNetworkTopologyResponse {
	return &NotifyNetworkTopologyResponse{Status: status}
}

// NewTopologyEntry announces a node at the given distance in hops.
func NewTopologyEntry(nodeID ocpp.NodeID, distance int) TopologyEntry {
	return TopologyEntry{NodeID: string(nodeID), Distance: distance}
}

func init() {
	ocpp.RegisterEnum("topologyUpdateMode", TopologyAdd, TopologyRemove, TopologyReplace)
}
