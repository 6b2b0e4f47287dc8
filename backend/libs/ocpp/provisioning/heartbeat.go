package provisioning

import (
	"time"

	"ocppnode/backend/libs/ocpp/types"
)

const HeartbeatFeatureName = "Heartbeat"

// HeartbeatRequest lets the CSMS know the station is alive.
type HeartbeatRequest struct {
	types.Extensions
}

// HeartbeatResponse returns the CSMS clock.
type HeartbeatResponse struct {
	types.Extensions
	CurrentTime time.Time `json:"currentTime" validate:"required"`
}

func (r HeartbeatRequest) GetFeatureName() string  { return HeartbeatFeatureName }
func (r HeartbeatResponse) GetFeatureName() string { return HeartbeatFeatureName }

func NewHeartbeatRequest() *HeartbeatRequest {
	return &HeartbeatRequest{}
}

func NewHeartbeatResponse(currentTime time.Time) *HeartbeatResponse {
	return &HeartbeatResponse{CurrentTime: currentTime}
}
