package provisioning

import (
	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const ResetFeatureName = "Reset"

// ResetType selects when a reset happens.
type ResetType string

const (
	ResetTypeImmediate          ResetType = "Immediate"
	ResetTypeOnIdle             ResetType = "OnIdle"
	ResetTypeImmediateAndResume ResetType = "ImmediateAndResume"
)

// ResetStatus answers a reset request.
type ResetStatus string

const (
	ResetStatusAccepted  ResetStatus = "Accepted"
	ResetStatusRejected  ResetStatus = "Rejected"
	ResetStatusScheduled ResetStatus = "Scheduled"
)

// ResetRequest resets the station or a single EVSE.
type ResetRequest struct {
	types.Extensions
	Type   ResetType `json:"type" validate:"required,resetType"`
	EvseID *int      `json:"evseId,omitempty" validate:"omitempty,gte=0"`
}

type ResetResponse struct {
	types.Extensions
	Status     ResetStatus       `json:"status" validate:"required,resetStatus"`
	StatusInfo *types.StatusInfo `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r ResetRequest) GetFeatureName() string  { return ResetFeatureName }
func (r ResetResponse) GetFeatureName() string { return ResetFeatureName }

func NewResetRequest(t ResetType) *ResetRequest {
	return &ResetRequest{Type: t}
}

func NewResetResponse(status ResetStatus) *ResetResponse {
	return &ResetResponse{Status: status}
}

func init() {
	ocpp.RegisterEnum("resetType", ResetTypeImmediate, ResetTypeOnIdle, ResetTypeImmediateAndResume)
	ocpp.RegisterEnum("resetStatus", ResetStatusAccepted, ResetStatusRejected, ResetStatusScheduled)
}
