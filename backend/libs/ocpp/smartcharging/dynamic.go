package smartcharging

import "ocppnode/backend/libs/ocpp/types"

const (
	UpdateDynamicScheduleFeatureName     = "UpdateDynamicSchedule"
	PullDynamicScheduleUpdateFeatureName = "PullDynamicScheduleUpdate"
	UsePriorityChargingFeatureName       = "UsePriorityCharging"
	NotifyPriorityChargingFeatureName    = "NotifyPriorityCharging"
)

// ChargingScheduleUpdate holds new setpoints for a dynamic profile.
type ChargingScheduleUpdate struct {
	CustomData       *types.CustomData `json:"customData,omitempty"`
	Limit            *float64          `json:"limit,omitempty"`
	LimitL2          *float64          `json:"limit_L2,omitempty"`
	LimitL3          *float64          `json:"limit_L3,omitempty"`
	DischargeLimit   *float64          `json:"dischargeLimit,omitempty" validate:"omitempty,lte=0"`
	DischargeLimitL2 *float64          `json:"dischargeLimit_L2,omitempty" validate:"omitempty,lte=0"`
	DischargeLimitL3 *float64          `json:"dischargeLimit_L3,omitempty" validate:"omitempty,lte=0"`
	Setpoint         *float64          `json:"setpoint,omitempty"`
	SetpointL2       *float64          `json:"setpoint_L2,omitempty"`
	SetpointL3       *float64          `json:"setpoint_L3,omitempty"`
	SetpointReactive *float64          `json:"setpointReactive,omitempty"`
}

// UpdateDynamicScheduleRequest pushes new values to a dynamic profile.
type UpdateDynamicScheduleRequest struct {
	types.Extensions
	ChargingProfileID int                    `json:"chargingProfileId"`
	ScheduleUpdate    ChargingScheduleUpdate `json:"scheduleUpdate" validate:"required"`
}

type UpdateDynamicScheduleResponse struct {
	types.Extensions
	Status     ChargingProfileStatus `json:"status" validate:"required,chargingProfileStatus"`
	StatusInfo *types.StatusInfo     `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r UpdateDynamicScheduleRequest) GetFeatureName() string {
	return UpdateDynamicScheduleFeatureName
}

func (r UpdateDynamicScheduleResponse) GetFeatureName() string {
	return UpdateDynamicScheduleFeatureName
}

func NewUpdateDynamicScheduleRequest(profileID int, update ChargingScheduleUpdate) *UpdateDynamicScheduleRequest {
	return &UpdateDynamicScheduleRequest{ChargingProfileID: profileID, ScheduleUpdate: update}
}

func NewUpdateDynamicScheduleResponse(status ChargingProfileStatus) *UpdateDynamicScheduleResponse {
	return &UpdateDynamicScheduleResponse{Status: status}
}

// PullDynamicScheduleUpdateRequest is sent by the station to fetch new values.
type PullDynamicScheduleUpdateRequest struct {
	types.Extensions
	ChargingProfileID int `json:"chargingProfileId"`
}

type PullDynamicScheduleUpdateResponse struct {
	types.Extensions
	ScheduleUpdate *ChargingScheduleUpdate `json:"scheduleUpdate,omitempty" validate:"omitempty"`
	Status         ChargingProfileStatus   `json:"status" validate:"required,chargingProfileStatus"`
	StatusInfo     *types.StatusInfo       `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r PullDynamicScheduleUpdateRequest) GetFeatureName() string {
	return PullDynamicScheduleUpdateFeatureName
}

func (r PullDynamicScheduleUpdateResponse) GetFeatureName() string {
	return PullDynamicScheduleUpdateFeatureName
}

func NewPullDynamicScheduleUpdateRequest(profileID int) *PullDynamicScheduleUpdateRequest {
	return &PullDynamicScheduleUpdateRequest{ChargingProfileID: profileID}
}

func NewPullDynamicScheduleUpdateResponse(status ChargingProfileStatus) *PullDynamicScheduleUpdateResponse {
	return &PullDynamicScheduleUpdateResponse{Status: status}
}

// UsePriorityChargingRequest switches a transaction to or from priority charging.
type UsePriorityChargingRequest struct {
	types.Extensions
	TransactionID string `json:"transactionId" validate:"required,max=36"`
	Activate      bool   `json:"activate"`
}

type UsePriorityChargingResponse struct {
	types.Extensions
	Status     PriorityChargingStatus `json:"status" validate:"required,priorityChargingStatus"`
	StatusInfo *types.StatusInfo      `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r UsePriorityChargingRequest) GetFeatureName() string  { return UsePriorityChargingFeatureName }
func (r UsePriorityChargingResponse) GetFeatureName() string { return UsePriorityChargingFeatureName }

func NewUsePriorityChargingRequest(transactionID string, activate bool) *UsePriorityChargingRequest {
	return &UsePriorityChargingRequest{TransactionID: transactionID, Activate: activate}
}

func NewUsePriorityChargingResponse(status PriorityChargingStatus) *UsePriorityChargingResponse {
	return &UsePriorityChargingResponse{Status: status}
}

// NotifyPriorityChargingRequest reports a priority charging change made locally.
type NotifyPriorityChargingRequest struct {
	types.Extensions
	TransactionID string `json:"transactionId" validate:"required,max=36"`
	Activated     bool   `json:"activated"`
}

type NotifyPriorityChargingResponse struct {
	types.Extensions
}

func (r NotifyPriorityChargingRequest) GetFeatureName() string {
	return NotifyPriorityChargingFeatureName
}

func (r NotifyPriorityChargingResponse) GetFeatureName() string {
	return NotifyPriorityChargingFeatureName
}

func NewNotifyPriorityChargingRequest(transactionID string, activated bool) *NotifyPriorityChargingRequest {
	return &NotifyPriorityChargingRequest{TransactionID: transactionID, Activated: activated}
}

func NewNotifyPriorityChargingResponse() *NotifyPriorityChargingResponse {
	return &NotifyPriorityChargingResponse{}
}
