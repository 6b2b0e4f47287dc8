package smartcharging

import (
	"time"

	"ocppnode/backend/libs/ocpp/types"
)

const (
	GetCompositeScheduleFeatureName = "GetCompositeSchedule"
	NotifyChargingLimitFeatureName  = "NotifyChargingLimit"
	ClearedChargingLimitFeatureName = "ClearedChargingLimit"
)

// CompositeSchedule is the schedule resulting from all active profiles.
type CompositeSchedule struct {
	CustomData             *types.CustomData              `json:"customData,omitempty"`
	EvseID                 int                            `json:"evseId" validate:"gte=0"`
	Duration               int                            `json:"duration"`
	ScheduleStart          time.Time                      `json:"scheduleStart" validate:"required"`
	ChargingRateUnit       types.ChargingRateUnit         `json:"chargingRateUnit" validate:"required,chargingRateUnit"`
	ChargingSchedulePeriod []types.ChargingSchedulePeriod `json:"chargingSchedulePeriod" validate:"required,min=1,dive"`
}

// GetCompositeScheduleRequest asks for the effective schedule of an EVSE.
type GetCompositeScheduleRequest struct {
	types.Extensions
	Duration         int                    `json:"duration"`
	ChargingRateUnit types.ChargingRateUnit `json:"chargingRateUnit,omitempty" validate:"omitempty,chargingRateUnit"`
	EvseID           int                    `json:"evseId" validate:"gte=0"`
}

type GetCompositeScheduleResponse struct {
	types.Extensions
	Status     types.GenericStatus `json:"status" validate:"required,genericStatus"`
	StatusInfo *types.StatusInfo   `json:"statusInfo,omitempty" validate:"omitempty"`
	Schedule   *CompositeSchedule  `json:"schedule,omitempty" validate:"omitempty"`
}

func (r GetCompositeScheduleRequest) GetFeatureName() string  { return GetCompositeScheduleFeatureName }
func (r GetCompositeScheduleResponse) GetFeatureName() string { return GetCompositeScheduleFeatureName }

func NewGetCompositeScheduleRequest(duration, evseID int) *GetCompositeScheduleRequest {
	return &GetCompositeScheduleRequest{Duration: duration, EvseID: evseID}
}

func NewGetCompositeScheduleResponse(status types.GenericStatus) *GetCompositeScheduleResponse {
	return &GetCompositeScheduleResponse{Status: status}
}

// NotifyChargingLimitRequest reports a limit set by an external system.
type NotifyChargingLimitRequest struct {
	types.Extensions
	EvseID           *int                     `json:"evseId,omitempty" validate:"omitempty,gte=0"`
	ChargingLimit    types.ChargingLimit      `json:"chargingLimit" validate:"required"`
	ChargingSchedule []types.ChargingSchedule `json:"chargingSchedule,omitempty" validate:"omitempty,dive"`
}

type NotifyChargingLimitResponse struct {
	types.Extensions
}

func (r NotifyChargingLimitRequest) GetFeatureName() string  { return NotifyChargingLimitFeatureName }
func (r NotifyChargingLimitResponse) GetFeatureName() string { return NotifyChargingLimitFeatureName }

func NewNotifyChargingLimitRequest(limit types.ChargingLimit) *NotifyChargingLimitRequest {
	return &NotifyChargingLimitRequest{ChargingLimit: limit}
}

func NewNotifyChargingLimitResponse() *NotifyChargingLimitResponse {
	return &NotifyChargingLimitResponse{}
}

// ClearedChargingLimitRequest reports that an external limit was released.
type ClearedChargingLimitRequest struct {
	types.Extensions
	ChargingLimitSource types.ChargingLimitSource `json:"chargingLimitSource" validate:"required,chargingLimitSource"`
	EvseID              *int                      `json:"evseId,omitempty" validate:"omitempty,gte=0"`
}

type ClearedChargingLimitResponse struct {
	types.Extensions
}

func (r ClearedChargingLimitRequest) GetFeatureName() string  { return ClearedChargingLimitFeatureName }
func (r ClearedChargingLimitResponse) GetFeatureName() string { return ClearedChargingLimitFeatureName }

func NewClearedChargingLimitRequest(source types.ChargingLimitSource) *ClearedChargingLimitRequest {
	return &ClearedChargingLimitRequest{ChargingLimitSource: source}
}

func NewClearedChargingLimitResponse() *ClearedChargingLimitResponse {
	return &ClearedChargingLimitResponse{}
}
