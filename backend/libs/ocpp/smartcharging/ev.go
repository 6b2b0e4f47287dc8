package smartcharging

import (
	"time"

	"ocppnode/backend/libs/ocpp/types"
)

const (
	NotifyEVChargingNeedsFeatureName    = "NotifyEVChargingNeeds"
	NotifyEVChargingScheduleFeatureName = "NotifyEVChargingSchedule"
)

// ACChargingParameters are the EV's AC needs.
type ACChargingParameters struct {
	CustomData   *types.CustomData `json:"customData,omitempty"`
	EnergyAmount float64           `json:"energyAmount"`
	EVMinCurrent float64           `json:"evMinCurrent"`
	EVMaxCurrent float64           `json:"evMaxCurrent"`
	EVMaxVoltage float64           `json:"evMaxVoltage"`
}

// DCChargingParameters are the EV's DC needs.
type DCChargingParameters struct {
	CustomData       *types.CustomData `json:"customData,omitempty"`
	EVMaxCurrent     float64           `json:"evMaxCurrent"`
	EVMaxVoltage     float64           `json:"evMaxVoltage"`
	EVMaxPower       *float64          `json:"evMaxPower,omitempty"`
	EVEnergyCapacity *float64          `json:"evEnergyCapacity,omitempty"`
	EnergyAmount     *float64          `json:"energyAmount,omitempty"`
	StateOfCharge    *int              `json:"stateOfCharge,omitempty" validate:"omitempty,min=0,max=100"`
	FullSoC          *int              `json:"fullSoC,omitempty" validate:"omitempty,min=0,max=100"`
	BulkSoC          *int              `json:"bulkSoC,omitempty" validate:"omitempty,min=0,max=100"`
}

// V2XChargingParameters are the EV's bidirectional limits.
type V2XChargingParameters struct {
	CustomData            *types.CustomData `json:"customData,omitempty"`
	MinChargePower        *float64          `json:"minChargePower,omitempty"`
	MaxChargePower        *float64          `json:"maxChargePower,omitempty"`
	MinDischargePower     *float64          `json:"minDischargePower,omitempty"`
	MaxDischargePower     *float64          `json:"maxDischargePower,omitempty"`
	MinChargeCurrent      *float64          `json:"minChargeCurrent,omitempty"`
	MaxChargeCurrent      *float64          `json:"maxChargeCurrent,omitempty"`
	MinDischargeCurrent   *float64          `json:"minDischargeCurrent,omitempty"`
	MaxDischargeCurrent   *float64          `json:"maxDischargeCurrent,omitempty"`
	MinVoltage            *float64          `json:"minVoltage,omitempty"`
	MaxVoltage            *float64          `json:"maxVoltage,omitempty"`
	EVTargetEnergyRequest *float64          `json:"evTargetEnergyRequest,omitempty"`
	EVMinEnergyRequest    *float64          `json:"evMinEnergyRequest,omitempty"`
	EVMaxEnergyRequest    *float64          `json:"evMaxEnergyRequest,omitempty"`
}

// ChargingNeeds describes what the EV asks for.
type ChargingNeeds struct {
	CustomData              *types.CustomData          `json:"customData,omitempty"`
	RequestedEnergyTransfer types.EnergyTransferMode   `json:"requestedEnergyTransfer" validate:"required,energyTransferMode"`
	AvailableEnergyTransfer []types.EnergyTransferMode `json:"availableEnergyTransfer,omitempty" validate:"omitempty,dive,energyTransferMode"`
	ControlMode             string                     `json:"controlMode,omitempty" validate:"omitempty,oneof=ScheduledControl DynamicControl"`
	MobilityNeedsMode       string                     `json:"mobilityNeedsMode,omitempty" validate:"omitempty,oneof=EVCC EVCC_SECC"`
	DepartureTime           *time.Time                 `json:"departureTime,omitempty"`
	ACChargingParameters    *ACChargingParameters      `json:"acChargingParameters,omitempty" validate:"omitempty"`
	DCChargingParameters    *DCChargingParameters      `json:"dcChargingParameters,omitempty" validate:"omitempty"`
	V2XChargingParameters   *V2XChargingParameters     `json:"v2xChargingParameters,omitempty" validate:"omitempty"`
}

// NotifyEVChargingNeedsRequest forwards the EV's needs to the CSMS.
type NotifyEVChargingNeedsRequest struct {
	types.Extensions
	EvseID            int           `json:"evseId" validate:"gt=0"`
	MaxScheduleTuples *int          `json:"maxScheduleTuples,omitempty" validate:"omitempty,gte=0"`
	ChargingNeeds     ChargingNeeds `json:"chargingNeeds" validate:"required"`
	Timestamp         *time.Time    `json:"timestamp,omitempty"`
}

type NotifyEVChargingNeedsResponse struct {
	types.Extensions
	Status     NotifyEVChargingNeedsStatus `json:"status" validate:"required,notifyEVChargingNeedsStatus"`
	StatusInfo *types.StatusInfo           `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r NotifyEVChargingNeedsRequest) GetFeatureName() string {
	return NotifyEVChargingNeedsFeatureName
}

func (r NotifyEVChargingNeedsResponse) GetFeatureName() string {
	return NotifyEVChargingNeedsFeatureName
}

func NewNotifyEVChargingNeedsRequest(evseID int, needs ChargingNeeds) *NotifyEVChargingNeedsRequest {
	return &NotifyEVChargingNeedsRequest{EvseID: evseID, ChargingNeeds: needs}
}

func NewNotifyEVChargingNeedsResponse(status NotifyEVChargingNeedsStatus) *NotifyEVChargingNeedsResponse {
	return &NotifyEVChargingNeedsResponse{Status: status}
}

// NotifyEVChargingScheduleRequest reports the schedule negotiated with the EV.
type NotifyEVChargingScheduleRequest struct {
	types.Extensions
	TimeBase                   time.Time              `json:"timeBase" validate:"required"`
	ChargingSchedule           types.ChargingSchedule `json:"chargingSchedule" validate:"required"`
	EvseID                     int                    `json:"evseId" validate:"gt=0"`
	SelectedChargingScheduleID *int                   `json:"selectedChargingScheduleId,omitempty"`
	PowerToleranceAcceptance   *bool                  `json:"powerToleranceAcceptance,omitempty"`
}

type NotifyEVChargingScheduleResponse struct {
	types.Extensions
	Status     types.GenericStatus `json:"status" validate:"required,genericStatus"`
	StatusInfo *types.StatusInfo   `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r NotifyEVChargingScheduleRequest) GetFeatureName() string {
	return NotifyEVChargingScheduleFeatureName
}

func (r NotifyEVChargingScheduleResponse) GetFeatureName() string {
	return NotifyEVChargingScheduleFeatureName
}

func NewNotifyEVChargingScheduleRequest(timeBase time.Time, evseID int, schedule types.ChargingSchedule) *NotifyEVChargingScheduleRequest {
	return &NotifyEVChargingScheduleRequest{TimeBase: timeBase, EvseID: evseID, ChargingSchedule: schedule}
}

func NewNotifyEVChargingScheduleResponse(status types.GenericStatus) *NotifyEVChargingScheduleResponse {
	return &NotifyEVChargingScheduleResponse{Status: status}
}
