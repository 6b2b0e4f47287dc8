// Package der contains the OCPP 2.1 distributed energy resource control block.
package der

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const ProfileName = "der"

const (
	SetDERControlFeatureName      = "SetDERControl"
	GetDERControlFeatureName      = "GetDERControl"
	ClearDERControlFeatureName    = "ClearDERControl"
	ReportDERControlFeatureName   = "ReportDERControl"
	NotifyDERAlarmFeatureName     = "NotifyDERAlarm"
	NotifyDERStartStopFeatureName = "NotifyDERStartStop"
)

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[SetDERControlRequest, SetDERControlResponse](SetDERControlFeatureName),
	ocpp.NewFeature[GetDERControlRequest, GetDERControlResponse](GetDERControlFeatureName),
	ocpp.NewFeature[ClearDERControlRequest, ClearDERControlResponse](ClearDERControlFeatureName),
	ocpp.NewFeature[ReportDERControlRequest, ReportDERControlResponse](ReportDERControlFeatureName),
	ocpp.NewFeature[NotifyDERAlarmRequest, NotifyDERAlarmResponse](NotifyDERAlarmFeatureName),
	ocpp.NewFeature[NotifyDERStartStopRequest, NotifyDERStartStopResponse](NotifyDERStartStopFeatureName),
)

// DERControlType names a DER control function.
type DERControlType string

const (
	DERControlEnterService            DERControlType = "EnterService"
	DERControlFreqDroop               DERControlType = "FreqDroop"
	DERControlFreqWatt                DERControlType = "FreqWatt"
	DERControlFixedPFAbsorb           DERControlType = "FixedPFAbsorb"
	DERControlFixedPFInject           DERControlType = "FixedPFInject"
	DERControlFixedVar                DERControlType = "FixedVar"
	DERControlGradients               DERControlType = "Gradients"
	DERControlHFMustTrip              DERControlType = "HFMustTrip"
	DERControlHFMayTrip               DERControlType = "HFMayTrip"
	DERControlHVMustTrip              DERControlType = "HVMustTrip"
	DERControlHVMomCess               DERControlType = "HVMomCess"
	DERControlHVMayTrip               DERControlType = "HVMayTrip"
	DERControlLimitMaxDischarge       DERControlType = "LimitMaxDischarge"
	DERControlLFMustTrip              DERControlType = "LFMustTrip"
	DERControlLVMustTrip              DERControlType = "LVMustTrip"
	DERControlLVMomCess               DERControlType = "LVMomCess"
	DERControlLVMayTrip               DERControlType = "LVMayTrip"
	DERControlPowerMonitoringMustTrip DERControlType = "PowerMonitoringMustTrip"
	DERControlVoltVar                 DERControlType = "VoltVar"
	DERControlVoltWatt                DERControlType = "VoltWatt"
	DERControlWattPF                  DERControlType = "WattPF"
	DERControlWattVar                 DERControlType = "WattVar"
)

// DERControlStatus answers DER control requests.
type DERControlStatus string

const (
	DERControlStatusAccepted     DERControlStatus = "Accepted"
	DERControlStatusRejected     DERControlStatus = "Rejected"
	DERControlStatusNotSupported DERControlStatus = "NotSupported"
	DERControlStatusNotFound     DERControlStatus = "NotFound"
)

// GridEventFault reported by NotifyDERAlarm.
type GridEventFault string

const (
	GridEventCurrentImbalance GridEventFault = "CurrentImbalance"
	GridEventLocalEmergency   GridEventFault = "LocalEmergency"
	GridEventLowInputPower    GridEventFault = "LowInputPower"
	GridEventOverCurrent      GridEventFault = "OverCurrent"
	GridEventOverFrequency    GridEventFault = "OverFrequency"
	GridEventOverVoltage      GridEventFault = "OverVoltage"
	GridEventPhaseRotation    GridEventFault = "PhaseRotation"
	GridEventRemoteEmergency  GridEventFault = "RemoteEmergency"
	GridEventUnderFrequency   GridEventFault = "UnderFrequency"
	GridEventUnderVoltage     GridEventFault = "UnderVoltage"
	GridEventVoltageImbalance GridEventFault = "VoltageImbalance"
)

// DERCurvePoint is one x/y point of a DER curve.
type DERCurvePoint struct {
	CustomData *types.CustomData `json:"customData,omitempty"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
}

// DERCurve is a curve based DER control.
type DERCurve struct {
	CustomData   *types.CustomData `json:"customData,omitempty"`
	CurveData    []DERCurvePoint   `json:"curveData" validate:"required,min=1,max=10,dive"`
	Priority     int               `json:"priority" validate:"gte=0"`
	YUnit        string            `json:"yUnit" validate:"required,oneof=Not_Applicable PctMaxW PctMaxVar PctWAvail PctVarAvail PctEffectiveV"`
	ResponseTime *float64          `json:"responseTime,omitempty"`
	StartTime    *time.Time        `json:"startTime,omitempty"`
	Duration     *float64          `json:"duration,omitempty"`
}

// FixedPF is a fixed power factor setting.
type FixedPF struct {
	CustomData   *types.CustomData `json:"customData,omitempty"`
	Priority     int               `json:"priority" validate:"gte=0"`
	Displacement float64           `json:"displacement"`
	Excitation   bool              `json:"excitation"`
	StartTime    *time.Time        `json:"startTime,omitempty"`
	Duration     *float64          `json:"duration,omitempty"`
}

// FixedVar is a fixed reactive power setting.
type FixedVar struct {
	CustomData *types.CustomData `json:"customData,omitempty"`
	Priority   int               `json:"priority" validate:"gte=0"`
	Setpoint   float64           `json:"setpoint"`
	Unit       string            `json:"unit" validate:"required"`
	StartTime  *time.Time        `json:"startTime,omitempty"`
	Duration   *float64          `json:"duration,omitempty"`
}

// LimitMaxDischarge caps discharge power.
type LimitMaxDischarge struct {
	CustomData           *types.CustomData `json:"customData,omitempty"`
	Priority             int               `json:"priority" validate:"gte=0"`
	PctMaxDischargePower *float64          `json:"pctMaxDischargePower,omitempty"`
	StartTime            *time.Time        `json:"startTime,omitempty"`
	Duration             *float64          `json:"duration,omitempty"`
}

// EnterService sets the conditions to (re)connect to the grid.
type EnterService struct {
	CustomData  *types.CustomData `json:"customData,omitempty"`
	Priority    int               `json:"priority" validate:"gte=0"`
	HighVoltage float64           `json:"highVoltage"`
	LowVoltage  float64           `json:"lowVoltage"`
	HighFreq    float64           `json:"highFreq"`
	LowFreq     float64           `json:"lowFreq"`
	Delay       *float64          `json:"delay,omitempty"`
	RandomDelay *float64          `json:"randomDelay,omitempty"`
	RampRate    *float64          `json:"rampRate,omitempty"`
}

// Gradient limits the rate of change of power.
type Gradient struct {
	CustomData   *types.CustomData `json:"customData,omitempty"`
	Priority     int               `json:"priority" validate:"gte=0"`
	Gradient     float64           `json:"gradient"`
	SoftGradient float64           `json:"softGradient"`
}

// FreqDroop is a frequency droop control.
type FreqDroop struct {
	CustomData   *types.CustomData `json:"customData,omitempty"`
	Priority     int               `json:"priority" validate:"gte=0"`
	OverFreq     float64           `json:"overFreq"`
	UnderFreq    float64           `json:"underFreq"`
	OverDroop    float64           `json:"overDroop"`
	UnderDroop   float64           `json:"underDroop"`
	ResponseTime float64           `json:"responseTime"`
	StartTime    *time.Time        `json:"startTime,omitempty"`
	Duration     *float64          `json:"duration,omitempty"`
}

func init() {
	ocpp.RegisterEnum("derControlType",
		DERControlEnterService,
		DERControlFreqDroop,
		DERControlFreqWatt,
		DERControlFixedPFAbsorb,
		DERControlFixedPFInject,
		DERControlFixedVar,
		DERControlGradients,
		DERControlHFMustTrip,
		DERControlHFMayTrip,
		DERControlHVMustTrip,
		DERControlHVMomCess,
		DERControlHVMayTrip,
		DERControlLimitMaxDischarge,
		DERControlLFMustTrip,
		DERControlLVMustTrip,
		DERControlLVMomCess,
		DERControlLVMayTrip,
		DERControlPowerMonitoringMustTrip,
		DERControlVoltVar,
		DERControlVoltWatt,
		DERControlWattPF,
		DERControlWattVar,
	)
	ocpp.RegisterEnum("derControlStatus",
		DERControlStatusAccepted,
		DERControlStatusRejected,
		DERControlStatusNotSupported,
		DERControlStatusNotFound,
	)
	ocpp.RegisterEnum("gridEventFault",
		GridEventCurrentImbalance,
		GridEventLocalEmergency,
		GridEventLowInputPower,
		GridEventOverCurrent,
		GridEventOverFrequency,
		GridEventOverVoltage,
		GridEventPhaseRotation,
		GridEventRemoteEmergency,
		GridEventUnderFrequency,
		GridEventUnderVoltage,
		GridEventVoltageImbalance,
	)
}
