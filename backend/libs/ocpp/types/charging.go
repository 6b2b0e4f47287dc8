package types

import (
	"time"

	"ocppnode/backend/libs/ocpp"
)

// ChargingProfilePurpose of a charging profile.
type ChargingProfilePurpose string

const (
	ChargingProfilePurposeChargingStationExternalConstraints ChargingProfilePurpose = "ChargingStationExternalConstraints"
	ChargingProfilePurposeChargingStationMaxProfile          ChargingProfilePurpose = "ChargingStationMaxProfile"
	ChargingProfilePurposeTxDefaultProfile                   ChargingProfilePurpose = "TxDefaultProfile"
	ChargingProfilePurposeTxProfile                          ChargingProfilePurpose = "TxProfile"
	ChargingProfilePurposePriorityCharging                   ChargingProfilePurpose = "PriorityCharging"
	ChargingProfilePurposeLocalGeneration                    ChargingProfilePurpose = "LocalGeneration"
)

// ChargingProfileKind of a charging profile.
type ChargingProfileKind string

const (
	ChargingProfileKindAbsolute  ChargingProfileKind = "Absolute"
	ChargingProfileKindRecurring ChargingProfileKind = "Recurring"
	ChargingProfileKindRelative  ChargingProfileKind = "Relative"
	ChargingProfileKindDynamic   ChargingProfileKind = "Dynamic"
)

// RecurrencyKind of a recurring profile.
type RecurrencyKind string

const (
	RecurrencyKindDaily  RecurrencyKind = "Daily"
	RecurrencyKindWeekly RecurrencyKind = "Weekly"
)

// ChargingRateUnit of a charging schedule.
type ChargingRateUnit string

const (
	ChargingRateUnitWatts   ChargingRateUnit = "W"
	ChargingRateUnitAmperes ChargingRateUnit = "A"
)

// ChargingLimitSource names who imposed a limit.
type ChargingLimitSource string

const (
	ChargingLimitSourceEMS   ChargingLimitSource = "EMS"
	ChargingLimitSourceOther ChargingLimitSource = "Other"
	ChargingLimitSourceSO    ChargingLimitSource = "SO"
	ChargingLimitSourceCSO   ChargingLimitSource = "CSO"
)

// OperationMode of a charging schedule period (OCPP 2.1 bidirectional charging).
type OperationMode string

const (
	OperationModeIdle               OperationMode = "Idle"
	OperationModeChargingOnly       OperationMode = "ChargingOnly"
	OperationModeCentralSetpoint    OperationMode = "CentralSetpoint"
	OperationModeExternalSetpoint   OperationMode = "ExternalSetpoint"
	OperationModeExternalLimits     OperationMode = "ExternalLimits"
	OperationModeCentralFrequency   OperationMode = "CentralFrequency"
	OperationModeLocalFrequency     OperationMode = "LocalFrequency"
	OperationModeLocalLoadBalancing OperationMode = "LocalLoadBalancing"
)

// EnergyTransferMode requested by an EV.
type EnergyTransferMode string

const (
	EnergyTransferModeDC            EnergyTransferMode = "DC"
	EnergyTransferModeACSinglePhase EnergyTransferMode = "AC_single_phase"
	EnergyTransferModeACTwoPhase    EnergyTransferMode = "AC_two_phase"
	EnergyTransferModeACThreePhase  EnergyTransferMode = "AC_three_phase"
	EnergyTransferModeDCBPT         EnergyTransferMode = "DC_BPT"
	EnergyTransferModeACBPT         EnergyTransferMode = "AC_BPT"
	EnergyTransferModeACBPTDER      EnergyTransferMode = "AC_BPT_DER"
	EnergyTransferModeACDER         EnergyTransferMode = "AC_DER"
	EnergyTransferModeDCACDP        EnergyTransferMode = "DC_ACDP"
	EnergyTransferModeDCACDPBPT     EnergyTransferMode = "DC_ACDP_BPT"
)

// ChargingSchedulePeriod is one step of a charging schedule.
type ChargingSchedulePeriod struct {
	CustomData             *CustomData   `json:"customData,omitempty"`
	StartPeriod            int           `json:"startPeriod" validate:"gte=0"`
	Limit                  *float64      `json:"limit,omitempty"`
	LimitL2                *float64      `json:"limit_L2,omitempty"`
	LimitL3                *float64      `json:"limit_L3,omitempty"`
	NumberPhases           *int          `json:"numberPhases,omitempty" validate:"omitempty,min=0,max=3"`
	PhaseToUse             *int          `json:"phaseToUse,omitempty" validate:"omitempty,min=0,max=3"`
	DischargeLimit         *float64      `json:"dischargeLimit,omitempty" validate:"omitempty,lte=0"`
	Setpoint               *float64      `json:"setpoint,omitempty"`
	SetpointReactive       *float64      `json:"setpointReactive,omitempty"`
	PreconditioningRequest *bool         `json:"preconditioningRequest,omitempty"`
	EvseSleep              *bool         `json:"evseSleep,omitempty"`
	V2XBaseline            *float64      `json:"v2xBaseline,omitempty"`
	OperationMode          OperationMode `json:"operationMode,omitempty" validate:"omitempty,operationMode"`
}

// NewChargingSchedulePeriod returns a period with a single limit.
func NewChargingSchedulePeriod(startPeriod int, limit float64) ChargingSchedulePeriod {
	return ChargingSchedulePeriod{StartPeriod: startPeriod, Limit: &limit}
}

// ChargingSchedule is a list of periods with a rate unit.
type ChargingSchedule struct {
	CustomData             *CustomData              `json:"customData,omitempty"`
	ID                     int                      `json:"id"`
	StartSchedule          *time.Time               `json:"startSchedule,omitempty"`
	Duration               *int                     `json:"duration,omitempty"`
	ChargingRateUnit       ChargingRateUnit         `json:"chargingRateUnit" validate:"required,chargingRateUnit"`
	MinChargingRate        *float64                 `json:"minChargingRate,omitempty"`
	PowerTolerance         *float64                 `json:"powerTolerance,omitempty"`
	SignatureID            *int                     `json:"signatureId,omitempty" validate:"omitempty,gte=0"`
	DigestValue            string                   `json:"digestValue,omitempty" validate:"max=88"`
	UseLocalTime           *bool                    `json:"useLocalTime,omitempty"`
	RandomizedDelay        *int                     `json:"randomizedDelay,omitempty" validate:"omitempty,gte=0"`
	ChargingSchedulePeriod []ChargingSchedulePeriod `json:"chargingSchedulePeriod" validate:"required,min=1,max=1024,dive"`
}

// ChargingProfile limits the power or current of a station, EVSE or transaction.
type ChargingProfile struct {
	CustomData                  *CustomData            `json:"customData,omitempty"`
	ID                          int                    `json:"id"`
	StackLevel                  int                    `json:"stackLevel" validate:"gte=0"`
	ChargingProfilePurpose      ChargingProfilePurpose `json:"chargingProfilePurpose" validate:"required,chargingProfilePurpose"`
	ChargingProfileKind         ChargingProfileKind    `json:"chargingProfileKind" validate:"required,chargingProfileKind"`
	RecurrencyKind              RecurrencyKind         `json:"recurrencyKind,omitempty" validate:"omitempty,recurrencyKind"`
	ValidFrom                   *time.Time             `json:"validFrom,omitempty"`
	ValidTo                     *time.Time             `json:"validTo,omitempty"`
	TransactionID               string                 `json:"transactionId,omitempty" validate:"max=36"`
	MaxOfflineDuration          *int                   `json:"maxOfflineDuration,omitempty"`
	InvalidAfterOfflineDuration *bool                  `json:"invalidAfterOfflineDuration,omitempty"`
	DynUpdateInterval           *int                   `json:"dynUpdateInterval,omitempty"`
	DynUpdateTime               *time.Time             `json:"dynUpdateTime,omitempty"`
	PriceScheduleSignature      string                 `json:"priceScheduleSignature,omitempty" validate:"max=256"`
	ChargingSchedule            []ChargingSchedule     `json:"chargingSchedule" validate:"required,min=1,max=3,dive"`
}

// ChargingLimit describes the source of an externally imposed limit.
type ChargingLimit struct {
	CustomData          *CustomData         `json:"customData,omitempty"`
	ChargingLimitSource ChargingLimitSource `json:"chargingLimitSource" validate:"required,chargingLimitSource"`
	IsLocalGeneration   *bool               `json:"isLocalGeneration,omitempty"`
	IsGridCritical      *bool               `json:"isGridCritical,omitempty"`
}

func init() {
	ocpp.RegisterEnum("chargingProfilePurpose",
		ChargingProfilePurposeChargingStationExternalConstraints,
		ChargingProfilePurposeChargingStationMaxProfile,
		ChargingProfilePurposeTxDefaultProfile,
		ChargingProfilePurposeTxProfile,
		ChargingProfilePurposePriorityCharging,
		ChargingProfilePurposeLocalGeneration,
	)
	ocpp.RegisterEnum("chargingProfileKind",
		ChargingProfileKindAbsolute,
		ChargingProfileKindRecurring,
		ChargingProfileKindRelative,
		ChargingProfileKindDynamic,
	)
	ocpp.RegisterEnum("recurrencyKind", RecurrencyKindDaily, RecurrencyKindWeekly)
	ocpp.RegisterEnum("chargingRateUnit", ChargingRateUnitWatts, ChargingRateUnitAmperes)
	ocpp.RegisterEnum("chargingLimitSource",
		ChargingLimitSourceEMS,
		ChargingLimitSourceOther,
		ChargingLimitSourceSO,
		ChargingLimitSourceCSO,
	)
	ocpp.RegisterEnum("operationMode",
		OperationModeIdle,
		OperationModeChargingOnly,
		OperationModeCentralSetpoint,
		OperationModeExternalSetpoint,
		OperationModeExternalLimits,
		OperationModeCentralFrequency,
		OperationModeLocalFrequency,
		OperationModeLocalLoadBalancing,
	)
	ocpp.RegisterEnum("energyTransferMode",
		EnergyTransferModeDC,
		EnergyTransferModeACSinglePhase,
		EnergyTransferModeACTwoPhase,
		EnergyTransferModeACThreePhase,
		EnergyTransferModeDCBPT,
		EnergyTransferModeACBPT,
		EnergyTransferModeACBPTDER,
		EnergyTransferModeACDER,
		EnergyTransferModeDCACDP,
		EnergyTransferModeDCACDPBPT,
	)
}
