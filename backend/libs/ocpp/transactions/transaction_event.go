package transactions

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const TransactionEventFeatureName = "TransactionEvent"

// TransactionEventType marks the start, an update or the end of a transaction.
type TransactionEventType string

const (
	TransactionEventStarted TransactionEventType = "Started"
	TransactionEventUpdated TransactionEventType = "Updated"
	TransactionEventEnded   TransactionEventType = "Ended"
)

// TriggerReason explains what caused a transaction event.
type TriggerReason string

const (
	TriggerReasonAbnormalCondition    TriggerReason = "AbnormalCondition"
	TriggerReasonAuthorized           TriggerReason = "Authorized"
	TriggerReasonCablePluggedIn       TriggerReason = "CablePluggedIn"
	TriggerReasonChargingRateChanged  TriggerReason = "ChargingRateChanged"
	TriggerReasonChargingStateChanged TriggerReason = "ChargingStateChanged"
	TriggerReasonCostLimitReached     TriggerReason = "CostLimitReached"
	TriggerReasonDeauthorized         TriggerReason = "Deauthorized"
	TriggerReasonEnergyLimitReached   TriggerReason = "EnergyLimitReached"
	TriggerReasonEVCommunicationLost  TriggerReason = "EVCommunicationLost"
	TriggerReasonEVConnectTimeout     TriggerReason = "EVConnectTimeout"
	TriggerReasonEVDeparted           TriggerReason = "EVDeparted"
	TriggerReasonEVDetected           TriggerReason = "EVDetected"
	TriggerReasonLimitSet             TriggerReason = "LimitSet"
	TriggerReasonMeterValueClock      TriggerReason = "MeterValueClock"
	TriggerReasonMeterValuePeriodic   TriggerReason = "MeterValuePeriodic"
	TriggerReasonOperationModeChanged TriggerReason = "OperationModeChanged"
	TriggerReasonRemoteStart          TriggerReason = "RemoteStart"
	TriggerReasonRemoteStop           TriggerReason = "RemoteStop"
	TriggerReasonResetCommand         TriggerReason = "ResetCommand"
	TriggerReasonRunningCost          TriggerReason = "RunningCost"
	TriggerReasonSignedDataReceived   TriggerReason = "SignedDataReceived"
	TriggerReasonSoCLimitReached      TriggerReason = "SoCLimitReached"
	TriggerReasonStopAuthorized       TriggerReason = "StopAuthorized"
	TriggerReasonTariffChanged        TriggerReason = "TariffChanged"
	TriggerReasonTariffNotAccepted    TriggerReason = "TariffNotAccepted"
	TriggerReasonTimeLimitReached     TriggerReason = "TimeLimitReached"
	TriggerReasonTrigger              TriggerReason = "Trigger"
	TriggerReasonTxResumed            TriggerReason = "TxResumed"
	TriggerReasonUnlockCommand        TriggerReason = "UnlockCommand"
)

// ChargingState of a transaction.
type ChargingState string

const (
	ChargingStateEVConnected   ChargingState = "EVConnected"
	ChargingStateCharging      ChargingState = "Charging"
	ChargingStateSuspendedEV   ChargingState = "SuspendedEV"
	ChargingStateSuspendedEVSE ChargingState = "SuspendedEVSE"
	ChargingStateIdle          ChargingState = "Idle"
)

// Reason a transaction stopped.
type Reason string

const (
	ReasonDeAuthorized              Reason = "DeAuthorized"
	ReasonEmergencyStop             Reason = "EmergencyStop"
	ReasonEnergyLimitReached        Reason = "EnergyLimitReached"
	ReasonEVDisconnected            Reason = "EVDisconnected"
	ReasonGroundFault               Reason = "GroundFault"
	ReasonImmediateReset            Reason = "ImmediateReset"
	ReasonLocal                     Reason = "Local"
	ReasonLocalOutOfCredit          Reason = "LocalOutOfCredit"
	ReasonMasterPass                Reason = "MasterPass"
	ReasonOther                     Reason = "Other"
	ReasonOvercurrentFault          Reason = "OvercurrentFault"
	ReasonPowerLoss                 Reason = "PowerLoss"
	ReasonPowerQuality              Reason = "PowerQuality"
	ReasonReboot                    Reason = "Reboot"
	ReasonRemote                    Reason = "Remote"
	ReasonSOCLimitReached           Reason = "SOCLimitReached"
	ReasonStoppedByEV               Reason = "StoppedByEV"
	ReasonTimeLimitReached          Reason = "TimeLimitReached"
	ReasonTimeout                   Reason = "Timeout"
	ReasonReqEnergyTransferRejected Reason = "ReqEnergyTransferRejected"
)

// Transaction describes the transaction an event belongs to.
type Transaction struct {
	CustomData        *types.CustomData   `json:"customData,omitempty"`
	TransactionID     string              `json:"transactionId" validate:"required,max=36"`
	ChargingState     ChargingState       `json:"chargingState,omitempty" validate:"omitempty,chargingState"`
	TimeSpentCharging *int                `json:"timeSpentCharging,omitempty"`
	StoppedReason     Reason              `json:"stoppedReason,omitempty" validate:"omitempty,reason"`
	RemoteStartID     *int                `json:"remoteStartId,omitempty"`
	OperationMode     types.OperationMode `json:"operationMode,omitempty" validate:"omitempty,operationMode"`
	TariffID          string              `json:"tariffId,omitempty" validate:"max=60"`
}

// TransactionEventRequest reports a transaction event.
type TransactionEventRequest struct {
	types.Extensions
	EventType          TransactionEventType `json:"eventType" validate:"required,transactionEventType"`
	Timestamp          time.Time            `json:"timestamp" validate:"required"`
	TriggerReason      TriggerReason        `json:"triggerReason" validate:"required,triggerReason"`
	SeqNo              int                  `json:"seqNo" validate:"gte=0"`
	Offline            bool                 `json:"offline,omitempty"`
	NumberOfPhasesUsed *int                 `json:"numberOfPhasesUsed,omitempty" validate:"omitempty,min=0,max=3"`
	CableMaxCurrent    *int                 `json:"cableMaxCurrent,omitempty"`
	ReservationID      *int                 `json:"reservationId,omitempty"`
	TransactionInfo    Transaction          `json:"transactionInfo" validate:"required"`
	EVSE               *types.EVSE          `json:"evse,omitempty" validate:"omitempty"`
	IdToken            *types.IdToken       `json:"idToken,omitempty" validate:"omitempty"`
	MeterValue         []types.MeterValue   `json:"meterValue,omitempty" validate:"omitempty,dive"`
}

// TransactionEventResponse may carry authorization info and a running cost.
type TransactionEventResponse struct {
	types.Extensions
	TotalCost              *float64              `json:"totalCost,omitempty"`
	ChargingPriority       *int                  `json:"chargingPriority,omitempty" validate:"omitempty,min=-9,max=9"`
	IdTokenInfo            *types.IdTokenInfo    `json:"idTokenInfo,omitempty" validate:"omitempty"`
	UpdatedPersonalMessage *types.MessageContent `json:"updatedPersonalMessage,omitempty" validate:"omitempty"`
}

func (r TransactionEventRequest) GetFeatureName() string  { return TransactionEventFeatureName }
func (r TransactionEventResponse) GetFeatureName() string { return TransactionEventFeatureName }

func NewTransactionEventRequest(eventType TransactionEventType, timestamp time.Time, reason TriggerReason, seqNo int, info Transaction) *TransactionEventRequest {
	return &TransactionEventRequest{
		EventType:       eventType,
		Timestamp:       timestamp,
		TriggerReason:   reason,
		SeqNo:           seqNo,
		TransactionInfo: info,
	}
}

func NewTransactionEventResponse() *TransactionEventResponse {
	return &TransactionEventResponse{}
}

func init() {
	ocpp.RegisterEnum("transactionEventType", TransactionEventStarted, TransactionEventUpdated, TransactionEventEnded)
	ocpp.RegisterEnum("triggerReason",
		TriggerReasonAbnormalCondition,
		TriggerReasonAuthorized,
		TriggerReasonCablePluggedIn,
		TriggerReasonChargingRateChanged,
		TriggerReasonChargingStateChanged,
		TriggerReasonCostLimitReached,
		TriggerReasonDeauthorized,
		TriggerReasonEnergyLimitReached,
		TriggerReasonEVCommunicationLost,
		TriggerReasonEVConnectTimeout,
		TriggerReasonEVDeparted,
		TriggerReasonEVDetected,
		TriggerReasonLimitSet,
		TriggerReasonMeterValueClock,
		TriggerReasonMeterValuePeriodic,
		TriggerReasonOperationModeChanged,
		TriggerReasonRemoteStart,
		TriggerReasonRemoteStop,
		TriggerReasonResetCommand,
		TriggerReasonRunningCost,
		TriggerReasonSignedDataReceived,
		TriggerReasonSoCLimitReached,
		TriggerReasonStopAuthorized,
		TriggerReasonTariffChanged,
		TriggerReasonTariffNotAccepted,
		TriggerReasonTimeLimitReached,
		TriggerReasonTrigger,
		TriggerReasonTxResumed,
		TriggerReasonUnlockCommand,
	)
	ocpp.RegisterEnum("chargingState",
		ChargingStateEVConnected,
		ChargingStateCharging,
		ChargingStateSuspendedEV,
		ChargingStateSuspendedEVSE,
		ChargingStateIdle,
	)
	ocpp.RegisterEnum("reason",
		ReasonDeAuthorized,
		ReasonEmergencyStop,
		ReasonEnergyLimitReached,
		ReasonEVDisconnected,
		ReasonGroundFault,
		ReasonImmediateReset,
		ReasonLocal,
		ReasonLocalOutOfCredit,
		ReasonMasterPass,
		ReasonOther,
		ReasonOvercurrentFault,
		ReasonPowerLoss,
		ReasonPowerQuality,
		ReasonReboot,
		ReasonRemote,
		ReasonSOCLimitReached,
		ReasonStoppedByEV,
		ReasonTimeLimitReached,
		ReasonTimeout,
		ReasonReqEnergyTransferRejected,
	)
}
