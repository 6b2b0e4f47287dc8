// Package remotecontrol contains the OCPP 2.1 remote control functional block.
package remotecontrol

import (
	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const ProfileName = "remotecontrol"

const (
	RequestStartTransactionFeatureName = "RequestStartTransaction"
	RequestStopTransactionFeatureName  = "RequestStopTransaction"
	TriggerMessageFeatureName          = "TriggerMessage"
	UnlockConnectorFeatureName         = "UnlockConnector"
)

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[RequestStartTransactionRequest, RequestStartTransactionResponse](RequestStartTransactionFeatureName),
	ocpp.NewFeature[RequestStopTransactionRequest, RequestStopTransactionResponse](RequestStopTransactionFeatureName),
	ocpp.NewFeature[TriggerMessageRequest, TriggerMessageResponse](TriggerMessageFeatureName),
	ocpp.NewFeature[UnlockConnectorRequest, UnlockConnectorResponse](UnlockConnectorFeatureName),
)

// RequestStartStopStatus answers remote start and stop.
type RequestStartStopStatus string

const (
	RequestStartStopStatusAccepted RequestStartStopStatus = "Accepted"
	RequestStartStopStatusRejected RequestStartStopStatus = "Rejected"
)

// MessageTrigger names the message a station is asked to send.
type MessageTrigger string

const (
	MessageTriggerBootNotification                  MessageTrigger = "BootNotification"
	MessageTriggerLogStatusNotification             MessageTrigger = "LogStatusNotification"
	MessageTriggerFirmwareStatusNotification        MessageTrigger = "FirmwareStatusNotification"
	MessageTriggerHeartbeat                         MessageTrigger = "Heartbeat"
	MessageTriggerMeterValues                       MessageTrigger = "MeterValues"
	MessageTriggerSignChargingStationCertificate    MessageTrigger = "SignChargingStationCertificate"
	MessageTriggerSignV2GCertificate                MessageTrigger = "SignV2GCertificate"
	MessageTriggerSignV2G20Certificate              MessageTrigger = "SignV2G20Certificate"
	MessageTriggerStatusNotification                MessageTrigger = "StatusNotification"
	MessageTriggerTransactionEvent                  MessageTrigger = "TransactionEvent"
	MessageTriggerSignCombinedCertificate           MessageTrigger = "SignCombinedCertificate"
	MessageTriggerPublishFirmwareStatusNotification MessageTrigger = "PublishFirmwareStatusNotification"
	MessageTriggerCustomTrigger                     MessageTrigger = "CustomTrigger"
)

// TriggerMessageStatus answers TriggerMessage.
type TriggerMessageStatus string

const (
	TriggerMessageStatusAccepted       TriggerMessageStatus = "Accepted"
	TriggerMessageStatusRejected       TriggerMessageStatus = "Rejected"
	TriggerMessageStatusNotImplemented TriggerMessageStatus = "NotImplemented"
)

// UnlockStatus answers UnlockConnector.
type UnlockStatus string

const (
	UnlockStatusUnlocked                     UnlockStatus = "Unlocked"
	UnlockStatusUnlockFailed                 UnlockStatus = "UnlockFailed"
	UnlockStatusOngoingAuthorizedTransaction UnlockStatus = "OngoingAuthorizedTransaction"
	UnlockStatusUnknownConnector             UnlockStatus = "UnknownConnector"
)

// RequestStartTransactionRequest asks the station to start a transaction.
type RequestStartTransactionRequest struct {
	types.Extensions
	EvseID          *int                   `json:"evseId,omitempty" validate:"omitempty,gt=0"`
	RemoteStartID   int                    `json:"remoteStartId"`
	IdToken         types.IdToken          `json:"idToken" validate:"required"`
	GroupIdToken    *types.IdToken         `json:"groupIdToken,omitempty" validate:"omitempty"`
	ChargingProfile *types.ChargingProfile `json:"chargingProfile,omitempty" validate:"omitempty"`
}

type RequestStartTransactionResponse struct {
	types.Extensions
	Status        RequestStartStopStatus `json:"status" validate:"required,requestStartStopStatus"`
	TransactionID string                 `json:"transactionId,omitempty" validate:"max=36"`
	StatusInfo    *types.StatusInfo      `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r RequestStartTransactionRequest) GetFeatureName() string {
	return RequestStartTransactionFeatureName
}

func (r RequestStartTransactionResponse) GetFeatureName() string {
	return RequestStartTransactionFeatureName
}

func NewRequestStartTransactionRequest(remoteStartID int, idToken types.IdToken) *RequestStartTransactionRequest {
	return &RequestStartTransactionRequest{RemoteStartID: remoteStartID, IdToken: idToken}
}

func NewRequestStartTransactionResponse(status RequestStartStopStatus) *RequestStartTransactionResponse {
	return &RequestStartTransactionResponse{Status: status}
}

// RequestStopTransactionRequest asks the station to stop a transaction.
type RequestStopTransactionRequest struct {
	types.Extensions
	TransactionID string `json:"transactionId" validate:"required,max=36"`
}

type RequestStopTransactionResponse struct {
	types.Extensions
	Status     RequestStartStopStatus `json:"status" validate:"required,requestStartStopStatus"`
	StatusInfo *types.StatusInfo      `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r RequestStopTransactionRequest) GetFeatureName() string {
	return RequestStopTransactionFeatureName
}

func (r RequestStopTransactionResponse) GetFeatureName() string {
	return RequestStopTransactionFeatureName
}

func NewRequestStopTransactionRequest(transactionID string) *RequestStopTransactionRequest {
	return &RequestStopTransactionRequest{TransactionID: transactionID}
}

func NewRequestStopTransactionResponse(status RequestStartStopStatus) *RequestStopTransactionResponse {
	return &RequestStopTransactionResponse{Status: status}
}

// TriggerMessageRequest asks the station to send a message now.
type TriggerMessageRequest struct {
	types.Extensions
	RequestedMessage MessageTrigger `json:"requestedMessage" validate:"required,messageTrigger"`
	EVSE             *types.EVSE    `json:"evse,omitempty" validate:"omitempty"`
	CustomTrigger    string         `json:"customTrigger,omitempty" validate:"max=50"`
}

type TriggerMessageResponse struct {
	types.Extensions
	Status     TriggerMessageStatus `json:"status" validate:"required,triggerMessageStatus"`
	StatusInfo *types.StatusInfo    `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r TriggerMessageRequest) GetFeatureName() string  { return TriggerMessageFeatureName }
func (r TriggerMessageResponse) GetFeatureName() string { return TriggerMessageFeatureName }

func NewTriggerMessageRequest(message MessageTrigger) *TriggerMessageRequest {
	return &TriggerMessageRequest{RequestedMessage: message}
}

func NewTriggerMessageResponse(status TriggerMessageStatus) *TriggerMessageResponse {
	return &TriggerMessageResponse{Status: status}
}

// UnlockConnectorRequest unlocks the cable retention of a connector.
type UnlockConnectorRequest struct {
	types.Extensions
	EvseID      int `json:"evseId" validate:"gte=0"`
	ConnectorID int `json:"connectorId" validate:"gte=0"`
}

type UnlockConnectorResponse struct {
	types.Extensions
	Status     UnlockStatus      `json:"status" validate:"required,unlockStatus"`
	StatusInfo *types.StatusInfo `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r UnlockConnectorRequest) GetFeatureName() string  { return UnlockConnectorFeatureName }
func (r UnlockConnectorResponse) GetFeatureName() string { return UnlockConnectorFeatureName }

func NewUnlockConnectorRequest(evseID, connectorID int) *UnlockConnectorRequest {
	return &UnlockConnectorRequest{EvseID: evseID, ConnectorID: connectorID}
}

func NewUnlockConnectorResponse(status UnlockStatus) *UnlockConnectorResponse {
	return &UnlockConnectorResponse{Status: status}
}

func init() {
	ocpp.RegisterEnum("requestStartStopStatus", RequestStartStopStatusAccepted, RequestStartStopStatusRejected)
	ocpp.RegisterEnum("messageTrigger",
		MessageTriggerBootNotification,
		MessageTriggerLogStatusNotification,
		MessageTriggerFirmwareStatusNotification,
		MessageTriggerHeartbeat,
		MessageTriggerMeterValues,
		MessageTriggerSignChargingStationCertificate,
		MessageTriggerSignV2GCertificate,
		MessageTriggerSignV2G20Certificate,
		MessageTriggerStatusNotification,
		MessageTriggerTransactionEvent,
		MessageTriggerSignCombinedCertificate,
		MessageTriggerPublishFirmwareStatusNotification,
		MessageTriggerCustomTrigger,
	)
	ocpp.RegisterEnum("triggerMessageStatus",
		TriggerMessageStatusAccepted,
		TriggerMessageStatusRejected,
		TriggerMessageStatusNotImplemented,
	)
	ocpp.RegisterEnum("unlockStatus",
		UnlockStatusUnlocked,
		UnlockStatusUnlockFailed,
		UnlockStatusOngoingAuthorizedTransaction,
		UnlockStatusUnknownConnector,
	)
}
