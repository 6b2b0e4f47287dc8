// Package display contains the OCPP 2.1 display message functional block.
package display

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const ProfileName = "display"

const (
	SetDisplayMessageFeatureName     = "SetDisplayMessage"
	GetDisplayMessagesFeatureName    = "GetDisplayMessages"
	ClearDisplayMessageFeatureName   = "ClearDisplayMessage"
	NotifyDisplayMessagesFeatureName = "NotifyDisplayMessages"
)

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[SetDisplayMessageRequest, SetDisplayMessageResponse](SetDisplayMessageFeatureName),
	ocpp.NewFeature[GetDisplayMessagesRequest, GetDisplayMessagesResponse](GetDisplayMessagesFeatureName),
	ocpp.NewFeature[ClearDisplayMessageRequest, ClearDisplayMessageResponse](ClearDisplayMessageFeatureName),
	ocpp.NewFeature[NotifyDisplayMessagesRequest, NotifyDisplayMessagesResponse](NotifyDisplayMessagesFeatureName),
)

// MessagePriority of a display message.
type MessagePriority string

const (
	MessagePriorityAlwaysFront MessagePriority = "AlwaysFront"
	MessagePriorityInFront     MessagePriority = "InFront"
	MessagePriorityNormalCycle MessagePriority = "NormalCycle"
)

// MessageState in which a message is shown.
type MessageState string

const (
	MessageStateCharging    MessageState = "Charging"
	MessageStateFaulted     MessageState = "Faulted"
	MessageStateIdle        MessageState = "Idle"
	MessageStateUnavailable MessageState = "Unavailable"
	MessageStateSuspended   MessageState = "Suspended"
	MessageStateDischarging MessageState = "Discharging"
)

// DisplayMessageStatus answers SetDisplayMessage.
type DisplayMessageStatus string

const (
	DisplayMessageStatusAccepted                  DisplayMessageStatus = "Accepted"
	DisplayMessageStatusNotSupportedMessageFormat DisplayMessageStatus = "NotSupportedMessageFormat"
	DisplayMessageStatusRejected                  DisplayMessageStatus = "Rejected"
	DisplayMessageStatusNotSupportedPriority      DisplayMessageStatus = "NotSupportedPriority"
	DisplayMessageStatusNotSupportedState         DisplayMessageStatus = "NotSupportedState"
	DisplayMessageStatusUnknownTransaction        DisplayMessageStatus = "UnknownTransaction"
	DisplayMessageStatusLanguageNotSupported      DisplayMessageStatus = "LanguageNotSupported"
)

// GetDisplayMessagesStatus answers GetDisplayMessages.
type GetDisplayMessagesStatus string

const (
	GetDisplayMessagesStatusAccepted GetDisplayMessagesStatus = "Accepted"
	GetDisplayMessagesStatusUnknown  GetDisplayMessagesStatus = "Unknown"
)

// ClearMessageStatus answers ClearDisplayMessage.
type ClearMessageStatus string

const (
	ClearMessageStatusAccepted ClearMessageStatus = "Accepted"
	ClearMessageStatusUnknown  ClearMessageStatus = "Unknown"
	ClearMessageStatusRejected ClearMessageStatus = "Rejected"
)

// MessageInfo is a message shown on the station display.
type MessageInfo struct {
	CustomData    *types.CustomData      `json:"customData,omitempty"`
	Display       *types.Component       `json:"display,omitempty" validate:"omitempty"`
	ID            int                    `json:"id"`
	Priority      MessagePriority        `json:"priority" validate:"required,messagePriority"`
	State         MessageState           `json:"state,omitempty" validate:"omitempty,messageState"`
	StartDateTime *time.Time             `json:"startDateTime,omitempty"`
	EndDateTime   *time.Time             `json:"endDateTime,omitempty"`
	TransactionID string                 `json:"transactionId,omitempty" validate:"max=36"`
	Message       types.MessageContent   `json:"message" validate:"required"`
	MessageExtra  []types.MessageContent `json:"messageExtra,omitempty" validate:"omitempty,max=4,dive"`
}

// SetDisplayMessageRequest shows a message.
type SetDisplayMessageRequest struct {
	types.Extensions
	Message MessageInfo `json:"message" validate:"required"`
}

type SetDisplayMessageResponse struct {
	types.Extensions
	Status     DisplayMessageStatus `json:"status" validate:"required,displayMessageStatus"`
	StatusInfo *types.StatusInfo    `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r SetDisplayMessageRequest) GetFeatureName() string  { return SetDisplayMessageFeatureName }
func (r SetDisplayMessageResponse) GetFeatureName() string { return SetDisplayMessageFeatureName }

func NewSetDisplayMessageRequest(message MessageInfo) *SetDisplayMessageRequest {
	return &SetDisplayMessageRequest{Message: message}
}

func NewSetDisplayMessageResponse(status DisplayMessageStatus) *SetDisplayMessageResponse {
	return &SetDisplayMessageResponse{Status: status}
}

// GetDisplayMessagesRequest asks for configured messages.
type GetDisplayMessagesRequest struct {
	types.Extensions
	ID        []int           `json:"id,omitempty"`
	RequestID int             `json:"requestId"`
	Priority  MessagePriority `json:"priority,omitempty" validate:"omitempty,messagePriority"`
	State     MessageState    `json:"state,omitempty" validate:"omitempty,messageState"`
}

type GetDisplayMessagesResponse struct {
	types.Extensions
	Status     GetDisplayMessagesStatus `json:"status" validate:"required,getDisplayMessagesStatus"`
	StatusInfo *types.StatusInfo        `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r GetDisplayMessagesRequest) GetFeatureName() string  { return GetDisplayMessagesFeatureName }
func (r GetDisplayMessagesResponse) GetFeatureName() string { return GetDisplayMessagesFeatureName }

func NewGetDisplayMessagesRequest(requestID int) *GetDisplayMessagesRequest {
	return &GetDisplayMessagesRequest{RequestID: requestID}
}

func NewGetDisplayMessagesResponse(status GetDisplayMessagesStatus) *GetDisplayMessagesResponse {
	return &GetDisplayMessagesResponse{Status: status}
}

// ClearDisplayMessageRequest removes a message.
type ClearDisplayMessageRequest struct {
	types.Extensions
	ID int `json:"id"`
}

type ClearDisplayMessageResponse struct {
	types.Extensions
	Status     ClearMessageStatus `json:"status" validate:"required,clearMessageStatus"`
	StatusInfo *types.StatusInfo  `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r ClearDisplayMessageRequest) GetFeatureName() string  { return ClearDisplayMessageFeatureName }
func (r ClearDisplayMessageResponse) GetFeatureName() string { return ClearDisplayMessageFeatureName }

func NewClearDisplayMessageRequest(id int) *ClearDisplayMessageRequest {
	return &ClearDisplayMessageRequest{ID: id}
}

func NewClearDisplayMessageResponse(status ClearMessageStatus) *ClearDisplayMessageResponse {
	return &ClearDisplayMessageResponse{Status: status}
}

// NotifyDisplayMessagesRequest reports messages requested by GetDisplayMessages.
type NotifyDisplayMessagesRequest struct {
	types.Extensions
	RequestID   int           `json:"requestId"`
	Tbc         bool          `json:"tbc,omitempty"`
	MessageInfo []MessageInfo `json:"messageInfo,omitempty" validate:"omitempty,dive"`
}

type NotifyDisplayMessagesResponse struct {
	types.Extensions
}

func (r NotifyDisplayMessagesRequest) GetFeatureName() string {
	return NotifyDisplayMessagesFeatureName
}

func (r NotifyDisplayMessagesResponse) GetFeatureName() string {
	return NotifyDisplayMessagesFeatureName
}

func NewNotifyDisplayMessagesRequest(requestID int, messages ...MessageInfo) *NotifyDisplayMessagesRequest {
	return &NotifyDisplayMessagesRequest{RequestID: requestID, MessageInfo: messages}
}

func NewNotifyDisplayMessagesResponse() *NotifyDisplayMessagesResponse {
	return &NotifyDisplayMessagesResponse{}
}

func init() {
	ocpp.RegisterEnum("messagePriority", MessagePriorityAlwaysFront, MessagePriorityInFront, MessagePriorityNormalCycle)
	ocpp.RegisterEnum("messageState",
		MessageStateCharging,
		MessageStateFaulted,
		MessageStateIdle,
		MessageStateUnavailable,
		MessageStateSuspended,
		MessageStateDischarging,
	)
	ocpp.RegisterEnum("displayMessageStatus",
		DisplayMessageStatusAccepted,
		DisplayMessageStatusNotSupportedMessageFormat,
		DisplayMessageStatusRejected,
		DisplayMessageStatusNotSupportedPriority,
		DisplayMessageStatusNotSupportedState,
		DisplayMessageStatusUnknownTransaction,
		DisplayMessageStatusLanguageNotSupported,
	)
	ocpp.RegisterEnum("getDisplayMessagesStatus", GetDisplayMessagesStatusAccepted, GetDisplayMessagesStatusUnknown)
	ocpp.RegisterEnum("clearMessageStatus",
		ClearMessageStatusAccepted,
		ClearMessageStatusUnknown,
		ClearMessageStatusRejected,
	)
}
