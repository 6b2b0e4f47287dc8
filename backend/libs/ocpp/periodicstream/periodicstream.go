// Package periodicstream contains the OCPP 2.1 periodic event stream messages.
// Stream data itself travels in NotifyPeriodicEventStream SEND frames.
package periodicstream

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const ProfileName = "periodicstream"

const (
	OpenPeriodicEventStreamFeatureName   = "OpenPeriodicEventStream"
	ClosePeriodicEventStreamFeatureName  = "ClosePeriodicEventStream"
	AdjustPeriodicEventStreamFeatureName = "AdjustPeriodicEventStream"
	GetPeriodicEventStreamFeatureName    = "GetPeriodicEventStream"
	NotifyPeriodicEventStreamFeatureName = "NotifyPeriodicEventStream"
)

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[OpenPeriodicEventStreamRequest, OpenPeriodicEventStreamResponse](OpenPeriodicEventStreamFeatureName),
	ocpp.NewFeature[ClosePeriodicEventStreamRequest, ClosePeriodicEventStreamResponse](ClosePeriodicEventStreamFeatureName),
	ocpp.NewFeature[AdjustPeriodicEventStreamRequest, AdjustPeriodicEventStreamResponse](AdjustPeriodicEventStreamFeatureName),
	ocpp.NewFeature[GetPeriodicEventStreamRequest, GetPeriodicEventStreamResponse](GetPeriodicEventStreamFeatureName),
	ocpp.NewSendFeature[NotifyPeriodicEventStream](NotifyPeriodicEventStreamFeatureName),
)

// PeriodicEventStreamParams bound how often stream data is sent.
type PeriodicEventStreamParams struct {
	CustomData *types.CustomData `json:"customData,omitempty"`
	Interval   *int              `json:"interval,omitempty" validate:"omitempty,gte=0"`
	Values     *int              `json:"values,omitempty" validate:"omitempty,gte=0"`
}

// ConstantStreamData describes one stream.
type ConstantStreamData struct {
	CustomData                *types.CustomData         `json:"customData,omitempty"`
	ID                        int                       `json:"id" validate:"gte=0"`
	VariableMonitoringID      int                       `json:"variableMonitoringId" validate:"gte=0"`
	PeriodicEventStreamParams PeriodicEventStreamParams `json:"params"`
}

// StreamDataElement is one value of a stream, t is relative to the base time.
type StreamDataElement struct {
	CustomData *types.CustomData `json:"customData,omitempty"`
	T          float64           `json:"t"`
	V          string            `json:"v" validate:"required,max=2500"`
}

type OpenPeriodicEventStreamRequest struct {
	types.Extensions
	ConstantStreamData ConstantStreamData `json:"constantStreamData" validate:"required"`
}

type OpenPeriodicEventStreamResponse struct {
	types.Extensions
	Status     types.GenericStatus `json:"status" validate:"required,genericStatus"`
	StatusInfo *types.StatusInfo   `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r OpenPeriodicEventStreamRequest) GetFeatureName() string {
	return OpenPeriodicEventStreamFeatureName
}

func (r OpenPeriodicEventStreamResponse) GetFeatureName() string {
	return OpenPeriodicEventStreamFeatureName
}

func NewOpenPeriodicEventStreamRequest(data ConstantStreamData) *OpenPeriodicEventStreamRequest {
	return &OpenPeriodicEventStreamRequest{ConstantStreamData: data}
}

func NewOpenPeriodicEventStreamResponse(status types.GenericStatus) *OpenPeriodicEventStreamResponse {
	return &OpenPeriodicEventStreamResponse{Status: status}
}

type ClosePeriodicEventStreamRequest struct {
	types.Extensions
	ID int `json:"id" validate:"gte=0"`
}

type ClosePeriodicEventStreamResponse struct {
	types.Extensions
}

func (r ClosePeriodicEventStreamRequest) GetFeatureName() string {
	return ClosePeriodicEventStreamFeatureName
}

func (r ClosePeriodicEventStreamResponse) GetFeatureName() string {
	return ClosePeriodicEventStreamFeatureName
}

func NewClosePeriodicEventStreamRequest(id int) *ClosePeriodicEventStreamRequest {
	return &ClosePeriodicEventStreamRequest{ID: id}
}

func NewClosePeriodicEventStreamResponse() *ClosePeriodicEventStreamResponse {
	return &ClosePeriodicEventStreamResponse{}
}

type AdjustPeriodicEventStreamRequest struct {
	types.Extensions
	ID     int                       `json:"id" validate:"gte=0"`
	Params PeriodicEventStreamParams `json:"params"`
}

type AdjustPeriodicEventStreamResponse struct {
	types.Extensions
	Status     types.GenericStatus `json:"status" validate:"required,genericStatus"`
	StatusInfo *types.StatusInfo   `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r AdjustPeriodicEventStreamRequest) GetFeatureName() string {
	return AdjustPeriodicEventStreamFeatureName
}

func (r AdjustPeriodicEventStreamResponse) GetFeatureName() string {
	return AdjustPeriodicEventStreamFeatureName
}

func NewAdjustPeriodicEventStreamRequest(id int, params PeriodicEventStreamParams) *AdjustPeriodicEventStreamRequest {
	return &AdjustPeriodicEventStreamRequest{ID: id, Params: params}
}

func NewAdjustPeriodicEventStreamResponse(status types.GenericStatus) *AdjustPeriodicEventStreamResponse {
	return &AdjustPeriodicEventStreamResponse{Status: status}
}

type GetPeriodicEventStreamRequest struct {
	types.Extensions
}

type GetPeriodicEventStreamResponse struct {
	types.Extensions
	ConstantStreamData []ConstantStreamData `json:"constantStreamData,omitempty" validate:"omitempty,dive"`
}

func (r GetPeriodicEventStreamRequest) GetFeatureName() string {
	return GetPeriodicEventStreamFeatureName
}

func (r GetPeriodicEventStreamResponse) GetFeatureName() string {
	return GetPeriodicEventStreamFeatureName
}

func NewGetPeriodicEventStreamRequest() *GetPeriodicEventStreamRequest {
	return &GetPeriodicEventStreamRequest{}
}

func NewGetPeriodicEventStreamResponse(streams ...ConstantStreamData) *GetPeriodicEventStreamResponse {
	return &GetPeriodicEventStreamResponse{ConstantStreamData: streams}
}

// NotifyPeriodicEventStream carries stream samples. It is sent as a SEND frame
// and has no response.
type NotifyPeriodicEventStream struct {
	types.Extensions
	ID       int                 `json:"id" validate:"gte=0"`
	Pending  int                 `json:"pending" validate:"gte=0"`
	BaseTime time.Time           `json:"basetime" validate:"required"`
	Data     []StreamDataElement `json:"data" validate:"required,min=1,dive"`
}

func (r NotifyPeriodicEventStream) GetFeatureName() string {
	return NotifyPeriodicEventStreamFeatureName
}

func NewNotifyPeriodicEventStream(id int, baseTime time.Time, data ...StreamDataElement) *NotifyPeriodicEventStream {
	return &NotifyPeriodicEventStream{ID: id, BaseTime: baseTime, Data: data}
}
