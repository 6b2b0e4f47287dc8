package diagnostics

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const (
	SetVariableMonitoringFeatureName   = "SetVariableMonitoring"
	SetMonitoringBaseFeatureName       = "SetMonitoringBase"
	SetMonitoringLevelFeatureName      = "SetMonitoringLevel"
	ClearVariableMonitoringFeatureName = "ClearVariableMonitoring"
	GetMonitoringReportFeatureName     = "GetMonitoringReport"
	NotifyMonitoringReportFeatureName  = "NotifyMonitoringReport"
)

// MonitoringBase selects a predefined monitor set.
type MonitoringBase string

const (
	MonitoringBaseAll            MonitoringBase = "All"
	MonitoringBaseFactoryDefault MonitoringBase = "FactoryDefault"
	MonitoringBaseHardWiredOnly  MonitoringBase = "HardWiredOnly"
)

// SetMonitoringStatus is the per-monitor result of SetVariableMonitoring.
type SetMonitoringStatus string

const (
	SetMonitoringStatusAccepted               SetMonitoringStatus = "Accepted"
	SetMonitoringStatusUnknownComponent       SetMonitoringStatus = "UnknownComponent"
	SetMonitoringStatusUnknownVariable        SetMonitoringStatus = "UnknownVariable"
	SetMonitoringStatusUnsupportedMonitorType SetMonitoringStatus = "UnsupportedMonitorType"
	SetMonitoringStatusRejected               SetMonitoringStatus = "Rejected"
	SetMonitoringStatusDuplicate              SetMonitoringStatus = "Duplicate"
)

// ClearMonitoringStatus is the per-id result of ClearVariableMonitoring.
type ClearMonitoringStatus string

const (
	ClearMonitoringStatusAccepted ClearMonitoringStatus = "Accepted"
	ClearMonitoringStatusRejected ClearMonitoringStatus = "Rejected"
	ClearMonitoringStatusNotFound ClearMonitoringStatus = "NotFound"
)

// MonitoringCriterion filters monitors of a report.
type MonitoringCriterion string

const (
	MonitoringCriterionThreshold MonitoringCriterion = "ThresholdMonitoring"
	MonitoringCriterionDelta     MonitoringCriterion = "DeltaMonitoring"
	MonitoringCriterionPeriodic  MonitoringCriterion = "PeriodicMonitoring"
)

// PeriodicEventStreamParams configure a stream opened for a monitor.
type PeriodicEventStreamParams struct {
	CustomData *types.CustomData `json:"customData,omitempty"`
	Interval   *int              `json:"interval,omitempty" validate:"omitempty,gte=0"`
	Values     *int              `json:"values,omitempty" validate:"omitempty,gte=0"`
}

// SetMonitoringData describes one monitor to install.
type SetMonitoringData struct {
	CustomData          *types.CustomData          `json:"customData,omitempty"`
	ID                  *int                       `json:"id,omitempty"`
	PeriodicEventStream *PeriodicEventStreamParams `json:"periodicEventStream,omitempty" validate:"omitempty"`
	Transaction         bool                       `json:"transaction,omitempty"`
	Value               float64                    `json:"value"`
	Type                types.MonitorType          `json:"type" validate:"required,monitorType"`
	Severity            int                        `json:"severity" validate:"min=0,max=9"`
	Component           types.Component            `json:"component" validate:"required"`
	Variable            types.Variable             `json:"variable" validate:"required"`
}

// SetMonitoringResult is the outcome for one monitor.
type SetMonitoringResult struct {
	CustomData *types.CustomData   `json:"customData,omitempty"`
	ID         *int                `json:"id,omitempty"`
	Status     SetMonitoringStatus `json:"status" validate:"required,setMonitoringStatus"`
	Type       types.MonitorType   `json:"type" validate:"required,monitorType"`
	Severity   int                 `json:"severity" validate:"min=0,max=9"`
	Component  types.Component     `json:"component" validate:"required"`
	Variable   types.Variable      `json:"variable" validate:"required"`
	StatusInfo *types.StatusInfo   `json:"statusInfo,omitempty" validate:"omitempty"`
}

// SetVariableMonitoringRequest installs monitors.
type SetVariableMonitoringRequest struct {
	types.Extensions
	SetMonitoringData []SetMonitoringData `json:"setMonitoringData" validate:"required,min=1,dive"`
}

type SetVariableMonitoringResponse struct {
	types.Extensions
	SetMonitoringResult []SetMonitoringResult `json:"setMonitoringResult" validate:"required,min=1,dive"`
}

func (r SetVariableMonitoringRequest) GetFeatureName() string {
	return SetVariableMonitoringFeatureName
}

func (r SetVariableMonitoringResponse) GetFeatureName() string {
	return SetVariableMonitoringFeatureName
}

func NewSetVariableMonitoringRequest(data ...SetMonitoringData) *SetVariableMonitoringRequest {
	return &SetVariableMonitoringRequest{SetMonitoringData: data}
}

func NewSetVariableMonitoringResponse(results ...SetMonitoringResult) *SetVariableMonitoringResponse {
	return &SetVariableMonitoringResponse{SetMonitoringResult: results}
}

// SetMonitoringBaseRequest activates a predefined monitor set.
type SetMonitoringBaseRequest struct {
	types.Extensions
	MonitoringBase MonitoringBase `json:"monitoringBase" validate:"required,monitoringBase"`
}

type SetMonitoringBaseResponse struct {
	types.Extensions
	Status     types.GenericDeviceModelStatus `json:"status" validate:"required,genericDeviceModelStatus"`
	StatusInfo *types.StatusInfo              `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r SetMonitoringBaseRequest) GetFeatureName() string  { return SetMonitoringBaseFeatureName }
func (r SetMonitoringBaseResponse) GetFeatureName() string { return SetMonitoringBaseFeatureName }

func NewSetMonitoringBaseRequest(base MonitoringBase) *SetMonitoringBaseRequest {
	return &SetMonitoringBaseRequest{MonitoringBase: base}
}

func NewSetMonitoringBaseResponse(status types.GenericDeviceModelStatus) *SetMonitoringBaseResponse {
	return &SetMonitoringBaseResponse{Status: status}
}

// SetMonitoringLevelRequest restricts reported events to a severity.
type SetMonitoringLevelRequest struct {
	types.Extensions
	Severity int `json:"severity" validate:"min=0,max=9"`
}

type SetMonitoringLevelResponse struct {
	types.Extensions
	Status     types.GenericStatus `json:"status" validate:"required,genericStatus"`
	StatusInfo *types.StatusInfo   `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r SetMonitoringLevelRequest) GetFeatureName() string  { return SetMonitoringLevelFeatureName }
func (r SetMonitoringLevelResponse) GetFeatureName() string { return SetMonitoringLevelFeatureName }

func NewSetMonitoringLevelRequest(severity int) *SetMonitoringLevelRequest {
	return &SetMonitoringLevelRequest{Severity: severity}
}

func NewSetMonitoringLevelResponse(status types.GenericStatus) *SetMonitoringLevelResponse {
	return &SetMonitoringLevelResponse{Status: status}
}

// ClearMonitoringResult is the outcome for one monitor id.
type ClearMonitoringResult struct {
	CustomData *types.CustomData     `json:"customData,omitempty"`
	Status     ClearMonitoringStatus `json:"status" validate:"required,clearMonitoringStatus"`
	ID         int                   `json:"id"`
	StatusInfo *types.StatusInfo     `json:"statusInfo,omitempty" validate:"omitempty"`
}

// ClearVariableMonitoringRequest removes monitors by id.
type ClearVariableMonitoringRequest struct {
	types.Extensions
	ID []int `json:"id" validate:"required,min=1"`
}

type ClearVariableMonitoringResponse struct {
	types.Extensions
	ClearMonitoringResult []ClearMonitoringResult `json:"clearMonitoringResult" validate:"required,min=1,dive"`
}

func (r ClearVariableMonitoringRequest) GetFeatureName() string {
	return ClearVariableMonitoringFeatureName
}

func (r ClearVariableMonitoringResponse) GetFeatureName() string {
	return ClearVariableMonitoringFeatureName
}

func NewClearVariableMonitoringRequest(ids ...int) *ClearVariableMonitoringRequest {
	return &ClearVariableMonitoringRequest{ID: ids}
}

func NewClearVariableMonitoringResponse(results ...ClearMonitoringResult) *ClearVariableMonitoringResponse {
	return &ClearVariableMonitoringResponse{ClearMonitoringResult: results}
}

// GetMonitoringReportRequest asks for the installed monitors.
type GetMonitoringReportRequest struct {
	types.Extensions
	RequestID          int                       `json:"requestId"`
	MonitoringCriteria []MonitoringCriterion     `json:"monitoringCriteria,omitempty" validate:"omitempty,max=3,dive,monitoringCriterion"`
	ComponentVariable  []types.ComponentVariable `json:"componentVariable,omitempty" validate:"omitempty,dive"`
}

type GetMonitoringReportResponse struct {
	types.Extensions
	Status     types.GenericDeviceModelStatus `json:"status" validate:"required,genericDeviceModelStatus"`
	StatusInfo *types.StatusInfo              `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r GetMonitoringReportRequest) GetFeatureName() string  { return GetMonitoringReportFeatureName }
func (r GetMonitoringReportResponse) GetFeatureName() string { return GetMonitoringReportFeatureName }

func NewGetMonitoringReportRequest(requestID int) *GetMonitoringReportRequest {
	return &GetMonitoringReportRequest{RequestID: requestID}
}

func NewGetMonitoringReportResponse(status types.GenericDeviceModelStatus) *GetMonitoringReportResponse {
	return &GetMonitoringReportResponse{Status: status}
}

// VariableMonitoring is an installed monitor.
type VariableMonitoring struct {
	CustomData            *types.CustomData     `json:"customData,omitempty"`
	ID                    int                   `json:"id"`
	Transaction           bool                  `json:"transaction"`
	Value                 float64               `json:"value"`
	Type                  types.MonitorType     `json:"type" validate:"required,monitorType"`
	Severity              int                   `json:"severity" validate:"min=0,max=9"`
	EventNotificationType EventNotificationType `json:"eventNotificationType" validate:"required,eventNotificationType"`
}

// MonitoringData lists the monitors of one component variable.
type MonitoringData struct {
	CustomData         *types.CustomData    `json:"customData,omitempty"`
	Component          types.Component      `json:"component" validate:"required"`
	Variable           types.Variable       `json:"variable" validate:"required"`
	VariableMonitoring []VariableMonitoring `json:"variableMonitoring" validate:"required,min=1,dive"`
}

// NotifyMonitoringReportRequest carries one part of a monitoring report.
type NotifyMonitoringReportRequest struct {
	types.Extensions
	RequestID   int              `json:"requestId"`
	Tbc         bool             `json:"tbc,omitempty"`
	SeqNo       int              `json:"seqNo" validate:"gte=0"`
	GeneratedAt time.Time        `json:"generatedAt" validate:"required"`
	Monitor     []MonitoringData `json:"monitor,omitempty" validate:"omitempty,dive"`
}

type NotifyMonitoringReportResponse struct {
	types.Extensions
}

func (r NotifyMonitoringReportRequest) GetFeatureName() string {
	return NotifyMonitoringReportFeatureName
}

func (r NotifyMonitoringReportResponse) GetFeatureName() string {
	return NotifyMonitoringReportFeatureName
}

func NewNotifyMonitoringReportRequest(requestID, seqNo int, generatedAt time.Time) *NotifyMonitoringReportRequest {
	return &NotifyMonitoringReportRequest{RequestID: requestID, SeqNo: seqNo, GeneratedAt: generatedAt}
}

func NewNotifyMonitoringReportResponse() *NotifyMonitoringReportResponse {
	return &NotifyMonitoringReportResponse{}
}

func init() {
	ocpp.RegisterEnum("monitoringBase", MonitoringBaseAll, MonitoringBaseFactoryDefault, MonitoringBaseHardWiredOnly)
	ocpp.RegisterEnum("setMonitoringStatus",
		SetMonitoringStatusAccepted,
		SetMonitoringStatusUnknownComponent,
		SetMonitoringStatusUnknownVariable,
		SetMonitoringStatusUnsupportedMonitorType,
		SetMonitoringStatusRejected,
		SetMonitoringStatusDuplicate,
	)
	ocpp.RegisterEnum("clearMonitoringStatus",
		ClearMonitoringStatusAccepted,
		ClearMonitoringStatusRejected,
		ClearMonitoringStatusNotFound,
	)
	ocpp.RegisterEnum("monitoringCriterion",
		MonitoringCriterionThreshold,
		MonitoringCriterionDelta,
		MonitoringCriterionPeriodic,
	)
}
