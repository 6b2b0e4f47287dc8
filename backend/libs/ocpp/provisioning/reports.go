package provisioning

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const (
	GetBaseReportFeatureName = "GetBaseReport"
	GetReportFeatureName     = "GetReport"
	NotifyReportFeatureName  = "NotifyReport"
)

// ReportBase selects a predefined device model report.
type ReportBase string

const (
	ReportBaseConfigurationInventory ReportBase = "ConfigurationInventory"
	ReportBaseFullInventory          ReportBase = "FullInventory"
	ReportBaseSummaryInventory       ReportBase = "SummaryInventory"
)

// ComponentCriterion filters components of a report.
type ComponentCriterion string

const (
	ComponentCriterionActive    ComponentCriterion = "Active"
	ComponentCriterionAvailable ComponentCriterion = "Available"
	ComponentCriterionEnabled   ComponentCriterion = "Enabled"
	ComponentCriterionProblem   ComponentCriterion = "Problem"
)

// VariableAttribute is a reported attribute value.
type VariableAttribute struct {
	CustomData *types.CustomData `json:"customData,omitempty"`
	Type       types.Attribute   `json:"type,omitempty" validate:"omitempty,attribute"`
	Value      string            `json:"value,omitempty" validate:"max=2500"`
	Mutability types.Mutability  `json:"mutability,omitempty" validate:"omitempty,mutability"`
	Persistent *bool             `json:"persistent,omitempty"`
	Constant   *bool             `json:"constant,omitempty"`
}

// VariableCharacteristics describes a variable's type and limits.
type VariableCharacteristics struct {
	CustomData         *types.CustomData `json:"customData,omitempty"`
	Unit               string            `json:"unit,omitempty" validate:"max=16"`
	DataType           types.DataType    `json:"dataType" validate:"required,dataType"`
	MinLimit           *float64          `json:"minLimit,omitempty"`
	MaxLimit           *float64          `json:"maxLimit,omitempty"`
	MaxElements        *int              `json:"maxElements,omitempty" validate:"omitempty,gte=1"`
	ValuesList         string            `json:"valuesList,omitempty" validate:"max=1000"`
	SupportsMonitoring bool              `json:"supportsMonitoring"`
}

// ReportData is one component/variable entry of a report.
type ReportData struct {
	CustomData              *types.CustomData        `json:"customData,omitempty"`
	Component               types.Component          `json:"component" validate:"required"`
	Variable                types.Variable           `json:"variable" validate:"required"`
	VariableAttribute       []VariableAttribute      `json:"variableAttribute" validate:"required,min=1,max=4,dive"`
	VariableCharacteristics *VariableCharacteristics `json:"variableCharacteristics,omitempty" validate:"omitempty"`
}

// GetBaseReportRequest asks the station for a predefined report.
type GetBaseReportRequest struct {
	types.Extensions
	RequestID  int        `json:"requestId"`
	ReportBase ReportBase `json:"reportBase" validate:"required,reportBase"`
}

// GetBaseReportResponse tells whether the report will be sent.
type GetBaseReportResponse struct {
	types.Extensions
	Status     types.GenericDeviceModelStatus `json:"status" validate:"required,genericDeviceModelStatus"`
	StatusInfo *types.StatusInfo              `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r GetBaseReportRequest) GetFeatureName() string  { return GetBaseReportFeatureName }
func (r GetBaseReportResponse) GetFeatureName() string { return GetBaseReportFeatureName }

func NewGetBaseReportRequest(requestID int, reportBase ReportBase) *GetBaseReportRequest {
	return &GetBaseReportRequest{RequestID: requestID, ReportBase: reportBase}
}

func NewGetBaseReportResponse(status types.GenericDeviceModelStatus) *GetBaseReportResponse {
	return &GetBaseReportResponse{Status: status}
}

// GetReportRequest asks for a custom report filtered by criteria and components.
type GetReportRequest struct {
	types.Extensions
	RequestID          int                       `json:"requestId"`
	ComponentCriteria  []ComponentCriterion      `json:"componentCriteria,omitempty" validate:"omitempty,max=4,dive,componentCriterion"`
	ComponentVariables []types.ComponentVariable `json:"componentVariable,omitempty" validate:"omitempty,dive"`
}

// GetReportResponse tells whether the report will be sent.
type GetReportResponse struct {
	types.Extensions
	Status     types.GenericDeviceModelStatus `json:"status" validate:"required,genericDeviceModelStatus"`
	StatusInfo *types.StatusInfo              `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r GetReportRequest) GetFeatureName() string  { return GetReportFeatureName }
func (r GetReportResponse) GetFeatureName() string { return GetReportFeatureName }

func NewGetReportRequest(requestID int) *GetReportRequest {
	return &GetReportRequest{RequestID: requestID}
}

func NewGetReportResponse(status types.GenericDeviceModelStatus) *GetReportResponse {
	return &GetReportResponse{Status: status}
}

// NotifyReportRequest carries one part of a report. Large reports are split
// over several requests sharing the request id.
type NotifyReportRequest struct {
	types.Extensions
	RequestID   int          `json:"requestId"`
	GeneratedAt time.Time    `json:"generatedAt" validate:"required"`
	ReportData  []ReportData `json:"reportData,omitempty" validate:"omitempty,dive"`
	Tbc         bool         `json:"tbc,omitempty"`
	SeqNo       int          `json:"seqNo" validate:"gte=0"`
}

// NotifyReportResponse is empty.
type NotifyReportResponse struct {
	types.Extensions
}

func (r NotifyReportRequest) GetFeatureName() string  { return NotifyReportFeatureName }
func (r NotifyReportResponse) GetFeatureName() string { return NotifyReportFeatureName }

func NewNotifyReportRequest(requestID int, generatedAt time.Time, seqNo int) *NotifyReportRequest {
	return &NotifyReportRequest{RequestID: requestID, GeneratedAt: generatedAt, SeqNo: seqNo}
}

func NewNotifyReportResponse() *NotifyReportResponse {
	return &NotifyReportResponse{}
}

func init() {
	ocpp.RegisterEnum("reportBase", ReportBaseConfigurationInventory, ReportBaseFullInventory, ReportBaseSummaryInventory)
	ocpp.RegisterEnum("componentCriterion",
		ComponentCriterionActive,
		ComponentCriterionAvailable,
		ComponentCriterionEnabled,
		ComponentCriterionProblem,
	)
}
