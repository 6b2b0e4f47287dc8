package der

import (
	"time"

	"ocppnode/backend/libs/ocpp/types"
)

// SetDERControlRequest installs one DER control. Exactly one of the control
// members matching ControlType is expected.
type SetDERControlRequest struct {
	types.Extensions
	IsDefault         bool               `json:"isDefault"`
	ControlID         string             `json:"controlId" validate:"required,max=36"`
	ControlType       DERControlType     `json:"controlType" validate:"required,derControlType"`
	Curve             *DERCurve          `json:"curve,omitempty" validate:"omitempty"`
	EnterService      *EnterService      `json:"enterService,omitempty" validate:"omitempty"`
	FixedPFAbsorb     *FixedPF           `json:"fixedPFAbsorb,omitempty" validate:"omitempty"`
	FixedPFInject     *FixedPF           `json:"fixedPFInject,omitempty" validate:"omitempty"`
	FixedVar          *FixedVar          `json:"fixedVar,omitempty" validate:"omitempty"`
	FreqDroop         *FreqDroop         `json:"freqDroop,omitempty" validate:"omitempty"`
	Gradient          *Gradient          `json:"gradient,omitempty" validate:"omitempty"`
	LimitMaxDischarge *LimitMaxDischarge `json:"limitMaxDischarge,omitempty" validate:"omitempty"`
}

type SetDERControlResponse struct {
	types.Extensions
	Status        DERControlStatus  `json:"status" validate:"required,derControlStatus"`
	StatusInfo    *types.StatusInfo `json:"statusInfo,omitempty" validate:"omitempty"`
	SupersededIDs []string          `json:"supersededIds,omitempty" validate:"omitempty,max=24,dive,max=36"`
}

func (r SetDERControlRequest) GetFeatureName() string  { return SetDERControlFeatureName }
func (r SetDERControlResponse) GetFeatureName() string { return SetDERControlFeatureName }

func NewSetDERControlRequest(controlID string, controlType DERControlType, isDefault bool) *SetDERControlRequest {
	return &SetDERControlRequest{ControlID: controlID, ControlType: controlType, IsDefault: isDefault}
}

func NewSetDERControlResponse(status DERControlStatus) *SetDERControlResponse {
	return &SetDERControlResponse{Status: status}
}

// GetDERControlRequest asks for installed controls, reported by ReportDERControl.
type GetDERControlRequest struct {
	types.Extensions
	RequestID   int            `json:"requestId"`
	IsDefault   *bool          `json:"isDefault,omitempty"`
	ControlType DERControlType `json:"controlType,omitempty" validate:"omitempty,derControlType"`
	ControlID   string         `json:"controlId,omitempty" validate:"max=36"`
}

type GetDERControlResponse struct {
	types.Extensions
	Status     DERControlStatus  `json:"status" validate:"required,derControlStatus"`
	StatusInfo *types.StatusInfo `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r GetDERControlRequest) GetFeatureName() string  { return GetDERControlFeatureName }
func (r GetDERControlResponse) GetFeatureName() string { return GetDERControlFeatureName }

func NewGetDERControlRequest(requestID int) *GetDERControlRequest {
	return &GetDERControlRequest{RequestID: requestID}
}

func NewGetDERControlResponse(status DERControlStatus) *GetDERControlResponse {
	return &GetDERControlResponse{Status: status}
}

// ClearDERControlRequest removes controls by id or type.
type ClearDERControlRequest struct {
	types.Extensions
	IsDefault   bool           `json:"isDefault"`
	ControlType DERControlType `json:"controlType,omitempty" validate:"omitempty,derControlType"`
	ControlID   string         `json:"controlId,omitempty" validate:"max=36"`
}

type ClearDERControlResponse struct {
	types.Extensions
	Status     DERControlStatus  `json:"status" validate:"required,derControlStatus"`
	StatusInfo *types.StatusInfo `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r ClearDERControlRequest) GetFeatureName() string  { return ClearDERControlFeatureName }
func (r ClearDERControlResponse) GetFeatureName() string { return ClearDERControlFeatureName }

func NewClearDERControlRequest(isDefault bool) *ClearDERControlRequest {
	return &ClearDERControlRequest{IsDefault: isDefault}
}

func NewClearDERControlResponse(status DERControlStatus) *ClearDERControlResponse {
	return &ClearDERControlResponse{Status: status}
}

// DERCurveGet is a reported curve control.
type DERCurveGet struct {
	CustomData   *types.CustomData `json:"customData,omitempty"`
	Curve        DERCurve          `json:"curve" validate:"required"`
	ID           string            `json:"id" validate:"required,max=36"`
	CurveType    DERControlType    `json:"curveType" validate:"required,derControlType"`
	IsDefault    bool              `json:"isDefault"`
	IsSuperseded bool              `json:"isSuperseded"`
}

// ReportDERControlRequest reports installed controls.
type ReportDERControlRequest struct {
	types.Extensions
	RequestID int           `json:"requestId"`
	Tbc       bool          `json:"tbc,omitempty"`
	Curve     []DERCurveGet `json:"curve,omitempty" validate:"omitempty,max=24,dive"`
}

type ReportDERControlResponse struct {
	types.Extensions
}

func (r ReportDERControlRequest) GetFeatureName() string  { return ReportDERControlFeatureName }
func (r ReportDERControlResponse) GetFeatureName() string { return ReportDERControlFeatureName }

func NewReportDERControlRequest(requestID int) *ReportDERControlRequest {
	return &ReportDERControlRequest{RequestID: requestID}
}

func NewReportDERControlResponse() *ReportDERControlResponse {
	return &ReportDERControlResponse{}
}

// NotifyDERAlarmRequest reports a grid event.
type NotifyDERAlarmRequest struct {
	types.Extensions
	ControlType    DERControlType `json:"controlType" validate:"required,derControlType"`
	GridEventFault GridEventFault `json:"gridEventFault,omitempty" validate:"omitempty,gridEventFault"`
	AlarmEnded     bool           `json:"alarmEnded,omitempty"`
	Timestamp      time.Time      `json:"timestamp" validate:"required"`
	ExtraInfo      string         `json:"extraInfo,omitempty" validate:"max=200"`
}

type NotifyDERAlarmResponse struct {
	types.Extensions
}

func (r NotifyDERAlarmRequest) GetFeatureName() string  { return NotifyDERAlarmFeatureName }
func (r NotifyDERAlarmResponse) GetFeatureName() string { return NotifyDERAlarmFeatureName }

func NewNotifyDERAlarmRequest(controlType DERControlType, timestamp time.Time) *NotifyDERAlarmRequest {
	return &NotifyDERAlarmRequest{ControlType: controlType, Timestamp: timestamp}
}

func NewNotifyDERAlarmResponse() *NotifyDERAlarmResponse {
	return &NotifyDERAlarmResponse{}
}

// NotifyDERStartStopRequest reports that a control started or stopped.
type NotifyDERStartStopRequest struct {
	types.Extensions
	ControlID     string    `json:"controlId" validate:"required,max=36"`
	Started       bool      `json:"started"`
	Timestamp     time.Time `json:"timestamp" validate:"required"`
	SupersededIDs []string  `json:"supersededIds,omitempty" validate:"omitempty,max=24,dive,max=36"`
}

type NotifyDERStartStopResponse struct {
	types.Extensions
}

func (r NotifyDERStartStopRequest) GetFeatureName() string  { return NotifyDERStartStopFeatureName }
func (r NotifyDERStartStopResponse) GetFeatureName() string { return NotifyDERStartStopFeatureName }

func NewNotifyDERStartStopRequest(controlID string, started bool, timestamp time.Time) *NotifyDERStartStopRequest {
	return &NotifyDERStartStopRequest{ControlID: controlID, Started: started, Timestamp: timestamp}
}

func NewNotifyDERStartStopResponse() *NotifyDERStartStopResponse {
	return &NotifyDERStartStopResponse{}
}
