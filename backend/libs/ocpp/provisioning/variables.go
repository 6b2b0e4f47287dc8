package provisioning

import (
	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const (
	GetVariablesFeatureName = "GetVariables"
	SetVariablesFeatureName = "SetVariables"
)

// GetVariableStatus is the per-variable result of GetVariables.
type GetVariableStatus string

const (
	GetVariableStatusAccepted                  GetVariableStatus = "Accepted"
	GetVariableStatusRejected                  GetVariableStatus = "Rejected"
	GetVariableStatusUnknownComponent          GetVariableStatus = "UnknownComponent"
	GetVariableStatusUnknownVariable           GetVariableStatus = "UnknownVariable"
	GetVariableStatusNotSupportedAttributeType GetVariableStatus = "NotSupportedAttributeType"
)

// SetVariableStatus is the per-variable result of SetVariables.
type SetVariableStatus string

const (
	SetVariableStatusAccepted                  SetVariableStatus = "Accepted"
	SetVariableStatusRejected                  SetVariableStatus = "Rejected"
	SetVariableStatusUnknownComponent          SetVariableStatus = "UnknownComponent"
	SetVariableStatusUnknownVariable           SetVariableStatus = "UnknownVariable"
	SetVariableStatusNotSupportedAttributeType SetVariableStatus = "NotSupportedAttributeType"
	SetVariableStatusRebootRequired            SetVariableStatus = "RebootRequired"
)

// GetVariableData names a variable to read.
type GetVariableData struct {
	CustomData    *types.CustomData `json:"customData,omitempty"`
	AttributeType types.Attribute   `json:"attributeType,omitempty" validate:"omitempty,attribute"`
	Component     types.Component   `json:"component" validate:"required"`
	Variable      types.Variable    `json:"variable" validate:"required"`
}

// GetVariableResult is the value read for one variable.
type GetVariableResult struct {
	CustomData      *types.CustomData `json:"customData,omitempty"`
	AttributeStatus GetVariableStatus `json:"attributeStatus" validate:"required,getVariableStatus"`
	AttributeType   types.Attribute   `json:"attributeType,omitempty" validate:"omitempty,attribute"`
	AttributeValue  string            `json:"attributeValue,omitempty" validate:"max=2500"`
	Component       types.Component   `json:"component" validate:"required"`
	Variable        types.Variable    `json:"variable" validate:"required"`
	StatusInfo      *types.StatusInfo `json:"attributeStatusInfo,omitempty" validate:"omitempty"`
}

// SetVariableData is a value to write.
type SetVariableData struct {
	CustomData     *types.CustomData `json:"customData,omitempty"`
	AttributeType  types.Attribute   `json:"attributeType,omitempty" validate:"omitempty,attribute"`
	AttributeValue string            `json:"attributeValue" validate:"required,max=2500"`
	Component      types.Component   `json:"component" validate:"required"`
	Variable       types.Variable    `json:"variable" validate:"required"`
}

// SetVariableResult is the outcome of one write.
type SetVariableResult struct {
	CustomData      *types.CustomData `json:"customData,omitempty"`
	AttributeType   types.Attribute   `json:"attributeType,omitempty" validate:"omitempty,attribute"`
	AttributeStatus SetVariableStatus `json:"attributeStatus" validate:"required,setVariableStatus"`
	Component       types.Component   `json:"component" validate:"required"`
	Variable        types.Variable    `json:"variable" validate:"required"`
	StatusInfo      *types.StatusInfo `json:"attributeStatusInfo,omitempty" validate:"omitempty"`
}

// GetVariablesRequest reads one or more device model variables.
type GetVariablesRequest struct {
	types.Extensions
	GetVariableData []GetVariableData `json:"getVariableData" validate:"required,min=1,dive"`
}

type GetVariablesResponse struct {
	types.Extensions
	GetVariableResult []GetVariableResult `json:"getVariableResult" validate:"required,min=1,dive"`
}

func (r GetVariablesRequest) GetFeatureName() string  { return GetVariablesFeatureName }
func (r GetVariablesResponse) GetFeatureName() string { return GetVariablesFeatureName }

func NewGetVariablesRequest(data ...GetVariableData) *GetVariablesRequest {
	return &GetVariablesRequest{GetVariableData: data}
}

func NewGetVariablesResponse(results ...GetVariableResult) *GetVariablesResponse {
	return &GetVariablesResponse{GetVariableResult: results}
}

// SetVariablesRequest writes one or more device model variables.
type SetVariablesRequest struct {
	types.Extensions
	SetVariableData []SetVariableData `json:"setVariableData" validate:"required,min=1,dive"`
}

type SetVariablesResponse struct {
	types.Extensions
	SetVariableResult []SetVariableResult `json:"setVariableResult" validate:"required,min=1,dive"`
}

func (r SetVariablesRequest) GetFeatureName() string  { return SetVariablesFeatureName }
func (r SetVariablesResponse) GetFeatureName() string { return SetVariablesFeatureName }

func NewSetVariablesRequest(data ...SetVariableData) *SetVariablesRequest {
	return &SetVariablesRequest{SetVariableData: data}
}

func NewSetVariablesResponse(results ...SetVariableResult) *SetVariablesResponse {
	return &SetVariablesResponse{SetVariableResult: results}
}

func init() {
	ocpp.RegisterEnum("getVariableStatus",
		GetVariableStatusAccepted,
		GetVariableStatusRejected,
		GetVariableStatusUnknownComponent,
		GetVariableStatusUnknownVariable,
		GetVariableStatusNotSupportedAttributeType,
	)
	ocpp.RegisterEnum("setVariableStatus",
		SetVariableStatusAccepted,
		SetVariableStatusRejected,
		SetVariableStatusUnknownComponent,
		SetVariableStatusUnknownVariable,
		SetVariableStatusNotSupportedAttributeType,
		SetVariableStatusRebootRequired,
	)
}
