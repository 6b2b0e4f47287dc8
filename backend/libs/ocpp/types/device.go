package types

import "ocppnode/backend/libs/ocpp"

// EVSE addresses an EVSE and optionally one of its connectors. EVSE id 0 means
// the whole charging station.
type EVSE struct {
	CustomData  *CustomData `json:"customData,omitempty"`
	ID          int         `json:"id" validate:"gte=0"`
	ConnectorID *int        `json:"connectorId,omitempty" validate:"omitempty,gte=0"`
}

// NewEVSE returns an EVSE reference without connector.
func NewEVSE(id int) *EVSE {
	return &EVSE{ID: id}
}

// WithConnector returns a copy addressing a connector.
func (e EVSE) WithConnector(connectorID int) *EVSE {
	e.ConnectorID = &connectorID
	return &e
}

// Component of the device model.
type Component struct {
	CustomData *CustomData `json:"customData,omitempty"`
	Name       string      `json:"name" validate:"required,max=50"`
	Instance   string      `json:"instance,omitempty" validate:"max=50"`
	EVSE       *EVSE       `json:"evse,omitempty" validate:"omitempty"`
}

// Variable of a component.
type Variable struct {
	CustomData *CustomData `json:"customData,omitempty"`
	Name       string      `json:"name" validate:"required,max=50"`
	Instance   string      `json:"instance,omitempty" validate:"max=50"`
}

// ComponentVariable pairs a component with an optional variable.
type ComponentVariable struct {
	CustomData *CustomData `json:"customData,omitempty"`
	Component  Component   `json:"component" validate:"required"`
	Variable   *Variable   `json:"variable,omitempty" validate:"omitempty"`
}

// Attribute of a variable.
type Attribute string

const (
	AttributeActual Attribute = "Actual"
	AttributeTarget Attribute = "Target"
	AttributeMinSet Attribute = "MinSet"
	AttributeMaxSet Attribute = "MaxSet"
)

// Mutability of a variable attribute.
type Mutability string

const (
	MutabilityReadOnly  Mutability = "ReadOnly"
	MutabilityWriteOnly Mutability = "WriteOnly"
	MutabilityReadWrite Mutability = "ReadWrite"
)

// DataType of a variable.
type DataType string

const (
	DataTypeString       DataType = "string"
	DataTypeDecimal      DataType = "decimal"
	DataTypeInteger      DataType = "integer"
	DataTypeDateTime     DataType = "dateTime"
	DataTypeBoolean      DataType = "boolean"
	DataTypeOptionList   DataType = "OptionList"
	DataTypeSequenceList DataType = "SequenceList"
	DataTypeMemberList   DataType = "MemberList"
)

// MonitorType of a variable monitor.
type MonitorType string

const (
	MonitorUpperThreshold       MonitorType = "UpperThreshold"
	MonitorLowerThreshold       MonitorType = "LowerThreshold"
	MonitorDelta                MonitorType = "Delta"
	MonitorPeriodic             MonitorType = "Periodic"
	MonitorPeriodicClockAligned MonitorType = "PeriodicClockAligned"
	MonitorTargetDelta          MonitorType = "TargetDelta"
	MonitorTargetDeltaRelative  MonitorType = "TargetDeltaRelative"
)

func init() {
	ocpp.RegisterEnum("attribute", AttributeActual, AttributeTarget, AttributeMinSet, AttributeMaxSet)
	ocpp.RegisterEnum("mutability", MutabilityReadOnly, MutabilityWriteOnly, MutabilityReadWrite)
	ocpp.RegisterEnum("dataType",
		DataTypeString,
		DataTypeDecimal,
		DataTypeInteger,
		DataTypeDateTime,
		DataTypeBoolean,
		DataTypeOptionList,
		DataTypeSequenceList,
		DataTypeMemberList,
	)
	ocpp.RegisterEnum("monitorType",
		MonitorUpperThreshold,
		MonitorLowerThreshold,
		MonitorDelta,
		MonitorPeriodic,
		MonitorPeriodicClockAligned,
		MonitorTargetDelta,
		MonitorTargetDeltaRelative,
	)
}
