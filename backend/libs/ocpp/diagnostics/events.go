package diagnostics

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const NotifyEventFeatureName = "NotifyEvent"

// EventTrigger says what caused an event.
type EventTrigger string

const (
	EventTriggerAlerting EventTrigger = "Alerting"
	EventTriggerDelta    EventTrigger = "Delta"
	EventTriggerPeriodic EventTrigger = "Periodic"
)

// EventNotificationType says which kind of monitor produced an event.
type EventNotificationType string

const (
	EventNotificationHardWiredNotification EventNotificationType = "HardWiredNotification"
	EventNotificationHardWiredMonitor      EventNotificationType = "HardWiredMonitor"
	EventNotificationPreconfiguredMonitor  EventNotificationType = "PreconfiguredMonitor"
	EventNotificationCustomMonitor         EventNotificationType = "CustomMonitor"
)

// EventData describes one device model event.
type EventData struct {
	CustomData            *types.CustomData     `json:"customData,omitempty"`
	EventID               int                   `json:"eventId"`
	Timestamp             time.Time             `json:"timestamp" validate:"required"`
	Trigger               EventTrigger          `json:"trigger" validate:"required,eventTrigger"`
	Cause                 *int                  `json:"cause,omitempty"`
	ActualValue           string                `json:"actualValue" validate:"required,max=2500"`
	TechCode              string                `json:"techCode,omitempty" validate:"max=50"`
	TechInfo              string                `json:"techInfo,omitempty" validate:"max=500"`
	Cleared               bool                  `json:"cleared,omitempty"`
	TransactionID         string                `json:"transactionId,omitempty" validate:"max=36"`
	VariableMonitoringID  *int                  `json:"variableMonitoringId,omitempty"`
	EventNotificationType EventNotificationType `json:"eventNotificationType" validate:"required,eventNotificationType"`
	Severity              *int                  `json:"severity,omitempty" validate:"omitempty,min=0,max=9"`
	Component             types.Component       `json:"component" validate:"required"`
	Variable              types.Variable        `json:"variable" validate:"required"`
}

// NotifyEventRequest reports events raised by monitors.
type NotifyEventRequest struct {
	types.Extensions
	GeneratedAt time.Time   `json:"generatedAt" validate:"required"`
	Tbc         bool        `json:"tbc,omitempty"`
	SeqNo       int         `json:"seqNo" validate:"gte=0"`
	EventData   []EventData `json:"eventData" validate:"required,min=1,dive"`
}

type NotifyEventResponse struct {
	types.Extensions
}

func (r NotifyEventRequest) GetFeatureName() string  { return NotifyEventFeatureName }
func (r NotifyEventResponse) GetFeatureName() string { return NotifyEventFeatureName }

func NewNotifyEventRequest(generatedAt time.Time, seqNo int, events ...EventData) *NotifyEventRequest {
	return &NotifyEventRequest{GeneratedAt: generatedAt, SeqNo: seqNo, EventData: events}
}

func NewNotifyEventResponse() *NotifyEventResponse {
	return &NotifyEventResponse{}
}

func init() {
	ocpp.RegisterEnum("eventTrigger", EventTriggerAlerting, EventTriggerDelta, EventTriggerPeriodic)
	ocpp.RegisterEnum("eventNotificationType",
		EventNotificationHardWiredNotification,
		EventNotificationHardWiredMonitor,
		EventNotificationPreconfiguredMonitor,
		EventNotificationCustomMonitor,
	)
}
