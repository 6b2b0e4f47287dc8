// Package availability contains the OCPP 2.1 availability functional block.
package availability

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const ProfileName = "availability"

const (
	ChangeAvailabilityFeatureName = "ChangeAvailability"
	StatusNotificationFeatureName = "StatusNotification"
)

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[ChangeAvailabilityRequest, ChangeAvailabilityResponse](ChangeAvailabilityFeatureName),
	ocpp.NewFeature[StatusNotificationRequest, StatusNotificationResponse](StatusNotificationFeatureName),
)

// OperationalStatus requested by ChangeAvailability.
type OperationalStatus string

const (
	OperationalStatusInoperative OperationalStatus = "Inoperative"
	OperationalStatusOperative   OperationalStatus = "Operative"
)

// ChangeAvailabilityStatus answers ChangeAvailability.
type ChangeAvailabilityStatus string

const (
	ChangeAvailabilityStatusAccepted  ChangeAvailabilityStatus = "Accepted"
	ChangeAvailabilityStatusRejected  ChangeAvailabilityStatus = "Rejected"
	ChangeAvailabilityStatusScheduled ChangeAvailabilityStatus = "Scheduled"
)

// ConnectorStatus reported by StatusNotification.
type ConnectorStatus string

const (
	ConnectorStatusAvailable   ConnectorStatus = "Available"
	ConnectorStatusOccupied    ConnectorStatus = "Occupied"
	ConnectorStatusReserved    ConnectorStatus = "Reserved"
	ConnectorStatusUnavailable ConnectorStatus = "Unavailable"
	ConnectorStatusFaulted     ConnectorStatus = "Faulted"
)

// ChangeAvailabilityRequest makes the station, an EVSE or a connector
// (in)operative. Without EVSE the whole station is addressed.
type ChangeAvailabilityRequest struct {
	types.Extensions
	EVSE              *types.EVSE       `json:"evse,omitempty" validate:"omitempty"`
	OperationalStatus OperationalStatus `json:"operationalStatus" validate:"required,operationalStatus"`
}

type ChangeAvailabilityResponse struct {
	types.Extensions
	Status     ChangeAvailabilityStatus `json:"status" validate:"required,changeAvailabilityStatus"`
	StatusInfo *types.StatusInfo        `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r ChangeAvailabilityRequest) GetFeatureName() string  { return ChangeAvailabilityFeatureName }
func (r ChangeAvailabilityResponse) GetFeatureName() string { return ChangeAvailabilityFeatureName }

func NewChangeAvailabilityRequest(status OperationalStatus) *ChangeAvailabilityRequest {
	return &ChangeAvailabilityRequest{OperationalStatus: status}
}

func NewChangeAvailabilityResponse(status ChangeAvailabilityStatus) *ChangeAvailabilityResponse {
	return &ChangeAvailabilityResponse{Status: status}
}

// StatusNotificationRequest reports a connector status change.
type StatusNotificationRequest struct {
	types.Extensions
	Timestamp       time.Time       `json:"timestamp" validate:"required"`
	ConnectorStatus ConnectorStatus `json:"connectorStatus" validate:"required,connectorStatus"`
	EvseID          int             `json:"evseId" validate:"gte=0"`
	ConnectorID     int             `json:"connectorId" validate:"gte=0"`
}

type StatusNotificationResponse struct {
	types.Extensions
}

func (r StatusNotificationRequest) GetFeatureName() string  { return StatusNotificationFeatureName }
func (r StatusNotificationResponse) GetFeatureName() string { return StatusNotificationFeatureName }

func NewStatusNotificationRequest(timestamp time.Time, status ConnectorStatus, evseID, connectorID int) *StatusNotificationRequest {
	return &StatusNotificationRequest{
		Timestamp:       timestamp,
		ConnectorStatus: status,
		EvseID:          evseID,
		ConnectorID:     connectorID,
	}
}

func NewStatusNotificationResponse() *StatusNotificationResponse {
	return &StatusNotificationResponse{}
}

func init() {
	ocpp.RegisterEnum("operationalStatus", OperationalStatusInoperative, OperationalStatusOperative)
	ocpp.RegisterEnum("changeAvailabilityStatus",
		ChangeAvailabilityStatusAccepted,
		ChangeAvailabilityStatusRejected,
		ChangeAvailabilityStatusScheduled,
	)
	ocpp.RegisterEnum("connectorStatus",
		ConnectorStatusAvailable,
		ConnectorStatusOccupied,
		ConnectorStatusReserved,
		ConnectorStatusUnavailable,
		ConnectorStatusFaulted,
	)
}
