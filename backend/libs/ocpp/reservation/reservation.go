// Package reservation contains the OCPP 2.1 reservation functional block.
package reservation

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const ProfileName = "reservation"

const (
	ReserveNowFeatureName              = "ReserveNow"
	CancelReservationFeatureName       = "CancelReservation"
	ReservationStatusUpdateFeatureName = "ReservationStatusUpdate"
)

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[ReserveNowRequest, ReserveNowResponse](ReserveNowFeatureName),
	ocpp.NewFeature[CancelReservationRequest, CancelReservationResponse](CancelReservationFeatureName),
	ocpp.NewFeature[ReservationStatusUpdateRequest, ReservationStatusUpdateResponse](ReservationStatusUpdateFeatureName),
)

// ReserveNowStatus answers ReserveNow.
type ReserveNowStatus string

const (
	ReserveNowStatusAccepted    ReserveNowStatus = "Accepted"
	ReserveNowStatusFaulted     ReserveNowStatus = "Faulted"
	ReserveNowStatusOccupied    ReserveNowStatus = "Occupied"
	ReserveNowStatusRejected    ReserveNowStatus = "Rejected"
	ReserveNowStatusUnavailable ReserveNowStatus = "Unavailable"
)

// CancelReservationStatus answers CancelReservation.
type CancelReservationStatus string

const (
	CancelReservationStatusAccepted CancelReservationStatus = "Accepted"
	CancelReservationStatusRejected CancelReservationStatus = "Rejected"
)

// ReservationUpdateStatus is reported when a reservation ends without use.
type ReservationUpdateStatus string

const (
	ReservationUpdateStatusExpired       ReservationUpdateStatus = "Expired"
	ReservationUpdateStatusRemoved       ReservationUpdateStatus = "Removed"
	ReservationUpdateStatusNoTransaction ReservationUpdateStatus = "NoTransaction"
)

// ReserveNowRequest reserves an EVSE, or any EVSE, for an identifier.
type ReserveNowRequest struct {
	types.Extensions
	ID             int            `json:"id"`
	ExpiryDateTime time.Time      `json:"expiryDateTime" validate:"required"`
	ConnectorType  string         `json:"connectorType,omitempty" validate:"max=20"`
	EvseID         *int           `json:"evseId,omitempty" validate:"omitempty,gte=0"`
	IdToken        types.IdToken  `json:"idToken" validate:"required"`
	GroupIdToken   *types.IdToken `json:"groupIdToken,omitempty" validate:"omitempty"`
}

type ReserveNowResponse struct {
	types.Extensions
	Status     ReserveNowStatus  `json:"status" validate:"required,reserveNowStatus"`
	StatusInfo *types.StatusInfo `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r ReserveNowRequest) GetFeatureName() string  { return ReserveNowFeatureName }
func (r ReserveNowResponse) GetFeatureName() string { return ReserveNowFeatureName }

func NewReserveNowRequest(id int, expiry time.Time, idToken types.IdToken) *ReserveNowRequest {
	return &ReserveNowRequest{ID: id, ExpiryDateTime: expiry, IdToken: idToken}
}

func NewReserveNowResponse(status ReserveNowStatus) *ReserveNowResponse {
	return &ReserveNowResponse{Status: status}
}

// CancelReservationRequest cancels a reservation by id.
type CancelReservationRequest struct {
	types.Extensions
	ReservationID int `json:"reservationId"`
}

type CancelReservationResponse struct {
	types.Extensions
	Status     CancelReservationStatus `json:"status" validate:"required,cancelReservationStatus"`
	StatusInfo *types.StatusInfo       `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r CancelReservationRequest) GetFeatureName() string  { return CancelReservationFeatureName }
func (r CancelReservationResponse) GetFeatureName() string { return CancelReservationFeatureName }

func NewCancelReservationRequest(reservationID int) *CancelReservationRequest {
	return &CancelReservationRequest{ReservationID: reservationID}
}

func NewCancelReservationResponse(status CancelReservationStatus) *CancelReservationResponse {
	return &CancelReservationResponse{Status: status}
}

// ReservationStatusUpdateRequest tells the CSMS a reservation has ended.
type ReservationStatusUpdateRequest struct {
	types.Extensions
	ReservationID           int                     `json:"reservationId"`
	ReservationUpdateStatus ReservationUpdateStatus `json:"reservationUpdateStatus" validate:"required,reservationUpdateStatus"`
}

type ReservationStatusUpdateResponse struct {
	types.Extensions
}

func (r ReservationStatusUpdateRequest) GetFeatureName() string {
	return ReservationStatusUpdateFeatureName
}

func (r ReservationStatusUpdateResponse) GetFeatureName() string {
	return ReservationStatusUpdateFeatureName
}

func NewReservationStatusUpdateRequest(reservationID int, status ReservationUpdateStatus) *ReservationStatusUpdateRequest {
	return &ReservationStatusUpdateRequest{ReservationID: reservationID, ReservationUpdateStatus: status}
}

func NewReservationStatusUpdateResponse() *ReservationStatusUpdateResponse {
	return &ReservationStatusUpdateResponse{}
}

func init() {
	ocpp.RegisterEnum("reserveNowStatus",
		ReserveNowStatusAccepted,
		ReserveNowStatusFaulted,
		ReserveNowStatusOccupied,
		ReserveNowStatusRejected,
		ReserveNowStatusUnavailable,
	)
	ocpp.RegisterEnum("cancelReservationStatus", CancelReservationStatusAccepted, CancelReservationStatusRejected)
	ocpp.RegisterEnum("reservationUpdateStatus",
		ReservationUpdateStatusExpired,
		ReservationUpdateStatusRemoved,
		ReservationUpdateStatusNoTransaction,
	)
}
