// Package bidirectional contains the OCPP 2.1 V2X messages: aFRR signals and
// allowed energy transfer updates.
package bidirectional

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const ProfileName = "bidirectional"

const (
	AFRRSignalFeatureName                  = "AFRRSignal"
	NotifyAllowedEnergyTransferFeatureName = "NotifyAllowedEnergyTransfer"
)

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[AFRRSignalRequest, AFRRSignalResponse](AFRRSignalFeatureName),
	ocpp.NewFeature[NotifyAllowedEnergyTransferRequest, NotifyAllowedEnergyTransferResponse](NotifyAllowedEnergyTransferFeatureName),
)

// NotifyAllowedEnergyTransferStatus answers NotifyAllowedEnergyTransfer.
type NotifyAllowedEnergyTransferStatus string

const (
	NotifyAllowedEnergyTransferAccepted NotifyAllowedEnergyTransferStatus = "Accepted"
	NotifyAllowedEnergyTransferRejected NotifyAllowedEnergyTransferStatus = "Rejected"
)

// AFRRSignalRequest activates an automatic frequency restoration reserve
// signal at Timestamp.
type AFRRSignalRequest struct {
	types.Extensions
	Timestamp time.Time `json:"timestamp" validate:"required"`
	Signal    int       `json:"signal"`
}

type AFRRSignalResponse struct {
	types.Extensions
	Status     types.GenericStatus `json:"status" validate:"required,genericStatus"`
	StatusInfo *types.StatusInfo   `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r AFRRSignalRequest) GetFeatureName() string  { return AFRRSignalFeatureName }
func (r AFRRSignalResponse) GetFeatureName() string { return AFRRSignalFeatureName }

func NewAFRRSignalRequest(timestamp time.Time, signal int) *AFRRSignalRequest {
	return &AFRRSignalRequest{Timestamp: timestamp, Signal: signal}
}

func NewAFRRSignalResponse(status types.GenericStatus) *AFRRSignalResponse {
	return &AFRRSignalResponse{Status: status}
}

// NotifyAllowedEnergyTransferRequest changes the energy transfer modes allowed
// for a running transaction.
type NotifyAllowedEnergyTransferRequest struct {
	types.Extensions
	TransactionID         string                     `json:"transactionId" validate:"required,max=36"`
	AllowedEnergyTransfer []types.EnergyTransferMode `json:"allowedEnergyTransfer" validate:"required,min=1,dive,energyTransferMode"`
}

type NotifyAllowedEnergyTransferResponse struct {
	types.Extensions
	Status     NotifyAllowedEnergyTransferStatus `json:"status" validate:"required,notifyAllowedEnergyTransferStatus"`
	StatusInfo *types.StatusInfo                 `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r NotifyAllowedEnergyTransferRequest) GetFeatureName() string {
	return NotifyAllowedEnergyTransferFeatureName
}

func (r NotifyAllowedEnergyTransferResponse) GetFeatureName() string {
	return NotifyAllowedEnergyTransferFeatureName
}

func NewNotifyAllowedEnergyTransferRequest(transactionID string, modes ...types.EnergyTransferMode) *NotifyAllowedEnergyTransferRequest {
	return &NotifyAllowedEnergyTransferRequest{TransactionID: transactionID, AllowedEnergyTransfer: modes}
}

func NewNotifyAllowedEnergyTransferResponse(status NotifyAllowedEnergyTransferStatus) *NotifyAllowedEnergyTransferResponse {
	return &NotifyAllowedEnergyTransferResponse{Status: status}
}

func init() {
	ocpp.RegisterEnum("notifyAllowedEnergyTransferStatus",
		NotifyAllowedEnergyTransferAccepted,
		NotifyAllowedEnergyTransferRejected,
	)
}
