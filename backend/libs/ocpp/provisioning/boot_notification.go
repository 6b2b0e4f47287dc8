package provisioning

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const BootNotificationFeatureName = "BootNotification"

// BootReason tells the CSMS why the station (re)started.
type BootReason string

const (
	BootReasonApplicationReset BootReason = "ApplicationReset"
	BootReasonFirmwareUpdate   BootReason = "FirmwareUpdate"
	BootReasonLocalReset       BootReason = "LocalReset"
	BootReasonPowerUp          BootReason = "PowerUp"
	BootReasonRemoteReset      BootReason = "RemoteReset"
	BootReasonScheduledReset   BootReason = "ScheduledReset"
	BootReasonTriggered        BootReason = "Triggered"
	BootReasonUnknown          BootReason = "Unknown"
	BootReasonWatchdog         BootReason = "Watchdog"
)

// RegistrationStatus is the CSMS answer to a boot notification.
type RegistrationStatus string

const (
	RegistrationStatusAccepted RegistrationStatus = "Accepted"
	RegistrationStatusPending  RegistrationStatus = "Pending"
	RegistrationStatusRejected RegistrationStatus = "Rejected"
)

// Modem describes the wireless module of a station.
type Modem struct {
	CustomData *types.CustomData `json:"customData,omitempty"`
	ICCID      string            `json:"iccid,omitempty" validate:"max=20"`
	IMSI       string            `json:"imsi,omitempty" validate:"max=20"`
}

// ChargingStation identifies the hardware and firmware of a station.
type ChargingStation struct {
	CustomData      *types.CustomData `json:"customData,omitempty"`
	SerialNumber    string            `json:"serialNumber,omitempty" validate:"max=25"`
	Model           string            `json:"model" validate:"required,max=20"`
	VendorName      string            `json:"vendorName" validate:"required,max=50"`
	FirmwareVersion string            `json:"firmwareVersion,omitempty" validate:"max=50"`
	Modem           *Modem            `json:"modem,omitempty" validate:"omitempty"`
}

// BootNotificationRequest is sent by a station after start-up.
type BootNotificationRequest struct {
	types.Extensions
	ChargingStation ChargingStation `json:"chargingStation" validate:"required"`
	Reason          BootReason      `json:"reason" validate:"required,bootReason"`
}

// BootNotificationResponse accepts, parks or rejects the station.
type BootNotificationResponse struct {
	types.Extensions
	CurrentTime time.Time          `json:"currentTime" validate:"required"`
	Interval    int                `json:"interval" validate:"gte=0"`
	Status      RegistrationStatus `json:"status" validate:"required,registrationStatus"`
	StatusInfo  *types.StatusInfo  `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r BootNotificationRequest) GetFeatureName() string  { return BootNotificationFeatureName }
func (r BootNotificationResponse) GetFeatureName() string { return BootNotificationFeatureName }

// NewBootNotificationRequest creates a boot notification for a station model.
func NewBootNotificationRequest(reason BootReason, model, vendorName string) *BootNotificationRequest {
	return &BootNotificationRequest{
		ChargingStation: ChargingStation{Model: model, VendorName: vendorName},
		Reason:          reason,
	}
}

// NewBootNotificationResponse creates a response with the heartbeat interval in seconds.
func NewBootNotificationResponse(currentTime time.Time, interval int, status RegistrationStatus) *BootNotificationResponse {
	return &BootNotificationResponse{CurrentTime: currentTime, Interval: interval, Status: status}
}

func init() {
	ocpp.RegisterEnum("bootReason",
		BootReasonApplicationReset,
		BootReasonFirmwareUpdate,
		BootReasonLocalReset,
		BootReasonPowerUp,
		BootReasonRemoteReset,
		BootReasonScheduledReset,
		BootReasonTriggered,
		BootReasonUnknown,
		BootReasonWatchdog,
	)
	ocpp.RegisterEnum("registrationStatus", RegistrationStatusAccepted, RegistrationStatusPending, RegistrationStatusRejected)
}
