// Package firmware contains the OCPP 2.1 firmware management functional block,
// including publishing firmware from a local controller.
package firmware

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const ProfileName = "firmware"

const (
	UpdateFirmwareFeatureName                    = "UpdateFirmware"
	FirmwareStatusNotificationFeatureName        = "FirmwareStatusNotification"
	PublishFirmwareFeatureName                   = "PublishFirmware"
	PublishFirmwareStatusNotificationFeatureName = "PublishFirmwareStatusNotification"
	UnpublishFirmwareFeatureName                 = "UnpublishFirmware"
)

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[UpdateFirmwareRequest, UpdateFirmwareResponse](UpdateFirmwareFeatureName),
	ocpp.NewFeature[FirmwareStatusNotificationRequest, FirmwareStatusNotificationResponse](FirmwareStatusNotificationFeatureName),
	ocpp.NewFeature[PublishFirmwareRequest, PublishFirmwareResponse](PublishFirmwareFeatureName),
	ocpp.NewFeature[PublishFirmwareStatusNotificationRequest, PublishFirmwareStatusNotificationResponse](PublishFirmwareStatusNotificationFeatureName),
	ocpp.NewFeature[UnpublishFirmwareRequest, UnpublishFirmwareResponse](UnpublishFirmwareFeatureName),
)

// UpdateFirmwareStatus answers UpdateFirmware.
type UpdateFirmwareStatus string

const (
	UpdateFirmwareStatusAccepted           UpdateFirmwareStatus = "Accepted"
	UpdateFirmwareStatusRejected           UpdateFirmwareStatus = "Rejected"
	UpdateFirmwareStatusAcceptedCanceled   UpdateFirmwareStatus = "AcceptedCanceled"
	UpdateFirmwareStatusInvalidCertificate UpdateFirmwareStatus = "InvalidCertificate"
	UpdateFirmwareStatusRevokedCertificate UpdateFirmwareStatus = "RevokedCertificate"
)

// FirmwareStatus reports the progress of a firmware update.
type FirmwareStatus string

const (
	FirmwareStatusDownloaded                FirmwareStatus = "Downloaded"
	FirmwareStatusDownloadFailed            FirmwareStatus = "DownloadFailed"
	FirmwareStatusDownloading               FirmwareStatus = "Downloading"
	FirmwareStatusDownloadScheduled         FirmwareStatus = "DownloadScheduled"
	FirmwareStatusDownloadPaused            FirmwareStatus = "DownloadPaused"
	FirmwareStatusIdle                      FirmwareStatus = "Idle"
	FirmwareStatusInstallationFailed        FirmwareStatus = "InstallationFailed"
	FirmwareStatusInstalling                FirmwareStatus = "Installing"
	FirmwareStatusInstalled                 FirmwareStatus = "Installed"
	FirmwareStatusInstallRebooting          FirmwareStatus = "InstallRebooting"
	FirmwareStatusInstallScheduled          FirmwareStatus = "InstallScheduled"
	FirmwareStatusInstallVerificationFailed FirmwareStatus = "InstallVerificationFailed"
	FirmwareStatusInvalidSignature          FirmwareStatus = "InvalidSignature"
	FirmwareStatusSignatureVerified         FirmwareStatus = "SignatureVerified"
)

// PublishFirmwareStatus reports the progress of publishing firmware.
type PublishFirmwareStatus string

const (
	PublishFirmwareStatusIdle              PublishFirmwareStatus = "Idle"
	PublishFirmwareStatusDownloadScheduled PublishFirmwareStatus = "DownloadScheduled"
	PublishFirmwareStatusDownloading       PublishFirmwareStatus = "Downloading"
	PublishFirmwareStatusDownloaded        PublishFirmwareStatus = "Downloaded"
	PublishFirmwareStatusPublished         PublishFirmwareStatus = "Published"
	PublishFirmwareStatusDownloadFailed    PublishFirmwareStatus = "DownloadFailed"
	PublishFirmwareStatusDownloadPaused    PublishFirmwareStatus = "DownloadPaused"
	PublishFirmwareStatusInvalidChecksum   PublishFirmwareStatus = "InvalidChecksum"
	PublishFirmwareStatusChecksumVerified  PublishFirmwareStatus = "ChecksumVerified"
	PublishFirmwareStatusPublishFailed     PublishFirmwareStatus = "PublishFailed"
)

// UnpublishFirmwareStatus answers UnpublishFirmware.
type UnpublishFirmwareStatus string

const (
	UnpublishFirmwareStatusDownloadOngoing UnpublishFirmwareStatus = "DownloadOngoing"
	UnpublishFirmwareStatusNoFirmware      UnpublishFirmwareStatus = "NoFirmware"
	UnpublishFirmwareStatusUnpublished     UnpublishFirmwareStatus = "Unpublished"
)

// Firmware describes the image to install.
type Firmware struct {
	CustomData         *types.CustomData `json:"customData,omitempty"`
	Location           string            `json:"location" validate:"required,max=2000"`
	RetrieveDateTime   time.Time         `json:"retrieveDateTime" validate:"required"`
	InstallDateTime    *time.Time        `json:"installDateTime,omitempty"`
	SigningCertificate string            `json:"signingCertificate,omitempty" validate:"max=5500"`
	Signature          string            `json:"signature,omitempty" validate:"max=800"`
}

// UpdateFirmwareRequest asks the station to download and install firmware.
type UpdateFirmwareRequest struct {
	types.Extensions
	Retries       *int     `json:"retries,omitempty" validate:"omitempty,gte=0"`
	RetryInterval *int     `json:"retryInterval,omitempty" validate:"omitempty,gte=0"`
	RequestID     int      `json:"requestId"`
	Firmware      Firmware `json:"firmware" validate:"required"`
}

type UpdateFirmwareResponse struct {
	types.Extensions
	Status     UpdateFirmwareStatus `json:"status" validate:"required,updateFirmwareStatus"`
	StatusInfo *types.StatusInfo    `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r UpdateFirmwareRequest) GetFeatureName() string  { return UpdateFirmwareFeatureName }
func (r UpdateFirmwareResponse) GetFeatureName() string { return UpdateFirmwareFeatureName }

func NewUpdateFirmwareRequest(requestID int, location string, retrieve time.Time) *UpdateFirmwareRequest {
	return &UpdateFirmwareRequest{
		RequestID: requestID,
		Firmware:  Firmware{Location: location, RetrieveDateTime: retrieve},
	}
}

func NewUpdateFirmwareResponse(status UpdateFirmwareStatus) *UpdateFirmwareResponse {
	return &UpdateFirmwareResponse{Status: status}
}

// FirmwareStatusNotificationRequest reports update progress.
type FirmwareStatusNotificationRequest struct {
	types.Extensions
	Status     FirmwareStatus    `json:"status" validate:"required,firmwareStatus"`
	RequestID  *int              `json:"requestId,omitempty"`
	StatusInfo *types.StatusInfo `json:"statusInfo,omitempty" validate:"omitempty"`
}

type FirmwareStatusNotificationResponse struct {
	types.Extensions
}

func (r FirmwareStatusNotificationRequest) GetFeatureName() string {
	return FirmwareStatusNotificationFeatureName
}

func (r FirmwareStatusNotificationResponse) GetFeatureName() string {
	return FirmwareStatusNotificationFeatureName
}

func NewFirmwareStatusNotificationRequest(status FirmwareStatus) *FirmwareStatusNotificationRequest {
	return &FirmwareStatusNotificationRequest{Status: status}
}

func NewFirmwareStatusNotificationResponse() *FirmwareStatusNotificationResponse {
	return &FirmwareStatusNotificationResponse{}
}

// PublishFirmwareRequest asks a local controller to serve a firmware image to
// the stations behind it.
type PublishFirmwareRequest struct {
	types.Extensions
	Location      string `json:"location" validate:"required,max=2000"`
	Retries       *int   `json:"retries,omitempty" validate:"omitempty,gte=0"`
	Checksum      string `json:"checksum" validate:"required,max=32"`
	RequestID     int    `json:"requestId"`
	RetryInterval *int   `json:"retryInterval,omitempty" validate:"omitempty,gte=0"`
}

type PublishFirmwareResponse struct {
	types.Extensions
	Status     types.GenericStatus `json:"status" validate:"required,genericStatus"`
	StatusInfo *types.StatusInfo   `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r PublishFirmwareRequest) GetFeatureName() string  { return PublishFirmwareFeatureName }
func (r PublishFirmwareResponse) GetFeatureName() string { return PublishFirmwareFeatureName }

func NewPublishFirmwareRequest(location, checksum string, requestID int) *PublishFirmwareRequest {
	return &PublishFirmwareRequest{Location: location, Checksum: checksum, RequestID: requestID}
}

func NewPublishFirmwareResponse(status types.GenericStatus) *PublishFirmwareResponse {
	return &PublishFirmwareResponse{Status: status}
}

// PublishFirmwareStatusNotificationRequest reports publishing progress. Once
// published, Location lists the URIs the firmware is served at.
type PublishFirmwareStatusNotificationRequest struct {
	types.Extensions
	Status     PublishFirmwareStatus `json:"status" validate:"required,publishFirmwareStatus"`
	Location   []string              `json:"location,omitempty" validate:"omitempty,dive,max=2000"`
	RequestID  *int                  `json:"requestId,omitempty"`
	StatusInfo *types.StatusInfo     `json:"statusInfo,omitempty" validate:"omitempty"`
}

type PublishFirmwareStatusNotificationResponse struct {
	types.Extensions
}

func (r PublishFirmwareStatusNotificationRequest) GetFeatureName() string {
	return PublishFirmwareStatusNotificationFeatureName
}

func (r PublishFirmwareStatusNotificationResponse) GetFeatureName() string {
	return PublishFirmwareStatusNotificationFeatureName
}

func NewPublishFirmwareStatusNotificationRequest(status PublishFirmwareStatus) *PublishFirmwareStatusNotificationRequest {
	return &PublishFirmwareStatusNotificationRequest{Status: status}
}

func NewPublishFirmwareStatusNotificationResponse() *PublishFirmwareStatusNotificationResponse {
	return &PublishFirmwareStatusNotificationResponse{}
}

// UnpublishFirmwareRequest stops serving a firmware image.
type UnpublishFirmwareRequest struct {
	types.Extensions
	Checksum string `json:"checksum" validate:"required,max=32"`
}

type UnpublishFirmwareResponse struct {
	types.Extensions
	Status UnpublishFirmwareStatus `json:"status" validate:"required,unpublishFirmwareStatus"`
}

func (r UnpublishFirmwareRequest) GetFeatureName() string  { return UnpublishFirmwareFeatureName }
func (r UnpublishFirmwareResponse) GetFeatureName() string { return UnpublishFirmwareFeatureName }

func NewUnpublishFirmwareRequest(checksum string) *UnpublishFirmwareRequest {
	return &UnpublishFirmwareRequest{Checksum: checksum}
}

func NewUnpublishFirmwareResponse(status UnpublishFirmwareStatus) *UnpublishFirmwareResponse {
	return &UnpublishFirmwareResponse{Status: status}
}

func init() {
	ocpp.RegisterEnum("updateFirmwareStatus",
		UpdateFirmwareStatusAccepted,
		UpdateFirmwareStatusRejected,
		UpdateFirmwareStatusAcceptedCanceled,
		UpdateFirmwareStatusInvalidCertificate,
		UpdateFirmwareStatusRevokedCertificate,
	)
	ocpp.RegisterEnum("firmwareStatus",
		FirmwareStatusDownloaded,
		FirmwareStatusDownloadFailed,
		FirmwareStatusDownloading,
		FirmwareStatusDownloadScheduled,
		FirmwareStatusDownloadPaused,
		FirmwareStatusIdle,
		FirmwareStatusInstallationFailed,
		FirmwareStatusInstalling,
		FirmwareStatusInstalled,
		FirmwareStatusInstallRebooting,
		FirmwareStatusInstallScheduled,
		FirmwareStatusInstallVerificationFailed,
		FirmwareStatusInvalidSignature,
		FirmwareStatusSignatureVerified,
	)
	ocpp.RegisterEnum("publishFirmwareStatus",
		PublishFirmwareStatusIdle,
		PublishFirmwareStatusDownloadScheduled,
		PublishFirmwareStatusDownloading,
		PublishFirmwareStatusDownloaded,
		PublishFirmwareStatusPublished,
		PublishFirmwareStatusDownloadFailed,
		PublishFirmwareStatusDownloadPaused,
		PublishFirmwareStatusInvalidChecksum,
		PublishFirmwareStatusChecksumVerified,
		PublishFirmwareStatusPublishFailed,
	)
	ocpp.RegisterEnum("unpublishFirmwareStatus",
		UnpublishFirmwareStatusDownloadOngoing,
		UnpublishFirmwareStatusNoFirmware,
		UnpublishFirmwareStatusUnpublished,
	)
}
