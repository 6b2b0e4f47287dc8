package diagnostics

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const (
	GetLogFeatureName                = "GetLog"
	LogStatusNotificationFeatureName = "LogStatusNotification"
)

// LogType selects which log to upload.
type LogType string

const (
	LogTypeDiagnosticsLog   LogType = "DiagnosticsLog"
	LogTypeSecurityLog      LogType = "SecurityLog"
	LogTypeDataCollectorLog LogType = "DataCollectorLog"
)

// LogStatus answers GetLog.
type LogStatus string

const (
	LogStatusAccepted         LogStatus = "Accepted"
	LogStatusRejected         LogStatus = "Rejected"
	LogStatusAcceptedCanceled LogStatus = "AcceptedCanceled"
)

// UploadLogStatus reports the progress of a log upload.
type UploadLogStatus string

const (
	UploadLogStatusBadMessage            UploadLogStatus = "BadMessage"
	UploadLogStatusIdle                  UploadLogStatus = "Idle"
	UploadLogStatusNotSupportedOperation UploadLogStatus = "NotSupportedOperation"
	UploadLogStatusPermissionDenied      UploadLogStatus = "PermissionDenied"
	UploadLogStatusUploaded              UploadLogStatus = "Uploaded"
	UploadLogStatusUploadFailure         UploadLogStatus = "UploadFailure"
	UploadLogStatusUploading             UploadLogStatus = "Uploading"
	UploadLogStatusAcceptedCanceled      UploadLogStatus = "AcceptedCanceled"
)

// LogParameters tell where to upload and which period to include.
type LogParameters struct {
	CustomData      *types.CustomData `json:"customData,omitempty"`
	RemoteLocation  string            `json:"remoteLocation" validate:"required,max=2000"`
	OldestTimestamp *time.Time        `json:"oldestTimestamp,omitempty"`
	LatestTimestamp *time.Time        `json:"latestTimestamp,omitempty"`
}

// GetLogRequest asks the station to upload a log.
type GetLogRequest struct {
	types.Extensions
	Log           LogParameters `json:"log" validate:"required"`
	LogType       LogType       `json:"logType" validate:"required,logType"`
	RequestID     int           `json:"requestId"`
	Retries       *int          `json:"retries,omitempty" validate:"omitempty,gte=0"`
	RetryInterval *int          `json:"retryInterval,omitempty" validate:"omitempty,gte=0"`
}

type GetLogResponse struct {
	types.Extensions
	Status     LogStatus         `json:"status" validate:"required,logStatus"`
	Filename   string            `json:"filename,omitempty" validate:"max=255"`
	StatusInfo *types.StatusInfo `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r GetLogRequest) GetFeatureName() string  { return GetLogFeatureName }
func (r GetLogResponse) GetFeatureName() string { return GetLogFeatureName }

func NewGetLogRequest(logType LogType, requestID int, remoteLocation string) *GetLogRequest {
	return &GetLogRequest{
		Log:       LogParameters{RemoteLocation: remoteLocation},
		LogType:   logType,
		RequestID: requestID,
	}
}

func NewGetLogResponse(status LogStatus) *GetLogResponse {
	return &GetLogResponse{Status: status}
}

// LogStatusNotificationRequest reports upload progress.
type LogStatusNotificationRequest struct {
	types.Extensions
	Status     UploadLogStatus   `json:"status" validate:"required,uploadLogStatus"`
	RequestID  *int              `json:"requestId,omitempty"`
	StatusInfo *types.StatusInfo `json:"statusInfo,omitempty" validate:"omitempty"`
}

type LogStatusNotificationResponse struct {
	types.Extensions
}

func (r LogStatusNotificationRequest) GetFeatureName() string {
	return LogStatusNotificationFeatureName
}

func (r LogStatusNotificationResponse) GetFeatureName() string {
	return LogStatusNotificationFeatureName
}

func NewLogStatusNotificationRequest(status UploadLogStatus) *LogStatusNotificationRequest {
	return &LogStatusNotificationRequest{Status: status}
}

func NewLogStatusNotificationResponse() *LogStatusNotificationResponse {
	return &LogStatusNotificationResponse{}
}

func init() {
	ocpp.RegisterEnum("logType", LogTypeDiagnosticsLog, LogTypeSecurityLog, LogTypeDataCollectorLog)
	ocpp.RegisterEnum("logStatus", LogStatusAccepted, LogStatusRejected, LogStatusAcceptedCanceled)
	ocpp.RegisterEnum("uploadLogStatus",
		UploadLogStatusBadMessage,
		UploadLogStatusIdle,
		UploadLogStatusNotSupportedOperation,
		UploadLogStatusPermissionDenied,
		UploadLogStatusUploaded,
		UploadLogStatusUploadFailure,
		UploadLogStatusUploading,
		UploadLogStatusAcceptedCanceled,
	)
}
