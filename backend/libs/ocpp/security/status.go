package security

import (
	"time"

	"ocppnode/backend/libs/ocpp/types"
)

const (
	GetCertificateStatusFeatureName      = "GetCertificateStatus"
	GetCertificateChainStatusFeatureName = "GetCertificateChainStatus"
	Get15118EVCertificateFeatureName     = "Get15118EVCertificate"
	SecurityEventNotificationFeatureName = "SecurityEventNotification"
)

// GetCertificateStatusRequest asks the CSMS for an OCSP response.
type GetCertificateStatusRequest struct {
	types.Extensions
	OCSPRequestData types.OCSPRequestData `json:"ocspRequestData" validate:"required"`
}

type GetCertificateStatusResponse struct {
	types.Extensions
	Status     types.GenericStatus `json:"status" validate:"required,genericStatus"`
	OCSPResult string              `json:"ocspResult,omitempty" validate:"max=18000"`
	StatusInfo *types.StatusInfo   `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r GetCertificateStatusRequest) GetFeatureName() string {
	return GetCertificateStatusFeatureName
}

func (r GetCertificateStatusResponse) GetFeatureName() string {
	return GetCertificateStatusFeatureName
}

func NewGetCertificateStatusRequest(data types.OCSPRequestData) *GetCertificateStatusRequest {
	return &GetCertificateStatusRequest{OCSPRequestData: data}
}

func NewGetCertificateStatusResponse(status types.GenericStatus) *GetCertificateStatusResponse {
	return &GetCertificateStatusResponse{Status: status}
}

// CertificateStatusRequestInfo names one certificate of a chain to check.
type CertificateStatusRequestInfo struct {
	CustomData          *types.CustomData         `json:"customData,omitempty"`
	CertificateHashData types.CertificateHashData `json:"certificateHashData" validate:"required"`
	Source              string                    `json:"source" validate:"required,oneof=CRL OCSP"`
	URLs                []string                  `json:"urls" validate:"required,min=1,max=5,dive,max=2000"`
}

// CertificateStatusInfo is the revocation status of one certificate.
type CertificateStatusInfo struct {
	CustomData          *types.CustomData         `json:"customData,omitempty"`
	CertificateHashData types.CertificateHashData `json:"certificateHashData" validate:"required"`
	Source              string                    `json:"source" validate:"required,oneof=CRL OCSP"`
	Status              OCSPStatus                `json:"status" validate:"required,ocspStatus"`
	NextUpdate          time.Time                 `json:"nextUpdate" validate:"required"`
}

// GetCertificateChainStatusRequest checks the revocation status of a chain.
type GetCertificateChainStatusRequest struct {
	types.Extensions
	CertificateStatusRequests []CertificateStatusRequestInfo `json:"certificateStatusRequests" validate:"required,min=1,max=4,dive"`
}

type GetCertificateChainStatusResponse struct {
	types.Extensions
	CertificateStatus []CertificateStatusInfo `json:"certificateStatus" validate:"required,min=1,max=4,dive"`
}

func (r GetCertificateChainStatusRequest) GetFeatureName() string {
	return GetCertificateChainStatusFeatureName
}

func (r GetCertificateChainStatusResponse) GetFeatureName() string {
	return GetCertificateChainStatusFeatureName
}

func NewGetCertificateChainStatusRequest(requests ...CertificateStatusRequestInfo) *GetCertificateChainStatusRequest {
	return &GetCertificateChainStatusRequest{CertificateStatusRequests: requests}
}

func NewGetCertificateChainStatusResponse(statuses ...CertificateStatusInfo) *GetCertificateChainStatusResponse {
	return &GetCertificateChainStatusResponse{CertificateStatus: statuses}
}

// Get15118EVCertificateRequest relays an EXI encoded certificate request
// from the EV.
type Get15118EVCertificateRequest struct {
	types.Extensions
	ISO15118SchemaVersion            string            `json:"iso15118SchemaVersion" validate:"required,max=50"`
	Action                           CertificateAction `json:"action" validate:"required,certificateAction"`
	EXIRequest                       string            `json:"exiRequest" validate:"required,max=11000"`
	MaximumContractCertificateChains *int              `json:"maximumContractCertificateChains,omitempty" validate:"omitempty,gte=0"`
	PrioritizedEMAIDs                []string          `json:"prioritizedEMAIDs,omitempty" validate:"omitempty,max=8,dive,max=255"`
}

type Get15118EVCertificateResponse struct {
	types.Extensions
	Status             Iso15118EVCertificateStatus `json:"status" validate:"required,iso15118EVCertificateStatus"`
	EXIResponse        string                      `json:"exiResponse" validate:"required,max=17000"`
	RemainingContracts *int                        `json:"remainingContracts,omitempty" validate:"omitempty,gte=0"`
	StatusInfo         *types.StatusInfo           `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r Get15118EVCertificateRequest) GetFeatureName() string {
	return Get15118EVCertificateFeatureName
}

func (r Get15118EVCertificateResponse) GetFeatureName() string {
	return Get15118EVCertificateFeatureName
}

func NewGet15118EVCertificateRequest(schemaVersion string, action CertificateAction, exiRequest string) *Get15118EVCertificateRequest {
	return &Get15118EVCertificateRequest{ISO15118SchemaVersion: schemaVersion, Action: action, EXIRequest: exiRequest}
}

func NewGet15118EVCertificateResponse(status Iso15118EVCertificateStatus, exiResponse string) *Get15118EVCertificateResponse {
	return &Get15118EVCertificateResponse{Status: status, EXIResponse: exiResponse}
}

// SecurityEventNotificationRequest reports a security event.
type SecurityEventNotificationRequest struct {
	types.Extensions
	Type      string    `json:"type" validate:"required,max=50"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
	TechInfo  string    `json:"techInfo,omitempty" validate:"max=255"`
}

type SecurityEventNotificationResponse struct {
	types.Extensions
}

func (r SecurityEventNotificationRequest) GetFeatureName() string {
	return SecurityEventNotificationFeatureName
}

func (r SecurityEventNotificationResponse) GetFeatureName() string {
	return SecurityEventNotificationFeatureName
}

func NewSecurityEventNotificationRequest(eventType string, timestamp time.Time) *SecurityEventNotificationRequest {
	return &SecurityEventNotificationRequest{Type: eventType, Timestamp: timestamp}
}

func NewSecurityEventNotificationResponse() *SecurityEventNotificationResponse {
	return &SecurityEventNotificationResponse{}
}
