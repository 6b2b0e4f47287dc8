// Package authorization contains the OCPP 2.1 authorization functional block:
// Authorize, the authorization cache and the local authorization list.
package authorization

import (
	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const ProfileName = "authorization"

const (
	AuthorizeFeatureName           = "Authorize"
	ClearCacheFeatureName          = "ClearCache"
	GetLocalListVersionFeatureName = "GetLocalListVersion"
	SendLocalListFeatureName       = "SendLocalList"
)

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[AuthorizeRequest, AuthorizeResponse](AuthorizeFeatureName),
	ocpp.NewFeature[ClearCacheRequest, ClearCacheResponse](ClearCacheFeatureName),
	ocpp.NewFeature[GetLocalListVersionRequest, GetLocalListVersionResponse](GetLocalListVersionFeatureName),
	ocpp.NewFeature[SendLocalListRequest, SendLocalListResponse](SendLocalListFeatureName),
)

// AuthorizeCertificateStatus is the outcome of validating a contract certificate.
type AuthorizeCertificateStatus string

const (
	CertificateStatusAccepted               AuthorizeCertificateStatus = "Accepted"
	CertificateStatusSignatureError         AuthorizeCertificateStatus = "SignatureError"
	CertificateStatusCertificateExpired     AuthorizeCertificateStatus = "CertificateExpired"
	CertificateStatusCertificateRevoked     AuthorizeCertificateStatus = "CertificateRevoked"
	CertificateStatusNoCertificateAvailable AuthorizeCertificateStatus = "NoCertificateAvailable"
	CertificateStatusCertChainError         AuthorizeCertificateStatus = "CertChainError"
	CertificateStatusContractCancelled      AuthorizeCertificateStatus = "ContractCancelled"
)

// ClearCacheStatus answers ClearCache.
type ClearCacheStatus string

const (
	ClearCacheStatusAccepted ClearCacheStatus = "Accepted"
	ClearCacheStatusRejected ClearCacheStatus = "Rejected"
)

// UpdateType of a local list update.
type UpdateType string

const (
	UpdateTypeDifferential UpdateType = "Differential"
	UpdateTypeFull         UpdateType = "Full"
)

// SendLocalListStatus answers SendLocalList.
type SendLocalListStatus string

const (
	SendLocalListStatusAccepted        SendLocalListStatus = "Accepted"
	SendLocalListStatusFailed          SendLocalListStatus = "Failed"
	SendLocalListStatusVersionMismatch SendLocalListStatus = "VersionMismatch"
)

// AuthorizeRequest asks whether an identifier may start or stop charging.
type AuthorizeRequest struct {
	types.Extensions
	IdToken                     types.IdToken           `json:"idToken" validate:"required"`
	Certificate                 string                  `json:"certificate,omitempty" validate:"max=10000"`
	ISO15118CertificateHashData []types.OCSPRequestData `json:"iso15118CertificateHashData,omitempty" validate:"omitempty,max=4,dive"`
}

// AuthorizeResponse carries the identifier's authorization info.
type AuthorizeResponse struct {
	types.Extensions
	IdTokenInfo           types.IdTokenInfo          `json:"idTokenInfo" validate:"required"`
	CertificateStatus     AuthorizeCertificateStatus `json:"certificateStatus,omitempty" validate:"omitempty,authorizeCertificateStatus"`
	AllowedEnergyTransfer []types.EnergyTransferMode `json:"allowedEnergyTransfer,omitempty" validate:"omitempty,dive,energyTransferMode"`
}

func (r AuthorizeRequest) GetFeatureName() string  { return AuthorizeFeatureName }
func (r AuthorizeResponse) GetFeatureName() string { return AuthorizeFeatureName }

func NewAuthorizeRequest(idToken types.IdToken) *AuthorizeRequest {
	return &AuthorizeRequest{IdToken: idToken}
}

func NewAuthorizeResponse(info types.IdTokenInfo) *AuthorizeResponse {
	return &AuthorizeResponse{IdTokenInfo: info}
}

// ClearCacheRequest clears the station's authorization cache.
type ClearCacheRequest struct {
	types.Extensions
}

type ClearCacheResponse struct {
	types.Extensions
	Status     ClearCacheStatus  `json:"status" validate:"required,clearCacheStatus"`
	StatusInfo *types.StatusInfo `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r ClearCacheRequest) GetFeatureName() string  { return ClearCacheFeatureName }
func (r ClearCacheResponse) GetFeatureName() string { return ClearCacheFeatureName }

func NewClearCacheRequest() *ClearCacheRequest {
	return &ClearCacheRequest{}
}

func NewClearCacheResponse(status ClearCacheStatus) *ClearCacheResponse {
	return &ClearCacheResponse{Status: status}
}

// GetLocalListVersionRequest asks for the version of the local list.
type GetLocalListVersionRequest struct {
	types.Extensions
}

type GetLocalListVersionResponse struct {
	types.Extensions
	VersionNumber int `json:"versionNumber"`
}

func (r GetLocalListVersionRequest) GetFeatureName() string  { return GetLocalListVersionFeatureName }
func (r GetLocalListVersionResponse) GetFeatureName() string { return GetLocalListVersionFeatureName }

func NewGetLocalListVersionRequest() *GetLocalListVersionRequest {
	return &GetLocalListVersionRequest{}
}

func NewGetLocalListVersionResponse(version int) *GetLocalListVersionResponse {
	return &GetLocalListVersionResponse{VersionNumber: version}
}

// AuthorizationData is one entry of the local list. A nil IdTokenInfo removes
// the entry on differential updates.
type AuthorizationData struct {
	CustomData  *types.CustomData  `json:"customData,omitempty"`
	IdToken     types.IdToken      `json:"idToken" validate:"required"`
	IdTokenInfo *types.IdTokenInfo `json:"idTokenInfo,omitempty" validate:"omitempty"`
}

// SendLocalListRequest replaces or updates the local authorization list.
type SendLocalListRequest struct {
	types.Extensions
	VersionNumber          int                 `json:"versionNumber"`
	UpdateType             UpdateType          `json:"updateType" validate:"required,updateType"`
	LocalAuthorizationList []AuthorizationData `json:"localAuthorizationList,omitempty" validate:"omitempty,dive"`
}

type SendLocalListResponse struct {
	types.Extensions
	Status     SendLocalListStatus `json:"status" validate:"required,sendLocalListStatus"`
	StatusInfo *types.StatusInfo   `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r SendLocalListRequest) GetFeatureName() string  { return SendLocalListFeatureName }
func (r SendLocalListResponse) GetFeatureName() string { return SendLocalListFeatureName }

func NewSendLocalListRequest(version int, updateType UpdateType, entries ...AuthorizationData) *SendLocalListRequest {
	return &SendLocalListRequest{VersionNumber: version, UpdateType: updateType, LocalAuthorizationList: entries}
}

func NewSendLocalListResponse(status SendLocalListStatus) *SendLocalListResponse {
	return &SendLocalListResponse{Status: status}
}

func init() {
	ocpp.RegisterEnum("authorizeCertificateStatus",
		CertificateStatusAccepted,
		CertificateStatusSignatureError,
		CertificateStatusCertificateExpired,
		CertificateStatusCertificateRevoked,
		CertificateStatusNoCertificateAvailable,
		CertificateStatusCertChainError,
		CertificateStatusContractCancelled,
	)
	ocpp.RegisterEnum("clearCacheStatus", ClearCacheStatusAccepted, ClearCacheStatusRejected)
	ocpp.RegisterEnum("updateType", UpdateTypeDifferential, UpdateTypeFull)
	ocpp.RegisterEnum("sendLocalListStatus",
		SendLocalListStatusAccepted,
		SendLocalListStatusFailed,
		SendLocalListStatusVersionMismatch,
	)
}
