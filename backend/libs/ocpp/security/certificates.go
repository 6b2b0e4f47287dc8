package security

import "ocppnode/backend/libs/ocpp/types"

const (
	SignCertificateFeatureName            = "SignCertificate"
	CertificateSignedFeatureName          = "CertificateSigned"
	InstallCertificateFeatureName         = "InstallCertificate"
	DeleteCertificateFeatureName          = "DeleteCertificate"
	GetInstalledCertificateIdsFeatureName = "GetInstalledCertificateIds"
)

// SignCertificateRequest sends a CSR to the CSMS.
type SignCertificateRequest struct {
	types.Extensions
	CSR             string                      `json:"csr" validate:"required,max=11000"`
	CertificateType types.CertificateSigningUse `json:"certificateType,omitempty" validate:"omitempty,certificateSigningUse"`
	RequestID       *int                        `json:"requestId,omitempty"`
}

type SignCertificateResponse struct {
	types.Extensions
	Status     types.GenericStatus `json:"status" validate:"required,genericStatus"`
	StatusInfo *types.StatusInfo   `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r SignCertificateRequest) GetFeatureName() string  { return SignCertificateFeatureName }
func (r SignCertificateResponse) GetFeatureName() string { return SignCertificateFeatureName }

func NewSignCertificateRequest(csr string) *SignCertificateRequest {
	return &SignCertificateRequest{CSR: csr}
}

func NewSignCertificateResponse(status types.GenericStatus) *SignCertificateResponse {
	return &SignCertificateResponse{Status: status}
}

// CertificateSignedRequest returns the signed certificate chain.
type CertificateSignedRequest struct {
	types.Extensions
	CertificateChain string                      `json:"certificateChain" validate:"required,max=10000"`
	CertificateType  types.CertificateSigningUse `json:"certificateType,omitempty" validate:"omitempty,certificateSigningUse"`
	RequestID        *int                        `json:"requestId,omitempty"`
}

type CertificateSignedResponse struct {
	types.Extensions
	Status     CertificateStatus `json:"status" validate:"required,certificateStatus"`
	StatusInfo *types.StatusInfo `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r CertificateSignedRequest) GetFeatureName() string  { return CertificateSignedFeatureName }
func (r CertificateSignedResponse) GetFeatureName() string { return CertificateSignedFeatureName }

func NewCertificateSignedRequest(chain string) *CertificateSignedRequest {
	return &CertificateSignedRequest{CertificateChain: chain}
}

func NewCertificateSignedResponse(status CertificateStatus) *CertificateSignedResponse {
	return &CertificateSignedResponse{Status: status}
}

// InstallCertificateRequest installs a root certificate.
type InstallCertificateRequest struct {
	types.Extensions
	CertificateType InstallCertificateUse `json:"certificateType" validate:"required,installCertificateUse"`
	Certificate     string                `json:"certificate" validate:"required,max=10000"`
}

type InstallCertificateResponse struct {
	types.Extensions
	Status     CertificateStatus `json:"status" validate:"required,certificateStatus"`
	StatusInfo *types.StatusInfo `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r InstallCertificateRequest) GetFeatureName() string  { return InstallCertificateFeatureName }
func (r InstallCertificateResponse) GetFeatureName() string { return InstallCertificateFeatureName }

func NewInstallCertificateRequest(use InstallCertificateUse, certificate string) *InstallCertificateRequest {
	return &InstallCertificateRequest{CertificateType: use, Certificate: certificate}
}

func NewInstallCertificateResponse(status CertificateStatus) *InstallCertificateResponse {
	return &InstallCertificateResponse{Status: status}
}

// DeleteCertificateRequest removes an installed certificate.
type DeleteCertificateRequest struct {
	types.Extensions
	CertificateHashData types.CertificateHashData `json:"certificateHashData" validate:"required"`
}

type DeleteCertificateResponse struct {
	types.Extensions
	Status     CertificateStatus `json:"status" validate:"required,certificateStatus"`
	StatusInfo *types.StatusInfo `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r DeleteCertificateRequest) GetFeatureName() string  { return DeleteCertificateFeatureName }
func (r DeleteCertificateResponse) GetFeatureName() string { return DeleteCertificateFeatureName }

func NewDeleteCertificateRequest(hash types.CertificateHashData) *DeleteCertificateRequest {
	return &DeleteCertificateRequest{CertificateHashData: hash}
}

func NewDeleteCertificateResponse(status CertificateStatus) *DeleteCertificateResponse {
	return &DeleteCertificateResponse{Status: status}
}

// CertificateHashDataChain describes an installed certificate and its chain.
type CertificateHashDataChain struct {
	CustomData               *types.CustomData           `json:"customData,omitempty"`
	CertificateType          CertificateType             `json:"certificateType" validate:"required,certificateType"`
	CertificateHashData      types.CertificateHashData   `json:"certificateHashData" validate:"required"`
	ChildCertificateHashData []types.CertificateHashData `json:"childCertificateHashData,omitempty" validate:"omitempty,max=4,dive"`
}

// GetInstalledCertificateIdsRequest lists installed certificates.
type GetInstalledCertificateIdsRequest struct {
	types.Extensions
	CertificateType []CertificateType `json:"certificateType,omitempty" validate:"omitempty,dive,certificateType"`
}

type GetInstalledCertificateIdsResponse struct {
	types.Extensions
	Status                   GetInstalledCertificateStatus `json:"status" validate:"required,getInstalledCertificateStatus"`
	CertificateHashDataChain []CertificateHashDataChain    `json:"certificateHashDataChain,omitempty" validate:"omitempty,dive"`
	StatusInfo               *types.StatusInfo             `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r GetInstalledCertificateIdsRequest) GetFeatureName() string {
	return GetInstalledCertificateIdsFeatureName
}

func (r GetInstalledCertificateIdsResponse) GetFeatureName() string {
	return GetInstalledCertificateIdsFeatureName
}

func NewGetInstalledCertificateIdsRequest(certificateTypes ...CertificateType) *GetInstalledCertificateIdsRequest {
	return &GetInstalledCertificateIdsRequest{CertificateType: certificateTypes}
}

func NewGetInstalledCertificateIdsResponse(status GetInstalledCertificateStatus) *GetInstalledCertificateIdsResponse {
	return &GetInstalledCertificateIdsResponse{Status: status}
}
