// Package security contains the OCPP 2.1 security functional block: station
// certificate management, ISO 15118 certificates and security events.
package security

import "ocppnode/backend/libs/ocpp"

const ProfileName = "security"

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[SignCertificateRequest, SignCertificateResponse](SignCertificateFeatureName),
	ocpp.NewFeature[CertificateSignedRequest, CertificateSignedResponse](CertificateSignedFeatureName),
	ocpp.NewFeature[InstallCertificateRequest, InstallCertificateResponse](InstallCertificateFeatureName),
	ocpp.NewFeature[DeleteCertificateRequest, DeleteCertificateResponse](DeleteCertificateFeatureName),
	ocpp.NewFeature[GetInstalledCertificateIdsRequest, GetInstalledCertificateIdsResponse](GetInstalledCertificateIdsFeatureName),
	ocpp.NewFeature[GetCertificateStatusRequest, GetCertificateStatusResponse](GetCertificateStatusFeatureName),
	ocpp.NewFeature[GetCertificateChainStatusRequest, GetCertificateChainStatusResponse](GetCertificateChainStatusFeatureName),
	ocpp.NewFeature[Get15118EVCertificateRequest, Get15118EVCertificateResponse](Get15118EVCertificateFeatureName),
	ocpp.NewFeature[SecurityEventNotificationRequest, SecurityEventNotificationResponse](SecurityEventNotificationFeatureName),
)

// CertificateType of an installed certificate.
type CertificateType string

const (
	V2GRootCertificate          CertificateType = "V2GRootCertificate"
	MORootCertificate           CertificateType = "MORootCertificate"
	CSMSRootCertificate         CertificateType = "CSMSRootCertificate"
	V2GCertificateChain         CertificateType = "V2GCertificateChain"
	ManufacturerRootCertificate CertificateType = "ManufacturerRootCertificate"
	OEMRootCertificate          CertificateType = "OEMRootCertificate"
)

// InstallCertificateUse selects the root certificate kind to install.
type InstallCertificateUse string

const (
	InstallV2GRootCertificate          InstallCertificateUse = "V2GRootCertificate"
	InstallMORootCertificate           InstallCertificateUse = "MORootCertificate"
	InstallManufacturerRootCertificate InstallCertificateUse = "ManufacturerRootCertificate"
	InstallCSMSRootCertificate         InstallCertificateUse = "CSMSRootCertificate"
	InstallOEMRootCertificate          InstallCertificateUse = "OEMRootCertificate"
)

// CertificateStatus answers certificate operations.
type CertificateStatus string

const (
	CertificateStatusAccepted CertificateStatus = "Accepted"
	CertificateStatusRejected CertificateStatus = "Rejected"
	CertificateStatusFailed   CertificateStatus = "Failed"
	CertificateStatusNotFound CertificateStatus = "NotFound"
)

// GetInstalledCertificateStatus answers GetInstalledCertificateIds.
type GetInstalledCertificateStatus string

const (
	GetInstalledCertificateStatusAccepted GetInstalledCertificateStatus = "Accepted"
	GetInstalledCertificateStatusNotFound GetInstalledCertificateStatus = "NotFound"
)

// OCSPStatus of a certificate.
type OCSPStatus string

const (
	OCSPStatusGood    OCSPStatus = "Good"
	OCSPStatusRevoked OCSPStatus = "Revoked"
	OCSPStatusUnknown OCSPStatus = "Unknown"
	OCSPStatusFailed  OCSPStatus = "Failed"
)

// CertificateAction of an ISO 15118 certificate request.
type CertificateAction string

const (
	CertificateActionInstall CertificateAction = "Install"
	CertificateActionUpdate  CertificateAction = "Update"
)

// Iso15118EVCertificateStatus answers Get15118EVCertificate.
type Iso15118EVCertificateStatus string

const (
	Iso15118EVCertificateStatusAccepted Iso15118EVCertificateStatus = "Accepted"
	Iso15118EVCertificateStatusFailed   Iso15118EVCertificateStatus = "Failed"
)

func init() {
	ocpp.RegisterEnum("certificateType",
		V2GRootCertificate,
		MORootCertificate,
		CSMSRootCertificate,
		V2GCertificateChain,
		ManufacturerRootCertificate,
		OEMRootCertificate,
	)
	ocpp.RegisterEnum("installCertificateUse",
		InstallV2GRootCertificate,
		InstallMORootCertificate,
		InstallManufacturerRootCertificate,
		InstallCSMSRootCertificate,
		InstallOEMRootCertificate,
	)
	ocpp.RegisterEnum("certificateStatus",
		CertificateStatusAccepted,
		CertificateStatusRejected,
		CertificateStatusFailed,
		CertificateStatusNotFound,
	)
	ocpp.RegisterEnum("getInstalledCertificateStatus",
		GetInstalledCertificateStatusAccepted,
		GetInstalledCertificateStatusNotFound,
	)
	ocpp.RegisterEnum("ocspStatus", OCSPStatusGood, OCSPStatusRevoked, OCSPStatusUnknown, OCSPStatusFailed)
	ocpp.RegisterEnum("certificateAction", CertificateActionInstall, CertificateActionUpdate)
	ocpp.RegisterEnum("iso15118EVCertificateStatus",
		Iso15118EVCertificateStatusAccepted,
		Iso15118EVCertificateStatusFailed,
	)
}
