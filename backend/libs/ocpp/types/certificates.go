package types

import "ocppnode/backend/libs/ocpp"

// HashAlgorithm used for certificate hash data.
type HashAlgorithm string

const (
	SHA256 HashAlgorithm = "SHA256"
	SHA384 HashAlgorithm = "SHA384"
	SHA512 HashAlgorithm = "SHA512"
)

// CertificateHashData identifies a certificate by its issuer hashes and serial.
type CertificateHashData struct {
	CustomData     *CustomData   `json:"customData,omitempty"`
	HashAlgorithm  HashAlgorithm `json:"hashAlgorithm" validate:"required,hashAlgorithm"`
	IssuerNameHash string        `json:"issuerNameHash" validate:"required,max=128"`
	IssuerKeyHash  string        `json:"issuerKeyHash" validate:"required,max=128"`
	SerialNumber   string        `json:"serialNumber" validate:"required,max=40"`
}

// OCSPRequestData is the input for an OCSP status request.
type OCSPRequestData struct {
	CustomData     *CustomData   `json:"customData,omitempty"`
	HashAlgorithm  HashAlgorithm `json:"hashAlgorithm" validate:"required,hashAlgorithm"`
	IssuerNameHash string        `json:"issuerNameHash" validate:"required,max=128"`
	IssuerKeyHash  string        `json:"issuerKeyHash" validate:"required,max=128"`
	SerialNumber   string        `json:"serialNumber" validate:"required,max=40"`
	ResponderURL   string        `json:"responderURL" validate:"required,max=2000"`
}

// CertificateSigningUse names what a signed certificate is used for.
type CertificateSigningUse string

const (
	ChargingStationCertificate CertificateSigningUse = "ChargingStationCertificate"
	V2GCertificate             CertificateSigningUse = "V2GCertificate"
	V2G20Certificate           CertificateSigningUse = "V2G20Certificate"
)

func init() {
	ocpp.RegisterEnum("hashAlgorithm", SHA256, SHA384, SHA512)
	ocpp.RegisterEnum("certificateSigningUse", ChargingStationCertificate, V2GCertificate, V2G20Certificate)
}
