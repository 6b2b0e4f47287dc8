package diagnostics

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const (
	CustomerInformationFeatureName       = "CustomerInformation"
	NotifyCustomerInformationFeatureName = "NotifyCustomerInformation"
)

// CustomerInformationStatus answers CustomerInformation.
type CustomerInformationStatus string

const (
	CustomerInformationStatusAccepted CustomerInformationStatus = "Accepted"
	CustomerInformationStatusRejected CustomerInformationStatus = "Rejected"
	CustomerInformationStatusInvalid  CustomerInformationStatus = "Invalid"
)

// CustomerInformationRequest asks for, or clears, data stored about a customer.
type CustomerInformationRequest struct {
	types.Extensions
	RequestID           int                        `json:"requestId"`
	Report              bool                       `json:"report"`
	Clear               bool                       `json:"clear"`
	CustomerIdentifier  string                     `json:"customerIdentifier,omitempty" validate:"max=64"`
	IdToken             *types.IdToken             `json:"idToken,omitempty" validate:"omitempty"`
	CustomerCertificate *types.CertificateHashData `json:"customerCertificate,omitempty" validate:"omitempty"`
}

type CustomerInformationResponse struct {
	types.Extensions
	Status     CustomerInformationStatus `json:"status" validate:"required,customerInformationStatus"`
	StatusInfo *types.StatusInfo         `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r CustomerInformationRequest) GetFeatureName() string  { return CustomerInformationFeatureName }
func (r CustomerInformationResponse) GetFeatureName() string { return CustomerInformationFeatureName }

func NewCustomerInformationRequest(requestID int, report, clear bool) *CustomerInformationRequest {
	return &CustomerInformationRequest{RequestID: requestID, Report: report, Clear: clear}
}

func NewCustomerInformationResponse(status CustomerInformationStatus) *CustomerInformationResponse {
	return &CustomerInformationResponse{Status: status}
}

// NotifyCustomerInformationRequest carries one part of the customer data.
type NotifyCustomerInformationRequest struct {
	types.Extensions
	Data        string    `json:"data" validate:"required,max=512"`
	Tbc         bool      `json:"tbc,omitempty"`
	SeqNo       int       `json:"seqNo" validate:"gte=0"`
	GeneratedAt time.Time `json:"generatedAt" validate:"required"`
	RequestID   int       `json:"requestId"`
}

type NotifyCustomerInformationResponse struct {
	types.Extensions
}

func (r NotifyCustomerInformationRequest) GetFeatureName() string {
	return NotifyCustomerInformationFeatureName
}

func (r NotifyCustomerInformationResponse) GetFeatureName() string {
	return NotifyCustomerInformationFeatureName
}

func NewNotifyCustomerInformationRequest(data string, seqNo int, generatedAt time.Time, requestID int) *NotifyCustomerInformationRequest {
	return &NotifyCustomerInformationRequest{Data: data, SeqNo: seqNo, GeneratedAt: generatedAt, RequestID: requestID}
}

func NewNotifyCustomerInformationResponse() *NotifyCustomerInformationResponse {
	return &NotifyCustomerInformationResponse{}
}

func init() {
	ocpp.RegisterEnum("customerInformationStatus",
		CustomerInformationStatusAccepted,
		CustomerInformationStatusRejected,
		CustomerInformationStatusInvalid,
	)
}
