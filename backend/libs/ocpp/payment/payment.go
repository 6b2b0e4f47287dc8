// Package payment contains the OCPP 2.1 local and ad hoc payment messages.
package payment

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const ProfileName = "payment"

const (
	NotifySettlementFeatureName        = "NotifySettlement"
	NotifyWebPaymentStartedFeatureName = "NotifyWebPaymentStarted"
	VatNumberValidationFeatureName     = "VatNumberValidation"
	NotifyQRCodeScannedFeatureName     = "NotifyQRCodeScanned"
)

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[NotifySettlementRequest, NotifySettlementResponse](NotifySettlementFeatureName),
	ocpp.NewFeature[NotifyWebPaymentStartedRequest, NotifyWebPaymentStartedResponse](NotifyWebPaymentStartedFeatureName),
	ocpp.NewFeature[VatNumberValidationRequest, VatNumberValidationResponse](VatNumberValidationFeatureName),
	ocpp.NewFeature[NotifyQRCodeScannedRequest, NotifyQRCodeScannedResponse](NotifyQRCodeScannedFeatureName),
)

// PaymentStatus of a settlement.
type PaymentStatus string

const (
	PaymentStatusSettled  PaymentStatus = "Settled"
	PaymentStatusCanceled PaymentStatus = "Canceled"
	PaymentStatusRejected PaymentStatus = "Rejected"
	PaymentStatusFailed   PaymentStatus = "Failed"
)

// Address of a company, used for VAT receipts.
type Address struct {
	CustomData *types.CustomData `json:"customData,omitempty"`
	Name       string            `json:"name" validate:"required,max=50"`
	Address1   string            `json:"address1" validate:"required,max=100"`
	Address2   string            `json:"address2,omitempty" validate:"max=100"`
	City       string            `json:"city" validate:"required,max=100"`
	PostalCode string            `json:"postalCode,omitempty" validate:"max=20"`
	Country    string            `json:"country" validate:"required,max=50"`
}

// NotifySettlementRequest reports the outcome of a payment terminal settlement.
type NotifySettlementRequest struct {
	types.Extensions
	TransactionID    string        `json:"transactionId,omitempty" validate:"max=36"`
	PspRef           string        `json:"pspRef" validate:"required,max=255"`
	Status           PaymentStatus `json:"status" validate:"required,paymentStatus"`
	StatusInfo       string        `json:"statusInfo,omitempty" validate:"max=500"`
	SettlementAmount float64       `json:"settlementAmount"`
	SettlementTime   time.Time     `json:"settlementTime" validate:"required"`
	ReceiptID        string        `json:"receiptId,omitempty" validate:"max=50"`
	ReceiptURL       string        `json:"receiptUrl,omitempty" validate:"max=2000"`
	VatCompany       *Address      `json:"vatCompany,omitempty" validate:"omitempty"`
	VatNumber        string        `json:"vatNumber,omitempty" validate:"max=20"`
}

type NotifySettlementResponse struct {
	types.Extensions
	ReceiptURL string `json:"receiptUrl,omitempty" validate:"max=2000"`
	ReceiptID  string `json:"receiptId,omitempty" validate:"max=50"`
}

func (r NotifySettlementRequest) GetFeatureName() string  { return NotifySettlementFeatureName }
func (r NotifySettlementResponse) GetFeatureName() string { return NotifySettlementFeatureName }

func NewNotifySettlementRequest(pspRef string, status PaymentStatus, amount float64, settledAt time.Time) *NotifySettlementRequest {
	return &NotifySettlementRequest{PspRef: pspRef, Status: status, SettlementAmount: amount, SettlementTime: settledAt}
}

func NewNotifySettlementResponse() *NotifySettlementResponse {
	return &NotifySettlementResponse{}
}

// NotifyWebPaymentStartedRequest tells the station a web payment is in progress.
type NotifyWebPaymentStartedRequest struct {
	types.Extensions
	EvseID  int `json:"evseId" validate:"gte=0"`
	Timeout int `json:"timeout" validate:"gte=0"`
}

type NotifyWebPaymentStartedResponse struct {
	types.Extensions
}

func (r NotifyWebPaymentStartedRequest) GetFeatureName() string {
	return NotifyWebPaymentStartedFeatureName
}

func (r NotifyWebPaymentStartedResponse) GetFeatureName() string {
	return NotifyWebPaymentStartedFeatureName
}

func NewNotifyWebPaymentStartedRequest(evseID, timeout int) *NotifyWebPaymentStartedRequest {
	return &NotifyWebPaymentStartedRequest{EvseID: evseID, Timeout: timeout}
}

func NewNotifyWebPaymentStartedResponse() *NotifyWebPaymentStartedResponse {
	return &NotifyWebPaymentStartedResponse{}
}

type VatNumberValidationRequest struct {
	types.Extensions
	VatNumber string `json:"vatNumber" validate:"required,max=20"`
	EvseID    *int   `json:"evseId,omitempty" validate:"omitempty,gte=0"`
}

type VatNumberValidationResponse struct {
	types.Extensions
	Company    *Address            `json:"company,omitempty" validate:"omitempty"`
	StatusInfo *types.StatusInfo   `json:"statusInfo,omitempty" validate:"omitempty"`
	VatNumber  string              `json:"vatNumber" validate:"required,max=20"`
	EvseID     *int                `json:"evseId,omitempty" validate:"omitempty,gte=0"`
	Status     types.GenericStatus `json:"status" validate:"required,genericStatus"`
}

func (r VatNumberValidationRequest) GetFeatureName() string  { return VatNumberValidationFeatureName }
func (r VatNumberValidationResponse) GetFeatureName() string { return VatNumberValidationFeatureName }

func NewVatNumberValidationRequest(vatNumber string) *VatNumberValidationRequest {
	return &VatNumberValidationRequest{VatNumber: vatNumber}
}

func NewVatNumberValidationResponse(vatNumber string, status types.GenericStatus) *VatNumberValidationResponse {
	return &VatNumberValidationResponse{VatNumber: vatNumber, Status: status}
}

// NotifyQRCodeScannedRequest reports that a payment QR code was scanned.
type NotifyQRCodeScannedRequest struct {
	types.Extensions
	EvseID  int `json:"evseId" validate:"gte=0"`
	Timeout int `json:"timeout" validate:"gte=0"`
}

type NotifyQRCodeScannedResponse struct {
	types.Extensions
}

func (r NotifyQRCodeScannedRequest) GetFeatureName() string  { return NotifyQRCodeScannedFeatureName }
func (r NotifyQRCodeScannedResponse) GetFeatureName() string { return NotifyQRCodeScannedFeatureName }

func NewNotifyQRCodeScannedRequest(evseID, timeout int) *NotifyQRCodeScannedRequest {
	return &NotifyQRCodeScannedRequest{EvseID: evseID, Timeout: timeout}
}

func NewNotifyQRCodeScannedResponse() *NotifyQRCodeScannedResponse {
	return &NotifyQRCodeScannedResponse{}
}

func init() {
	ocpp.RegisterEnum("paymentStatus",
		PaymentStatusSettled,
		PaymentStatusCanceled,
		PaymentStatusRejected,
		PaymentStatusFailed,
	)
}
