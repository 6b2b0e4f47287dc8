package transactions

import "ocppnode/backend/libs/ocpp/types"

const (
	GetTransactionStatusFeatureName = "GetTransactionStatus"
	MeterValuesFeatureName          = "MeterValues"
)

// GetTransactionStatusRequest asks whether transaction messages are still queued.
type GetTransactionStatusRequest struct {
	types.Extensions
	TransactionID string `json:"transactionId,omitempty" validate:"max=36"`
}

type GetTransactionStatusResponse struct {
	types.Extensions
	OngoingIndicator *bool `json:"ongoingIndicator,omitempty"`
	MessagesInQueue  bool  `json:"messagesInQueue"`
}

func (r GetTransactionStatusRequest) GetFeatureName() string  { return GetTransactionStatusFeatureName }
func (r GetTransactionStatusResponse) GetFeatureName() string { return GetTransactionStatusFeatureName }

func NewGetTransactionStatusRequest() *GetTransactionStatusRequest {
	return &GetTransactionStatusRequest{}
}

func NewGetTransactionStatusResponse(messagesInQueue bool) *GetTransactionStatusResponse {
	return &GetTransactionStatusResponse{MessagesInQueue: messagesInQueue}
}

// MeterValuesRequest reports samples outside of a transaction.
type MeterValuesRequest struct {
	types.Extensions
	EvseID     int                `json:"evseId" validate:"gte=0"`
	MeterValue []types.MeterValue `json:"meterValue" validate:"required,min=1,dive"`
}

type MeterValuesResponse struct {
	types.Extensions
}

func (r MeterValuesRequest) GetFeatureName() string  { return MeterValuesFeatureName }
func (r MeterValuesResponse) GetFeatureName() string { return MeterValuesFeatureName }

func NewMeterValuesRequest(evseID int, values ...types.MeterValue) *MeterValuesRequest {
	return &MeterValuesRequest{EvseID: evseID, MeterValue: values}
}

func NewMeterValuesResponse() *MeterValuesResponse {
	return &MeterValuesResponse{}
}
