// Package datatransfer contains vendor specific data exchange: the JSON
// DataTransfer message and the OCPP 2.1 BinaryDataTransfer message.
package datatransfer

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const ProfileName = "datatransfer"

const (
	DataTransferFeatureName       = "DataTransfer"
	BinaryDataTransferFeatureName = "BinaryDataTransfer"
)

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[DataTransferRequest, DataTransferResponse](DataTransferFeatureName),
	ocpp.NewFeature[BinaryDataTransferRequest, BinaryDataTransferResponse](BinaryDataTransferFeatureName),
)

// DataTransferStatus answers a data transfer.
type DataTransferStatus string

const (
	DataTransferStatusAccepted         DataTransferStatus = "Accepted"
	DataTransferStatusRejected         DataTransferStatus = "Rejected"
	DataTransferStatusUnknownMessageID DataTransferStatus = "UnknownMessageId"
	DataTransferStatusUnknownVendorID  DataTransferStatus = "UnknownVendorId"
)

// DataTransferRequest carries vendor data of any JSON type.
type DataTransferRequest struct {
	types.Extensions
	MessageID string          `json:"messageId,omitempty" validate:"max=50"`
	Data      json.RawMessage `json:"data,omitempty"`
	VendorID  string          `json:"vendorId" validate:"required,max=255"`
}

type DataTransferResponse struct {
	types.Extensions
	Status     DataTransferStatus `json:"status" validate:"required,dataTransferStatus"`
	StatusInfo *types.StatusInfo  `json:"statusInfo,omitempty" validate:"omitempty"`
	Data       json.RawMessage    `json:"data,omitempty"`
}

func (r DataTransferRequest) GetFeatureName() string  { return DataTransferFeatureName }
func (r DataTransferResponse) GetFeatureName() string { return DataTransferFeatureName }

func NewDataTransferRequest(vendorID string) *DataTransferRequest {
	return &DataTransferRequest{VendorID: vendorID}
}

func NewDataTransferResponse(status DataTransferStatus) *DataTransferResponse {
	return &DataTransferResponse{Status: status}
}

// SetData marshals v into the request data.
func (r *DataTransferRequest) SetData(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("datatransfer: marshal data: %w", err)
	}
	r.Data = raw
	return nil
}

// BinaryDataTransferRequest carries opaque bytes, base64 encoded on the wire.
type BinaryDataTransferRequest struct {
	types.Extensions
	VendorID  string `json:"vendorId" validate:"required,max=255"`
	MessageID string `json:"messageId,omitempty" validate:"max=50"`
	Data      []byte `json:"data,omitempty"`
}

type BinaryDataTransferResponse struct {
	types.Extensions
	Status     DataTransferStatus `json:"status" validate:"required,dataTransferStatus"`
	StatusInfo *types.StatusInfo  `json:"statusInfo,omitempty" validate:"omitempty"`
	Data       []byte             `json:"data,omitempty"`
}

func (r BinaryDataTransferRequest) GetFeatureName() string  { return BinaryDataTransferFeatureName }
func (r BinaryDataTransferResponse) GetFeatureName() string { return BinaryDataTransferFeatureName }

func NewBinaryDataTransferRequest(vendorID string, data []byte) *BinaryDataTransferRequest {
	return &BinaryDataTransferRequest{VendorID: vendorID, Data: data}
}

func NewBinaryDataTransferResponse(status DataTransferStatus) *BinaryDataTransferResponse {
	return &BinaryDataTransferResponse{Status: status}
}

// EncodedData returns the payload as it appears on the wire.
func (r BinaryDataTransferRequest) EncodedData() string {
	return base64.StdEncoding.EncodeToString(r.Data)
}

func init() {
	ocpp.RegisterEnum("dataTransferStatus",
		DataTransferStatusAccepted,
		DataTransferStatusRejected,
		DataTransferStatusUnknownMessageID,
		DataTransferStatusUnknownVendorID,
	)
}
