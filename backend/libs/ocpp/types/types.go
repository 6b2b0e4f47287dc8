// Package types contains the OCPP 2.1 datatypes shared between functional blocks.
package types

import (
	"encoding/json"
	"fmt"
	"time"

	"ocppnode/backend/libs/ocpp"
)

// CustomData carries vendor specific members. Members other than vendorId are
// kept verbatim in Extra.
type CustomData struct {
	VendorID string                     `json:"vendorId" validate:"required,max=255"`
	Extra    map[string]json.RawMessage `json:"-"`
}

// NewCustomData returns custom data for a vendor.
func NewCustomData(vendorID string) *CustomData {
	return &CustomData{VendorID: vendorID}
}

// Set stores a vendor member.
func (c *CustomData) Set(key string, value any) error {
	if key == "vendorId" {
		return fmt.Errorf("types: vendorId is reserved")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.Extra == nil {
		c.Extra = make(map[string]json.RawMessage)
	}
	c.Extra[key] = raw
	return nil
}

// MarshalJSON flattens Extra next to vendorId.
func (c CustomData) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(c.Extra)+1)
	for k, v := range c.Extra {
		out[k] = v
	}
	vendor, err := json.Marshal(c.VendorID)
	if err != nil {
		return nil, err
	}
	out["vendorId"] = vendor
	return json.Marshal(out)
}

// UnmarshalJSON collects unknown members into Extra.
func (c *CustomData) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	c.VendorID = ""
	c.Extra = nil
	if raw, ok := members["vendorId"]; ok {
		if err := json.Unmarshal(raw, &c.VendorID); err != nil {
			return err
		}
		delete(members, "vendorId")
	}
	if len(members) > 0 {
		c.Extra = members
	}
	return nil
}

// Signature is a cryptographic signature attached to a payload.
type Signature struct {
	KeyID          string     `json:"keyId" validate:"required"`
	Value          string     `json:"value" validate:"required"`
	SigningMethod  string     `json:"signingMethod,omitempty"`
	EncodingMethod string     `json:"encodingMethod,omitempty"`
	Name           string     `json:"name,omitempty"`
	Description    string     `json:"description,omitempty"`
	Timestamp      *time.Time `json:"timestamp,omitempty"`
}

// Extensions are the optional members every payload may carry.
type Extensions struct {
	CustomData *CustomData `json:"customData,omitempty" validate:"omitempty"`
	Signatures []Signature `json:"signatures,omitempty" validate:"omitempty,dive"`
}

// StatusInfo gives more detail on a status.
type StatusInfo struct {
	CustomData     *CustomData `json:"customData,omitempty"`
	ReasonCode     string      `json:"reasonCode" validate:"required,max=20"`
	AdditionalInfo string      `json:"additionalInfo,omitempty" validate:"max=1024"`
}

// NewStatusInfo returns status info with a reason code.
func NewStatusInfo(reasonCode, additionalInfo string) *StatusInfo {
	return &StatusInfo{ReasonCode: reasonCode, AdditionalInfo: additionalInfo}
}

// GenericStatus is the plain Accepted/Rejected answer.
type GenericStatus string

const (
	GenericStatusAccepted GenericStatus = "Accepted"
	GenericStatusRejected GenericStatus = "Rejected"
)

// GenericDeviceModelStatus answers device model requests.
type GenericDeviceModelStatus string

const (
	GenericDeviceModelStatusAccepted       GenericDeviceModelStatus = "Accepted"
	GenericDeviceModelStatusRejected       GenericDeviceModelStatus = "Rejected"
	GenericDeviceModelStatusNotSupported   GenericDeviceModelStatus = "NotSupported"
	GenericDeviceModelStatusEmptyResultSet GenericDeviceModelStatus = "EmptyResultSet"
)

// Now returns the current time truncated to milliseconds in UTC, the resolution
// used on the wire.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func init() {
	ocpp.RegisterEnum("genericStatus", GenericStatusAccepted, GenericStatusRejected)
	ocpp.RegisterEnum("genericDeviceModelStatus",
		GenericDeviceModelStatusAccepted,
		GenericDeviceModelStatusRejected,
		GenericDeviceModelStatusNotSupported,
		GenericDeviceModelStatusEmptyResultSet,
	)
}
