// Package batteryswap contains the OCPP 2.1 battery swap station messages.
package batteryswap

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const ProfileName = "batteryswap"

const (
	BatterySwapFeatureName        = "BatterySwap"
	RequestBatterySwapFeatureName = "RequestBatterySwap"
)

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[BatterySwapRequest, BatterySwapResponse](BatterySwapFeatureName),
	ocpp.NewFeature[RequestBatterySwapRequest, RequestBatterySwapResponse](RequestBatterySwapFeatureName),
)

// BatterySwapEventType tells whether batteries went in or out.
type BatterySwapEventType string

const (
	BatterySwapEventBatteryIn         BatterySwapEventType = "BatteryIn"
	BatterySwapEventBatteryOut        BatterySwapEventType = "BatteryOut"
	BatterySwapEventBatteryOutTimeout BatterySwapEventType = "BatteryOutTimeout"
)

// BatteryData describes one swapped battery.
type BatteryData struct {
	CustomData     *types.CustomData `json:"customData,omitempty"`
	EvseID         int               `json:"evseId" validate:"gte=0"`
	SerialNumber   string            `json:"serialNumber" validate:"required,max=50"`
	SoC            float64           `json:"soC" validate:"gte=0,lte=100"`
	SoH            float64           `json:"soH" validate:"gte=0,lte=100"`
	ProductionDate *time.Time        `json:"productionDate,omitempty"`
	VendorInfo     string            `json:"vendorInfo,omitempty" validate:"max=500"`
}

type BatterySwapRequest struct {
	types.Extensions
	BatteryData []BatteryData        `json:"batteryData" validate:"required,min=1,dive"`
	EventType   BatterySwapEventType `json:"eventType" validate:"required,batterySwapEvent"`
	IdToken     types.IdToken        `json:"idToken" validate:"required"`
	RequestID   int                  `json:"requestId"`
}

type BatterySwapResponse struct {
	types.Extensions
}

func (r BatterySwapRequest) GetFeatureName() string  { return BatterySwapFeatureName }
func (r BatterySwapResponse) GetFeatureName() string { return BatterySwapFeatureName }

func NewBatterySwapRequest(eventType BatterySwapEventType, idToken types.IdToken, requestID int, batteries ...BatteryData) *BatterySwapRequest {
	return &BatterySwapRequest{EventType: eventType, IdToken: idToken, RequestID: requestID, BatteryData: batteries}
}

func NewBatterySwapResponse() *BatterySwapResponse {
	return &BatterySwapResponse{}
}

type RequestBatterySwapRequest struct {
	types.Extensions
	IdToken   types.IdToken `json:"idToken" validate:"required"`
	RequestID int           `json:"requestId"`
}

type RequestBatterySwapResponse struct {
	types.Extensions
	Status     types.GenericStatus `json:"status" validate:"required,genericStatus"`
	StatusInfo *types.StatusInfo   `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r RequestBatterySwapRequest) GetFeatureName() string  { return RequestBatterySwapFeatureName }
func (r RequestBatterySwapResponse) GetFeatureName() string { return RequestBatterySwapFeatureName }

func NewRequestBatterySwapRequest(idToken types.IdToken, requestID int) *RequestBatterySwapRequest {
	return &RequestBatterySwapRequest{IdToken: idToken, RequestID: requestID}
}

func NewRequestBatterySwapResponse(status types.GenericStatus) *RequestBatterySwapResponse {
	return &RequestBatterySwapResponse{Status: status}
}

func init() {
	ocpp.RegisterEnum("batterySwapEvent",
		BatterySwapEventBatteryIn,
		BatterySwapEventBatteryOut,
		BatterySwapEventBatteryOutTimeout,
	)
}
