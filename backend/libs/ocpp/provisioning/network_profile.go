package provisioning

import (
	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const SetNetworkProfileFeatureName = "SetNetworkProfile"

// OCPPVersion of a connection profile.
type OCPPVersion string

const (
	OCPPVersion12  OCPPVersion = "OCPP12"
	OCPPVersion15  OCPPVersion = "OCPP15"
	OCPPVersion16  OCPPVersion = "OCPP16"
	OCPPVersion20  OCPPVersion = "OCPP20"
	OCPPVersion201 OCPPVersion = "OCPP201"
	OCPPVersion21  OCPPVersion = "OCPP21"
)

// OCPPTransport of a connection profile.
type OCPPTransport string

const (
	OCPPTransportJSON OCPPTransport = "JSON"
	OCPPTransportSOAP OCPPTransport = "SOAP"
)

// OCPPInterface is the physical interface used for the connection.
type OCPPInterface string

const (
	OCPPInterfaceWired0    OCPPInterface = "Wired0"
	OCPPInterfaceWired1    OCPPInterface = "Wired1"
	OCPPInterfaceWired2    OCPPInterface = "Wired2"
	OCPPInterfaceWired3    OCPPInterface = "Wired3"
	OCPPInterfaceWireless0 OCPPInterface = "Wireless0"
	OCPPInterfaceWireless1 OCPPInterface = "Wireless1"
	OCPPInterfaceWireless2 OCPPInterface = "Wireless2"
	OCPPInterfaceWireless3 OCPPInterface = "Wireless3"
	OCPPInterfaceAny       OCPPInterface = "Any"
)

// SetNetworkProfileStatus answers SetNetworkProfile.
type SetNetworkProfileStatus string

const (
	SetNetworkProfileStatusAccepted SetNetworkProfileStatus = "Accepted"
	SetNetworkProfileStatusRejected SetNetworkProfileStatus = "Rejected"
	SetNetworkProfileStatusFailed   SetNetworkProfileStatus = "Failed"
)

// APN settings of a cellular connection.
type APN struct {
	CustomData     *types.CustomData `json:"customData,omitempty"`
	APN            string            `json:"apn" validate:"required,max=2000"`
	APNUserName    string            `json:"apnUserName,omitempty" validate:"max=50"`
	APNPassword    string            `json:"apnPassword,omitempty" validate:"max=64"`
	SimPin         *int              `json:"simPin,omitempty"`
	PreferredNet   string            `json:"preferredNetwork,omitempty" validate:"max=6"`
	UseOnlyPrefNet bool              `json:"useOnlyPreferredNetwork,omitempty"`
	Authentication string            `json:"apnAuthentication" validate:"required,oneof=PAP CHAP NONE AUTO"`
}

// VPN settings of a connection.
type VPN struct {
	CustomData *types.CustomData `json:"customData,omitempty"`
	Server     string            `json:"server" validate:"required,max=2000"`
	User       string            `json:"user" validate:"required,max=50"`
	Group      string            `json:"group,omitempty" validate:"max=50"`
	Password   string            `json:"password" validate:"required,max=64"`
	Key        string            `json:"key" validate:"required,max=255"`
	Type       string            `json:"type" validate:"required,oneof=IKEv2 IPSec L2TP PPTP"`
}

// NetworkConnectionProfile describes how to reach a CSMS.
type NetworkConnectionProfile struct {
	CustomData      *types.CustomData `json:"customData,omitempty"`
	OCPPVersion     OCPPVersion       `json:"ocppVersion,omitempty" validate:"omitempty,ocppVersion"`
	OCPPTransport   OCPPTransport     `json:"ocppTransport" validate:"required,ocppTransport"`
	OCPPCsmsURL     string            `json:"ocppCsmsUrl" validate:"required,max=2000"`
	MessageTimeout  int               `json:"messageTimeout" validate:"gte=0"`
	SecurityProfile int               `json:"securityProfile" validate:"gte=0,lte=3"`
	OCPPInterface   OCPPInterface     `json:"ocppInterface" validate:"required,ocppInterface"`
	Identity        string            `json:"identity,omitempty" validate:"max=48"`
	BasicAuthPasswd string            `json:"basicAuthPassword,omitempty" validate:"max=64"`
	APN             *APN              `json:"apn,omitempty" validate:"omitempty"`
	VPN             *VPN              `json:"vpn,omitempty" validate:"omitempty"`
}

// SetNetworkProfileRequest installs a connection profile in a configuration slot.
type SetNetworkProfileRequest struct {
	types.Extensions
	ConfigurationSlot int                      `json:"configurationSlot" validate:"gte=0"`
	ConnectionData    NetworkConnectionProfile `json:"connectionData" validate:"required"`
}

type SetNetworkProfileResponse struct {
	types.Extensions
	Status     SetNetworkProfileStatus `json:"status" validate:"required,setNetworkProfileStatus"`
	StatusInfo *types.StatusInfo       `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r SetNetworkProfileRequest) GetFeatureName() string  { return SetNetworkProfileFeatureName }
func (r SetNetworkProfileResponse) GetFeatureName() string { return SetNetworkProfileFeatureName }

func NewSetNetworkProfileRequest(slot int, data NetworkConnectionProfile) *SetNetworkProfileRequest {
	return &SetNetworkProfileRequest{ConfigurationSlot: slot, ConnectionData: data}
}

func NewSetNetworkProfileResponse(status SetNetworkProfileStatus) *SetNetworkProfileResponse {
	return &SetNetworkProfileResponse{Status: status}
}

func init() {
	ocpp.RegisterEnum("ocppVersion", OCPPVersion12, OCPPVersion15, OCPPVersion16, OCPPVersion20, OCPPVersion201, OCPPVersion21)
	ocpp.RegisterEnum("ocppTransport", OCPPTransportJSON, OCPPTransportSOAP)
	ocpp.RegisterEnum("ocppInterface",
		OCPPInterfaceWired0,
		OCPPInterfaceWired1,
		OCPPInterfaceWired2,
		OCPPInterfaceWired3,
		OCPPInterfaceWireless0,
		OCPPInterfaceWireless1,
		OCPPInterfaceWireless2,
		OCPPInterfaceWireless3,
		OCPPInterfaceAny,
	)
	ocpp.RegisterEnum("setNetworkProfileStatus",
		SetNetworkProfileStatusAccepted,
		SetNetworkProfileStatusRejected,
		SetNetworkProfileStatusFailed,
	)
}
