package types

import (
	"time"

	"ocppnode/backend/libs/ocpp"
)

// AuthorizationStatus of an identifier.
type AuthorizationStatus string

const (
	AuthorizationStatusAccepted           AuthorizationStatus = "Accepted"
	AuthorizationStatusBlocked            AuthorizationStatus = "Blocked"
	AuthorizationStatusConcurrentTx       AuthorizationStatus = "ConcurrentTx"
	AuthorizationStatusExpired            AuthorizationStatus = "Expired"
	AuthorizationStatusInvalid            AuthorizationStatus = "Invalid"
	AuthorizationStatusNoCredit           AuthorizationStatus = "NoCredit"
	AuthorizationStatusNotAllowedTypeEVSE AuthorizationStatus = "NotAllowedTypeEVSE"
	AuthorizationStatusNotAtThisLocation  AuthorizationStatus = "NotAtThisLocation"
	AuthorizationStatusNotAtThisTime      AuthorizationStatus = "NotAtThisTime"
	AuthorizationStatusUnknown            AuthorizationStatus = "Unknown"
)

// Common identifier types. OCPP 2.1 allows any string up to 20 characters.
const (
	IdTokenTypeCentral         = "Central"
	IdTokenTypeDirectPayment   = "DirectPayment"
	IdTokenTypeEMAID           = "eMAID"
	IdTokenTypeEVCCID          = "EVCCID"
	IdTokenTypeISO14443        = "ISO14443"
	IdTokenTypeISO15693        = "ISO15693"
	IdTokenTypeKeyCode         = "KeyCode"
	IdTokenTypeLocal           = "Local"
	IdTokenTypeMacAddress      = "MacAddress"
	IdTokenTypeNoAuthorization = "NoAuthorization"
	IdTokenTypeVIN             = "VIN"
)

// MessageFormat of a display message.
type MessageFormat string

const (
	MessageFormatASCII  MessageFormat = "ASCII"
	MessageFormatHTML   MessageFormat = "HTML"
	MessageFormatURI    MessageFormat = "URI"
	MessageFormatUTF8   MessageFormat = "UTF8"
	MessageFormatQRCode MessageFormat = "QRCODE"
)

// AdditionalInfo extends an IdToken with an extra identifier.
type AdditionalInfo struct {
	CustomData        *CustomData `json:"customData,omitempty"`
	AdditionalIdToken string      `json:"additionalIdToken" validate:"required,max=255"`
	Type              string      `json:"type" validate:"required,max=50"`
}

// IdToken identifies a driver or payment means.
type IdToken struct {
	CustomData     *CustomData      `json:"customData,omitempty"`
	IdToken        string           `json:"idToken" validate:"max=255"`
	Type           string           `json:"type" validate:"required,max=20"`
	AdditionalInfo []AdditionalInfo `json:"additionalInfo,omitempty" validate:"omitempty,dive"`
}

// NewIdToken returns a token of the given type.
func NewIdToken(idToken, tokenType string) IdToken {
	return IdToken{IdToken: idToken, Type: tokenType}
}

// MessageContent is a localized message.
type MessageContent struct {
	CustomData *CustomData   `json:"customData,omitempty"`
	Format     MessageFormat `json:"format" validate:"required,messageFormat"`
	Language   string        `json:"language,omitempty" validate:"max=8"`
	Content    string        `json:"content" validate:"required,max=1024"`
}

// IdTokenInfo carries authorization information about an IdToken.
type IdTokenInfo struct {
	CustomData          *CustomData         `json:"customData,omitempty"`
	Status              AuthorizationStatus `json:"status" validate:"required,authorizationStatus"`
	CacheExpiryDateTime *time.Time          `json:"cacheExpiryDateTime,omitempty"`
	ChargingPriority    *int                `json:"chargingPriority,omitempty" validate:"omitempty,min=-9,max=9"`
	GroupIdToken        *IdToken            `json:"groupIdToken,omitempty" validate:"omitempty"`
	Language1           string              `json:"language1,omitempty" validate:"max=8"`
	Language2           string              `json:"language2,omitempty" validate:"max=8"`
	EvseID              []int               `json:"evseId,omitempty" validate:"omitempty,dive,gte=0"`
	PersonalMessage     *MessageContent     `json:"personalMessage,omitempty" validate:"omitempty"`
}

// NewIdTokenInfo returns info with the given status.
func NewIdTokenInfo(status AuthorizationStatus) IdTokenInfo {
	return IdTokenInfo{Status: status}
}

func init() {
	ocpp.RegisterEnum("authorizationStatus",
		AuthorizationStatusAccepted,
		AuthorizationStatusBlocked,
		AuthorizationStatusConcurrentTx,
		AuthorizationStatusExpired,
		AuthorizationStatusInvalid,
		AuthorizationStatusNoCredit,
		AuthorizationStatusNotAllowedTypeEVSE,
		AuthorizationStatusNotAtThisLocation,
		AuthorizationStatusNotAtThisTime,
		AuthorizationStatusUnknown,
	)
	ocpp.RegisterEnum("messageFormat",
		MessageFormatASCII,
		MessageFormatHTML,
		MessageFormatURI,
		MessageFormatUTF8,
		MessageFormatQRCode,
	)
}
