// Package smartcharging contains the OCPP 2.1 smart charging functional block:
// charging profiles, composite schedules, external limits, EV charging needs,
// dynamic schedules and priority charging.
package smartcharging

import "ocppnode/backend/libs/ocpp"

const ProfileName = "smartcharging"

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[SetChargingProfileRequest, SetChargingProfileResponse](SetChargingProfileFeatureName),
	ocpp.NewFeature[GetChargingProfilesRequest, GetChargingProfilesResponse](GetChargingProfilesFeatureName),
	ocpp.NewFeature[ReportChargingProfilesRequest, ReportChargingProfilesResponse](ReportChargingProfilesFeatureName),
	ocpp.NewFeature[ClearChargingProfileRequest, ClearChargingProfileResponse](ClearChargingProfileFeatureName),
	ocpp.NewFeature[GetCompositeScheduleRequest, GetCompositeScheduleResponse](GetCompositeScheduleFeatureName),
	ocpp.NewFeature[NotifyChargingLimitRequest, NotifyChargingLimitResponse](NotifyChargingLimitFeatureName),
	ocpp.NewFeature[ClearedChargingLimitRequest, ClearedChargingLimitResponse](ClearedChargingLimitFeatureName),
	ocpp.NewFeature[NotifyEVChargingNeedsRequest, NotifyEVChargingNeedsResponse](NotifyEVChargingNeedsFeatureName),
	ocpp.NewFeature[NotifyEVChargingScheduleRequest, NotifyEVChargingScheduleResponse](NotifyEVChargingScheduleFeatureName),
	ocpp.NewFeature[UpdateDynamicScheduleRequest, UpdateDynamicScheduleResponse](UpdateDynamicScheduleFeatureName),
	ocpp.NewFeature[PullDynamicScheduleUpdateRequest, PullDynamicScheduleUpdateResponse](PullDynamicScheduleUpdateFeatureName),
	ocpp.NewFeature[UsePriorityChargingRequest, UsePriorityChargingResponse](UsePriorityChargingFeatureName),
	ocpp.NewFeature[NotifyPriorityChargingRequest, NotifyPriorityChargingResponse](NotifyPriorityChargingFeatureName),
)

// ChargingProfileStatus answers SetChargingProfile.
type ChargingProfileStatus string

const (
	ChargingProfileStatusAccepted ChargingProfileStatus = "Accepted"
	ChargingProfileStatusRejected ChargingProfileStatus = "Rejected"
)

// GetChargingProfileStatus answers GetChargingProfiles.
type GetChargingProfileStatus string

const (
	GetChargingProfileStatusAccepted   GetChargingProfileStatus = "Accepted"
	GetChargingProfileStatusNoProfiles GetChargingProfileStatus = "NoProfiles"
)

// ClearChargingProfileStatus answers ClearChargingProfile.
type ClearChargingProfileStatus string

const (
	ClearChargingProfileStatusAccepted ClearChargingProfileStatus = "Accepted"
	ClearChargingProfileStatusUnknown  ClearChargingProfileStatus = "Unknown"
)

// NotifyEVChargingNeedsStatus answers NotifyEVChargingNeeds.
type NotifyEVChargingNeedsStatus string

const (
	NotifyEVChargingNeedsStatusAccepted          NotifyEVChargingNeedsStatus = "Accepted"
	NotifyEVChargingNeedsStatusRejected          NotifyEVChargingNeedsStatus = "Rejected"
	NotifyEVChargingNeedsStatusProcessing        NotifyEVChargingNeedsStatus = "Processing"
	NotifyEVChargingNeedsStatusNoChargingProfile NotifyEVChargingNeedsStatus = "NoChargingProfile"
)

// PriorityChargingStatus answers UsePriorityCharging.
type PriorityChargingStatus string

const (
	PriorityChargingStatusAccepted  PriorityChargingStatus = "Accepted"
	PriorityChargingStatusRejected  PriorityChargingStatus = "Rejected"
	PriorityChargingStatusNoProfile PriorityChargingStatus = "NoProfile"
)

func init() {
	ocpp.RegisterEnum("chargingProfileStatus", ChargingProfileStatusAccepted, ChargingProfileStatusRejected)
	ocpp.RegisterEnum("getChargingProfileStatus", GetChargingProfileStatusAccepted, GetChargingProfileStatusNoProfiles)
	ocpp.RegisterEnum("clearChargingProfileStatus", ClearChargingProfileStatusAccepted, ClearChargingProfileStatusUnknown)
	ocpp.RegisterEnum("notifyEVChargingNeedsStatus",
		NotifyEVChargingNeedsStatusAccepted,
		NotifyEVChargingNeedsStatusRejected,
		NotifyEVChargingNeedsStatusProcessing,
		NotifyEVChargingNeedsStatusNoChargingProfile,
	)
	ocpp.RegisterEnum("priorityChargingStatus",
		PriorityChargingStatusAccepted,
		PriorityChargingStatusRejected,
		PriorityChargingStatusNoProfile,
	)
}
