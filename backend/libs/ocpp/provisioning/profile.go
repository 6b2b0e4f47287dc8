// Package provisioning contains the OCPP 2.1 provisioning functional block:
// boot, heartbeat, device model reports and variables, network profiles and reset.
package provisioning

import "ocppnode/backend/libs/ocpp"

// ProfileName is the name of the provisioning profile.
const ProfileName = "provisioning"

// Profile groups the provisioning features.
var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[BootNotificationRequest, BootNotificationResponse](BootNotificationFeatureName),
	ocpp.NewFeature[HeartbeatRequest, HeartbeatResponse](HeartbeatFeatureName),
	ocpp.NewFeature[GetBaseReportRequest, GetBaseReportResponse](GetBaseReportFeatureName),
	ocpp.NewFeature[GetReportRequest, GetReportResponse](GetReportFeatureName),
	ocpp.NewFeature[NotifyReportRequest, NotifyReportResponse](NotifyReportFeatureName),
	ocpp.NewFeature[GetVariablesRequest, GetVariablesResponse](GetVariablesFeatureName),
	ocpp.NewFeature[SetVariablesRequest, SetVariablesResponse](SetVariablesFeatureName),
	ocpp.NewFeature[SetNetworkProfileRequest, SetNetworkProfileResponse](SetNetworkProfileFeatureName),
	ocpp.NewFeature[ResetRequest, ResetResponse](ResetFeatureName),
)
