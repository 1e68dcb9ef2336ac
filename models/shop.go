package models

import "github.com/hakeemmukif/distraction-shop-v2/schedule"

// ShopStatusResponse is the storefront's status payload. The camelCase field
// names are a contract with existing storefront clients; timestamps are
// ISO-8601 and NextStatusChange is null when no same-day transition remains.
type ShopStatusResponse struct {
	IsOpen           bool                `json:"isOpen"`
	Message          string              `json:"message"`
	NextStatusChange *string             `json:"nextStatusChange"`
	CurrentTime      string              `json:"currentTime"`
	Schedule         schedule.WeekConfig `json:"schedule"`
}

// OverrideRequest carries the manual override toggle: true forces open,
// false forces closed, null returns control to the schedule.
type OverrideRequest struct {
	Override *bool `json:"override"`
}

type OverrideResponse struct {
	Success  bool   `json:"success"`
	Override *bool  `json:"override"`
	Message  string `json:"message"`
}

type ScheduleSettingsRequest struct {
	Schedule schedule.WeekConfig `json:"schedule" binding:"required"`
	Timezone string              `json:"timezone"`
}

type ScheduleSettingsResponse struct {
	Schedule schedule.WeekConfig `json:"schedule"`
	Timezone string              `json:"timezone"`
}
