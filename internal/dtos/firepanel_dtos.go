package dtos

import "time"

type PanelDeviceDTO struct {
	DeviceID    string `json:"device_id"`
	Kind        string `json:"kind"`
	Zone        string `json:"zone,omitempty"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`

	// Set when an admin pinned the status, shadowing the panel's value.
	Overridden   bool   `json:"overridden,omitempty"`
	OverrideNote string `json:"override_note,omitempty"`
	OverriddenBy string `json:"overridden_by,omitempty"`
}

type BuildingDevicesResponse struct {
	BuildingID string           `json:"building_id"`
	FetchedAt  time.Time        `json:"fetched_at"`
	Stale      bool             `json:"stale,omitempty"`
	Devices    []PanelDeviceDTO `json:"devices"`
}

type SetDeviceOverrideRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}
