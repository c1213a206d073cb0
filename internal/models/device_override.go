package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DeviceStatus is the status shown for a fire-panel device. The panel
// reports one of these per device; admins may pin a different value.
type DeviceStatus string

const (
	DeviceStatusNormal   DeviceStatus = "NORMAL"
	DeviceStatusFire     DeviceStatus = "FIRE"
	DeviceStatusFault    DeviceStatus = "FAULT"
	DeviceStatusDisabled DeviceStatus = "DISABLED"
	DeviceStatusUnknown  DeviceStatus = "UNKNOWN"
)

var deviceStatusLabels = map[DeviceStatus]string{
	DeviceStatusNormal:   "Normal",
	DeviceStatusFire:     "Fire",
	DeviceStatusFault:    "Fault",
	DeviceStatusDisabled: "Disabled",
	DeviceStatusUnknown:  "Unknown",
}

func (s DeviceStatus) Label() string {
	return deviceStatusLabels[s]
}

func ParseDeviceStatus(s string) (DeviceStatus, error) {
	switch DeviceStatus(s) {
	case DeviceStatusNormal, DeviceStatusFire, DeviceStatusFault, DeviceStatusDisabled, DeviceStatusUnknown:
		return DeviceStatus(s), nil
	default:
		return "", fmt.Errorf("invalid device status: %q", s)
	}
}

// DeviceOverride pins an admin-chosen status for one panel device in one
// building, shadowing whatever the panel reports until removed.
// (building_id, device_id) is unique.
type DeviceOverride struct {
	ID         uuid.UUID    `json:"id"`
	BuildingID uuid.UUID    `json:"building_id"`
	DeviceID   string       `json:"device_id"`
	Status     DeviceStatus `json:"status"`
	Note       string       `json:"note,omitempty"`
	UpdatedBy  string       `json:"updated_by"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
