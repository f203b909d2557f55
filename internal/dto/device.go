package dto

import "time"

// DeviceView is the read model of one active session, shaped for the
// security/devices endpoint.
type DeviceView struct {
	DeviceID       string    `json:"deviceId"`
	Title          string    `json:"title"`
	IP             string    `json:"ip"`
	LastActiveDate time.Time `json:"lastActiveDate"`
}
